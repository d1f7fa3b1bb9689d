package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketlens/internal/domain/regime"
)

func TestHoldingPeriod_Examples(t *testing.T) {
	tests := []struct {
		name     string
		tag      regime.Tag
		atrPct   float64
		absScore float64
		min      int
		max      int
		target   int
	}{
		{"strong trend high conviction", regime.TagStrongTrend, 2, 75, 21, 84, 42},
		{"weak trend baseline", regime.TagWeakTrend, 2, 50, 10, 40, 20},
		{"range quiet market", regime.TagRange, 0.5, 75, 5, 27, 13},
		{"chop volatile low conviction", regime.TagChop, 5, 20, 1, 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HoldingPeriod(tt.tag, tt.atrPct, tt.absScore)
			assert.Equal(t, tt.min, got.Min)
			assert.Equal(t, tt.max, got.Max)
			assert.Equal(t, tt.target, got.Target)
			assert.NotEmpty(t, got.Description)
		})
	}
}

func TestHoldingPeriod_Bounds(t *testing.T) {
	tags := []regime.Tag{regime.TagStrongTrend, regime.TagWeakTrend, regime.TagRange, regime.TagChop, regime.Tag("UNKNOWN")}

	for _, tag := range tags {
		for _, atrPct := range []float64{0.2, 1, 2.5, 3.01, 12} {
			for _, absScore := range []float64{0, 39, 40, 69, 70, 100} {
				got := HoldingPeriod(tag, atrPct, absScore)
				assert.GreaterOrEqual(t, got.Min, 1)
				assert.GreaterOrEqual(t, got.Max, 2)
				assert.LessOrEqual(t, got.Min, got.Target)
				assert.LessOrEqual(t, got.Target, got.Max)
			}
		}
	}
}

func TestVolatilityLevel(t *testing.T) {
	assert.Equal(t, regime.VolLow, VolatilityLevel(0.9))
	assert.Equal(t, regime.VolNormal, VolatilityLevel(1))
	assert.Equal(t, regime.VolNormal, VolatilityLevel(3))
	assert.Equal(t, regime.VolHigh, VolatilityLevel(3.1))
}

func TestComputeMetrics(t *testing.T) {
	low := ComputeMetrics(0)
	assert.InDelta(t, 0.45, low.WinRate, 1e-9)
	assert.InDelta(t, 0.45*1.5*0.85-0.55, low.Expectancy, 1e-9)

	mid := ComputeMetrics(-44)
	assert.InDelta(t, 0.62, mid.WinRate, 1e-9)

	high := ComputeMetrics(100)
	assert.InDelta(t, 0.68, high.WinRate, 1e-9)
}
