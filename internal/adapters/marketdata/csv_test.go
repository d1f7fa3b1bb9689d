package marketdata

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/pkg/errors"
)

func TestReadBarsCSV(t *testing.T) {
	input := `Date,Open,High,Low,Close,Volume
2026-10-13,101,103,100,102.5,1500000
2026-10-12,100,102,99,101,1200000
2026-10-13,101,104,100,103,1600000
`
	bars, err := ReadBarsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 103.0, bars[1].Close, "duplicate date keeps the last row")
	assert.Equal(t, 1600000.0, bars[1].Volume)
}

func TestReadBarsCSV_ColumnOrderAndOptionalVolume(t *testing.T) {
	input := "close,low,high,open,date\n50,48,51,49,2026-10-13T14:00:00Z\n"

	bars, err := ReadBarsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 49.0, bars[0].Open)
	assert.Equal(t, 14, bars[0].Date.Hour())
	assert.Zero(t, bars[0].Volume)
}

func TestReadBarsCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "read csv header"},
		{"missing column", "date,open,high,low\n", `missing "close"`},
		{"bad date", "date,open,high,low,close\n13/10/2026,1,2,1,2\n", "line 2"},
		{"bad number", "date,open,high,low,close\n2026-10-13,1,x,1,2\n", `high "x"`},
		{"high below low", "date,open,high,low,close\n2026-10-13,1,1,2,2\n", "inconsistent bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBarsCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
