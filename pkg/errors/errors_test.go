package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientData("AAPL", "daily", 120, 250)

	assert.True(t, Is(err, ErrInsufficientData))
	assert.Contains(t, err.Error(), "AAPL daily has 120 bars, need 250")

	wrapped := Wrap(err, "analyze AAPL")
	assert.True(t, Is(wrapped, ErrInsufficientData))

	var target *InsufficientDataError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, 250, target.Required)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
}

func TestMultiError(t *testing.T) {
	var m MultiError
	assert.Nil(t, m.ToError())

	m.Add(nil)
	m.Add(fmt.Errorf("first"))
	m.Add(fmt.Errorf("second"))

	require.Error(t, m.ToError())
	assert.Equal(t, "multiple errors (2): first", m.Error())
}
