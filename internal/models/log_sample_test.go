package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogSeries_Null(t *testing.T) {
	assert.Equal(t, DefaultNullValue, NullOrDefault(0))
	assert.Equal(t, -9999.0, NullOrDefault(-9999))

	unset := LogSeries{}
	assert.Equal(t, DefaultNullValue, unset.Null())
	assert.False(t, unset.IsNull(0))
	assert.True(t, unset.IsNull(DefaultNullValue))
	assert.True(t, unset.IsNull(math.NaN()))

	custom := LogSeries{NullValue: -1}
	assert.True(t, custom.IsNull(-1))
	assert.False(t, custom.IsNull(DefaultNullValue))
}
