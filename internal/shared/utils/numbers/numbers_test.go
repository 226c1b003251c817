package numbers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 4.0, Round(4.0, 1))
	assert.Equal(t, 3.7, Round(3.666666, 1))
	assert.Equal(t, 2.5, Round(2.45, 1))
	assert.Equal(t, 0.0, Round(0, 1))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 33.33, Percent(1, 3))
	assert.Equal(t, 100.0, Percent(250, 250))
}
