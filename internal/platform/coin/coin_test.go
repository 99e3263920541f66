package coin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_MergesAndDropsZero(t *testing.T) {
	t.Parallel()

	got := Normalize([]Coin{New(5, "ujuno"), New(0, "uatom"), New(7, "ujuno"), New(1, "uosmo")})
	assert.Equal(t, []Coin{New(12, "ujuno"), New(1, "uosmo")}, got)
	assert.Nil(t, Normalize(nil))
}

func TestAmountOfAndFormat(t *testing.T) {
	t.Parallel()

	coins := []Coin{New(3, "ujuno"), New(4, "uosmo"), New(2, "ujuno")}
	assert.Equal(t, uint64(5), AmountOf(coins, "ujuno"))
	assert.Zero(t, AmountOf(coins, "uatom"))
	assert.Equal(t, "3ujuno,4uosmo,2ujuno", Format(coins))
	assert.True(t, New(0, "ujuno").IsZero())
}

func TestAddAmount_ReportsOverflow(t *testing.T) {
	t.Parallel()

	sum, ok := AddAmount(40, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), sum)

	_, ok = AddAmount(math.MaxUint64, 1)
	assert.False(t, ok)

	sum, ok = AddAmount(math.MaxUint64, 0)
	assert.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), sum)
}
