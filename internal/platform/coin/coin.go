package coin

import (
	"fmt"
	"math/bits"
	"strings"
)

// Coin is an amount of a single denomination in its smallest unit.
type Coin struct {
	Denom  string `json:"denom" validate:"required"`
	Amount uint64 `json:"amount"`
}

func New(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: amount}
}

func (c Coin) String() string {
	return fmt.Sprintf("%d%s", c.Amount, c.Denom)
}

func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// AddAmount returns a+b, reporting false when the sum overflows a uint64.
func AddAmount(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// AmountOf sums every coin of denom in coins.
func AmountOf(coins []Coin, denom string) uint64 {
	var total uint64
	for _, c := range coins {
		if c.Denom == denom {
			total += c.Amount
		}
	}
	return total
}

// Normalize merges duplicate denominations and drops zero amounts.
func Normalize(coins []Coin) []Coin {
	if len(coins) == 0 {
		return nil
	}
	out := make([]Coin, 0, len(coins))
	index := make(map[string]int, len(coins))
	for _, c := range coins {
		if c.Amount == 0 {
			continue
		}
		if i, ok := index[c.Denom]; ok {
			out[i].Amount += c.Amount
			continue
		}
		index[c.Denom] = len(out)
		out = append(out, c)
	}
	return out
}

func Format(coins []Coin) string {
	parts := make([]string, 0, len(coins))
	for _, c := range coins {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}
