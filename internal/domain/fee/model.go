package fee

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDev      Type = "dev"
	TypeServices Type = "services"
)

// DevFeePercent is the protocol development fee seeded at manager instantiation.
var DevFeePercent = decimal.RequireFromString("0.0035")

// Fee is a percentage of a sale price routed to ToAddress.
type Fee struct {
	Type        Type            `json:"type" validate:"required,oneof=dev services"`
	Description string          `json:"description"`
	ToAddress   string          `json:"to_address" validate:"required"`
	Percent     decimal.Decimal `json:"percent"`
}

func (f Fee) Validate() error {
	if f.ToAddress == "" {
		return fmt.Errorf("fee recipient is required")
	}
	if f.Percent.IsNegative() || f.Percent.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("fee percent must be between 0 and 1, got %s", f.Percent)
	}
	return nil
}

type ManagementFee struct {
	ID              uint64 `json:"id"`
	CreatedAtHeight uint64 `json:"created_at_height"`
	Active          bool   `json:"active"`
	Fee             Fee    `json:"fee"`
}

// Management is the fee schedule the manager applies to asset sales.
type Management struct {
	Fees        []ManagementFee `json:"fees"`
	Description string          `json:"description"`
}

// ActiveFees returns the fees that apply to a sale.
func (m Management) ActiveFees() []Fee {
	out := make([]Fee, 0, len(m.Fees))
	for _, f := range m.Fees {
		if f.Active {
			out = append(out, f.Fee)
		}
	}
	return out
}
