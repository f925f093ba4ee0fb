package domain

import (
	"github.com/shopspring/decimal"
)

// LineItem is one (category, quantity, unit amount) entry of a payroll period
type LineItem struct {
	Category    Category        `yaml:"category" json:"category"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Quantity    decimal.Decimal `yaml:"quantity" json:"quantity"`
	UnitAmount  decimal.Decimal `yaml:"unit_amount" json:"unit_amount"`
	Amount      decimal.Decimal `yaml:"-" json:"amount"` // quantity × unit amount, rounded; filled by the engine
	Generated   bool            `yaml:"-" json:"generated,omitempty"`
}

// Relevance returns the relevance flags of the item's category
func (li LineItem) Relevance() Relevance {
	return li.Category.Relevance()
}
