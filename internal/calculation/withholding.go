package calculation

import (
	"errors"

	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/shopspring/decimal"
)

// ErrNoTariffCode is wrapped into a QST configuration error when a liable
// employee has neither a fixed amount, a percent nor a tariff letter.
var ErrNoTariffCode = errors.New("no tariff code")

// CalculateQST returns the withholding tax (employee share only). A fixed
// amount wins over a percent, which wins over the tariff lookup.
func CalculateQST(basis decimal.Decimal, year int, emp *domain.EmployeeProfile, src rates.Source) (domain.Contribution, error) {
	c := zeroContribution()
	q := emp.QST
	if !q.Liable {
		return c, nil
	}
	switch {
	case q.FixedAmount != nil:
		c.Employee = money.RoundToFive(*q.FixedAmount)
	case q.Percent != nil:
		c.Employee = money.PercentRounded(money.NonNegative(basis), *q.Percent)
	default:
		code := q.EffectiveTariffCode()
		if code == "" {
			return c, &rates.ConfigurationError{Scheme: rates.SchemeQST, Year: year, Err: ErrNoTariffCode}
		}
		tariff, err := src.QST(year, code)
		if err != nil {
			return c, err
		}
		c.Employee = money.ApplyRate(money.NonNegative(basis), tariff.Rate)
	}
	return c, nil
}
