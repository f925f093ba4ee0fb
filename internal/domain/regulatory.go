package domain

import (
	"github.com/shopspring/decimal"
)

// RateFile is the content of a rates.yaml file: the per-year parameter
// records of every statutory scheme. Rates are decimal fractions (0.053 = 5.3%),
// ceilings and thresholds are annual amounts unless noted otherwise.
type RateFile struct {
	Metadata RateMetadata `yaml:"metadata" json:"metadata"`
	AHV      []AHVRates   `yaml:"ahv" json:"ahv"`
	ALV      []ALVRates   `yaml:"alv" json:"alv"`
	UVG      []UVGRates   `yaml:"uvg" json:"uvg"`
	KTG      *KTGRates    `yaml:"ktg,omitempty" json:"ktg,omitempty"`
	BVG      []BVGRates   `yaml:"bvg" json:"bvg"`
	QST      []QSTTariff  `yaml:"qst" json:"qst"`
	FAK      []FAKRate    `yaml:"fak" json:"fak"`
	VK       []VKRate     `yaml:"vk" json:"vk"`
}

// RateMetadata describes where the parameters come from
type RateMetadata struct {
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// AHVRates are the old-age/survivors/disability parameters of one year
type AHVRates struct {
	Year             int             `yaml:"year" json:"year"`
	Employer         decimal.Decimal `yaml:"employer" json:"employer"`
	Employee         decimal.Decimal `yaml:"employee" json:"employee"`
	RetireeAllowance decimal.Decimal `yaml:"retiree_allowance" json:"retiree_allowance"` // monthly
}

// ALVRates are the unemployment insurance parameters of one year
type ALVRates struct {
	Year     int             `yaml:"year" json:"year"`
	Employer decimal.Decimal `yaml:"employer" json:"employer"`
	Employee decimal.Decimal `yaml:"employee" json:"employee"`
	Ceiling  decimal.Decimal `yaml:"ceiling" json:"ceiling"`
}

// UVGRates are the accident insurance parameters of one year
type UVGRates struct {
	Year           int             `yaml:"year" json:"year"`
	BU             decimal.Decimal `yaml:"bu" json:"bu"`   // occupational, employer
	NBU            decimal.Decimal `yaml:"nbu" json:"nbu"` // non-occupational, employee
	Ceiling        decimal.Decimal `yaml:"ceiling" json:"ceiling"`
	NBUMinWeeklyHr decimal.Decimal `yaml:"nbu_min_weekly_hours" json:"nbu_min_weekly_hours"`
}

// KTGRates is the single, year-independent sick-pay insurance record
type KTGRates struct {
	Employer decimal.Decimal  `yaml:"employer" json:"employer"`
	Employee decimal.Decimal  `yaml:"employee" json:"employee"`
	MaxBasis *decimal.Decimal `yaml:"max_basis,omitempty" json:"max_basis,omitempty"` // monthly
}

// BVGRates are the occupational pension parameters of one year
type BVGRates struct {
	Year                  int             `yaml:"year" json:"year"`
	Employer              decimal.Decimal `yaml:"employer" json:"employer"`
	Employee              decimal.Decimal `yaml:"employee" json:"employee"`
	EntryThreshold        decimal.Decimal `yaml:"entry_threshold" json:"entry_threshold"`
	CoordinationDeduction decimal.Decimal `yaml:"coordination_deduction" json:"coordination_deduction"`
	MinInsured            decimal.Decimal `yaml:"min_insured" json:"min_insured"`
	MaxInsured            decimal.Decimal `yaml:"max_insured" json:"max_insured"`
}

// QSTTariff is the withholding-tax rate of one tariff code in one year
type QSTTariff struct {
	Year int             `yaml:"year" json:"year"`
	Code string          `yaml:"code" json:"code"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// FAKRate is the family-allowance-fund levy of one canton in one year
type FAKRate struct {
	Year   int             `yaml:"year" json:"year"`
	Canton string          `yaml:"canton" json:"canton"` // "DEFAULT" applies to cantons without own record
	Rate   decimal.Decimal `yaml:"rate" json:"rate"`
}

// VKRate is the administration-cost levy, applied to the AHV total
type VKRate struct {
	Year int             `yaml:"year" json:"year"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}
