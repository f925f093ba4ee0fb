package rates

import (
	"github.com/rgehrsitz/lohn/internal/domain"
)

// Source is what the calculators need from a rate store. *Resolver
// implements it; tests may substitute fixed records.
type Source interface {
	AHV(year int) (domain.AHVRates, error)
	ALV(year int) (domain.ALVRates, error)
	UVG(year int) (domain.UVGRates, error)
	KTG() (domain.KTGRates, error)
	BVG(year int) (domain.BVGRates, error)
	QST(year int, code string) (domain.QSTTariff, error)
	FAK(year int, canton string) (domain.FAKRate, error)
	VK(year int) (domain.VKRate, error)
}

var _ Source = (*Resolver)(nil)

func (r *Resolver) AHV(year int) (domain.AHVRates, error) {
	rec, _, err := resolveAs[domain.AHVRates](r, Key{Scheme: SchemeAHV, Year: year})
	return rec, err
}

func (r *Resolver) ALV(year int) (domain.ALVRates, error) {
	rec, _, err := resolveAs[domain.ALVRates](r, Key{Scheme: SchemeALV, Year: year})
	return rec, err
}

func (r *Resolver) UVG(year int) (domain.UVGRates, error) {
	rec, _, err := resolveAs[domain.UVGRates](r, Key{Scheme: SchemeUVG, Year: year})
	return rec, err
}

// KTG returns the single global sick-pay record
func (r *Resolver) KTG() (domain.KTGRates, error) {
	rec, _, err := resolveAs[domain.KTGRates](r, Key{Scheme: SchemeKTG})
	return rec, err
}

func (r *Resolver) BVG(year int) (domain.BVGRates, error) {
	rec, _, err := resolveAs[domain.BVGRates](r, Key{Scheme: SchemeBVG, Year: year})
	return rec, err
}

// QST looks up a tariff by year and effective tariff code
func (r *Resolver) QST(year int, code string) (domain.QSTTariff, error) {
	rec, _, err := resolveAs[domain.QSTTariff](r, Key{Scheme: SchemeQST, Year: year, Code: code})
	return rec, err
}

// FAK looks up the levy for the employer's canton, falling back to DEFAULT
func (r *Resolver) FAK(year int, canton string) (domain.FAKRate, error) {
	rec, _, err := resolveAs[domain.FAKRate](r, Key{Scheme: SchemeFAK, Year: year, Canton: canton})
	return rec, err
}

func (r *Resolver) VK(year int) (domain.VKRate, error) {
	rec, _, err := resolveAs[domain.VKRate](r, Key{Scheme: SchemeVK, Year: year})
	return rec, err
}

// ResolvedRecord is one line of a resolved rate set
type ResolvedRecord struct {
	Resolution
	Record any
	Err    error
}

// Explain resolves every scheme for a year and canton and reports which
// strategy produced each record. QST is resolved for the given tariff code
// when one is passed.
func (r *Resolver) Explain(year int, canton, qstCode string) []ResolvedRecord {
	keys := []Key{
		{Scheme: SchemeAHV, Year: year},
		{Scheme: SchemeALV, Year: year},
		{Scheme: SchemeUVG, Year: year},
		{Scheme: SchemeKTG},
		{Scheme: SchemeBVG, Year: year},
		{Scheme: SchemeFAK, Year: year, Canton: canton},
		{Scheme: SchemeVK, Year: year},
	}
	if qstCode != "" {
		keys = append(keys, Key{Scheme: SchemeQST, Year: year, Code: qstCode})
	}
	out := make([]ResolvedRecord, 0, len(keys))
	for _, k := range keys {
		rec, res, err := r.Resolve(k)
		out = append(out, ResolvedRecord{Resolution: res, Record: rec, Err: err})
	}
	return out
}
