// Package rates stores the per-year parameter records of the statutory
// schemes and resolves them through an ordered list of lookup strategies.
package rates

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/lohn/internal/domain"
)

// Scheme names a statutory contribution scheme
type Scheme string

const (
	SchemeAHV Scheme = "AHV"
	SchemeALV Scheme = "ALV"
	SchemeUVG Scheme = "UVG"
	SchemeKTG Scheme = "KTG"
	SchemeBVG Scheme = "BVG"
	SchemeQST Scheme = "QST"
	SchemeFAK Scheme = "FAK"
	SchemeVK  Scheme = "VK"
)

// DefaultCanton is the canton key of records that apply to every canton
// without its own record.
const DefaultCanton = "DEFAULT"

// Key addresses one record. Canton is only set for FAK, Code only for QST.
// KTG is not year scoped and always uses Year 0.
type Key struct {
	Scheme Scheme
	Year   int
	Canton string
	Code   string
}

func (k Key) String() string {
	s := fmt.Sprintf("%s/%d", k.Scheme, k.Year)
	if k.Canton != "" {
		s += "/" + k.Canton
	}
	if k.Code != "" {
		s += "/" + k.Code
	}
	return s
}

// Table holds explicitly configured records, at most one per key
type Table struct {
	records map[Key]any
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{records: make(map[Key]any)}
}

// NewTableFromFile indexes a rate file. Two records for the same key are an error.
func NewTableFromFile(f *domain.RateFile) (*Table, error) {
	t := NewTable()
	if f == nil {
		return t, nil
	}
	for _, r := range f.AHV {
		if err := t.add(Key{Scheme: SchemeAHV, Year: r.Year}, r); err != nil {
			return nil, err
		}
	}
	for _, r := range f.ALV {
		if err := t.add(Key{Scheme: SchemeALV, Year: r.Year}, r); err != nil {
			return nil, err
		}
	}
	for _, r := range f.UVG {
		if err := t.add(Key{Scheme: SchemeUVG, Year: r.Year}, r); err != nil {
			return nil, err
		}
	}
	if f.KTG != nil {
		if err := t.add(Key{Scheme: SchemeKTG}, *f.KTG); err != nil {
			return nil, err
		}
	}
	for _, r := range f.BVG {
		if err := t.add(Key{Scheme: SchemeBVG, Year: r.Year}, r); err != nil {
			return nil, err
		}
	}
	for _, r := range f.QST {
		if err := t.add(Key{Scheme: SchemeQST, Year: r.Year, Code: normalize(r.Code)}, r); err != nil {
			return nil, err
		}
	}
	for _, r := range f.FAK {
		if err := t.add(Key{Scheme: SchemeFAK, Year: r.Year, Canton: normalize(r.Canton)}, r); err != nil {
			return nil, err
		}
	}
	for _, r := range f.VK {
		if err := t.add(Key{Scheme: SchemeVK, Year: r.Year}, r); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(k Key, record any) error {
	if _, dup := t.records[k]; dup {
		return fmt.Errorf("duplicate rate record %s", k)
	}
	t.records[k] = record
	return nil
}

// Put stores or replaces a record
func (t *Table) Put(k Key, record any) {
	k.Canton = normalize(k.Canton)
	k.Code = normalize(k.Code)
	t.records[k] = record
}

// Get returns the record stored under exactly k
func (t *Table) Get(k Key) (any, bool) {
	r, ok := t.records[k]
	return r, ok
}

// Len returns the number of stored records
func (t *Table) Len() int {
	return len(t.records)
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
