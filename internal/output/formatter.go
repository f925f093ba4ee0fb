// Package output renders payroll results for people and machines.
package output

import (
	"strings"

	"github.com/rgehrsitz/lohn/internal/domain"
)

// Entry is one computed month with its findings
type Entry struct {
	Result   *domain.PayrollResult `json:"result,omitempty"`
	Findings []domain.Finding      `json:"findings"`
	Error    string                `json:"error,omitempty"`
}

// Report is what a formatter renders
type Report struct {
	Employer domain.Employer        `json:"employer"`
	Employee domain.EmployeeProfile `json:"employee"`
	Entries  []Entry                `json:"entries"`
}

// Formatter is a pluggable output format
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	JSONFormatter{Pretty: true},
	CSVFormatter{},
}

// GetFormatterByName returns the formatter registered under name, or nil
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// FormatterNames lists the registered formatter names
func FormatterNames() []string {
	names := make([]string, len(formatters))
	for i, f := range formatters {
		names[i] = f.Name()
	}
	return names
}
