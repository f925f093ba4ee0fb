package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleReport() *Report {
	res := &domain.PayrollResult{
		ID:         "r1",
		EmployeeID: "E1",
		Year:       2025,
		Month:      3,
		Status:     domain.StatusDraft,
		Items: []domain.LineItem{
			{Category: domain.CategoryMonthlySalary, Description: "Monthly salary", Quantity: dec("1"), UnitAmount: dec("6000"), Amount: dec("6000")},
			{Category: domain.CategoryExpenses, Quantity: dec("1"), UnitAmount: dec("84.6"), Amount: dec("84.60")},
		},
		Bases:          domain.Bases{Gross: dec("6000"), AHV: dec("6000")},
		AHV:            domain.Contribution{Employer: dec("318"), Employee: dec("318")},
		VK:             domain.Contribution{Employer: dec("19.1"), Employee: decimal.Zero},
		Reimbursements: dec("84.60"),
		Net:            dec("12345.6"),
	}
	return &Report{
		Employer: domain.Employer{Name: "Muster AG", Canton: "ZH"},
		Employee: domain.EmployeeProfile{ID: "E1", Name: "Anna Muster"},
		Entries: []Entry{
			{Result: res, Findings: []domain.Finding{{Severity: domain.SeverityWarning, Code: "BIRTH_DATE_MISSING", Message: "birth date missing"}}},
			{Error: "UVG configuration error (year 2026): rate record not found"},
		},
	}
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"console", "json", "csv", " JSON "} {
		f := GetFormatterByName(name)
		require.NotNil(t, f, name)
		assert.Equal(t, strings.ToLower(strings.TrimSpace(name)), f.Name())
	}
	assert.Nil(t, GetFormatterByName("html"), "Should return nil formatter for non-existent name")
	assert.Equal(t, []string{"console", "json", "csv"}, FormatterNames())
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleReport())
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "Anna Muster (E1)")
	assert.Contains(t, s, "2025-03")
	assert.Contains(t, s, "6'000.00")
	assert.Contains(t, s, "12'345.60")
	assert.Contains(t, s, "318.00")
	assert.Contains(t, s, "expenses", "items without description show the category")
	assert.Contains(t, s, "BIRTH_DATE_MISSING")
	assert.Contains(t, s, "not computed: UVG configuration error")
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(sampleReport())
	require.NoError(t, err)

	var decoded struct {
		Entries []struct {
			Result *struct {
				Net   string `json:"net"`
				Items []struct {
					Category string `json:"category"`
				} `json:"items"`
			} `json:"result"`
			Findings []struct {
				Severity string `json:"severity"`
			} `json:"findings"`
			Error string `json:"error"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "12345.6", decoded.Entries[0].Result.Net)
	assert.Equal(t, "monthly_salary", decoded.Entries[0].Result.Items[0].Category)
	assert.Equal(t, "warning", decoded.Entries[0].Findings[0].Severity)
	assert.Nil(t, decoded.Entries[1].Result)
	assert.NotEmpty(t, decoded.Entries[1].Error)

	pretty, err := JSONFormatter{Pretty: true}.Format(sampleReport())
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  ")
}

func TestCSVFormatter(t *testing.T) {
	out, err := CSVFormatter{}.Format(sampleReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "employee_id,year,month,status,gross"))
	assert.Contains(t, lines[1], "E1,2025,3,draft,6000.00")
	assert.Contains(t, lines[1], "12345.60")
	assert.Contains(t, lines[2], "rate record not found")
}
