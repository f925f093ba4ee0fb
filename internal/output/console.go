package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/money"
	"github.com/shopspring/decimal"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Width(34)
	amountStyle  = lipgloss.NewStyle().Width(14).Align(lipgloss.Right)
	totalStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	severityText = map[domain.Severity]lipgloss.Style{
		domain.SeverityOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		domain.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		domain.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domain.SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
)

// ConsoleFormatter renders one payslip-like box per month
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (cf ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintln(&sb, titleStyle.Render(fmt.Sprintf("%s · %s", r.Employer.Name, r.Employee.Label())))
	for _, e := range r.Entries {
		sb.WriteString(boxStyle.Render(cf.entry(e)))
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func line(label string, amount decimal.Decimal) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), amountStyle.Render(money.Format(amount)))
}

func pair(label string, c domain.Contribution) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		amountStyle.Render(money.Format(c.Employer)),
		amountStyle.Render(money.Format(c.Employee)))
}

func (cf ConsoleFormatter) entry(e Entry) string {
	var lines []string
	res := e.Result
	if res == nil {
		lines = append(lines, severityText[domain.SeverityError].Render("not computed: "+e.Error))
		lines = append(lines, cf.findings(e.Findings)...)
		return strings.Join(lines, "\n")
	}

	lines = append(lines, headerStyle.Render(fmt.Sprintf("%04d-%02d  %s", res.Year, res.Month, res.Status)))
	for _, li := range res.Items {
		desc := li.Description
		if desc == "" {
			desc = li.Category.String()
		}
		lines = append(lines, line(desc, li.Amount))
	}
	lines = append(lines, totalStyle.Render(line("Gross", res.Bases.Gross)))
	lines = append(lines, "")

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(""), amountStyle.Render("Employer"), amountStyle.Render("Employee")))
	lines = append(lines,
		pair("AHV/IV/EO", res.AHV),
		pair("ALV", res.ALV),
		pair("UVG (BU/NBU)", res.UVG),
		pair("KTG", res.KTG),
		pair("BVG", res.BVG),
		pair("Withholding tax", res.QST),
		pair("FAK", res.FAK),
		pair("VK", res.VK),
	)
	lines = append(lines, "")
	if res.Reimbursements.IsPositive() {
		lines = append(lines, line("Reimbursements", res.Reimbursements))
	}
	if !res.OtherDeductions.IsZero() {
		lines = append(lines, line("Other deductions", res.OtherDeductions.Neg()))
	}
	lines = append(lines, totalStyle.Render(line("Net salary", res.Net)))
	lines = append(lines, mutedStyle.Render(line("Employer cost", res.EmployerCost())))

	if e.Error != "" {
		lines = append(lines, severityText[domain.SeverityError].Render(e.Error))
	}
	lines = append(lines, cf.findings(e.Findings)...)
	return strings.Join(lines, "\n")
}

func (ConsoleFormatter) findings(findings []domain.Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		style := severityText[f.Severity]
		out = append(out, style.Render(fmt.Sprintf("[%s] %s: %s", f.Severity, f.Code, f.Message)))
	}
	return out
}
