package output

import (
	"github.com/gocarina/gocsv"
	"github.com/rgehrsitz/lohn/internal/domain"
)

// csvRow is one payroll month flattened for spreadsheets
type csvRow struct {
	EmployeeID  string `csv:"employee_id"`
	Year        int    `csv:"year"`
	Month       int    `csv:"month"`
	Status      string `csv:"status"`
	Gross       string `csv:"gross"`
	AHVBasis    string `csv:"ahv_basis"`
	ALVBasis    string `csv:"alv_basis"`
	UVGBasis    string `csv:"uvg_basis"`
	BVGInsured  string `csv:"bvg_insured"`
	QSTBasis    string `csv:"qst_basis"`
	AHVEmployer string `csv:"ahv_employer"`
	AHVEmployee string `csv:"ahv_employee"`
	ALVEmployer string `csv:"alv_employer"`
	ALVEmployee string `csv:"alv_employee"`
	BU          string `csv:"uvg_bu"`
	NBU         string `csv:"uvg_nbu"`
	KTGEmployer string `csv:"ktg_employer"`
	KTGEmployee string `csv:"ktg_employee"`
	BVGEmployer string `csv:"bvg_employer"`
	BVGEmployee string `csv:"bvg_employee"`
	QST         string `csv:"qst"`
	FAK         string `csv:"fak"`
	VK          string `csv:"vk"`
	Net         string `csv:"net"`
	Errors      int    `csv:"errors"`
	Warnings    int    `csv:"warnings"`
	Failure     string `csv:"failure"`
}

// CSVFormatter renders one row per month
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(r *Report) ([]byte, error) {
	rows := make([]*csvRow, 0, len(r.Entries))
	for _, e := range r.Entries {
		row := &csvRow{EmployeeID: r.Employee.ID, Failure: e.Error}
		for _, f := range e.Findings {
			switch f.Severity {
			case domain.SeverityError:
				row.Errors++
			case domain.SeverityWarning:
				row.Warnings++
			}
		}
		if res := e.Result; res != nil {
			row.Year, row.Month, row.Status = res.Year, res.Month, string(res.Status)
			row.Gross = res.Bases.Gross.StringFixed(2)
			row.AHVBasis = res.Bases.AHV.StringFixed(2)
			row.ALVBasis = res.Bases.ALV.StringFixed(2)
			row.UVGBasis = res.Bases.UVG.StringFixed(2)
			row.BVGInsured = res.Bases.BVG.StringFixed(2)
			row.QSTBasis = res.Bases.QST.StringFixed(2)
			row.AHVEmployer, row.AHVEmployee = res.AHV.Employer.StringFixed(2), res.AHV.Employee.StringFixed(2)
			row.ALVEmployer, row.ALVEmployee = res.ALV.Employer.StringFixed(2), res.ALV.Employee.StringFixed(2)
			row.BU, row.NBU = res.UVG.Employer.StringFixed(2), res.UVG.Employee.StringFixed(2)
			row.KTGEmployer, row.KTGEmployee = res.KTG.Employer.StringFixed(2), res.KTG.Employee.StringFixed(2)
			row.BVGEmployer, row.BVGEmployee = res.BVG.Employer.StringFixed(2), res.BVG.Employee.StringFixed(2)
			row.QST = res.QST.Employee.StringFixed(2)
			row.FAK = res.FAK.Employer.StringFixed(2)
			row.VK = res.VK.Employer.StringFixed(2)
			row.Net = res.Net.StringFixed(2)
		}
		rows = append(rows, row)
	}
	return gocsv.MarshalBytes(&rows)
}
