package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/lohn/internal/config"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/spf13/cobra"
)

var (
	ratesHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	ratesKey      = lipgloss.NewStyle().Width(18)
	ratesStrategy = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("244"))
	ratesMissing  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the rate set resolved for a year and canton",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ratesFile, _ := cmd.Flags().GetString("rates")
		year, _ := cmd.Flags().GetInt("year")
		canton, _ := cmd.Flags().GetString("canton")
		tariff, _ := cmd.Flags().GetString("tariff")

		table, err := config.NewInputParser().LoadRateTable(ratesFile)
		if err != nil {
			return err
		}
		resolved := rates.NewResolver(table).Explain(year, canton, tariff)
		fmt.Fprint(cmd.OutOrStdout(), renderRates(year, canton, resolved))
		return nil
	},
}

func renderRates(year int, canton string, resolved []rates.ResolvedRecord) string {
	var sb strings.Builder
	sb.WriteString(ratesHeader.Render(fmt.Sprintf("Rates %d · %s", year, strings.ToUpper(canton))))
	sb.WriteString("\n")
	for _, r := range resolved {
		var detail string
		if r.Err != nil {
			detail = ratesMissing.Render(r.Err.Error())
		} else {
			detail = fmt.Sprintf("%+v", r.Record)
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			ratesKey.Render(r.Key.String()),
			ratesStrategy.Render(r.Strategy),
			detail))
		sb.WriteString("\n")
	}
	return sb.String()
}
