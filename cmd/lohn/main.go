package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/lohn/internal/calculation"
	"github.com/rgehrsitz/lohn/internal/config"
	"github.com/rgehrsitz/lohn/internal/domain"
	"github.com/rgehrsitz/lohn/internal/output"
	"github.com/rgehrsitz/lohn/internal/payroll"
	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/rgehrsitz/lohn/internal/store"
	"github.com/spf13/cobra"
)

var _ calculation.Logger = cliLogger{}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lohn %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "lohn",
	Short: "Swiss monthly payroll calculator",
	Long: "Computes gross-to-net payroll for Swiss employees: AHV/IV/EO, ALV, UVG, KTG, BVG,\n" +
		"withholding tax, family compensation fund and administrative costs, with\n" +
		"year-to-date ceilings carried across the months of a year.",
}

// session bundles what a command needs to run payroll for one case
type session struct {
	c       *domain.Case
	svc     *payroll.Service
	closeFn func()
}

func (s *session) close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

func openSession(cmd *cobra.Command, caseFile string) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	parser := config.NewInputParser()

	c, err := parser.LoadCase(caseFile)
	if err != nil {
		return nil, err
	}
	ratesFile, _ := cmd.Flags().GetString("rates")
	table, err := parser.LoadRateTable(ratesFile)
	if err != nil {
		return nil, err
	}

	s := &session{c: c}
	var st store.Store = store.NewMemoryStore()
	if url, _ := cmd.Flags().GetString("database"); url != "" {
		pg, pool, err := store.OpenPostgres(ctx, url)
		if err != nil {
			return nil, err
		}
		st, s.closeFn = pg, pool.Close
	}

	s.svc = payroll.NewService(st, rates.NewResolver(table))
	debugMode, _ := cmd.Flags().GetBool("debug")
	s.svc.SetLogger(newCLILogger(debugMode))
	return s, nil
}

func writeReport(cmd *cobra.Command, c *domain.Case, outcomes []payroll.Outcome) error {
	name, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(name)
	if f == nil {
		return fmt.Errorf("unknown output format %q (available: %v)", name, output.FormatterNames())
	}
	report := &output.Report{Employer: c.Employer, Employee: c.Employee}
	for _, o := range outcomes {
		e := output.Entry{Result: o.Result, Findings: o.Findings}
		if o.Err != nil {
			e.Error = o.Err.Error()
		}
		report.Entries = append(report.Entries, e)
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

var computeCmd = &cobra.Command{
	Use:   "compute [case-file]",
	Short: "Compute the payroll months of a case as drafts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.close()

		month, _ := cmd.Flags().GetInt("month")
		var outcomes []payroll.Outcome
		for _, p := range s.c.Periods {
			if month != 0 && p.Month != month {
				continue
			}
			res, findings, err := s.svc.Recalculate(cmd.Context(), s.c.Employer, &s.c.Employee, p, s.c.Overtime)
			outcomes = append(outcomes, payroll.Outcome{Result: res, Findings: findings, Err: err})
		}
		if len(outcomes) == 0 {
			return fmt.Errorf("case %s has no period for month %d", args[0], month)
		}
		return writeReport(cmd, s.c, outcomes)
	},
}

var yearCmd = &cobra.Command{
	Use:   "year [case-file]",
	Short: "Compute and finalize every month of a case in calendar order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.close()

		outcomes, runErr := s.svc.RunYear(cmd.Context(), s.c)
		if err := writeReport(cmd, s.c, outcomes); err != nil {
			return err
		}
		if runErr != nil {
			return fmt.Errorf("payroll run stopped: %w", runErr)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [case-file]",
	Short: "Validate a case file and, optionally, a rate file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		if _, err := parser.LoadCase(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Case file %s is valid\n", args[0])

		if ratesFile, _ := cmd.Flags().GetString("rates"); ratesFile != "" {
			if _, err := parser.LoadRates(ratesFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rate file %s is valid\n", ratesFile)
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{computeCmd, yearCmd} {
		cmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv)")
		cmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
		cmd.Flags().String("database", "", "PostgreSQL URL; results are kept in memory when empty")
	}
	for _, cmd := range []*cobra.Command{computeCmd, yearCmd, validateCmd, ratesCmd} {
		cmd.Flags().StringP("rates", "r", "", "Path to the rate file (YAML)")
	}
	computeCmd.Flags().IntP("month", "m", 0, "Compute only this month (1-12)")

	ratesCmd.Flags().IntP("year", "y", 0, "Payroll year (required)")
	ratesCmd.Flags().StringP("canton", "c", rates.DefaultCanton, "Work canton for FAK")
	ratesCmd.Flags().StringP("tariff", "t", "", "Withholding tax tariff code, e.g. B2Y")
	_ = ratesCmd.MarkFlagRequired("year")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(yearCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
