package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ratesFile   = "../../examples/rates_2025.yaml"
	monthlyCase = "../../examples/case_monthly.yaml"
	hourlyCase  = "../../examples/case_hourly.yaml"
)

// execute runs the root command with args and returns what it printed.
// Flags keep their values between runs, so tests pass every flag they rely on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd
	require.NotNil(t, cmd, "Expected root command to be created")

	assert.Equal(t, "lohn", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Expected root command to have a short description")
	assert.NotEmpty(t, cmd.Long, "Expected root command to have a long description")
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "compute")
	assert.Contains(t, out, "rates")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"compute", "year", "validate", "rates", "version"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "Expected command %s to be registered", name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "lohn dev"), out)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", monthlyCase, "--rates", ratesFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Case file "+monthlyCase+" is valid")
	assert.Contains(t, out, "Rate file "+ratesFile+" is valid")

	_, err = execute(t, "validate", "does-not-exist.yaml", "--rates", "")
	assert.Error(t, err)
}

func TestComputeCommand_JSON(t *testing.T) {
	out, err := execute(t, "compute", monthlyCase, "--rates", ratesFile, "--format", "json", "--month", "0", "--database", "")
	require.NoError(t, err)

	var report struct {
		Employee struct {
			ID string `json:"id"`
		} `json:"employee"`
		Entries []struct {
			Result *struct {
				Month  int    `json:"month"`
				Status string `json:"status"`
			} `json:"result"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, "E-1001", report.Employee.ID)
	require.Len(t, report.Entries, 3)
	for i, e := range report.Entries {
		require.NotNil(t, e.Result)
		assert.Equal(t, i+1, e.Result.Month)
		assert.Equal(t, "draft", e.Result.Status)
	}
}

func TestComputeCommand_SingleMonthCSV(t *testing.T) {
	out, err := execute(t, "compute", hourlyCase, "--rates", ratesFile, "--format", "csv", "--month", "2", "--database", "")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, out)
	assert.True(t, strings.HasPrefix(lines[1], "H-2001,2025,2,draft,"), lines[1])
}

func TestComputeCommand_Errors(t *testing.T) {
	_, err := execute(t, "compute", monthlyCase, "--rates", ratesFile, "--format", "html", "--month", "0", "--database", "")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = execute(t, "compute", monthlyCase, "--rates", ratesFile, "--format", "json", "--month", "9", "--database", "")
	assert.ErrorContains(t, err, "no period for month 9")
}

func TestYearCommand(t *testing.T) {
	out, err := execute(t, "year", monthlyCase, "--rates", ratesFile, "--format", "csv", "--database", "")
	require.NoError(t, err)
	assert.Contains(t, out, "E-1001,2025,1,finalized,")
	assert.Contains(t, out, "E-1001,2025,3,finalized,")
}

func TestYearCommand_MissingRatesStops(t *testing.T) {
	// without a rate file UVG has no record and the run stops at the first month
	_, err := execute(t, "year", monthlyCase, "--rates", "", "--format", "csv", "--database", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payroll run stopped")
	assert.Contains(t, err.Error(), "UVG")
}

func TestRatesCommand(t *testing.T) {
	out, err := execute(t, "rates", "--rates", ratesFile, "--year", "2025", "--canton", "GE", "--tariff", "B2Y")
	require.NoError(t, err)
	assert.Contains(t, out, "AHV/2025")
	assert.Contains(t, out, "exact")
	assert.Contains(t, out, "FAK/2025/GE")
	assert.Contains(t, out, "default-canton")
	assert.Contains(t, out, "QST/2025/B2Y")
}
