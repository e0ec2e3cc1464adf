package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/application/usecase"
)

const application = `{
	"trade_in_value": "0",
	"primary": {
		"first_name": "Ana",
		"last_name": "Silva",
		"employment_length_months": 24,
		"employment_type": "W2",
		"age": %d,
		"pay_frequency": "Bi-Weekly",
		"paychecks": ["2400", "2500", "2600"],
		"monthly_car_payment": "800",
		"total_monthly_expenses": "1000",
		"downpayment": "2000"
	}
}`

func init() {
	color.NoColor = true
}

func writeApplication(t *testing.T, age int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.json")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(application, age)), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(args, &out, &errOut)
	return out.String(), err
}

func TestEvaluate(t *testing.T) {
	t.Run("prints the summary", func(t *testing.T) {
		out, err := runCLI(t, "evaluate", "--file", writeApplication(t, 35))

		require.NoError(t, err)
		assert.Equal(t, "Applicant: Ana Silva\n"+
			"Score: 0\n"+
			"Low Risk: High chance of full payoff.\n"+
			"Factors:\n"+
			"- Stable employment (W2)\n"+
			"- Optimal payment-to-net-income ratio (≤25%) - Financially stable\n"+
			"- Moderate downpayment reducing risk\n"+
			"- Moderate risk for customers aged 31-40\n", out)
	})

	t.Run("prints JSON", func(t *testing.T) {
		out, err := runCLI(t, "--json", "evaluate", "-f", writeApplication(t, 35))

		require.NoError(t, err)
		var resp dto.EvaluateRiskResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 0, resp.Score)
		assert.Equal(t, "LOW", resp.Tier)
	})

	t.Run("rejects an invalid applicant", func(t *testing.T) {
		_, err := runCLI(t, "evaluate", "--file", writeApplication(t, 17))

		assert.True(t, errors.Is(err, usecase.ErrInvalidApplication))
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := runCLI(t, "evaluate", "--file", filepath.Join(t.TempDir(), "missing.json"))

		assert.Error(t, err)
	})
}

func TestClassify(t *testing.T) {
	t.Run("high risk profile", func(t *testing.T) {
		out, err := runCLI(t, "classify",
			"--employment-length", "3",
			"--employment-type", "Cash Paid",
			"--age", "22",
			"--income", "3000",
			"--net-income", "2000",
			"--car-payment", "900",
			"--bankruptcies", "1",
		)

		require.NoError(t, err)
		assert.Contains(t, out, "Score: 12\n")
		assert.Contains(t, out, "High Risk: High probability of repossession with less than 25% payments.\n")
		assert.Contains(t, out, "- 1 past bankruptcy record(s)\n")
	})

	t.Run("trade-in lowers the score", func(t *testing.T) {
		args := []string{"--json", "classify",
			"-l", "12", "-t", "W2", "-a", "45",
			"--income", "5000", "--net-income", "4000", "--car-payment", "1000",
		}

		without, err := runCLI(t, args...)
		require.NoError(t, err)
		with, err := runCLI(t, append(args, "--trade-in", "2500")...)
		require.NoError(t, err)

		var a, b dto.EvaluateRiskResponse
		require.NoError(t, json.Unmarshal([]byte(without), &a))
		require.NoError(t, json.Unmarshal([]byte(with), &b))
		assert.Equal(t, a.Score-1, b.Score)
		assert.Contains(t, b.Factors, "Trade-in provided, reducing risk")
	})

	t.Run("accepts a negative net income as a separate argument", func(t *testing.T) {
		out, err := runCLI(t, "--json", "classify",
			"-l", "12", "-t", "W2", "-a", "45",
			"--income", "1000", "--net-income", "-500", "--car-payment", "300",
		)

		require.NoError(t, err)
		var resp dto.EvaluateRiskResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 1, resp.Score)
		assert.Contains(t, resp.Factors, "High payment-to-net-income ratio (>40%)")
	})

	t.Run("keeps cents exact", func(t *testing.T) {
		out, err := runCLI(t, "--json", "classify",
			"-l", "12", "-t", "W2", "-a", "45",
			"--income", "5000", "--net-income", "1000", "--car-payment", "250.01",
		)

		require.NoError(t, err)
		var resp dto.EvaluateRiskResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Contains(t, resp.Factors, "Moderate payment-to-net-income ratio (25-30%)")
	})

	t.Run("rejects an unparseable amount", func(t *testing.T) {
		_, err := runCLI(t, "classify", "-l", "12", "-t", "W2", "-a", "45",
			"--income", "lots", "--net-income", "1", "--car-payment", "1")

		assert.Error(t, err)
	})

	t.Run("rejects an unknown employment type", func(t *testing.T) {
		_, err := runCLI(t, "classify", "-l", "12", "-t", "Contractor", "-a", "45",
			"--income", "1", "--net-income", "1", "--car-payment", "1")

		assert.Error(t, err)
	})
}

func TestTiers(t *testing.T) {
	out, err := runCLI(t, "tiers")

	require.NoError(t, err)
	assert.Equal(t, "HIGH      >= 8  High Risk: High probability of repossession with less than 25% payments.\n"+
		"MODERATE  >= 5  Moderate Risk: Repossession risk after more than 50% payments.\n"+
		"LOW       >= 0  Low Risk: High chance of full payoff.\n", out)
}

func TestCerts(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "certs", "--out", dir, "--host", "risk.local")

	require.NoError(t, err)
	assert.Contains(t, out, "risk.local")
	assert.FileExists(t, filepath.Join(dir, "server.pem"))
	assert.FileExists(t, filepath.Join(dir, "ca.pem"))
}

func TestNoCommand(t *testing.T) {
	_, err := runCLI(t)

	assert.Error(t, err)
}
