package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t testing.TB, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../.."}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestEndToEnd_ComplexNestedStructures checks that formatting a nested
// document keeps every value, compared through encoding/json.
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	jsonContent := `{
		"id": 12345,
		"uuid": "550e8400-e29b-41d4-a716-446655440000",
		"created_at": "2023-05-20T14:56:23Z",
		"config": {
			"timeout_seconds": 30,
			"ratio": 0.75,
			"features": ["logging", "metrics", "alerting"],
			"rate_limits": {"per_second": 100, "per_minute": 1000, "burst": 150},
			"environments": {
				"development": {"log_level": "debug", "note": "a, b: {c}"},
				"production": {"log_level": "info", "note": "say \"hi\""}
			}
		},
		"users": [
			{"id": 1, "name": "Alice", "roles": ["admin", "user"], "metadata": {"login_count": 42}},
			{"id": 2, "name": "Bob", "roles": [], "metadata": {}}
		],
		"matrix": [[1, 2], [3, 4]]
	}`

	for _, indent := range []string{"0", "2", "4"} {
		t.Run("indent"+indent, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, jsonContent, "fmt", "--strict", "--indent", indent)
			require.NoError(t, err, "CLI command failed: %s", stderr)

			var want, got map[string]any
			require.NoError(t, json.Unmarshal([]byte(jsonContent), &want))
			require.NoError(t, json.Unmarshal([]byte(stdout), &got), "output is not valid JSON:\n%s", stdout)
			assert.Equal(t, want, got)

			// Formatting the output again changes nothing
			again, stderr, err := runCLI(t, stdout, "fmt", "--strict", "--indent", indent)
			require.NoError(t, err, "CLI command failed: %s", stderr)
			assert.Equal(t, stdout, again)
		})
	}
}

// TestEndToEnd_KeyOrder checks that members are written in input order
func TestEndToEnd_KeyOrder(t *testing.T) {
	stdout, stderr, err := runCLI(t, `{"zeta": 1, "alpha": 2, "mid": {"y": 1, "b": 2}}`, "fmt", "--compact")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, `{"zeta":1,"alpha":2,"mid":{"y":1,"b":2}}`+"\n", stdout)
}

// TestEndToEnd_EdgeCases covers inputs the lenient parser has to recover from
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty object",
			input:    `{}`,
			expected: "{\n}\n",
		},
		{
			name:     "not an object",
			input:    `[1, 2, 3]`,
			expected: "{\n}\n",
		},
		{
			name:     "bare words become text",
			input:    `{"flag": true, "nothing": null}`,
			expected: "{\n    \"flag\": \"true\",\n    \"nothing\": \"null\"\n}\n",
		},
		{
			name:     "trailing comma",
			input:    `{"a": 1,}`,
			expected: "{\n    \"a\": 1\n}\n",
		},
		{
			name:     "duplicate key keeps first position",
			input:    `{"a": 1, "b": 2, "a": 3}`,
			expected: "{\n    \"a\": 3,\n    \"b\": 2\n}\n",
		},
		{
			name:     "huge integer",
			input:    `{"big": 123456789012345678901234567890}`,
			expected: "{\n    \"big\": 123456789012345678901234567890\n}\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, tc.input, "fmt")
			require.NoError(t, err, "CLI command failed: %s", stderr)
			assert.Equal(t, tc.expected, stdout)
		})
	}
}

var credentialsPattern = regexp.MustCompile(`User ID: (USER\d{4})\nPIN: (\d{4})`)

// TestEndToEnd_ATM runs a session against one data file and checks the file
// stays standard JSON throughout.
func TestEndToEnd_ATM(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "atm_data.json")

	open := func(name, balance string) (string, string) {
		stdout, stderr, err := runCLI(t, "", "atm", "open", "-f", dataFile, "--balance", balance, name)
		require.NoError(t, err, "CLI command failed: %s", stderr)
		m := credentialsPattern.FindStringSubmatch(stdout)
		require.Len(t, m, 3, stdout)
		return m[1], m[2]
	}

	alice, pin := open("Alice", "50")
	bob, _ := open("Bob, Jr.", "5")

	_, stderr, err := runCLI(t, "", "atm", "transfer", "-f", dataFile, "-u", alice, "--pin", pin, "--to", bob, "12.5")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	raw, err := os.ReadFile(dataFile)
	require.NoError(t, err)

	var doc struct {
		Accounts []struct {
			UserID             string   `json:"userId"`
			PIN                string   `json:"pin"`
			Name               string   `json:"name"`
			Balance            float64  `json:"balance"`
			TransactionHistory []string `json:"transactionHistory"`
		} `json:"accounts"`
		LastUpdated string `json:"lastUpdated"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc), "data file is not valid JSON:\n%s", raw)
	require.Len(t, doc.Accounts, 2)
	assert.NotEmpty(t, doc.LastUpdated)

	balances := map[string]float64{}
	for _, a := range doc.Accounts {
		balances[a.UserID] = a.Balance
	}
	assert.Equal(t, 37.5, balances[alice])
	assert.Equal(t, 17.5, balances[bob])

	bobIndex := 0
	if doc.Accounts[0].UserID != bob {
		bobIndex = 1
	}
	stdout, stderr, err := runCLI(t, "", "get", dataFile, fmt.Sprintf("accounts[%d].name", bobIndex))
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "Bob, Jr.\n", stdout)
}
