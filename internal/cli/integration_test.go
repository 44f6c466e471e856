package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonlite(args ...string) *exec.Cmd {
	return exec.Command("go", append([]string{"run", "../.."}, args...)...)
}

// TestCLI_FileInputOutput tests the CLI with file input and output
func TestCLI_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{"name": "John Doe", "age": 30, "address": {"street": "123 Main St", "zip": "01234"},
		"phones": [{"type": "home", "number": "555-1234"}, {"type": "work", "number": "555-5678"}]}`
	jsonFile := filepath.Join(tempDir, "test.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0o644))

	outputFile := filepath.Join(tempDir, "output.json")

	cmd := jsonlite("fmt", "--indent", "2", "-o", outputFile, jsonFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))

	formatted, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	expected := `{
  "name": "John Doe",
  "age": 30,
  "address": {
    "street": "123 Main St",
    "zip": "01234"
  },
  "phones": [
    {
      "type": "home",
      "number": "555-1234"
    },
    {
      "type": "work",
      "number": "555-5678"
    }
  ]
}
`
	assert.Equal(t, expected, string(formatted))
}

// TestCLI_StdinStdout tests the CLI reading from stdin and writing to stdout
func TestCLI_StdinStdout(t *testing.T) {
	cmd := jsonlite("fmt", "--indent", "0")
	cmd.Stdin = strings.NewReader(`{"z": 1, "a": [2.5, "x"]}`)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run(), "CLI command failed: %s", stderr.String())
	assert.Equal(t, "{\n\"z\": 1,\n\"a\": [\n2.5,\n\"x\"\n]\n}\n", stdout.String())
}

// TestCLI_StrictRejectsMalformed tests that strict mode exits non-zero
func TestCLI_StrictRejectsMalformed(t *testing.T) {
	cmd := jsonlite("fmt", "--strict")
	cmd.Stdin = strings.NewReader(`{"a": [1, 2}`)
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "Parsing error")
	assert.Contains(t, string(output), "unbalanced")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	cmd := jsonlite("fmt")
	cmd.Stdin = strings.NewReader("")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Contains(t, string(output), "Input error")
}

// TestCLI_DebugLogging tests that --debug reports recovered anomalies
func TestCLI_DebugLogging(t *testing.T) {
	cmd := jsonlite("--debug", "fmt")
	cmd.Stdin = strings.NewReader(`{"a": maybe}`)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run(), "CLI command failed: %s", stderr.String())
	assert.Contains(t, stdout.String(), `"a": "maybe"`)
	assert.Contains(t, stderr.String(), "recovered from malformed input")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	output, err := jsonlite("--version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "0.1.0")
}

// TestCLI_Help tests the help flag
func TestCLI_Help(t *testing.T) {
	output, err := jsonlite("--help").CombinedOutput()
	require.NoError(t, err)

	out := string(output)
	assert.Contains(t, out, "Usage:")
	for _, command := range []string{"fmt", "get", "inspect", "atm"} {
		assert.Contains(t, out, command)
	}
}
