package formatter

import (
	"testing"

	"github.com/mcncl/jsonlite/internal/config"
	"github.com/mcncl/jsonlite/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_ParserFormatter(t *testing.T) {
	// Test the full pipeline: Parser -> Formatter -> Parser
	input := `{"accounts":[{"userId":"USER1234","pin":"0042","name":"Alice","balance":100.5,"transactionHistory":["2024-01-01 10:00:00 - Account created with initial balance: $100.50"]}],"lastUpdated":"2024-01-01 10:00:00"}`

	result, err := parser.ParseString(input, parser.Options{Strict: true})
	require.NoError(t, err)

	cfg := config.NewConfig()
	formatted, err := NewFormatter(cfg).Format(result.Object)
	require.NoError(t, err)

	assert.Contains(t, formatted, "\n    \"accounts\": [\n        {\n            \"userId\": \"USER1234\",")
	assert.Contains(t, formatted, "\"pin\": \"0042\"")

	again, err := parser.ParseString(formatted, parser.Options{Strict: true})
	require.NoError(t, err)
	assert.True(t, result.Object.Equal(again.Object))

	reformatted, err := NewFormatter(cfg).Format(again.Object)
	require.NoError(t, err)
	assert.Equal(t, formatted, reformatted)
}
