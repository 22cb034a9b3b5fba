package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldAutoJSON(t *testing.T) {
	assert.True(t, shouldAutoJSON([]string{"products", "--category", "sofas"}, false))
	assert.False(t, shouldAutoJSON([]string{"products", "--category", "sofas", "--json"}, false))
	assert.False(t, shouldAutoJSON([]string{"completion", "zsh"}, false))
	assert.False(t, shouldAutoJSON([]string{"--help"}, false))
	assert.False(t, shouldAutoJSON([]string{"products", "--category", "sofas"}, true))
}

func TestFirstCommand_SkipsFlagValues(t *testing.T) {
	assert.Equal(t, "show", firstCommand([]string{"--category", "sofas", "show"}))
	assert.Equal(t, "facets", firstCommand([]string{"-c", "sofas", "facets"}))
	assert.Equal(t, "", firstCommand([]string{"--json", "--", "products"}))
}

func TestPrintQuickStart_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := printQuickStart(&buf, true)
	require.NoError(t, err)

	var payload quickStartJSON
	err = json.Unmarshal(buf.Bytes(), &payload)
	require.NoError(t, err)

	assert.Equal(t, "sunbeam", payload.Name)
	assert.NotEmpty(t, payload.Usage)
	assert.Len(t, payload.Examples, 3)
}

func TestPrintQuickStart_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printQuickStart(&buf, false))

	assert.Contains(t, buf.String(), "usage: sunbeam")
	assert.Contains(t, buf.String(), "--min-price")
}

func TestPrintCLIErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	err := printCLIErrorJSON(&buf, classifyCLIError(invalidArgsError("bad flag", "sunbeam products --room Bedroom")))
	require.NoError(t, err)

	var payload map[string]any
	err = json.Unmarshal(buf.Bytes(), &payload)
	require.NoError(t, err)

	errorObject, ok := payload["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INVALID_ARGS", errorObject["code"])
	assert.Equal(t, "bad flag", errorObject["message"])
}

func TestTypedErrors(t *testing.T) {
	upstream := classifyCLIError(upstreamError("fetching products", errors.New("connection refused")))
	assert.Equal(t, ExitUpstream, upstream.ExitCode)
	assert.Contains(t, upstream.Message, "connection refused")

	internal := classifyCLIError(internalError("writing catalog snapshot", errors.New("disk full")))
	assert.Equal(t, ExitInternal, internal.ExitCode)

	missing := classifyCLIError(missingSnapshotError("/tmp/products.json"))
	assert.Equal(t, ExitNotFound, missing.ExitCode)
	assert.Contains(t, missing.Message, "/tmp/products.json")
	assert.Contains(t, missing.Suggestions, "sunbeam fetch && sunbeam enrich")
}
