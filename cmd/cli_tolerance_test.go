package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swilhoit/sunbeam/internal/api"
)

func TestNormalizeCLIArgs_RewritesCommonFlagSyntax(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"products", "-category", "sofas", "json"})

	assert.Equal(t, []string{"products", "--category", "sofas", "--json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesTypoFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--catgory", "sofas"})

	assert.Equal(t, []string{"--category", "sofas"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesAlias(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"products", "--max=500", "--order", "name"})

	assert.Equal(t, []string{"products", "--max-price=500", "--sort", "name"}, args)
	assert.Len(t, notes, 2)
}

func TestNormalizeCLIArgs_RewritesCommandTypo(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"prodcts", "--room", "Bedroom"})

	assert.Equal(t, []string{"products", "--room", "Bedroom"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteSearchTerms(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"search", "sort"})

	assert.Equal(t, []string{"search", "sort"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteCompletionPositionalArgs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"completion", "zsh"})

	assert.Equal(t, []string{"completion", "zsh"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteHelpCommandArgAsFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"help", "products"})

	assert.Equal(t, []string{"help", "products"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_RespectsDoubleDashBoundary(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"products", "--", "category", "sofas"})

	assert.Equal(t, []string{"products", "--", "category", "sofas"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_LeavesKnownShorthandUntouched(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-c", "sofas", "-n", "5"})

	assert.Equal(t, []string{"-c", "sofas", "-n", "5"}, args)
	assert.Empty(t, notes)
}

func TestExplainCLIError_UnknownFlagIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown flag: --catgory"))

	assert.Contains(t, msg, "Try `--category`.")
	assert.Contains(t, msg, "sunbeam products --category chairs --max-price 500")
}

func TestExplainCLIError_UnknownCommandIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown command \"serch\" for \"sunbeam\""))

	assert.Contains(t, msg, "Did you mean `search`?")
	assert.Contains(t, msg, "sunbeam products --category sofas")
}

func TestClassifyCLIError_NotFoundAndUpstream(t *testing.T) {
	notFound := classifyCLIError(fmt.Errorf("opening snapshot: %w", os.ErrNotExist))
	assert.Equal(t, "NOT_FOUND", notFound.Code)
	assert.Equal(t, ExitNotFound, notFound.ExitCode)

	upstream := classifyCLIError(fmt.Errorf("walking listing: %w", &api.PageError{Page: 2, Err: errors.New("unexpected status 502")}))
	assert.Equal(t, "UPSTREAM_ERROR", upstream.Code)
	assert.Equal(t, ExitUpstream, upstream.ExitCode)
	assert.Contains(t, upstream.Message, "fetching page 2")

	timeout := classifyCLIError(fmt.Errorf("fetch: %w", context.DeadlineExceeded))
	assert.Equal(t, ExitUpstream, timeout.ExitCode)
}

func TestClassifyCLIError_MessageTextDoesNotDecideKind(t *testing.T) {
	plain := classifyCLIError(errors.New("no products match your filters"))
	assert.Equal(t, "INTERNAL_ERROR", plain.Code)
	assert.Equal(t, ExitInternal, plain.ExitCode)
}

func TestClassifyCLIError_KeepsCause(t *testing.T) {
	cause := &api.PageError{Page: 1, Err: errors.New("connection refused")}
	err := classifyCLIError(upstreamError("fetching products", cause))

	var pageErr *api.PageError
	require.ErrorAs(t, err, &pageErr)
	assert.Same(t, cause, pageErr)
}

func TestClosestMatch(t *testing.T) {
	match, ok := closestMatch("facts", vocabulary().commands, 2)
	assert.True(t, ok)
	assert.Equal(t, "facets", match)

	_, ok = closestMatch("inventory", vocabulary().commands, 2)
	assert.False(t, ok)
}

func TestBuildVocabulary_ReadsRegisteredFlags(t *testing.T) {
	v := buildVocabulary(rootCmd)

	assert.True(t, v.flags["workers"])
	assert.True(t, v.flags["listen"])
	assert.False(t, v.flags["json"])
	assert.True(t, v.shorthands['s'])
	assert.Contains(t, v.commands, "filters")
	assert.Contains(t, v.commands, "completion")
}

func TestNormalizeCLIArgs_ShorthandValueIsNotACommand(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-s", "name", "show", "walnut-sofa"})

	assert.Equal(t, []string{"-s", "name", "show", "walnut-sofa"}, args)
	assert.Empty(t, notes)
}
