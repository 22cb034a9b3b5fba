package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/swilhoit/sunbeam/internal/api"
)

const (
	// ExitSuccess is returned when the command succeeds.
	ExitSuccess = 0
	// ExitNotFound is returned when the requested products or snapshot are not available.
	ExitNotFound = 1
	// ExitInvalidArgs is returned when the command input is invalid.
	ExitInvalidArgs = 2
	// ExitUpstream is returned when an external dependency fails.
	ExitUpstream = 3
	// ExitInternal is returned for unexpected internal failures.
	ExitInternal = 4
)

type cliError struct {
	Code        string
	Message     string
	Suggestions []string
	ExitCode    int
	cause       error
}

func (e *cliError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *cliError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func invalidArgsError(message string, suggestions ...string) error {
	return &cliError{
		Code:        "INVALID_ARGS",
		Message:     message,
		Suggestions: suggestions,
		ExitCode:    ExitInvalidArgs,
	}
}

func notFoundError(message string, suggestions ...string) error {
	return &cliError{
		Code:        "NOT_FOUND",
		Message:     message,
		Suggestions: suggestions,
		ExitCode:    ExitNotFound,
	}
}

func upstreamError(action string, err error) error {
	return &cliError{
		Code:        "UPSTREAM_ERROR",
		Message:     fmt.Sprintf("%s: %v", action, err),
		Suggestions: []string{"Retry in a moment."},
		ExitCode:    ExitUpstream,
		cause:       err,
	}
}

func internalError(action string, err error) error {
	return &cliError{
		Code:     "INTERNAL_ERROR",
		Message:  fmt.Sprintf("%s: %v", action, err),
		ExitCode: ExitInternal,
		cause:    err,
	}
}

func missingSnapshotError(path string) error {
	return notFoundError(
		fmt.Sprintf("no catalog snapshot at %s", path),
		"sunbeam fetch && sunbeam enrich",
		"sunbeam products --snapshot path/to/products.json",
	)
}

type jsonErrorPayload struct {
	Error jsonErrorBody `json:"error"`
}

type jsonErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	ExitCode    int      `json:"exitCode"`
}

func printCLIErrorJSON(w io.Writer, err *cliError) error {
	if err == nil {
		return nil
	}
	payload := jsonErrorPayload{
		Error: jsonErrorBody{
			Code:        err.Code,
			Message:     err.Message,
			Suggestions: err.Suggestions,
			ExitCode:    err.ExitCode,
		},
	}
	return json.NewEncoder(w).Encode(payload)
}

func formatCLIErrorText(err *cliError) string {
	if err == nil {
		return ""
	}

	lines := []string{
		fmt.Sprintf("error[%s]: %s", strings.ToLower(err.Code), err.Message),
	}
	if len(err.Suggestions) > 0 {
		lines = append(lines, "suggestions:")
		for _, suggestion := range err.Suggestions {
			lines = append(lines, "  "+suggestion)
		}
	}
	return strings.Join(lines, "\n")
}

func classifyCLIError(err error) *cliError {
	if err == nil {
		return nil
	}

	var typed *cliError
	if errors.As(err, &typed) {
		return typed
	}

	msg := strings.TrimSpace(err.Error())
	if classified := classifyByCause(err, msg); classified != nil {
		return classified
	}
	if classified := classifyUsageError(msg); classified != nil {
		return classified
	}
	return &cliError{
		Code:        "INTERNAL_ERROR",
		Message:     msg,
		Suggestions: []string{"Run `sunbeam --help` for usage details."},
		ExitCode:    ExitInternal,
		cause:       err,
	}
}

// classifyByCause maps errors that reach the top without a cliError wrapper.
func classifyByCause(err error, msg string) *cliError {
	var pageErr *api.PageError
	switch {
	case errors.As(err, &pageErr), errors.Is(err, context.DeadlineExceeded):
		return &cliError{
			Code:        "UPSTREAM_ERROR",
			Message:     msg,
			Suggestions: []string{"Retry in a moment."},
			ExitCode:    ExitUpstream,
			cause:       err,
		}
	case errors.Is(err, os.ErrNotExist):
		return &cliError{
			Code:     "NOT_FOUND",
			Message:  msg,
			ExitCode: ExitNotFound,
			cause:    err,
		}
	}
	return nil
}

// classifyUsageError recognizes cobra's argument errors, which are plain
// strings.
func classifyUsageError(msg string) *cliError {
	usage := func(suggestions ...string) *cliError {
		return &cliError{
			Code:        "INVALID_ARGS",
			Message:     msg,
			Suggestions: suggestions,
			ExitCode:    ExitInvalidArgs,
		}
	}

	switch {
	case strings.Contains(msg, "unknown command"):
		suggestions := []string{
			"sunbeam products --category sofas",
			"sunbeam search walnut",
		}
		if bad := extractUnknownValue(msg, "unknown command"); bad != "" {
			if suggestion, ok := closestMatch(strings.ToLower(bad), vocabulary().commands, 2); ok {
				suggestions = append([]string{fmt.Sprintf("Did you mean `%s`?", suggestion)}, suggestions...)
			}
		}
		return usage(suggestions...)
	case strings.Contains(msg, "unknown flag"), strings.Contains(msg, "unknown shorthand flag"):
		suggestions := []string{
			"sunbeam products --room \"Living Room\" --sort price-low",
			"sunbeam products --category chairs --max-price 500",
		}
		if bad := extractUnknownValue(msg, "unknown flag"); bad != "" {
			if suggestion, ok := resolveFlagName(strings.TrimLeft(bad, "-")); ok {
				suggestions = append([]string{fmt.Sprintf("Try `--%s`.", suggestion)}, suggestions...)
			}
		}
		return usage(suggestions...)
	case strings.Contains(msg, "flag needs an argument"),
		strings.Contains(msg, "invalid argument"),
		strings.Contains(msg, "accepts "),
		strings.Contains(msg, "requires at least"),
		strings.Contains(msg, "required flag(s)"):
		return usage("sunbeam show HANDLE", "sunbeam search QUERY")
	}
	return nil
}

func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func hasJSONPreference(args []string) bool {
	for _, arg := range args {
		if arg == "--json" || strings.HasPrefix(arg, "--json=") {
			return true
		}
	}
	return false
}

func hasHelpRequest(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func shouldAutoJSON(args []string, stdoutIsTTY bool) bool {
	if stdoutIsTTY || len(args) == 0 {
		return false
	}
	if hasJSONPreference(args) || hasHelpRequest(args) {
		return false
	}
	switch firstCommand(args) {
	case "completion", "help":
		return false
	default:
		return true
	}
}

func firstCommand(args []string) string {
	v := vocabulary()
	expectingValue := false
	for _, arg := range args {
		if expectingValue {
			expectingValue = false
			continue
		}
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
		if long, ok := strings.CutPrefix(arg, "--"); ok {
			name, rest := splitFlag(long)
			expectingValue = v.flags[name] && rest == ""
		} else if len(arg) == 2 {
			expectingValue = v.shorthands[arg[1]]
		}
	}
	return ""
}

type quickStartJSON struct {
	Name     string   `json:"name"`
	Usage    string   `json:"usage"`
	Examples []string `json:"examples"`
}

func printQuickStart(w io.Writer, asJSON bool) error {
	help := quickStartJSON{
		Name:  "sunbeam",
		Usage: "sunbeam [products|show|search|facets|fetch|enrich|serve|tui] [flags]",
		Examples: []string{
			"sunbeam products --category sofas --sort price-low --limit 10",
			"sunbeam show mid-century-walnut-credenza",
			"sunbeam fetch && sunbeam enrich",
		},
	}

	if asJSON {
		return json.NewEncoder(w).Encode(help)
	}

	_, err := fmt.Fprintf(
		w,
		"%s\nusage: %s\nexamples:\n  %s\n  %s\n  %s\nflags: --category --room --style --width --depth --height --min-price --max-price --query --sort --limit --json\n",
		help.Name,
		help.Usage,
		help.Examples[0],
		help.Examples[1],
		help.Examples[2],
	)
	return err
}
