package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kuberocketai/contenthub/internal/domain/category"
	"github.com/kuberocketai/contenthub/internal/domain/content"
)

// ErrValidationFailed is returned when any collection has category errors.
var ErrValidationFailed = errors.New("validation failed")

func newValidateCmd(gf *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "validate [tab...]",
		Short: "Check collection categories and metadata",
		Long:  "Loads the given collections (all by default) and prints the category validation report.\nExits non-zero when any collection fails to load or has errors.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			types, err := parseTypes(args)
			if err != nil {
				return err
			}
			return runValidate(cmd, gf, types, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text or json")
	return cmd
}

type validateOutput struct {
	Tab       string   `json:"tab"`
	Valid     bool     `json:"valid"`
	LoadError string   `json:"loadError,omitempty"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
	Infos     []string `json:"infos"`
}

func runValidate(cmd *cobra.Command, gf *globalFlags, types []content.Type, format string) error {
	cfg, err := gf.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := gf.cliLogger()
	if err != nil {
		return err
	}

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	_ = a.load(cmd.Context())

	results := make([]validateOutput, 0, len(types))
	failed := false
	for _, t := range types {
		res := validateOutput{Tab: string(t)}
		report, err := a.hub.Validate(t)
		if err != nil {
			res.LoadError = err.Error()
			failed = true
		} else {
			res.Valid = report.Valid()
			res.Errors, res.Warnings, res.Infos = report.Errors, report.Warnings, report.Infos
			failed = failed || !report.Valid()
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			printReport(out, r)
		}
	}

	if failed {
		return ErrValidationFailed
	}
	return nil
}

func printReport(w io.Writer, r validateOutput) {
	switch {
	case r.LoadError != "":
		writeLine(w, "%s: FAILED (%s)", r.Tab, r.LoadError)
		return
	case r.Valid:
		writeLine(w, "%s: OK", r.Tab)
	default:
		writeLine(w, "%s: INVALID", r.Tab)
	}
	for _, m := range r.Errors {
		writeLine(w, "  %s: %s", category.SeverityError, m)
	}
	for _, m := range r.Warnings {
		writeLine(w, "  %s: %s", category.SeverityWarning, m)
	}
	for _, m := range r.Infos {
		writeLine(w, "  %s: %s", category.SeverityInfo, m)
	}
}

func parseTypes(args []string) ([]content.Type, error) {
	if len(args) == 0 {
		return content.Types(), nil
	}
	out := make([]content.Type, 0, len(args))
	for _, a := range args {
		t, err := content.ParseType(a)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
