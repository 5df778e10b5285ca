package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/scanner"
)

// loadRegistry scans the registry directory, turning scan-level failures
// (missing directory, no definition files) into command errors. Per-file
// rejections stay inside the report as warnings.
func loadRegistry(formatter *OutputFormatter, logger *log.Logger, cfg *Config, registryDir string) (*scanner.Report, error) {
	s, err := scanner.New(scanner.Options{
		Exclude: cfg.Exclude,
		Logger:  logger,
	})
	if err != nil {
		return nil, scanFailure(formatter, err)
	}

	report, err := s.Scan(registryDir)
	if err != nil {
		return nil, scanFailure(formatter, err)
	}
	return report, nil
}

func scanFailure(formatter *OutputFormatter, err error) error {
	var scanErr *scanner.ScanError
	if errors.As(err, &scanErr) {
		_ = formatter.Error(scanErr.Code, scanErr.Message, nil)
		return WrapExitError(ExitCommandError, scanErr.Error(), nil)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), nil)
}

// validateIR runs the hard-tier checks. Any violation prints every
// collected error and aborts the run with exit code 1, so no partial
// output is ever written.
func validateIR(formatter *OutputFormatter, report *scanner.Report) error {
	issues := compiler.Validate(report.Definitions)
	if len(issues) == 0 {
		return nil
	}

	if formatter.Format == "json" {
		_ = formatter.Error(issues[0].Code,
			fmt.Sprintf("validation failed with %d error(s)", len(issues)), issues)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range issues {
		fmt.Fprintf(formatter.Writer, "  %s [%s] %s: %s\n",
			issue.Code, issue.Decorator, issue.Field, issue.Message)
	}
	fmt.Fprintln(formatter.Writer)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}

// warningSuffix renders the trailing warning count for text summaries.
func warningSuffix(report *scanner.Report) string {
	if len(report.Rejected) == 0 {
		return ""
	}
	return fmt.Sprintf(", %d file(s) rejected", len(report.Rejected))
}
