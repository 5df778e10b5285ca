package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptdec/decforge/internal/codegen"
	"github.com/promptdec/decforge/internal/compiler"
	"github.com/promptdec/decforge/internal/emit"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	RegistryDir string
	OutputDir   string
	Check       bool
}

// generateSummary is the JSON payload on success.
type generateSummary struct {
	Definitions int      `json:"definitions"`
	Files       int      `json:"files"`
	OutputDir   string   `json:"output_dir"`
	Rejected    int      `json:"rejected,omitempty"`
	Changed     []string `json:"changed,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate decorator classes from the registry",
		Long: `Scan the definition registry, validate the IR, and write the generated
decorator package: one class module per decorator, the shared enum module
and the package index.

With --check nothing is written; the command exits 1 if the existing
output tree differs from what would be generated.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RegistryDir, "registry-dir", "", "definition registry directory")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "generated package directory")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "verify the output tree is up to date without writing")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}
	registryDir := resolve(opts.RegistryDir, cfg.RegistryDir, DefaultRegistryDir)
	outputDir := resolve(opts.OutputDir, cfg.OutputDir, DefaultOutputDir)

	report, err := loadRegistry(formatter, opts.Logger(), cfg, registryDir)
	if err != nil {
		return err
	}
	if err := validateIR(formatter, report); err != nil {
		return err
	}

	enums := compiler.CollectEnums(report.Definitions)
	generator, err := codegen.New(codegen.Config{RuntimeImport: cfg.RuntimeImport})
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	files, err := generator.GenerateAll(report.Definitions, enums)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	plan := emit.NewPlan()
	if err := plan.AddAll(files); err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if opts.Check {
		return runCheck(formatter, plan, report.Accepted(), outputDir)
	}

	written, err := plan.Flush(outputDir)
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	summary := generateSummary{
		Definitions: report.Accepted(),
		Files:       written,
		OutputDir:   outputDir,
		Rejected:    len(report.Rejected),
	}
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Generated %d file(s) for %d decorator(s) in %s%s\n",
		written, report.Accepted(), outputDir, warningSuffix(report))
	return nil
}

// runCheck compares the staged plan against the existing output tree and
// fails on any drift.
func runCheck(formatter *OutputFormatter, plan *emit.Plan, definitions int, outputDir string) error {
	changed, err := plan.Diff(outputDir)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}
	if len(changed) > 0 {
		if formatter.Format == "json" {
			_ = formatter.Error(ErrCodeDrift,
				fmt.Sprintf("%d file(s) out of date in %s", len(changed), outputDir), changed)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %d file(s) out of date in %s:\n", len(changed), outputDir)
			for _, path := range changed {
				fmt.Fprintf(formatter.Writer, "  %s\n", path)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) out of date", len(changed)))
	}

	if formatter.Format == "json" {
		return formatter.Success(generateSummary{
			Definitions: definitions,
			Files:       plan.Len(),
			OutputDir:   outputDir,
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is up to date (%d file(s))\n", outputDir, plan.Len())
	return nil
}
