package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptdec/decforge/internal/emit"
	"github.com/promptdec/decforge/internal/testgen"
)

// TestsOptions holds flags for the tests command.
type TestsOptions struct {
	*RootOptions
	RegistryDir string
	TestsDir    string
	Check       bool
}

// NewTestsCommand creates the tests command.
func NewTestsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tests",
		Short: "Generate the pytest suite from the registry",
		Long: `Scan the definition registry, validate the IR, and write the generated
test suite: one pytest module per decorator plus the shared fixture and
conftest modules.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RegistryDir, "registry-dir", "", "definition registry directory")
	cmd.Flags().StringVar(&opts.TestsDir, "tests-dir", "", "generated test suite directory")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "verify the test tree is up to date without writing")

	return cmd
}

func runTests(opts *TestsOptions, cmd *cobra.Command) error {
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
	testsDir := resolve(opts.TestsDir, cfg.TestsDir, DefaultTestsDir)

	report, err := loadRegistry(formatter, opts.Logger(), cfg, registryDir)
	if err != nil {
		return err
	}
	if err := validateIR(formatter, report); err != nil {
		return err
	}

	generator, err := testgen.New(testgen.Config{
		PackageImport: cfg.PackageImport,
		RuntimeImport: cfg.RuntimeImport,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	files, err := generator.GenerateAll(report.Definitions)
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
		return runCheck(formatter, plan, report.Accepted(), testsDir)
	}

	written, err := plan.Flush(testsDir)
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	summary := generateSummary{
		Definitions: report.Accepted(),
		Files:       written,
		OutputDir:   testsDir,
		Rejected:    len(report.Rejected),
	}
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Generated %d test file(s) for %d decorator(s) in %s%s\n",
		written, report.Accepted(), testsDir, warningSuffix(report))
	return nil
}
