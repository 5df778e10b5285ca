package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/promptdec/decforge/internal/ir"
	"github.com/promptdec/decforge/internal/scanner"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	RegistryDir string
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the registry and report accepted definitions",
		Long: `Scan the definition registry, validate each JSON file against the
definition schema, and report the accepted decorators grouped by category.

Files that fail to parse or validate are reported as warnings; they never
abort the scan. IR-level errors (duplicate names, empty enums) exit nonzero.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RegistryDir, "registry-dir", "", "definition registry directory")

	return cmd
}

func runScan(opts *ScanOptions, cmd *cobra.Command) error {
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

	report, err := loadRegistry(formatter, opts.Logger(), cfg, registryDir)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Scanned %d file(s) in %s", report.FileCount, registryDir)

	if err := validateIR(formatter, report); err != nil {
		return err
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}
	printScanSummary(formatter, report)
	return nil
}

func printScanSummary(formatter *OutputFormatter, report *scanner.Report) {
	fmt.Fprintf(formatter.Writer, "✓ Accepted %d definition(s) from %d file(s)%s\n\n",
		report.Accepted(), report.FileCount, warningSuffix(report))

	byCategory := make(map[string][]*ir.DecoratorDefinition)
	for i := range report.Definitions {
		def := &report.Definitions[i]
		byCategory[def.Category] = append(byCategory[def.Category], def)
	}
	categories := make([]string, 0, len(byCategory))
	for name := range byCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Fprintf(formatter.Writer, "%s:\n", category)
		group := byCategory[category]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		for _, def := range group {
			fmt.Fprintf(formatter.Writer, "  %s v%s: %d parameter(s)\n",
				def.Name, def.Version, len(def.Parameters))
		}
		fmt.Fprintln(formatter.Writer)
	}

	for _, rej := range report.Rejected {
		fmt.Fprintf(formatter.Writer, "warning: %s: %s\n", rej.Path, rej.Reason)
	}
}
