package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ormasoftchile/ngslint/pkg/config"
	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
	"github.com/ormasoftchile/ngslint/pkg/logging"
	"github.com/ormasoftchile/ngslint/pkg/manifest"
	"github.com/ormasoftchile/ngslint/pkg/render"
	"github.com/ormasoftchile/ngslint/pkg/session"
	"github.com/ormasoftchile/ngslint/pkg/suggest"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ngslint",
	Short: "Linter for NGSchema onboarding packages",
	Long:  "ngslint — validates NGSchema manifests, transform manifests, KQL transforms and sample data for Log Analytics table onboarding.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetVerbose()
		} else {
			logging.Initialize(logging.DefaultConfig())
		}
	},
}

var verbose bool

// --- validate ---

var (
	validateJSON   bool
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Validate files or an onboarding package directory",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFor(args)
	if err != nil {
		return err
	}

	run, err := session.New(cfg).Run(args)
	if err != nil {
		return err
	}
	defer logging.Sync()

	if validateJSON {
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(render.Report(run))
	}

	if run.Failed(validateStrict) {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("validation failed")
	}
	return nil
}

// loadConfigFor loads the workspace config next to the first directory
// argument, falling back to the current directory for file arguments.
func loadConfigFor(args []string) (*config.Config, error) {
	for _, a := range args {
		if info, err := os.Stat(a); err == nil && info.IsDir() {
			return config.Load(a)
		}
	}
	return config.Load(".")
}

// --- fix ---

var (
	fixWrite bool
	fixYes   bool
)

var fixCmd = &cobra.Command{
	Use:   "fix <file>",
	Short: "Show suggested fixes for a file, optionally applying them",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		return err
	}
	res := session.New(cfg).ValidateBytes(filepath.Base(path), data)

	all := append(append([]*diagnostic.Diagnostic{}, res.Diagnostics...), res.Warnings...)
	lines := strings.Split(string(data), "\n")
	applied := 0
	proposed := 0

	var rl *readline.Instance
	if fixWrite && !fixYes {
		rl, err = readline.New("apply? [y/N] ")
		if err != nil {
			return fmt.Errorf("init readline: %w", err)
		}
		defer rl.Close()
	}

	for _, d := range all {
		if d.Location == nil {
			continue
		}
		idx := d.Location.LineNumber - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		fixed, ok := suggest.SuggestLine(lines[idx], d)
		if !ok {
			continue
		}
		proposed++
		fmt.Printf("%s:%d  %s\n", path, d.Location.LineNumber, d.Message)
		fmt.Printf("  - %s\n", strings.TrimSpace(lines[idx]))
		fmt.Printf("  + %s\n", strings.TrimSpace(fixed))

		if !fixWrite {
			continue
		}
		if !fixYes {
			answer, err := rl.Readline()
			if err != nil {
				return nil
			}
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				continue
			}
		}
		lines[idx] = fixed
		applied++
	}

	if proposed == 0 {
		fmt.Println("no fixable diagnostics")
		return nil
	}
	if fixWrite && applied > 0 {
		if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("applied %d fix(es) to %s\n", applied, path)
	}
	return nil
}

// --- rules ---

var rulesCmd = &cobra.Command{
	Use:   "rules [kind]",
	Short: "Explain diagnostic kinds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := ""
		if len(args) == 1 {
			kind = args[0]
		}
		doc, err := render.RulesDoc(kind)
		if err != nil {
			return err
		}
		fmt.Print(render.Markdown(doc))
		return nil
	},
}

// --- schema export ---

var schemaType string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema operations",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export JSON Schema to stdout",
	RunE:  runSchemaExport,
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	switch schemaType {
	case "manifest":
		data, err = manifest.GenerateJSONSchema()
	case "transform":
		data, err = manifest.GenerateTransformJSONSchema()
	case "config":
		data, err = config.GenerateJSONSchema()
	default:
		return fmt.Errorf("unknown schema type %q (use manifest, transform or config)", schemaType)
	}
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ngslint %s (build: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output results as structured JSON")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as failures")

	fixCmd.Flags().BoolVar(&fixWrite, "write", false, "Apply accepted fixes to the file")
	fixCmd.Flags().BoolVar(&fixYes, "yes", false, "Apply all fixes without confirmation")

	schemaExportCmd.Flags().StringVar(&schemaType, "type", "manifest", "Schema type: manifest, transform or config")
	schemaCmd.AddCommand(schemaExportCmd)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}
