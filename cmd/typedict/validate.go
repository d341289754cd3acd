package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Echo-Logic-Interactive/typedict/pkg/cli"
	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
	"github.com/Echo-Logic-Interactive/typedict/pkg/validator"
)

var validateFlags struct {
	schema     string
	data       string
	mode       string
	exhaustive bool
	format     string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a data file against a schema",
	Long: `Validate a YAML data file against a named schema.

The schema is resolved from the configured schema directories. In strict
mode, keys not declared by the schema are violations; in loose mode they
pass and missing declared fields only warn.

Examples:
  # Validate in the default mode
  typedict validate --schema RPlayer --data player.yaml

  # Strict mode, reporting every violation
  typedict validate --schema RPlayer --data player.yaml --mode strict --exhaustive

  # JSON output for CI
  typedict validate --schema RPlayer --data player.yaml --format json`,
	RunE: validateData,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.schema, "schema", "s", "", "schema name (required)")
	validateCmd.Flags().StringVarP(&validateFlags.data, "data", "d", "", "YAML data file (required)")
	validateCmd.Flags().StringVarP(&validateFlags.mode, "mode", "m", "", "validation mode: strict, loose (default from config)")
	validateCmd.Flags().BoolVar(&validateFlags.exhaustive, "exhaustive", false, "report every violation instead of the first")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")

	validateCmd.MarkFlagRequired("schema")
	validateCmd.MarkFlagRequired("data")
}

// ValidationReport is the validate command outcome for one data file.
type ValidationReport struct {
	File       string            `json:"file"`
	Schema     string            `json:"schema"`
	Mode       string            `json:"mode"`
	Valid      bool              `json:"valid"`
	Violations []diag.Diagnostic `json:"violations,omitempty"`
}

func validateData(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	modeStr := validateFlags.mode
	if modeStr == "" {
		modeStr = cfg.Validation.Mode
	}
	mode, err := validator.ParseMode(modeStr)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cfg, logger)
	if err != nil {
		return err
	}

	s, ok := reg.Resolve(validateFlags.schema)
	if !ok {
		return fmt.Errorf("schema %q is not defined (known: %v)", validateFlags.schema, reg.Names())
	}

	raw, err := os.ReadFile(validateFlags.data)
	if err != nil {
		return fmt.Errorf("failed to read data file %q: %w", validateFlags.data, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse data file %q: %w", validateFlags.data, err)
	}

	v := validator.New(validator.WithResolver(reg))

	var result validator.Result
	if validateFlags.exhaustive || cfg.Validation.Exhaustive {
		result = v.ValidateAll(data, s, mode)
	} else {
		result = v.ValidateRecord(data, s, mode)
	}

	report := ValidationReport{
		File:       validateFlags.data,
		Schema:     validateFlags.schema,
		Mode:       string(mode),
		Valid:      result.Valid,
		Violations: result.Violations,
	}

	if validateFlags.format == "json" {
		if err := outputJSON(report); err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	if !report.Valid {
		return cli.NewCommandError("validate", fmt.Errorf("data does not conform to %s", report.Schema))
	}
	return nil
}

func printReport(report ValidationReport) {
	fmt.Printf("Validating %s against %s (%s mode)...\n", report.File, report.Schema, report.Mode)

	for _, v := range report.Violations {
		marker := "✗"
		if v.Severity == diag.SeverityWarning {
			marker = "⚠"
		}
		fmt.Printf("%s [%s] %s\n", marker, v.Kind, v.Message)
		if v.Suggestion != "" {
			fmt.Printf("  %s\n", v.Suggestion)
		}
	}

	if report.Valid {
		fmt.Println("✓ Valid")
	} else {
		fmt.Println("✗ Invalid")
	}
}
