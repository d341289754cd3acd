package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Echo-Logic-Interactive/typedict/pkg/cli"
	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
	"github.com/Echo-Logic-Interactive/typedict/pkg/registry"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate schema definition files",
	Long: `Validate schema definition files for syntax and descriptor errors.

The lint command parses schema files and reports every problem with its
source location:
  - YAML syntax errors
  - Missing or empty schema blocks
  - Malformed type descriptors
  - Duplicate field declarations

Examples:
  # Lint a single file
  typedict lint --file schemas.yaml

  # Lint a directory
  typedict lint --dir schemas/

  # JSON output for CI
  typedict lint --dir schemas/ --format json`,
	RunE: lintSchemas,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "schema file to lint")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of schema files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the lint outcome for a single schema file.
type LintResult struct {
	File     string            `json:"file"`
	Valid    bool              `json:"valid"`
	Schemas  []string          `json:"schemas,omitempty"`
	Problems []diag.Diagnostic `json:"problems,omitempty"`
}

func lintSchemas(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list schema files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no schema files found")
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintFile(file))
	}

	if lintFlags.format == "json" {
		return outputJSON(results)
	}
	return outputText(results)
}

func lintFile(path string) LintResult {
	result := LintResult{File: path, Valid: true}

	parsed, err := registry.ParseFile(path)
	if err != nil {
		result.Valid = false
		d := diag.New(diag.KindSyntax, diag.SeverityError, err.Error())
		result.Problems = append(result.Problems, d)
		return result
	}

	for _, s := range parsed.Schemas {
		result.Schemas = append(result.Schemas, s.Name())
	}
	result.Problems = parsed.Diagnostics.Diagnostics
	result.Valid = !parsed.Diagnostics.HasErrors()
	return result
}

func outputText(results []LintResult) error {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Printf("Linting %s...\n", result.File)

		if len(result.Problems) == 0 {
			fmt.Printf("✓ %d schema(s) valid\n", len(result.Schemas))
		}

		for _, p := range result.Problems {
			marker := "✗ Error"
			if p.Severity == diag.SeverityWarning {
				marker = "⚠  Warning"
				totalWarnings++
			} else {
				totalErrors++
			}

			fmt.Printf("%s: %s", marker, p.Message)
			if p.Location.Line > 0 {
				fmt.Printf(" (line %d", p.Location.Line)
				if p.Location.Column > 0 {
					fmt.Printf(", col %d", p.Location.Column)
				}
				fmt.Print(")")
			}
			fmt.Printf(" [%s]\n", p.Kind)
		}

		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d error(s), %d warning(s)\n", totalErrors, totalWarnings)

	if totalErrors > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("schema validation failed"))
	}
	return nil
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
