package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Echo-Logic-Interactive/typedict/pkg/export"
	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

var exportFlags struct {
	format string
	output string
}

var exportCmd = &cobra.Command{
	Use:   "export [schema names...]",
	Short: "Export schemas as JSON or TypeScript",
	Long: `Export schemas from the configured directories into an external format.

With no arguments every schema is exported; naming schemas restricts the
output to those.

Examples:
  # All schemas as a JSON document
  typedict export --format json

  # TypeScript declarations for two schemas
  typedict export --format typescript RPlayer RItem -o types.ts`,
	RunE: exportSchemas,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.format, "format", "json", "output format: json, typescript")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file (default stdout)")
}

func exportSchemas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg, logger)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = reg.Names()
	}

	schemas := make([]*schema.Schema, 0, len(names))
	for _, name := range names {
		s, ok := reg.Resolve(name)
		if !ok {
			return fmt.Errorf("schema %q is not defined (known: %v)", name, reg.Names())
		}
		schemas = append(schemas, s)
	}

	var out []byte
	switch exportFlags.format {
	case "json":
		out, err = export.JSON(schemas...)
	case "typescript", "ts":
		out, err = export.TypeScript(schemas...)
	default:
		return fmt.Errorf("unknown export format %q (want json or typescript)", exportFlags.format)
	}
	if err != nil {
		return err
	}

	if exportFlags.output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(exportFlags.output, out, 0o644)
}
