package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Inspect registered schemas",
}

var schemasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schemas from the configured directories",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		for _, name := range reg.Names() {
			s, _ := reg.Resolve(name)
			fmt.Printf("%s (%d fields)\n", name, s.Len())
		}
		return nil
	},
}

var schemasShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a schema's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		s, ok := reg.Resolve(args[0])
		if !ok {
			return fmt.Errorf("schema %q is not defined (known: %v)", args[0], reg.Names())
		}

		fmt.Printf("schema %s\n", s.Name())
		for _, info := range s.Describe() {
			line := fmt.Sprintf("  %s: %s", info.Name, info.Descriptor)
			if info.Nullable {
				line += "  (nullable)"
			}
			if info.Reference != "" {
				line += fmt.Sprintf("  -> %s", info.Reference)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemasCmd)
	schemasCmd.AddCommand(schemasListCmd)
	schemasCmd.AddCommand(schemasShowCmd)
}
