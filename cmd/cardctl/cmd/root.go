// Package cmd implements the cardctl CLI commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/djscruggs/cardlessid-sub002/internal/version"
	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

var (
	// Global flags
	outputFormat string
	dbPath       string

	// Shared store instance
	regStore *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "cardctl",
	Short: "cardlessid admin CLI",
	Long: `cardctl is a command-line interface for administering the cardlessid
verification service.

It provides commands to manage integrators and their API keys, maintain the
credential issuer registry, and inspect challenges, verification sessions,
and the audit log.`,
	Version:      version.String(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store initialization for completion commands
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		// Initialize store
		path := dbPath
		if path == "" {
			path = store.DefaultPath()
		}

		var err error
		regStore, err = store.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if regStore != nil {
			regStore.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: ~/.local/share/cardlessid/cardlessid.db)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func formatOutput(data interface{}) error {
	switch outputFormat {
	case "json":
		return outputJSON(data)
	case "yaml":
		return outputYAML(data)
	default:
		// Table format is handled by each command
		return nil
	}
}

func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func outputYAML(data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
