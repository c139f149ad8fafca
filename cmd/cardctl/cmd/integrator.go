package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

var (
	okFmt   = color.New(color.FgGreen).SprintFunc()
	warnFmt = color.New(color.FgRed).SprintFunc()
)

func init() {
	rootCmd.AddCommand(integratorCmd)
	integratorCmd.AddCommand(integratorAddCmd)
	integratorCmd.AddCommand(integratorListCmd)
	integratorCmd.AddCommand(integratorRevokeCmd)
}

var integratorCmd = &cobra.Command{
	Use:   "integrator",
	Short: "Manage integrators and their API keys",
	Long:  `Commands to register integrators, list them, and revoke their API keys.`,
}

var integratorAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new integrator and mint its API key",
	Long: `Registers an integrator and prints its API key.

The key is shown exactly once; only its hash is stored. A lost key cannot be
recovered, only replaced by revoking the integrator and adding a new one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, hash, err := store.NewAPIKey()
		if err != nil {
			return err
		}

		integrator := &store.Integrator{
			ID:        "intg_" + uuid.New().String()[:8],
			Name:      args[0],
			KeyHash:   hash,
			Status:    store.IntegratorStatusActive,
			CreatedAt: time.Now(),
		}
		if err := regStore.CreateIntegrator(integrator); err != nil {
			return err
		}

		if outputFormat != "table" {
			return formatOutput(map[string]string{
				"id":     integrator.ID,
				"name":   integrator.Name,
				"apiKey": raw,
			})
		}

		fmt.Printf("Integrator %s registered as %s\n", integrator.Name, integrator.ID)
		fmt.Printf("API key (save it now, it will not be shown again):\n\n  %s\n", raw)
		return nil
	},
}

var integratorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered integrators",
	RunE: func(cmd *cobra.Command, args []string) error {
		integrators, err := regStore.ListIntegrators()
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			if len(integrators) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(integrators)
		}

		if len(integrators) == 0 {
			fmt.Println("No integrators registered. Use 'cardctl integrator add' to register one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCREATED\tLAST SEEN")
		for _, i := range integrators {
			lastSeen := "never"
			if i.LastSeen != nil {
				lastSeen = i.LastSeen.Format(time.RFC3339)
			}
			status := okFmt(i.Status)
			if i.Status != store.IntegratorStatusActive {
				status = warnFmt(i.Status)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				i.ID, i.Name, status, i.CreatedAt.Format(time.RFC3339), lastSeen)
		}
		return w.Flush()
	},
}

var integratorRevokeCmd = &cobra.Command{
	Use:   "revoke <id>",
	Short: "Revoke an integrator's API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := regStore.UpdateIntegratorStatus(args[0], store.IntegratorStatusRevoked); err != nil {
			return err
		}
		fmt.Printf("Integrator %s revoked\n", args[0])
		return nil
	},
}
