package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

func init() {
	rootCmd.AddCommand(issuerCmd)
	issuerCmd.AddCommand(issuerAddCmd)
	issuerCmd.AddCommand(issuerListCmd)
	issuerCmd.AddCommand(issuerRevokeCmd)
	issuerCmd.AddCommand(issuerReinstateCmd)
	issuerCmd.AddCommand(credentialRevokeCmd)

	issuerAddCmd.Flags().String("org-type", "", "Organization type (e.g. government, financial)")
	issuerAddCmd.Flags().String("jurisdiction", "", "Jurisdiction code (e.g. US-CA)")
	issuerRevokeCmd.Flags().Bool("all-prior", false, "Also invalidate credentials issued before the revocation")
}

var issuerCmd = &cobra.Command{
	Use:   "issuer",
	Short: "Manage the credential issuer registry",
	Long:  `Commands to authorize issuers, revoke or reinstate them, and revoke individual credentials.`,
}

var issuerAddCmd = &cobra.Command{
	Use:   "add <address> <name>",
	Short: "Authorize a new credential issuer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		orgType, _ := cmd.Flags().GetString("org-type")
		jurisdiction, _ := cmd.Flags().GetString("jurisdiction")

		issuer := &store.Issuer{
			Address:          args[0],
			Name:             args[1],
			OrganizationType: orgType,
			Jurisdiction:     jurisdiction,
			AuthorizedAt:     time.Now(),
		}
		if err := regStore.AddIssuer(issuer); err != nil {
			return err
		}

		fmt.Printf("Issuer %s authorized as %s\n", issuer.Name, issuer.Address)
		return nil
	},
}

var issuerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered issuers",
	RunE: func(cmd *cobra.Command, args []string) error {
		issuers, err := regStore.ListIssuers()
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			if len(issuers) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(issuers)
		}

		if len(issuers) == 0 {
			fmt.Println("No issuers registered. Use 'cardctl issuer add' to authorize one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ADDRESS\tNAME\tJURISDICTION\tAUTHORIZED\tSTATUS")
		for _, i := range issuers {
			status := okFmt("active")
			if i.RevokedAt != nil {
				if i.RevokeAllPrior {
					status = warnFmt("revoked (all prior)")
				} else {
					status = warnFmt("revoked")
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				i.Address, i.Name, i.Jurisdiction, i.AuthorizedAt.Format(time.RFC3339), status)
		}
		return w.Flush()
	},
}

var issuerRevokeCmd = &cobra.Command{
	Use:   "revoke <address>",
	Short: "Revoke an issuer's authorization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		allPrior, _ := cmd.Flags().GetBool("all-prior")
		if err := regStore.RevokeIssuer(args[0], allPrior); err != nil {
			return err
		}
		fmt.Printf("Issuer %s revoked\n", args[0])
		return nil
	},
}

var issuerReinstateCmd = &cobra.Command{
	Use:   "reinstate <address>",
	Short: "Reinstate a previously revoked issuer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := regStore.ReinstateIssuer(args[0]); err != nil {
			return err
		}
		fmt.Printf("Issuer %s reinstated\n", args[0])
		return nil
	},
}

var credentialRevokeCmd = &cobra.Command{
	Use:   "revoke-credential <credential-id> <issuer-address>",
	Short: "Revoke a single credential",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := regStore.RevokeCredential(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Credential %s revoked\n", args[0])
		return nil
	},
}
