package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

func init() {
	rootCmd.AddCommand(challengeCmd)
	challengeCmd.AddCommand(challengeCreateCmd)
	challengeCmd.AddCommand(challengeListCmd)
	challengeCmd.AddCommand(challengeApproveCmd)
	challengeCmd.AddCommand(challengeRejectCmd)

	challengeCreateCmd.Flags().Int("min-age", 18, "Minimum age the wallet must prove")
	challengeCreateCmd.Flags().Duration("ttl", 15*time.Minute, "How long the challenge stays answerable")
	challengeApproveCmd.Flags().String("wallet", "", "Wallet address that answered the challenge")
}

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Inspect and drive age-verification challenges",
	Long: `Commands to create challenges on behalf of an integrator, list them, and
record wallet responses. The HTTP API only reads challenges; state
transitions happen here or through the wallet flow.`,
}

var challengeCreateCmd = &cobra.Command{
	Use:   "create <integrator-id>",
	Short: "Create a pending challenge for an integrator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		integrator, err := regStore.GetIntegrator(args[0])
		if err != nil {
			return err
		}
		if integrator == nil {
			return fmt.Errorf("integrator %s not found", args[0])
		}

		minAge, _ := cmd.Flags().GetInt("min-age")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		now := time.Now()
		ch := &store.Challenge{
			ID:           "chal_" + uuid.New().String()[:8],
			IntegratorID: integrator.ID,
			MinAge:       minAge,
			Status:       store.ChallengeStatusPending,
			CreatedAt:    now,
			ExpiresAt:    now.Add(ttl),
		}
		if err := regStore.CreateChallenge(ch); err != nil {
			return err
		}

		fmt.Printf("Challenge %s created for %s (min age %d, expires %s)\n",
			ch.ID, integrator.Name, ch.MinAge, ch.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

var challengeListCmd = &cobra.Command{
	Use:   "list <integrator-id>",
	Short: "List an integrator's challenges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		challenges, err := regStore.ListChallengesByIntegrator(args[0])
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			if len(challenges) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(challenges)
		}

		if len(challenges) == 0 {
			fmt.Println("No challenges for this integrator.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMIN AGE\tSTATUS\tWALLET\tEXPIRES")
		for _, ch := range challenges {
			status := ch.Status
			if status == store.ChallengeStatusApproved {
				status = okFmt(status)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				ch.ID, ch.MinAge, status, ch.WalletAddress, ch.ExpiresAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var challengeApproveCmd = &cobra.Command{
	Use:   "approve <challenge-id>",
	Short: "Record an approving wallet response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if wallet, _ := cmd.Flags().GetString("wallet"); wallet != "" {
			if err := regStore.SetChallengeWallet(args[0], wallet); err != nil {
				return err
			}
		}
		if err := regStore.UpdateChallengeStatus(args[0], store.ChallengeStatusApproved); err != nil {
			return err
		}
		fmt.Printf("Challenge %s approved\n", args[0])
		return nil
	},
}

var challengeRejectCmd = &cobra.Command{
	Use:   "reject <challenge-id>",
	Short: "Record a rejecting wallet response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := regStore.UpdateChallengeStatus(args[0], store.ChallengeStatusRejected); err != nil {
			return err
		}
		fmt.Printf("Challenge %s rejected\n", args[0])
		return nil
	},
}
