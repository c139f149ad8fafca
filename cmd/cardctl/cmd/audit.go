package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/djscruggs/cardlessid-sub002/pkg/store"
)

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().String("action", "", "Filter by action (e.g. credential.verify, auth.denied)")
	auditCmd.Flags().String("target", "", "Filter by target")
	auditCmd.Flags().Duration("since", 0, "Only entries newer than this (e.g. 24h)")
	auditCmd.Flags().Int("limit", 50, "Maximum entries to show")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := store.AuditFilter{}
		filter.Action, _ = cmd.Flags().GetString("action")
		filter.Target, _ = cmd.Flags().GetString("target")
		filter.Limit, _ = cmd.Flags().GetInt("limit")
		if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
			filter.Since = time.Now().Add(-since)
		}

		entries, err := regStore.QueryAuditEntries(filter)
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			if len(entries) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No audit entries.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tTARGET\tDECISION\tDETAILS")
		for _, e := range entries {
			var details []string
			for k, v := range e.Details {
				details = append(details, k+"="+v)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.Format(time.RFC3339), e.Action, e.Target, e.Decision,
				strings.Join(details, " "))
		}
		return w.Flush()
	},
}
