package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/ifcheck/pkg/audit"
	"github.com/newtron-network/ifcheck/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View the check audit log",
	Long: `View the audit log of interface checks.

Every check is logged with:
  - Timestamp and user
  - Host, filter and device
  - Verdict and reason
  - Fingerprint of the desired state

Examples:
  ifcheck -H compute-01 audit list
  ifcheck audit list --last 24h --diffs
  ifcheck audit list --filter bond_check --device bond0`,
}

var (
	auditDevice string
	auditUser   string
	auditFilter string
	auditLast   string
	auditLimit  int
	auditDiffs  bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Host:     app.host,
			Device:   auditDevice,
			User:     auditUser,
			Check:    auditFilter,
			Limit:    auditLimit,
			DiffOnly: auditDiffs,
		}

		// Parse --last duration
		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := audit.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		out := cmd.OutOrStdout()
		if app.jsonOutput {
			if events == nil {
				events = []*audit.Event{}
			}
			return json.NewEncoder(out).Encode(events)
		}

		if len(events) == 0 {
			fmt.Fprintln(out, "No audit events found")
			return nil
		}

		t := cli.NewTableTo(out, "TIMESTAMP", "USER", "HOST", "FILTER", "DEVICE", "STATUS", "REASON")
		for _, event := range events {
			t.Row(
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.User,
				event.Host,
				event.Filter,
				event.Device,
				cli.Status(event.Diff),
				event.Reason,
			)
		}
		t.Flush()

		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditDevice, "device", "", "Filter by device")
	auditListCmd.Flags().StringVar(&auditUser, "user", "", "Filter by user")
	auditListCmd.Flags().StringVar(&auditFilter, "filter", "", "Filter by filter name (e.g., bond_check)")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h, 90m)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditListCmd.Flags().BoolVar(&auditDiffs, "diffs", false, "Show only diverging checks")

	auditCmd.AddCommand(auditListCmd)
}
