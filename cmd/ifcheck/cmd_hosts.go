package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/ifcheck/pkg/cli"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List hosts in the fact cache",
	Long: `List the hosts whose facts are in the jsonfile or redis fact cache.

Examples:
  ifcheck --fact-cache-dir /var/cache/ansible hosts
  ifcheck --redis 10.0.0.2:6379 hosts --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		src, closeSrc, err := app.openSource(ctx)
		if err != nil {
			return err
		}
		defer closeSrc()

		lister, ok := src.(hostLister)
		if !ok {
			return fmt.Errorf("a facts file holds a single host: use --fact-cache-dir or --redis")
		}
		hosts, err := lister.Hosts(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if app.jsonOutput {
			if hosts == nil {
				hosts = []string{}
			}
			return json.NewEncoder(out).Encode(hosts)
		}
		if len(hosts) == 0 {
			fmt.Fprintln(out, "No hosts in fact cache")
			return nil
		}

		t := cli.NewTableTo(out, "HOST")
		for _, h := range hosts {
			t.Row(h)
		}
		t.Flush()
		return nil
	},
}
