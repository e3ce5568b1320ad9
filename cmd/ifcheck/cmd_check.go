package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/newtron-network/ifcheck/pkg/cli"
	"github.com/newtron-network/ifcheck/pkg/metrics"
	"github.com/newtron-network/ifcheck/pkg/report"
	"github.com/newtron-network/ifcheck/pkg/util"
)

// diffExitCode is returned by --exit-code when any interface diverges.
const diffExitCode = 2

var (
	checkExitCode    bool
	checkMetricsFile string
	checkAllHosts    bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every interface of the intent file",
	Long: `Check every interface of the intent file against the host's facts.

Ethernet interfaces are checked first, then bridges, then bonds. Each check
is recorded in the audit log.

Examples:
  ifcheck -f facts.json -I intent.yml check
  ifcheck -H compute-01 --redis 10.0.0.2:6379 -I intent.yml check --exit-code
  ifcheck --fact-cache-dir /var/cache/ansible -I intent.yml check --all-hosts
  ifcheck -H compute-01,compute-02 --redis 10.0.0.2:6379 -I intent.yml check
  ifcheck -H compute-01 --redis 10.0.0.2:6379 -I intent.yml check \
      --metrics-textfile /var/lib/node_exporter/ifcheck.prom`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		file, err := app.loadIntent()
		if err != nil {
			return err
		}

		src, closeSrc, err := app.openSource(ctx)
		if err != nil {
			return err
		}
		defer closeSrc()

		collector := metrics.NewCollector()
		runner := report.NewRunner(
			report.WithWorkers(app.workers),
			report.WithMetrics(collector),
			report.WithUser(currentUser()),
		)

		var reports []*report.Report
		if checkAllHosts {
			lister, ok := src.(hostLister)
			if !ok {
				return fmt.Errorf("--all-hosts needs a fact cache: use --fact-cache-dir or --redis")
			}
			hosts, err := lister.Hosts(ctx)
			if err != nil {
				return err
			}
			reports, err = runner.RunHosts(ctx, src, hosts, file)
			if err != nil {
				return err
			}
		} else if hosts := util.SplitCommaSeparated(app.host); len(hosts) > 1 {
			reports, err = runner.RunHosts(ctx, src, hosts, file)
			if err != nil {
				return err
			}
		} else {
			snap, err := src.Load(ctx, app.host)
			if err != nil {
				return err
			}
			rep, err := runner.Run(ctx, app.hostLabel(), snap, file)
			if err != nil {
				return err
			}
			reports = []*report.Report{rep}
		}

		if checkMetricsFile != "" {
			if err := collector.WriteTextfile(checkMetricsFile); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if app.jsonOutput {
			if err := writeReportsJSON(out, reports, checkAllHosts); err != nil {
				return err
			}
		} else {
			printReports(out, reports)
		}

		if checkExitCode && anyDiff(reports) {
			return &exitError{code: diffExitCode}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkExitCode, "exit-code", false, "Exit with status 2 when any interface diverges")
	checkCmd.Flags().StringVar(&checkMetricsFile, "metrics-textfile", "", "Write Prometheus metrics to this file")
	checkCmd.Flags().BoolVar(&checkAllHosts, "all-hosts", false, "Check every host in the fact cache")
}

// writeReportsJSON writes a single report as an object, several as a list.
func writeReportsJSON(w io.Writer, reports []*report.Report, list bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if !list && len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

func printReports(w io.Writer, reports []*report.Report) {
	for i, rep := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, cli.Bold(rep.Host))

		t := cli.NewTableTo(w, "DEVICE", "FILTER", "STATUS", "REASON")
		for _, res := range rep.Results {
			t.Row(res.Device, res.Filter, cli.Status(res.Diff), res.Reason)
		}
		t.Flush()

		summary := rep.Summary()
		if rep.Diff {
			summary = cli.Yellow(summary)
		}
		fmt.Fprintln(w, "\n"+summary)
	}
}

func anyDiff(reports []*report.Report) bool {
	for _, rep := range reports {
		if rep.Diff {
			return true
		}
	}
	return false
}
