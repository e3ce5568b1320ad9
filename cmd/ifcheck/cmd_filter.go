package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/newtron-network/ifcheck/pkg/cli"
	"github.com/newtron-network/ifcheck/pkg/filter"
	"github.com/newtron-network/ifcheck/pkg/intent"
	"github.com/newtron-network/ifcheck/pkg/report"
)

var filterExitCode bool

var filterCmd = &cobra.Command{
	Use:   "filter [<name> <interface.yaml|->]",
	Short: "Run one filter against one interface",
	Long: `Run one filter against a single desired interface.

The interface is a YAML or JSON document with the same fields as an entry
of the intent file. Use - to read it from stdin. Without arguments the
filter names are listed.

Examples:
  ifcheck filter
  ifcheck -f facts.json filter bond_check bond0.yml
  echo '{device: eth0, mtu: 9000}' | ifcheck -f facts.json filter ether_check -`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected a filter name and an interface file, got %d arguments", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range filter.Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		f, err := filter.Lookup(args[0])
		if err != nil {
			return err
		}
		data, err := readInput(cmd.InOrStdin(), args[1])
		if err != nil {
			return err
		}
		iface, err := intent.ParseInterface(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[1], err)
		}

		ctx := cmd.Context()
		snap, err := app.loadSnapshot(ctx)
		if err != nil {
			return err
		}

		runner := report.NewRunner(report.WithUser(currentUser()))
		res, err := runner.RunOne(ctx, app.hostLabel(), snap, f.Kind, iface)
		if err != nil {
			return err
		}

		if app.jsonOutput {
			if err := json.NewEncoder(out).Encode(res.Verdict()); err != nil {
				return err
			}
		} else {
			printResult(out, res)
		}

		if filterExitCode && res.Diff {
			return &exitError{code: diffExitCode}
		}
		return nil
	},
}

func init() {
	filterCmd.Flags().BoolVar(&filterExitCode, "exit-code", false, "Exit with status 2 when the interface diverges")
}

func printResult(w io.Writer, res *report.Result) {
	line := fmt.Sprintf("%s %s", cli.DotPad(res.Device, 24), cli.Status(res.Diff))
	if res.Diff {
		line += "  " + res.Reason
	}
	fmt.Fprintln(w, line)
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
