package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/newtron-network/ifcheck/pkg/filter"
)

var renderData string

var renderCmd = &cobra.Command{
	Use:   "render <template|->",
	Short: "Render a text/template with the filters bound to the host's facts",
	Long: `Render a Go text/template with ether_check, bridge_check and bond_check
available as functions bound to the host's facts.

Template data is read from --data (YAML or JSON), or from the intent file
when --data is not given.

Examples:
  ifcheck -f facts.json -I intent.yml render report.tmpl
  ifcheck -f facts.json render --data vars.yml motd.tmpl

A template listing diverging Ethernet interfaces:
  {{ range .ether_interfaces }}{{ with ether_check . }}{{ if .Diff }}{{ .Reason }}
  {{ end }}{{ end }}{{ end }}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		dataPath := renderData
		if dataPath == "" {
			dataPath = app.intentFile
		}
		var data map[string]any
		if dataPath != "" {
			raw, err := readInput(cmd.InOrStdin(), dataPath)
			if err != nil {
				return err
			}
			if err := yaml.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("parsing template data %s: %w", dataPath, err)
			}
		}

		snap, err := app.loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}

		return filter.Render(cmd.OutOrStdout(), filepath.Base(args[0]), string(text), snap, data)
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderData, "data", "", "Template data file, YAML or JSON (default: the intent file)")
}
