// Ifcheck - interface state checker for Ansible-managed Linux hosts
//
// Compares the desired configuration of Ethernet, bridge and bond interfaces
// against the facts Ansible gathered from a host and reports every
// divergence. Facts come from a setup output file, the Ansible jsonfile fact
// cache, or the Ansible redis fact cache (optionally reached through an SSH
// tunnel to the control host).
//
// Examples:
//
//	ifcheck -f facts.json -I intent.yml check
//	ifcheck -H compute-01 --redis 10.0.0.2:6379 -I intent.yml check --exit-code
//	ifcheck -H compute-01 --ssh-host control-01 check --all-hosts --json
//	ifcheck -f facts.json filter bond_check bond0.yml
//	ifcheck -f facts.json -I intent.yml render report.tmpl
//	ifcheck --fact-cache-dir /var/cache/ansible hosts
package main

import (
	"errors"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/newtron-network/ifcheck/pkg/audit"
	"github.com/newtron-network/ifcheck/pkg/settings"
	"github.com/newtron-network/ifcheck/pkg/util"
	"github.com/newtron-network/ifcheck/pkg/version"
)

// appState holds global flag values and the loaded settings.
type appState struct {
	// Fact source selection
	host            string
	factsFile       string
	factCacheDir    string
	factCachePrefix string
	redisAddr       string
	redisPrefix     string
	redisDB         int
	sshHost         string
	sshUser         string

	intentFile string
	workers    int

	verbose    bool
	logJSON    bool
	jsonOutput bool

	settings *settings.Settings
}

var app = &appState{}

// settingsPath locates the settings file; tests point it elsewhere.
var settingsPath = settings.DefaultSettingsPath

// exitError ends the process with a specific status without printing.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "ifcheck",
	Short:             "Interface state checker",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Ifcheck compares desired interface configuration against Ansible facts.

Source flags select where facts come from; the intent file describes the
desired Ethernet, bridge and bond interfaces.

  ifcheck [-H <host>] (-f <facts> | --fact-cache-dir <dir> | --redis <addr>) -I <intent> check`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set log level: quiet by default, verbose on -v
		if app.verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}
		if app.logJSON {
			util.SetJSONFormat()
		}

		if isSettingsOrHelp(cmd) {
			return nil
		}

		// Load user settings
		var err error
		app.settings, err = settings.LoadFrom(settingsPath())
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			app.settings = &settings.Settings{}
		}
		app.applySettings()

		// Initialize audit logger
		auditLogger, err := audit.NewFileLogger(app.settings.GetAuditLog(), audit.DefaultRotation)
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if l := audit.DefaultLogger(); l != nil {
			audit.SetDefaultLogger(nil)
			return l.Close()
		}
		return nil
	},
}

// applySettings fills unset flags from the user settings.
func (a *appState) applySettings() {
	s := a.settings
	if a.factCacheDir == "" {
		a.factCacheDir = s.FactCacheDir
	}
	if a.factCachePrefix == "" {
		a.factCachePrefix = s.FactCachePrefix
	}
	if a.redisAddr == "" {
		a.redisAddr = s.RedisAddr
	}
	if a.redisPrefix == "" {
		a.redisPrefix = s.RedisPrefix
	}
	if a.redisDB == 0 {
		a.redisDB = s.RedisDB
	}
	if a.sshHost == "" {
		a.sshHost = s.SSHHost
	}
	if a.sshUser == "" {
		a.sshUser = s.SSHUser
	}
	if a.intentFile == "" {
		a.intentFile = s.IntentFile
	}
	if a.workers == 0 {
		a.workers = s.Workers
	}
}

func init() {
	flags := rootCmd.PersistentFlags()

	// Source flags
	flags.StringVarP(&app.host, "host", "H", "", "Inventory host name (fact cache key)")
	flags.StringVarP(&app.factsFile, "facts", "f", "", "Facts file (ansible -m setup output, JSON or YAML)")
	flags.StringVar(&app.factCacheDir, "fact-cache-dir", "", "Ansible jsonfile fact cache directory")
	flags.StringVar(&app.factCachePrefix, "fact-cache-prefix", "", "File name prefix of the jsonfile fact cache")
	flags.StringVar(&app.redisAddr, "redis", "", "Ansible redis fact cache address (host:port)")
	flags.StringVar(&app.redisPrefix, "redis-prefix", "", "Key prefix of the redis fact cache (default ansible_facts)")
	flags.IntVar(&app.redisDB, "redis-db", 0, "Redis database number")
	flags.StringVar(&app.sshHost, "ssh-host", "", "Reach the redis fact cache through an SSH tunnel to this host")
	flags.StringVar(&app.sshUser, "ssh-user", "", "SSH user for --ssh-host (default current user)")

	// Option flags
	flags.StringVarP(&app.intentFile, "intent", "I", "", "Intent file (ether/bridge/bond interface lists)")
	flags.IntVar(&app.workers, "workers", 0, "Concurrent checks (default 8)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Verbose output")
	flags.BoolVar(&app.logJSON, "log-json", false, "Log in JSON format")

	for _, cmd := range []*cobra.Command{checkCmd, filterCmd, hostsCmd, auditListCmd} {
		addOutputFlags(cmd)
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "check", Title: "Checks:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)
	for _, cmd := range []*cobra.Command{checkCmd, filterCmd, renderCmd, hostsCmd} {
		cmd.GroupID = "check"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{settingsCmd, auditCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&app.jsonOutput, "json", false, "JSON output")
}

// isSettingsOrHelp reports whether cmd runs without facts or audit setup.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "settings", "help", "version":
			return true
		}
	}
	return false
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd, "ifcheck")
	},
}

func printVersion(cmd *cobra.Command, tool string) {
	if version.Version == "dev" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s dev build (set pkg/version.Version with -ldflags for release info)\n", tool)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tool, version.Info())
	}
}

// currentUser returns the login name recorded in audit events.
func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}
