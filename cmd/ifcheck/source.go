package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/newtron-network/ifcheck/pkg/facts"
	"github.com/newtron-network/ifcheck/pkg/intent"
	"github.com/newtron-network/ifcheck/pkg/util"
)

// sshPasswordEnv supplies the --ssh-host password non-interactively.
const sshPasswordEnv = "IFCHECK_SSH_PASSWORD"

// hostLister is implemented by fact caches that can enumerate hosts.
type hostLister interface {
	Hosts(ctx context.Context) ([]string, error)
}

// openSource builds the fact source selected by the source flags. The
// returned function releases connections and tunnels.
func (a *appState) openSource(ctx context.Context) (facts.Source, func(), error) {
	noop := func() {}

	switch {
	case a.factsFile != "":
		return &facts.FileSource{Path: a.factsFile}, noop, nil

	case a.redisAddr != "" || a.sshHost != "":
		addr := a.redisAddr
		closeTunnel := noop
		if a.sshHost != "" {
			tunnel, err := a.openTunnel(addr)
			if err != nil {
				return nil, nil, err
			}
			closeTunnel = func() { tunnel.Close() }
			addr = tunnel.LocalAddr()
		}

		cache := facts.NewRedisCache(addr, a.redisDB, a.redisPrefix)
		if err := cache.Ping(ctx); err != nil {
			cache.Close()
			closeTunnel()
			return nil, nil, fmt.Errorf("connecting to fact cache at %s: %w", addr, err)
		}
		util.Debugf("using redis fact cache at %s", addr)
		return cache, func() {
			cache.Close()
			closeTunnel()
		}, nil

	case a.factCacheDir != "":
		return facts.NewJSONFileCache(a.factCacheDir, a.factCachePrefix), noop, nil
	}

	return nil, nil, fmt.Errorf("no fact source: use --facts, --fact-cache-dir or --redis")
}

func (a *appState) openTunnel(remoteAddr string) (*facts.SSHTunnel, error) {
	sshUser := a.sshUser
	if sshUser == "" {
		sshUser = currentUser()
	}
	pass, err := sshPassword(a.sshHost, sshUser)
	if err != nil {
		return nil, err
	}
	tunnel, err := facts.NewSSHTunnel(a.sshHost, sshUser, pass, remoteAddr)
	if err != nil {
		return nil, fmt.Errorf("opening tunnel to %s: %w", a.sshHost, err)
	}
	util.Debugf("tunnel %s -> %s via %s", tunnel.LocalAddr(), remoteAddr, a.sshHost)
	return tunnel, nil
}

// sshPassword reads the SSH password from the environment, or prompts for
// it when stdin is a terminal.
func sshPassword(host, sshUser string) (string, error) {
	if pass, ok := os.LookupEnv(sshPasswordEnv); ok {
		return pass, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("SSH password required: set %s or run from a terminal", sshPasswordEnv)
	}
	fmt.Fprintf(os.Stderr, "%s@%s's password: ", sshUser, host)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pass), nil
}

// loadSnapshot loads the facts of the selected host.
func (a *appState) loadSnapshot(ctx context.Context) (*facts.Snapshot, error) {
	src, closeSrc, err := a.openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSrc()
	return src.Load(ctx, a.host)
}

// hostLabel names the checked host in reports.
func (a *appState) hostLabel() string {
	if a.host != "" {
		return a.host
	}
	if a.factsFile != "" {
		return filepath.Base(a.factsFile)
	}
	return "localhost"
}

// loadIntent reads the --intent file.
func (a *appState) loadIntent() (*intent.File, error) {
	if a.intentFile == "" {
		return nil, fmt.Errorf("intent file required: use -I <file> or 'ifcheck settings set intent_file <file>'")
	}
	return intent.Load(a.intentFile)
}
