package facts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/newtron-network/ifcheck/pkg/util"
)

// Source provides the fact snapshot of a host.
type Source interface {
	Load(ctx context.Context, host string) (*Snapshot, error)
}

// FileSource reads a single facts file. The host name is ignored.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context, host string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path)
}

// JSONFileCache reads the Ansible jsonfile fact cache: one JSON document per
// host, named <prefix><host> inside Dir.
type JSONFileCache struct {
	Dir    string
	Prefix string
}

// NewJSONFileCache creates a jsonfile cache reader.
func NewJSONFileCache(dir, prefix string) *JSONFileCache {
	return &JSONFileCache{Dir: dir, Prefix: prefix}
}

// Load implements Source.
func (c *JSONFileCache) Load(ctx context.Context, host string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if host == "" {
		return nil, fmt.Errorf("jsonfile cache: host is required")
	}
	snap, err := LoadFile(filepath.Join(c.Dir, c.Prefix+host))
	if err != nil {
		return nil, fmt.Errorf("jsonfile cache host %s: %w", host, err)
	}
	return snap, nil
}

// Hosts lists the hosts present in the cache, sorted.
func (c *JSONFileCache) Hosts(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading fact cache dir %s: %w", c.Dir, err)
	}

	var hosts []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasPrefix(name, c.Prefix) {
			continue
		}
		host := strings.TrimPrefix(name, c.Prefix)
		if host == "" {
			continue
		}
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	util.Debugf("jsonfile cache %s: %d hosts", c.Dir, len(hosts))
	return hosts, nil
}
