// Package filter exposes the interface checkers under their filter names and
// binds them into text/template so reports can be rendered from intent data.
package filter

import (
	"fmt"
	"io"
	"text/template"

	"github.com/newtron-network/ifcheck/pkg/compare"
	"github.com/newtron-network/ifcheck/pkg/facts"
	"github.com/newtron-network/ifcheck/pkg/intent"
	"github.com/newtron-network/ifcheck/pkg/util"
)

// Filter names.
const (
	EtherCheck  = "ether_check"
	BridgeCheck = "bridge_check"
	BondCheck   = "bond_check"
)

// Func compares one desired interface against a fact snapshot.
type Func func(*facts.Snapshot, *intent.Interface) compare.Verdict

// Filter is a named checker for one kind of interface.
type Filter struct {
	Name  string
	Kind  intent.Kind
	Check Func
}

// registry is ordered like intent.Kinds.
var registry = []Filter{
	{Name: EtherCheck, Kind: intent.KindEther, Check: compare.EtherCheck},
	{Name: BridgeCheck, Kind: intent.KindBridge, Check: compare.BridgeCheck},
	{Name: BondCheck, Kind: intent.KindBond, Check: compare.BondCheck},
}

// Names returns the registered filter names.
func Names() []string {
	names := make([]string, len(registry))
	for i, f := range registry {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a filter by name.
func Lookup(name string) (Filter, error) {
	for _, f := range registry {
		if f.Name == name {
			return f, nil
		}
	}
	return Filter{}, util.NewFilterError(name, Names()...)
}

// ForKind returns the filter that checks interfaces of the given kind.
func ForKind(kind intent.Kind) (Filter, error) {
	for _, f := range registry {
		if f.Kind == kind {
			return f, nil
		}
	}
	return Filter{}, util.NewFilterError(string(kind)+"_check", Names()...)
}

// Apply converts v to an interface and runs the filter on it.
func (f Filter) Apply(snap *facts.Snapshot, v any) (compare.Verdict, error) {
	iface, err := intent.FromValue(v)
	if err != nil {
		return compare.Verdict{}, fmt.Errorf("%s: %w", f.Name, err)
	}
	verdict := f.Check(snap, iface)
	util.WithFilter(f.Name).WithField("device", iface.Device).Debugf("%s", verdict)
	return verdict, nil
}

// FuncMap returns the filters as template functions bound to snap. Each
// function takes an interface value (an intent.Interface, a pointer to one,
// a device name, or a map decoded from template data) and returns its Verdict.
func FuncMap(snap *facts.Snapshot) template.FuncMap {
	funcs := template.FuncMap{}
	for _, f := range registry {
		f := f
		funcs[f.Name] = func(v any) (compare.Verdict, error) {
			return f.Apply(snap, v)
		}
	}
	return funcs
}

// Render parses text as a template named name, binds the filters to snap and
// executes it with data.
func Render(w io.Writer, name, text string, snap *facts.Snapshot, data any) error {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(FuncMap(snap)).
		Parse(text)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", name, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering template %s: %w", name, err)
	}
	return nil
}
