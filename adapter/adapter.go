// Package adapter implements the Adapter descriptor and match policy of
// spec.md §3/§4.1: a thin wrapper around align.Align that also resolves
// linked (front+back) adapters.
package adapter

import (
	"fmt"

	"github.com/kshedden/trimato/align"
	"github.com/kshedden/trimato/iupac"
)

// Adapter is the descriptor of spec.md §3.
type Adapter struct {
	Name          string
	Sequence      string
	Where         align.Where
	MaxErrorRate  float64
	MinOverlap    int
	IndelsAllowed bool
	IndelCost     int
	MaxRMP        *float64
	Wildcards     iupac.Policy

	// Linked adapters carry a front and back sub-adapter, each
	// independently markable as Required (spec.md §3).
	Linked   bool
	Front    *Adapter
	Back     *Adapter
	Required bool

	screen *align.SeedScreen
}

// Validate checks the static configuration invariants from spec.md §3/§7.
func (a *Adapter) Validate() error {
	if a.Linked {
		if a.Front == nil || a.Back == nil {
			return fmt.Errorf("adapter %q: linked adapter requires both Front and Back", a.Name)
		}
		if err := a.Front.Validate(); err != nil {
			return err
		}
		return a.Back.Validate()
	}
	if len(a.Sequence) == 0 {
		return fmt.Errorf("adapter %q: empty sequence", a.Name)
	}
	if a.MaxErrorRate < 0 || a.MaxErrorRate > 1 {
		return fmt.Errorf("adapter %q: max_error_rate %v out of [0,1]", a.Name, a.MaxErrorRate)
	}
	if a.MinOverlap < 1 {
		return fmt.Errorf("adapter %q: min_overlap must be >= 1", a.Name)
	}
	return nil
}

// EnableSeedScreen builds (or rebuilds) the seed pre-screen for this
// adapter; callers opt into it explicitly since it costs a one-time Bloom
// filter build (SPEC_FULL.md §4.1). The seed width is narrowed to this
// adapter's own MinOverlap/MaxErrorRate so the screen stays sound (it can
// reject only what the aligner would reject too).
func (a *Adapter) EnableSeedScreen(k uint) {
	if a.Linked {
		a.Front.EnableSeedScreen(k)
		a.Back.EnableSeedScreen(k)
		return
	}
	a.screen = align.NewSeedScreen([]byte(a.Sequence), k, a.MinOverlap, a.MaxErrorRate)
}

// Match aligns this adapter against read, returning the best match if one
// satisfies the configured thresholds.
func (a *Adapter) Match(read []byte) (align.Match, bool) {
	opts := align.Options{
		Where:         a.Where,
		MaxErrorRate:  a.MaxErrorRate,
		MinOverlap:    a.MinOverlap,
		IndelsAllowed: a.IndelsAllowed,
		IndelCost:     a.IndelCost,
		Wildcards:     a.Wildcards,
		MaxRMP:        a.MaxRMP,
		Screen:        a.screen,
	}
	return align.Align([]byte(a.Sequence), read, opts)
}

// LinkedResult carries the outcome of matching a linked adapter's two
// components.
type LinkedResult struct {
	FrontMatch, BackMatch   align.Match
	FrontOK, BackOK         bool
}

// MatchLinked runs the front sub-adapter, trims it from a working copy of
// read on success, then runs the back sub-adapter on the remainder
// (spec.md §4.1 LINKED). It returns ok=false when a Required sub-adapter
// fails to match, when neither sub-adapter matches, or when a is not a
// linked adapter. Whenever FrontOK is true, BackMatch offsets are relative
// to the remainder after the front match, not to the original read.
func (a *Adapter) MatchLinked(read []byte) (LinkedResult, bool) {
	if !a.Linked {
		return LinkedResult{}, false
	}
	var res LinkedResult

	fm, fok := a.Front.Match(read)
	res.FrontMatch, res.FrontOK = fm, fok
	if !fok && a.Front.Required {
		return res, false
	}

	remainder := read
	if fok {
		remainder = read[fm.Rstop:]
	}

	bm, bok := a.Back.Match(remainder)
	res.BackMatch, res.BackOK = bm, bok
	if !bok && a.Back.Required {
		return res, false
	}

	return res, fok || bok
}
