// Package modifiers implements the ordered per-read/per-pair transform
// chain of spec.md §4.3: each Modifier mutates one or both mates of a
// ReadPair and records its effect into a shared stats.Summary.
package modifiers

import (
	"fmt"
	"log"

	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/stats"
)

// Mate selects which member(s) of a pair a Modifier targets.
type Mate int

const (
	MateBoth Mate = iota
	MateR1
	MateR2
)

// Modifier is the tagged-variant dispatch interface of SPEC_FULL.md §9: one
// small interface, one struct per modifier kind, no per-read reflection.
type Modifier interface {
	// Kind is the stats bucket name, also used in log messages.
	Kind() string
	// Group is the op_order category letter this modifier runs under.
	Group() byte
	// Mate reports which mate(s) this modifier targets.
	Mate() Mate
	// ApplyPair mutates pair in place and records stats.
	ApplyPair(pair *seqio.ReadPair, s *stats.Summary)
}

// Category letters, spec.md §4.3: cut (C), NextSeq quality (G), quality (Q),
// adapters (A). Additional registered modifiers append further letters.
const (
	GroupCut      byte = 'C'
	GroupNextSeq  byte = 'G'
	GroupQuality  byte = 'Q'
	GroupAdapter  byte = 'A'
	GroupOther    byte = 'O'
)

// DefaultOpOrder is spec.md §4.3's default: cut -> NextSeq -> quality -> adapters.
const DefaultOpOrder = "CGQA"

// Plan is an op_order string compiled once into an ordered list of groups,
// each holding the modifier instances that run in that slot
// (SPEC_FULL.md §9: "Parse once into a fixed execution plan").
type Plan struct {
	groups []planGroup
}

type planGroup struct {
	letter    byte
	modifiers []Modifier
}

// CompilePlan parses opOrder and buckets registered (in registration order)
// by category letter. Unknown letters in opOrder that have no registered
// modifiers are simply empty groups. Modifiers whose Group() letter does not
// appear in opOrder at all are appended at the end, in registration order,
// so no configured modifier is silently dropped.
func CompilePlan(opOrder string, registered []Modifier) (*Plan, error) {
	if opOrder == "" {
		opOrder = DefaultOpOrder
	}
	seenLetters := make(map[byte]bool)
	plan := &Plan{}
	for i := 0; i < len(opOrder); i++ {
		letter := opOrder[i]
		if seenLetters[letter] {
			return nil, fmt.Errorf("modifiers: op_order %q repeats letter %q", opOrder, string(letter))
		}
		seenLetters[letter] = true
		var group []Modifier
		for _, m := range registered {
			if m.Group() == letter {
				group = append(group, m)
			}
		}
		plan.groups = append(plan.groups, planGroup{letter: letter, modifiers: group})
	}
	var trailing []Modifier
	for _, m := range registered {
		if !seenLetters[m.Group()] {
			trailing = append(trailing, m)
		}
	}
	if len(trailing) > 0 {
		plan.groups = append(plan.groups, planGroup{letter: 0, modifiers: trailing})
	}
	return plan, nil
}

// Chain runs a compiled Plan over a stream of pairs, per spec.md §4.3's
// ordering rule ("within a group, order is the order modifiers were
// registered").
type Chain struct {
	plan       *Plan
	pairedMode string
	logger     *log.Logger
	warned     bool
}

// NewChain builds a Chain. pairedMode mirrors spec.md §6's paired mode
// (none/first/both); logger may be nil.
func NewChain(plan *Plan, pairedMode string, logger *log.Logger) *Chain {
	return &Chain{plan: plan, pairedMode: pairedMode, logger: logger}
}

// Apply runs every modifier in plan order against pair, mutating it in
// place and recording stats.
func (c *Chain) Apply(pair *seqio.ReadPair, s *stats.Summary) {
	if c.pairedMode == "first" && !c.warned {
		c.warned = true
		if c.logger != nil {
			c.logger.Print("warning: paired mode \"first\" applies modifiers only to r1, even for paired-symmetric modifiers; this is kept ambiguous on purpose (spec open question)")
		}
	}
	for _, g := range c.plan.groups {
		for _, m := range g.modifiers {
			if c.pairedMode == "first" && m.Mate() == MateBoth && pair.R2 != nil {
				// Legacy "first" mode: apply only to r1.
				c.applyMate(m, pair, s, MateR1)
				continue
			}
			m.ApplyPair(pair, s)
		}
	}
}

func (c *Chain) applyMate(m Modifier, pair *seqio.ReadPair, s *stats.Summary, mate Mate) {
	switch mate {
	case MateR1:
		r1only := &seqio.ReadPair{R1: pair.R1}
		m.ApplyPair(r1only, s)
	case MateR2:
		if pair.R2 == nil {
			return
		}
		r2only := &seqio.ReadPair{R1: pair.R2}
		m.ApplyPair(r2only, s)
	}
}
