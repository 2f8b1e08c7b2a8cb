// Package iupac implements the wildcard compatibility table used by the
// aligner: a mismatch between two letters is free whenever their IUPAC
// ambiguity sets overlap.
package iupac

// mask is a bitmask over {A,C,G,T} (bits 0..3); ambiguous codes set more
// than one bit, N sets all four.
type mask uint8

const (
	bitA mask = 1 << iota
	bitC
	bitG
	bitT
)

var masks = map[byte]mask{
	'A': bitA,
	'C': bitC,
	'G': bitG,
	'T': bitT,
	'R': bitA | bitG,
	'Y': bitC | bitT,
	'S': bitC | bitG,
	'W': bitA | bitT,
	'K': bitG | bitT,
	'M': bitA | bitC,
	'B': bitC | bitG | bitT,
	'D': bitA | bitG | bitT,
	'H': bitA | bitC | bitT,
	'V': bitA | bitC | bitG,
	'N': bitA | bitC | bitG | bitT,
}

// Mask returns the ambiguity bitmask for an upper-case IUPAC letter. Unknown
// letters are treated as N (fully ambiguous) so that stray characters never
// cause a spurious alignment penalty explosion.
func Mask(c byte) mask {
	if m, ok := masks[c]; ok {
		return m
	}
	return masks['N']
}

// Policy controls whether wildcard letters in the read, the adapter, or
// neither are allowed to match anything.
type Policy struct {
	ReadWildcards    bool
	AdapterWildcards bool
}

// Compatible reports whether read letter rc and adapter letter ac should be
// scored as a match (cost 0) under the policy. Exact equality is always a
// match; ambiguity-code overlap is a match only when the side carrying the
// ambiguity is permitted to wildcard by the policy.
func (p Policy) Compatible(rc, ac byte) bool {
	if rc == ac {
		return true
	}
	rm, am := Mask(rc), Mask(ac)
	if rm&am == 0 {
		return false
	}
	// An overlap only counts as a free wildcard match if the ambiguous
	// side is allowed to act as a wildcard here.
	rAmbiguous := rm != bitA && rm != bitC && rm != bitG && rm != bitT
	aAmbiguous := am != bitA && am != bitC && am != bitG && am != bitT
	if rAmbiguous && !p.ReadWildcards {
		return false
	}
	if aAmbiguous && !p.AdapterWildcards {
		return false
	}
	return true
}

// MatchProbability returns the per-base probability that two independently
// drawn bases match by chance, under a uniform 1/4 base composition null
// model. This is p_match in spec.md §4.1's random-match-probability formula.
const MatchProbability = 0.25
