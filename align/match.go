// Package align implements the bounded-error semi-global aligner of
// spec.md §4.1: it locates the best placement of a short adapter sequence
// within or against a read, subject to a where flag, an error-rate budget,
// and a minimum overlap.
package align

// Where is the adapter placement flag of spec.md §3.
type Where int

const (
	Front Where = iota
	Back
	Anywhere
	Prefix
	Suffix
)

func (w Where) String() string {
	switch w {
	case Front:
		return "FRONT"
	case Back:
		return "BACK"
	case Anywhere:
		return "ANYWHERE"
	case Prefix:
		return "PREFIX"
	case Suffix:
		return "SUFFIX"
	default:
		return "UNKNOWN"
	}
}

// Match is the result of aligning an adapter against a read: the slice of
// the adapter used (Astart,Astop) and the slice of the read it covers
// (Rstart,Rstop), plus match/error counts. Invariant (spec.md §8):
// Errors <= floor(MaxErrorRate * (Rstop-Rstart)).
type Match struct {
	Astart, Astop int
	Rstart, Rstop int
	Matches       int
	Errors        int
}

// Length is the aligned length L = Rstop - Rstart.
func (m Match) Length() int { return m.Rstop - m.Rstart }

// score is matches-errors, the optimality criterion of spec.md §4.1.
func (m Match) score() int { return m.Matches - m.Errors }

// better reports whether candidate c is strictly preferred to the current
// best b, using spec.md §4.1's tie-break order: maximize matches-errors,
// then matches, then prefer the earlier Rstart.
func better(c, b Match, bSet bool) bool {
	if !bSet {
		return true
	}
	if c.score() != b.score() {
		return c.score() > b.score()
	}
	if c.Matches != b.Matches {
		return c.Matches > b.Matches
	}
	return c.Rstart < b.Rstart
}
