package align

import (
	"math"

	"github.com/kshedden/trimato/iupac"
)

const negInf = math.MinInt32 / 2

// Options configures one alignment call; every field is named directly
// after the corresponding Adapter field in spec.md §3.
type Options struct {
	Where         Where
	MaxErrorRate  float64
	MinOverlap    int
	IndelsAllowed bool
	IndelCost     int
	Wildcards     iupac.Policy

	// MaxRMP, if non-nil, rejects any match whose random-match
	// probability exceeds *MaxRMP (spec.md §4.1).
	MaxRMP *float64

	// Screen, if non-nil, is consulted before running the DP to allow a
	// fast reject (spec.md §4.1 design note / SPEC_FULL.md §4.1).
	Screen Screen
}

// Screen is the seed pre-screen interface; a nil Screen (or one that always
// reports possible) simply disables the optimization.
type Screen interface {
	// MayContain reports whether adapter could possibly occur somewhere
	// in read. A false result is authoritative (no match exists); a
	// true result means the DP must still run to be sure.
	MayContain(adapter, read []byte) bool
}

type flags struct {
	startInRead, startInAdapter, stopInRead, stopInAdapter bool
	forceNoIndels                                          bool
}

func flagsFor(where Where) flags {
	switch where {
	case Front:
		return flags{startInRead: true, startInAdapter: true, stopInRead: true}
	case Back:
		return flags{startInRead: true, stopInRead: true, stopInAdapter: true}
	case Anywhere:
		return flags{startInRead: true, startInAdapter: true, stopInRead: true, stopInAdapter: true}
	case Prefix:
		return flags{stopInRead: true, stopInAdapter: true, forceNoIndels: true}
	case Suffix:
		return flags{startInRead: true, stopInAdapter: true, forceNoIndels: true}
	default:
		return flags{}
	}
}

const (
	dirStart = iota
	dirDiag
	dirUp
	dirLeft
)

// Align finds the best placement of adapter within read under opts,
// implementing the bounded-error semi-global alignment of spec.md §4.1. The
// bool result is false when no match satisfies min_overlap/max_error_rate/
// max_rmp; in that case the Match value is the zero value.
func Align(adapter, read []byte, opts Options) (Match, bool) {
	m, n := len(adapter), len(read)
	if m == 0 || n == 0 {
		return Match{}, false
	}

	fl := flagsFor(opts.Where)
	indelsAllowed := opts.IndelsAllowed && !fl.forceNoIndels
	indelCost := opts.IndelCost
	if indelCost <= 0 {
		indelCost = 1
	}

	if opts.Screen != nil && indelsAllowed && (opts.Where == Back || opts.Where == Anywhere) {
		if m > 4 && !opts.Screen.MayContain(adapter, read) {
			return Match{}, false
		}
	}

	value := make([][]int, m+1)
	dir := make([][]byte, m+1)
	for i := range value {
		value[i] = make([]int, n+1)
		dir[i] = make([]byte, n+1)
	}

	// Row 0: no adapter consumed yet.
	for j := 0; j <= n; j++ {
		if j == 0 {
			value[0][0] = 0
			dir[0][0] = dirStart
		} else if fl.startInRead {
			value[0][j] = 0
			dir[0][j] = dirStart
		} else {
			value[0][j] = negInf
		}
	}
	// Column 0: no read consumed yet.
	for i := 1; i <= m; i++ {
		if fl.startInAdapter {
			value[i][0] = 0
			dir[i][0] = dirStart
		} else {
			value[i][0] = negInf
		}
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			compatible := opts.Wildcards.Compatible(read[j-1], adapter[i-1])
			var diagScore int
			if compatible {
				diagScore = 1
			} else {
				diagScore = -1
			}
			best := value[i-1][j-1] + diagScore
			bestDir := byte(dirDiag)

			if indelsAllowed {
				if up := value[i-1][j] - indelCost; up > best {
					best, bestDir = up, dirUp
				}
				if left := value[i][j-1] - indelCost; left > best {
					best, bestDir = left, dirLeft
				}
			}
			value[i][j] = best
			dir[i][j] = bestDir
		}
	}

	// Collect end-cell candidates per the stop flags.
	type cand struct{ i, j int }
	var cands []cand
	if fl.stopInAdapter {
		for i := 0; i <= m; i++ {
			cands = append(cands, cand{i, n})
		}
	}
	if fl.stopInRead {
		for j := 0; j <= n; j++ {
			cands = append(cands, cand{m, j})
		}
	}
	if !fl.stopInAdapter && !fl.stopInRead {
		cands = []cand{{m, n}}
	}

	minOverlap := opts.MinOverlap
	if minOverlap <= 0 {
		minOverlap = 1
	}
	overlapLimit := minInt(minOverlap, m)

	var best Match
	var bestSet bool
	for _, c := range cands {
		if value[c.i][c.j] <= negInf/2 {
			continue
		}
		mtch, ok := traceback(dir, adapter, read, opts.Wildcards, c.i, c.j)
		if !ok {
			continue
		}
		if mtch.Length() < overlapLimit {
			continue
		}
		if mtch.Errors > int(opts.MaxErrorRate*float64(mtch.Length())) {
			continue
		}
		if opts.MaxRMP != nil {
			rmp := RandomMatchProbability(mtch.Length(), mtch.Matches, iupac.MatchProbability)
			if rmp > *opts.MaxRMP {
				continue
			}
		}
		if better(mtch, best, bestSet) {
			best, bestSet = mtch, true
		}
	}
	if !bestSet {
		return Match{}, false
	}

	return best, true
}

// traceback walks the direction matrix back from (i,j) to a start cell,
// counting matches/errors and recording the astart/rstart it bottoms out at.
func traceback(dir [][]byte, adapter, read []byte, wc iupac.Policy, i, j int) (Match, bool) {
	astop, rstop := i, j
	matches, errs := 0, 0
	for {
		switch dir[i][j] {
		case dirStart:
			return Match{Astart: i, Astop: astop, Rstart: j, Rstop: rstop, Matches: matches, Errors: errs}, true
		case dirDiag:
			if wc.Compatible(read[j-1], adapter[i-1]) {
				matches++
			} else {
				errs++
			}
			i--
			j--
		case dirUp:
			errs++
			i--
		case dirLeft:
			errs++
			j--
		default:
			return Match{}, false
		}
		if i < 0 || j < 0 {
			return Match{}, false
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
