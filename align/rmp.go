package align

import "math"

// logBinomial returns log(C(n,k)) via lgamma, avoiding overflow for the read
// lengths this aligner operates on (a few hundred bases at most).
func logBinomial(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	ln1, _ := math.Lgamma(float64(n + 1))
	ln2, _ := math.Lgamma(float64(k + 1))
	ln3, _ := math.Lgamma(float64(n-k + 1))
	return ln1 - ln2 - ln3
}

// RandomMatchProbability computes P(L, k) = sum_{i=k}^{L} C(L,i) p^i (1-p)^(L-i),
// the probability of observing k or more matches out of L independent
// positions by chance under a uniform base-composition null model
// (spec.md §4.1, §4.2). p is typically iupac.MatchProbability (1/4).
func RandomMatchProbability(length, matches int, p float64) float64 {
	if length <= 0 {
		return 1
	}
	if matches <= 0 {
		return 1
	}
	if matches > length {
		return 0
	}
	logP, log1mP := math.Log(p), math.Log(1-p)
	var sum float64
	for i := matches; i <= length; i++ {
		logTerm := logBinomial(length, i) + float64(i)*logP + float64(length-i)*log1mP
		sum += math.Exp(logTerm)
	}
	if sum > 1 {
		sum = 1
	}
	return sum
}
