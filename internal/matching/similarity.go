package matching

import (
	"math"

	"github.com/fadilmartias/job-matcher/internal/corpus"
)

// Cosine returns the cosine similarity of a and b, or 0 when the lengths
// differ or either vector has zero norm.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na := norm(a)
	if na == 0 {
		return 0
	}
	return cosineWithNorm(a, na, b)
}

// Scores returns a fresh slice holding 100*cosine(query, job) for every job in
// the corpus, indexed like the corpus. The corpus itself is not touched.
func Scores(query []float32, c *corpus.Corpus) []float64 {
	out := make([]float64, c.Len())
	nq := norm(query)
	if nq == 0 {
		return out
	}
	for i := range out {
		out[i] = cosineWithNorm(query, nq, c.At(i).Embedding) * 100
	}
	return out
}

func cosineWithNorm(a []float32, na float64, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		nb += y * y
	}
	if nb == 0 {
		return 0
	}
	return dot / (na * math.Sqrt(nb))
}

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}
