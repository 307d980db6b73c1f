package core

import "math"

// Cosine returns the cosine similarity of two vectors. The second return is
// false when the vectors are incomparable (empty, mismatched lengths, or
// zero norm); callers treat that as similarity below any threshold, never as
// an error.
func Cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / math.Sqrt(normA*normB), true
}
