package util

func MaxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func CopyIntSlice(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func CopyFloatSlice(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

// CumSum returns the running totals of s: out[i] = s[0] + ... + s[i].
func CumSum(s []float64) []float64 {
	out := make([]float64, len(s))
	total := 0.0
	for i, v := range s {
		total += v
		out[i] = total
	}
	return out
}

func Sum(s []float64) float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}
