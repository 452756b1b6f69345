package numerical

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func SuppressNaN(num float64) float64 {
	if math.IsNaN(num) {
		return 0
	}
	return num
}

// Transform reduces a block of samples to one value.
func Transform(dataIn []float64, transform string) float64 {
	if len(dataIn) == 0 {
		return 0
	}
	switch transform {
	case "mean":
		return SuppressNaN(stat.Mean(dataIn, nil))
	case "max":
		return SuppressNaN(floats.Max(dataIn))
	case "min":
		return SuppressNaN(floats.Min(dataIn))
	case "absmax":
		hi, lo := floats.Max(dataIn), floats.Min(dataIn)
		if math.Abs(lo) > math.Abs(hi) {
			return SuppressNaN(lo)
		}
		return SuppressNaN(hi)
	case "first":
		return SuppressNaN(dataIn[0])
	default:
		return 0
	}
}

// Downsample resizes datain to outSize points. When shrinking, each output
// point is the transform of the block of inputs it covers; when growing,
// input values are repeated.
func Downsample(datain []float64, outSize int, transform string) []float64 {
	out := make([]float64, outSize)
	if outSize == 0 || len(datain) == 0 {
		return out
	}
	perOutput := float64(len(datain)) / float64(outSize)
	if perOutput > 1 {
		perOutputCeil := int(math.Ceil(perOutput))
		for x := 0; x < outSize; x++ {
			var start, end int
			if x != outSize-1 {
				start = int(math.Round(float64(x) * perOutput))
				end = start + perOutputCeil
				if end > len(datain) {
					end = len(datain)
				}
			} else {
				end = len(datain)
				start = end - perOutputCeil
			}
			out[x] = Transform(datain[start:end], transform)
		}
		return out
	}
	for x := 0; x < outSize; x++ {
		out[x] = datain[int(math.Floor(float64(x)*perOutput))]
	}
	return out
}

// Linspace returns n evenly spaced values from lo to hi inclusive. It accepts
// n below 2, where gonum's Span does not, and the last value is always
// exactly hi.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{hi}
	}
	out := floats.Span(make([]float64, n), lo, hi)
	out[n-1] = hi
	return out
}

// Arange returns start, start+step, ... for n values.
func Arange(n int, step, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)*step + start
	}
	return out
}

// Mean ignores nothing: a NaN sample makes the mean NaN.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

// Fill sets every element of dst to v.
func Fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}

// AllEqual reports whether every element equals the first.
func AllEqual[T comparable](vals []T) bool {
	for _, v := range vals {
		if v != vals[0] {
			return false
		}
	}
	return true
}
