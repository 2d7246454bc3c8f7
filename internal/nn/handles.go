package nn

import (
	"strconv"
	"strings"
)

const (
	// PixelHandlePrefix addresses one element of a vector output: "pixel-<n>".
	PixelHandlePrefix = "pixel-"
	// BiasHandle is the target handle whose synapse weight sets a perceptron's
	// threshold.
	BiasHandle = "bias"
)

// PixelHandle formats the source handle that addresses element i.
func PixelHandle(i int) string {
	return PixelHandlePrefix + strconv.Itoa(i)
}

// ParsePixelHandle extracts n from "pixel-<n>". The suffix must be a plain
// non-negative decimal integer; signs, fractions and trailing garbage fail.
func ParsePixelHandle(handle string) (int, bool) {
	suffix, ok := strings.CutPrefix(handle, PixelHandlePrefix)
	if !ok || suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// pixelValue resolves the element a pixel handle selects from a vector source.
// Anything unaddressable reads as 0.
func pixelValue(in Incoming) float64 {
	idx, ok := ParsePixelHandle(in.Synapse.SourceHandle)
	if !ok {
		return 0
	}
	x, ok := in.Source.At(idx)
	if !ok {
		return 0
	}
	return coerce(x)
}

// sourceValue is the scalar an accumulating unit reads from one synapse.
// Vector sources are addressed by SourceIndex first, then by pixel handle.
func sourceValue(in Incoming) float64 {
	if !in.Source.IsVector() {
		return in.Source.Float()
	}
	if in.Synapse.SourceIndex != nil {
		x, ok := in.Source.At(*in.Synapse.SourceIndex)
		if !ok {
			return 0
		}
		return coerce(x)
	}
	return pixelValue(in)
}
