package utils

import (
	"math"

	"lukechampine.com/frand"
)

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Seed returns a fresh random seed for callers that were not given one.
func Seed() uint64 {
	return frand.Uint64n(math.MaxUint64)
}
