package utils

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

type Pair[F any, S any] struct {
	First  F
	Second S
}

// Helper for escape analysis; avoids go thinking the variadic argument escapes.
// Default "verb" behaviour.
func V[T any](copyThatEscapes T) string {
	return fmt.Sprintf("%v", copyThatEscapes)
}

// Helper for escape analysis; avoids go thinking the variadic argument escapes.
// Uses the given format string.
func F[T any](f string, copyThatEscapes T) string {
	return fmt.Sprintf(f, copyThatEscapes)
}

// An imprecise float approximate comparison. "optional" variance with ... args strategy
func FloatEquals(a float64, b float64, inputVariance ...float64) bool {
	variance := 0.001
	if len(inputVariance) >= 1 {
		variance = inputVariance[0]
	}
	return math.Abs(a-b) < variance
}

func Max[T constraints.Ordered](x, y T) T {
	if x < y {
		return y
	}
	return x
}

func Min[T constraints.Ordered](x, y T) T {
	if y < x {
		return y
	}
	return x
}

// UpperBound returns the smallest index i with slice[i] > value, or len(slice)
// if no such index exists. The slice must be sorted ascending.
func UpperBound[T constraints.Ordered](slice []T, value T) int {
	lo, hi := 0, len(slice)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if slice[mid] <= value {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func DivRoundUp[T constraints.Integer](x, y T) T {
	return (x + y - 1) / y
}
