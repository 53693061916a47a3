// Package median computes order independent medians over integer values.
//
// Selection is done with Hoare partitioning on a private copy of the input, so
// the expected cost is linear in the number of values and callers never observe
// their slices being permuted.
package median

import (
	"errors"

	"cosmossdk.io/math"
)

// MaxValues bounds a single series.
const MaxValues = 100

var (
	ErrNoData         = errors.New("median: no data")
	ErrLengthMismatch = errors.New("median: submissions have different lengths")
	ErrTooManyValues  = errors.New("median: too many values")
)

// Calculate returns the median of values. For an even count it returns the
// floor of the mean of the two middle elements.
func Calculate(values []math.Int) (math.Int, error) {
	n := len(values)
	if n == 0 {
		return math.Int{}, ErrNoData
	}
	if n > MaxValues {
		return math.Int{}, ErrTooManyValues
	}

	list := make([]math.Int, n)
	copy(list, values)

	if n%2 == 1 {
		return quickselect(list, 0, n-1, n/2), nil
	}

	lower, upper := quickselectTwo(list, 0, n-1, n/2-1, n/2)
	return lower.Add(upper).QuoRaw(2), nil
}

// CalculateSubmissions treats position i of every submission as its own series
// and returns the per position medians.
func CalculateSubmissions(series [][]math.Int) ([]math.Int, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	width := len(series[0])
	if width == 0 {
		return nil, ErrNoData
	}
	for _, s := range series[1:] {
		if len(s) != width {
			return nil, ErrLengthMismatch
		}
	}

	column := make([]math.Int, len(series))
	result := make([]math.Int, width)
	for i := 0; i < width; i++ {
		for j, s := range series {
			column[j] = s[i]
		}
		m, err := Calculate(column)
		if err != nil {
			return nil, err
		}
		result[i] = m
	}

	return result, nil
}

func quickselect(list []math.Int, lo, hi, k int) math.Int {
	for lo < hi {
		p := partition(list, lo, hi)
		if k <= p {
			hi = p
		} else {
			lo = p + 1
		}
	}
	return list[lo]
}

// quickselectTwo finds the k1-th and k2-th smallest elements (k1 < k2), sharing
// partition passes until the two ranks fall on different sides of a pivot.
func quickselectTwo(list []math.Int, lo, hi, k1, k2 int) (math.Int, math.Int) {
	for {
		p := partition(list, lo, hi)
		switch {
		case k2 <= p:
			hi = p
		case p < k1:
			lo = p + 1
		default:
			return quickselect(list, lo, p, k1), quickselect(list, p+1, hi, k2)
		}
	}
}

// partition is a Hoare partition around the middle element. On return every
// element of list[lo:p+1] is <= every element of list[p+1:hi+1] and lo <= p < hi.
func partition(list []math.Int, lo, hi int) int {
	pivot := list[lo+(hi-lo)/2]
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if !list[i].LT(pivot) {
				break
			}
		}
		for {
			j--
			if !list[j].GT(pivot) {
				break
			}
		}
		if i >= j {
			return j
		}
		list[i], list[j] = list[j], list[i]
	}
}
