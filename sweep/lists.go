package sweep

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned for a list generator spec that cannot
// produce any value.
var ErrInvalidRange = errors.New("invalid range")

// Linear returns start, start+step, ... up to but excluding end.
func Linear(start, end, step int) ([]int, error) {
	if step <= 0 || end <= start {
		return nil, fmt.Errorf("linear %d:%d:%d: %w", start, end, step, ErrInvalidRange)
	}

	out := make([]int, 0, (end-start+step-1)/step)
	for v := start; v < end; v += step {
		out = append(out, v)
	}

	return out, nil
}

// Pow2 returns 2^lo, 2^(lo+1), ... up to but excluding 2^hi.
func Pow2(lo, hi int) ([]int, error) {
	if lo < 0 || hi <= lo || hi > 62 {
		return nil, fmt.Errorf("pow2 %d:%d: %w", lo, hi, ErrInvalidRange)
	}

	out := make([]int, 0, hi-lo)
	for e := lo; e < hi; e++ {
		out = append(out, 1<<e)
	}

	return out, nil
}

// LogSpace returns count integers spaced evenly on a log scale between
// start and end inclusive. Neighbouring values may collapse into
// duplicates when the range is narrow; duplicates are kept.
func LogSpace(start, end, count int) ([]int, error) {
	if start <= 0 || end < start || count < 1 {
		return nil, fmt.Errorf("logspace %d:%d:%d: %w", start, end, count, ErrInvalidRange)
	}

	if count == 1 {
		return []int{start}, nil
	}

	lo := math.Log10(float64(start))
	hi := math.Log10(float64(end))
	stepExp := (hi - lo) / float64(count-1)

	out := make([]int, count)
	for i := range out {
		out[i] = int(math.Round(math.Pow(10, lo+stepExp*float64(i))))
	}

	return out, nil
}

// ParseLinear parses "start:end:step" and calls Linear.
func ParseLinear(spec string) ([]int, error) {
	v, err := parseInts(spec, 3)
	if err != nil {
		return nil, err
	}

	return Linear(v[0], v[1], v[2])
}

// ParsePow2 parses "lo:hi" and calls Pow2.
func ParsePow2(spec string) ([]int, error) {
	v, err := parseInts(spec, 2)
	if err != nil {
		return nil, err
	}

	return Pow2(v[0], v[1])
}

// ParseLogSpace parses "start:end:count" and calls LogSpace.
func ParseLogSpace(spec string) ([]int, error) {
	v, err := parseInts(spec, 3)
	if err != nil {
		return nil, err
	}

	return LogSpace(v[0], v[1], v[2])
}

func parseInts(spec string, want int) ([]int, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != want {
		return nil, fmt.Errorf("%q: expected %d colon-separated values: %w",
			spec, want, ErrInvalidRange)
	}

	out := make([]int, want)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", spec, err)
		}
		out[i] = v
	}

	return out, nil
}
