package help

import "sort"

// SortedCopy returns a new slice sorted by less, leaving in untouched.
// Schema views hand out number-sorted permutations of declaration-order
// slices, so the original ordering must survive.
func SortedCopy[T any](in []T, less func(a, b T) bool) []T {
	out := make([]T, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func StringOrDefault(s string, d string) string {
	if s != "" {
		return s
	}
	return d
}
