// Package selection turns numbered-menu answers into an ordered set of image
// paths.
package selection

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// AllKeyword selects every listed entry.
const AllKeyword = "all"

// ParseIndices parses a selection such as "1,3-5" against a listing of total
// entries. The result is ascending, deduplicated, and limited to [1,total].
// Out-of-range values are dropped silently; any malformed token makes the whole
// answer invalid and yields an empty result. A reversed range contributes nothing.
func ParseIndices(input string, total int) []int {
	input = strings.ToLower(strings.TrimSpace(input))
	if total <= 0 || input == "" {
		return nil
	}

	if input == AllKeyword {
		all := make([]int, total)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}

	seen := make(map[int]bool)
	for _, token := range strings.Split(input, ",") {
		lo, hi, ok := parseToken(strings.TrimSpace(token))
		if !ok {
			return nil
		}
		for i := max(lo, 1); i <= min(hi, total); i++ {
			seen[i] = true
		}
	}

	picks := make([]int, 0, len(seen))
	for i := range seen {
		picks = append(picks, i)
	}
	sort.Ints(picks)
	return picks
}

// parseToken parses "n" or "a-b" into an inclusive range.
func parseToken(token string) (int, int, bool) {
	if a, b, isRange := strings.Cut(token, "-"); isRange {
		lo, ok := parseIndex(a)
		if !ok {
			return 0, 0, false
		}
		hi, ok := parseIndex(b)
		if !ok {
			return 0, 0, false
		}
		return lo, hi, true
	}

	n, ok := parseIndex(token)
	return n, n, ok
}

// parseIndex parses one number. Values too large for int are clamped, so
// they fall out of range instead of invalidating the answer.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}
