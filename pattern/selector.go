package pattern

import (
	M "seqminer/model"
	"sort"
)

// Select applies the max length filter, the top number cut and the optional
// sort to results given in discovery order. Without Sort the surviving
// results keep their discovery order.
func Select(results []M.Result, opts Options) []M.Result {
	selected := make([]M.Result, 0, len(results))
	for _, r := range results {
		if opts.MaxLength > 0 && r.Length > opts.MaxLength {
			continue
		}
		selected = append(selected, r)
	}

	if opts.TopNumber > 0 && len(selected) > opts.TopNumber {
		selected = topNumber(selected, opts.TopNumber, opts.TieBreak)
	}

	if opts.Sort {
		sort.SliceStable(selected, func(i, j int) bool {
			return lessBySortOrder(selected[i], selected[j])
		})
	}
	return selected
}

// topNumber keeps the n longest results. Ties are broken by tieBreak and the
// kept results are returned in their input order.
func topNumber(results []M.Result, n int, tieBreak TieBreak) []M.Result {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := results[order[i]], results[order[j]]
		if a.Length != b.Length {
			return a.Length > b.Length
		}
		if tieBreak == TieBreakSupport {
			return lessBySortOrder(a, b)
		}
		return false
	})

	kept := order[:n]
	sort.Ints(kept)
	top := make([]M.Result, 0, n)
	for _, idx := range kept {
		top = append(top, results[idx])
	}
	return top
}

// lessBySortOrder orders by length desc, support desc, then canonical
// pattern order.
func lessBySortOrder(a, b M.Result) bool {
	if a.Length != b.Length {
		return a.Length > b.Length
	}
	if a.Support != b.Support {
		return a.Support > b.Support
	}
	return a.Pattern.Compare(b.Pattern) < 0
}
