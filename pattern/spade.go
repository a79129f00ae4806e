package pattern

import (
	"context"
	"math"
	M "seqminer/model"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Stats counts the work done by one mining run.
type Stats struct {
	// Candidates generated by the joins, frequent or not.
	Candidates int `json:"candidates"`
	// Frequent patterns, seeds included.
	Frequent int `json:"frequent"`
	// Classes expanded.
	Classes int `json:"classes"`
	// Leaves of the search, before the maximality filter.
	Leaves int `json:"leaves"`
	// Maximal patterns reported before selection.
	Maximal int `json:"maximal"`
}

func (s *Stats) add(other Stats) {
	s.Candidates += other.Candidates
	s.Frequent += other.Frequent
	s.Classes += other.Classes
	s.Leaves += other.Leaves
	s.Maximal += other.Maximal
}

// frame is a pending equivalence class on the work-list. Members in
// [next, end) still have to be expanded.
type frame struct {
	members []*atom
	next    int
	end     int
}

type miner struct {
	opts   Options
	stats  Stats
	leaves []*atom
}

// expand runs a depth first search over the classes rooted at
// root.members[root.next:root.end]. Leaves are appended in discovery order.
func (m *miner) expand(ctx context.Context, root *frame) error {
	stack := []*frame{root}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next == f.end {
			stack = stack[:len(stack)-1]
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		x := f.members[f.next]
		f.next++

		if m.opts.reachedMaxLength(x.pattern.Length()) {
			m.leaves = append(m.leaves, x)
			continue
		}

		m.stats.Classes++
		children := m.extend(x, f.members)
		if len(children) == 0 {
			m.leaves = append(m.leaves, x)
			continue
		}
		stack = append(stack, &frame{members: children, end: len(children)})
	}
	return nil
}

// extend builds the class rooted at x from the siblings sharing x's prefix
// and returns its frequent members in canonical order.
func (m *miner) extend(x *atom, siblings []*atom) []*atom {
	children := make([]*atom, 0)
	for _, y := range siblings {
		for _, kind := range growthKinds(x, y) {
			m.stats.Candidates++
			candidate := grow(x, y, kind)
			if candidate.support() < m.opts.MinimumSupport {
				continue
			}
			m.stats.Frequent++
			children = append(children, candidate)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].pattern.Compare(children[j].pattern) < 0
	})
	return children
}

// seeds returns the frequent single item patterns of db in canonical order.
func seeds(db M.Database, minSupport int) []*atom {
	index := BuildIndex(db)
	items := FrequentItems(index, minSupport)
	roots := make([]*atom, 0, len(items))
	for _, item := range items {
		roots = append(roots, newSeedAtom(item, index[item]))
	}
	return roots
}

// mineMaximal returns the maximal frequent patterns of db in discovery order.
func mineMaximal(ctx context.Context, db M.Database, opts Options) ([]M.Result, Stats, error) {
	var stats Stats
	if db.NumSequences() < opts.MinimumSupport {
		return []M.Result{}, stats, nil
	}

	roots := seeds(db, opts.MinimumSupport)
	stats.Frequent = len(roots)
	if len(roots) == 0 {
		return []M.Result{}, stats, nil
	}

	leaves, searchStats, err := searchRoots(ctx, roots, opts)
	stats.add(searchStats)
	if err != nil {
		return nil, stats, err
	}
	stats.Leaves = len(leaves)

	maximal := filterMaximal(leaves)
	stats.Maximal = len(maximal)
	results := make([]M.Result, 0, len(maximal))
	for _, a := range maximal {
		results = append(results, a.result())
	}
	return results, stats, nil
}

// searchRoots expands every root class. With more than one routine, roots
// are split into contiguous batches and the leaves of each batch are
// concatenated in batch order, which gives the serial discovery order.
func searchRoots(ctx context.Context, roots []*atom, opts Options) ([]*atom, Stats, error) {
	numRoutines := opts.NumRoutines
	if numRoutines < 1 {
		numRoutines = 1
	}
	if numRoutines > len(roots) {
		numRoutines = len(roots)
	}

	batchSize := int(math.Ceil(float64(len(roots)) / float64(numRoutines)))
	miners := make([]*miner, numRoutines)
	errs := make([]error, numRoutines)

	var wg sync.WaitGroup
	for i := 0; i < numRoutines; i++ {
		low := int(math.Min(float64(batchSize*i), float64(len(roots))))
		high := int(math.Min(float64(batchSize*(i+1)), float64(len(roots))))
		miners[i] = &miner{opts: opts}
		log.WithFields(log.Fields{"batch": i + 1, "low": low, "high": high}).Debug("Expanding root classes.")

		wg.Add(1)
		go func(i, low, high int) {
			defer wg.Done()
			errs[i] = miners[i].expand(ctx, &frame{members: roots, next: low, end: high})
		}(i, low, high)
	}
	wg.Wait()

	var stats Stats
	leaves := make([]*atom, 0)
	for i, m := range miners {
		if errs[i] != nil {
			return nil, stats, errs[i]
		}
		stats.add(m.stats)
		leaves = append(leaves, m.leaves...)
	}
	return leaves, stats, nil
}

// filterMaximal drops every leaf that is a sub-pattern of a longer leaf.
// Leaves are distinct, so equally long leaves never contain each other.
func filterMaximal(leaves []*atom) []*atom {
	maximal := make([]*atom, 0, len(leaves))
	for i, a := range leaves {
		length := a.pattern.Length()
		subsumed := false
		for j, b := range leaves {
			if i == j || b.pattern.Length() <= length {
				continue
			}
			if a.pattern.IsSubPatternOf(b.pattern) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			maximal = append(maximal, a)
		}
	}
	return maximal
}
