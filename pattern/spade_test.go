package pattern

import (
	"context"
	"fmt"
	"math/rand"
	M "seqminer/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixtureDatabase builds a random database of numSequences sequences with up
// to maxEvents events each, drawing items from the first numItems letters.
func fixtureDatabase(seed int64, numSequences, maxEvents, numItems int) M.Database {
	r := rand.New(rand.NewSource(seed))
	db := M.NewDatabase()
	for sid := 1; sid <= numSequences; sid++ {
		numEvents := r.Intn(maxEvents) + 1
		eid := int64(0)
		for e := 0; e < numEvents; e++ {
			// Gaps between event ids are allowed.
			eid += int64(r.Intn(3) + 1)
			size := r.Intn(3) + 1
			items := make([]M.Item, 0, size)
			for i := 0; i < size; i++ {
				items = append(items, M.Item(fmt.Sprintf("%c", 'A'+r.Intn(numItems))))
			}
			db.Set(int64(sid), eid, items...)
		}
	}
	return db
}

// bruteForceMaximal enumerates every frequent pattern of length at most
// maxLength (0 for no limit) with full scans and keeps the maximal ones.
func bruteForceMaximal(db M.Database, minSupport, maxLength int) map[string]M.Result {
	items := FrequentItems(BuildIndex(db), 1)
	frequent := make([]M.Result, 0)
	queue := make([]M.Pattern, 0)
	for _, item := range items {
		queue = append(queue, M.NewPattern(M.NewItemset(item)))
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		support := CountSupport(db, p)
		if support < minSupport {
			continue
		}
		frequent = append(frequent, M.NewResult(p, support))
		if maxLength > 0 && p.Length() >= maxLength {
			continue
		}
		last := p[len(p)-1].Last()
		for _, item := range items {
			queue = append(queue, p.ExtendSequence(item))
			if last.Less(item) {
				queue = append(queue, p.ExtendItemset(item))
			}
		}
	}

	maximal := make(map[string]M.Result)
	for i, a := range frequent {
		subsumed := false
		for j, b := range frequent {
			if i != j && b.Length > a.Length && a.Pattern.IsSubPatternOf(b.Pattern) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			maximal[a.Pattern.Key()] = a
		}
	}
	return maximal
}

func resultsByKey(results []M.Result) map[string]M.Result {
	byKey := make(map[string]M.Result, len(results))
	for _, r := range results {
		byKey[r.Pattern.Key()] = r
	}
	return byKey
}

func exampleDatabase() M.Database {
	db := M.NewDatabase()
	db.Set(1, 2, "A", "B", "C")
	db.Set(1, 4, "B", "C")
	db.Set(2, 3, "B", "C")
	return db
}

func chainDatabase() M.Database {
	db := M.NewDatabase()
	for sid := int64(1); sid <= 3; sid++ {
		db.Set(sid, 10, "A")
		db.Set(sid, 20, "B")
		db.Set(sid, 30, "C")
	}
	return db
}

func TestMineSingleItemsetPattern(t *testing.T) {
	results, err := Mine(exampleDatabase(), Options{MinimumSupport: 2})
	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "2 2 <(B,C)>", results[0].String())
}

func TestMineEmptyDatabase(t *testing.T) {
	results, err := Mine(M.NewDatabase(), Options{MinimumSupport: 1})
	assert.Nil(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestMineSupportAboveSequenceCount(t *testing.T) {
	results, stats, err := MineContext(context.Background(), exampleDatabase(), Options{MinimumSupport: 3})
	assert.Nil(t, err)
	assert.Empty(t, results)
	assert.Equal(t, Stats{}, stats)
}

func TestMineSingleEventSequences(t *testing.T) {
	db := M.NewDatabase()
	db.Set(1, 1, "A")
	db.Set(2, 1, "A", "B")
	results, err := Mine(db, Options{MinimumSupport: 1})
	assert.Nil(t, err)
	assert.Equal(t, []M.Result{M.NewResult(M.NewPattern(M.NewItemset("A", "B")), 1)}, results)
}

func TestMineInvalidOptions(t *testing.T) {
	for _, opts := range []Options{
		{MinimumSupport: 0},
		{MinimumSupport: -1},
		{MinimumSupport: 1, MaxLength: -1},
		{MinimumSupport: 1, TopNumber: -2},
		{MinimumSupport: 1, TieBreak: "longest"},
		{MinimumSupport: 1, NumRoutines: -1},
	} {
		results, err := Mine(exampleDatabase(), opts)
		assert.NotNil(t, err, opts.String())
		assert.True(t, IsConfigurationError(err), err)
		assert.Nil(t, results)
	}
}

func TestMineChain(t *testing.T) {
	results, stats, err := MineContext(context.Background(), chainDatabase(), Options{MinimumSupport: 2})
	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "3 3 <(A),(B),(C)>", results[0].String())
	assert.Equal(t, 4, stats.Leaves)
	assert.Equal(t, 1, stats.Maximal)
	assert.Equal(t, 7, stats.Classes)
}

func TestMineMaxLength(t *testing.T) {
	results, err := Mine(chainDatabase(), Options{MinimumSupport: 2, MaxLength: 2})
	assert.Nil(t, err)
	lines := make([]string, 0)
	for _, r := range results {
		lines = append(lines, r.String())
	}
	// Discovery order.
	assert.Equal(t, []string{"2 3 <(A),(B)>", "2 3 <(A),(C)>", "2 3 <(B),(C)>"}, lines)

	results, err = Mine(chainDatabase(), Options{MinimumSupport: 2, MaxLength: 1})
	assert.Nil(t, err)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, 1, r.Length)
	}
}

func TestMineKeepsEveryPrefixWitness(t *testing.T) {
	// B follows A twice. Only the later B shares an event with C.
	db := M.NewDatabase()
	db.Set(1, 1, "A")
	db.Set(1, 2, "B")
	db.Set(1, 3, "B", "C")

	results, err := Mine(db, Options{MinimumSupport: 1})
	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "4 1 <(A),(B),(B,C)>", results[0].String())

	results, err = Mine(db, Options{MinimumSupport: 1, MaxLength: 3})
	assert.Nil(t, err)
	assert.Contains(t, resultsByKey(results),
		M.NewPattern(M.NewItemset("A"), M.NewItemset("B", "C")).Key())
}

func TestMineMatchesBruteForce(t *testing.T) {
	for seed := int64(1); seed <= 12; seed++ {
		db := fixtureDatabase(seed, 8, 5, 5)
		for _, minSupport := range []int{2, 3, 5} {
			for _, maxLength := range []int{0, 2, 3} {
				opts := Options{MinimumSupport: minSupport, MaxLength: maxLength}
				results, err := Mine(db, opts)
				assert.Nil(t, err)

				expected := bruteForceMaximal(db, minSupport, maxLength)
				actual := resultsByKey(results)
				assert.Equal(t, len(results), len(actual), "duplicate results for seed %d %s", seed, opts)
				assert.Equal(t, expected, actual, "seed %d %s", seed, opts)
				assert.Nil(t, VerifyResults(db, results, minSupport))
			}
		}
	}
}

func TestMineReportsOnlyMaximal(t *testing.T) {
	db := fixtureDatabase(42, 15, 6, 6)
	results, err := Mine(db, Options{MinimumSupport: 3})
	assert.Nil(t, err)
	for i, a := range results {
		for j, b := range results {
			if i != j {
				assert.False(t, a.Pattern.IsSubPatternOf(b.Pattern), "%s within %s", a.Pattern, b.Pattern)
			}
		}
	}
}

func TestMineIsDeterministic(t *testing.T) {
	db := fixtureDatabase(3, 20, 6, 6)
	opts := Options{MinimumSupport: 3}
	first, err := Mine(db, opts)
	assert.Nil(t, err)
	second, err := Mine(db, opts)
	assert.Nil(t, err)
	assert.Equal(t, first, second)

	for _, numRoutines := range []int{2, 3, 8, 100} {
		opts.NumRoutines = numRoutines
		parallel, err := Mine(db, opts)
		assert.Nil(t, err)
		assert.Equal(t, first, parallel, "num_routines %d", numRoutines)
	}
}

func TestMineContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, _, err := MineContext(ctx, chainDatabase(), Options{MinimumSupport: 1})
	assert.Equal(t, context.Canceled, err)
	assert.Nil(t, results)
}

func TestFilterMaximal(t *testing.T) {
	c := &atom{pattern: M.NewPattern(M.NewItemset("C"))}
	bc := &atom{pattern: M.NewPattern(M.NewItemset("B", "C"))}
	ab := &atom{pattern: M.NewPattern(M.NewItemset("A"), M.NewItemset("B"))}
	maximal := filterMaximal([]*atom{bc, ab, c})
	assert.Equal(t, []*atom{bc, ab}, maximal)
}
