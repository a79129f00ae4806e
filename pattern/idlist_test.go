package pattern

import (
	M "seqminer/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIndex(t *testing.T) {
	db := M.NewDatabase()
	db.Set(2, 3, "B", "C")
	db.Set(1, 4, "B", "C")
	db.Set(1, 2, "A", "B", "C")

	index := BuildIndex(db)
	assert.Len(t, index, 3)
	assert.Equal(t, IDList{{1, 2}}, index["A"])
	assert.Equal(t, IDList{{1, 2}, {1, 4}, {2, 3}}, index["B"])
	assert.Equal(t, 2, index["B"].Support())
	assert.Equal(t, 1, index["A"].Support())

	assert.Equal(t, []M.Item{"B", "C"}, FrequentItems(index, 2))
	assert.Equal(t, []M.Item{"A", "B", "C"}, FrequentItems(index, 1))
	assert.Empty(t, FrequentItems(index, 3))

	assert.Empty(t, BuildIndex(M.NewDatabase()))
}

func TestSequenceJoin(t *testing.T) {
	left := IDList{{1, 2}, {1, 5}, {2, 7}, {4, 1}}
	right := IDList{{1, 1}, {1, 3}, {1, 6}, {2, 7}, {3, 1}, {4, 2}}

	// Every right occurrence after the earliest left one survives.
	joined := sequenceJoin(left, right)
	assert.Equal(t, IDList{{1, 3}, {1, 6}, {4, 2}}, joined)
	assert.Equal(t, 2, joined.Support())

	assert.Empty(t, sequenceJoin(left, IDList{}))
	assert.Empty(t, sequenceJoin(IDList{{1, 3}}, IDList{{1, 3}}))
}

func TestItemsetJoin(t *testing.T) {
	left := IDList{{1, 2}, {1, 5}, {2, 7}, {4, 1}}
	right := IDList{{1, 1}, {1, 5}, {2, 7}, {3, 1}, {4, 2}}

	joined := itemsetJoin(left, right)
	assert.Equal(t, IDList{{1, 5}, {2, 7}}, joined)
	assert.Equal(t, 2, joined.Support())
}

func TestGrowthKinds(t *testing.T) {
	a := &atom{kind: SequenceExtension, item: "A"}
	b := &atom{kind: SequenceExtension, item: "B"}
	c := &atom{kind: ItemsetExtension, item: "C"}

	assert.Equal(t, []GrowthKind{ItemsetExtension, SequenceExtension}, growthKinds(a, b))
	assert.Equal(t, []GrowthKind{SequenceExtension}, growthKinds(b, a))
	assert.Equal(t, []GrowthKind{SequenceExtension}, growthKinds(a, a))
	assert.Equal(t, []GrowthKind{SequenceExtension}, growthKinds(c, a))
	assert.Empty(t, growthKinds(a, c))
	assert.Empty(t, growthKinds(c, c))
	assert.Equal(t, "itemset", ItemsetExtension.String())
}

func TestGrowKeepsSupportAntiMonotone(t *testing.T) {
	db := fixtureDatabase(7, 12, 6, 5)
	index := BuildIndex(db)
	items := FrequentItems(index, 1)
	for _, i := range items {
		for _, j := range items {
			x := newSeedAtom(i, index[i])
			y := newSeedAtom(j, index[j])
			for _, kind := range growthKinds(x, y) {
				child := grow(x, y, kind)
				assert.LessOrEqual(t, child.support(), x.support())
				assert.LessOrEqual(t, child.support(), y.support())
				assert.Equal(t, CountSupport(db, child.pattern), child.support(),
					"support of %s", child.pattern)
			}
		}
	}
}
