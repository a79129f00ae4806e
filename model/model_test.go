package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemsetCanonical(t *testing.T) {
	is := NewItemset("C", "A", "B", "A")
	assert.Equal(t, Itemset{"A", "B", "C"}, is)
	assert.True(t, is.Contains("B"))
	assert.False(t, is.Contains("D"))
	assert.Equal(t, Item("C"), is.Last())
	assert.Equal(t, "(A,B,C)", is.String())

	is = NewItemsetFromStrings([]string{" b", "", "a ", "b"})
	assert.Equal(t, Itemset{"a", "b"}, is)

	// Input is not modified.
	items := []Item{"B", "A"}
	NewItemset(items...)
	assert.Equal(t, []Item{"B", "A"}, items)
}

func TestItemsetIsSubsetOf(t *testing.T) {
	assert.True(t, NewItemset("A", "C").IsSubsetOf(NewItemset("A", "B", "C")))
	assert.True(t, Itemset{}.IsSubsetOf(NewItemset("A")))
	assert.False(t, NewItemset("A", "D").IsSubsetOf(NewItemset("A", "B", "C")))
	assert.False(t, NewItemset("A", "B").IsSubsetOf(NewItemset("A")))
}

func TestDatabaseSet(t *testing.T) {
	db := NewDatabase()
	db.Set(2, 5, "B")
	db.Set(1, 4, "C", "A")
	db.Set(1, 2, "B")
	// Replaces the item-set of (1, 4).
	db.Set(1, 4, "D")

	assert.Equal(t, []int64{1, 2}, db.SIDs())
	assert.Equal(t, 2, db.NumSequences())
	assert.Equal(t, 3, db.NumEvents())
	assert.Equal(t, []int64{2, 4}, db[1].EIDs())
	assert.Equal(t, Itemset{"D"}, db[1][4])
}

func TestPatternExtend(t *testing.T) {
	p := NewPattern(NewItemset("A"))
	seq := p.ExtendSequence("B")
	set := seq.ExtendItemset("C")

	assert.Equal(t, "<(A)>", p.String())
	assert.Equal(t, "<(A),(B)>", seq.String())
	assert.Equal(t, "<(A),(B,C)>", set.String())
	assert.Equal(t, 3, set.Length())
	assert.Equal(t, 2, set.Size())
	assert.Equal(t, []Item{"A", "B", "C"}, set.Items())

	assert.Equal(t, "<(A)>", Pattern{}.ExtendItemset("A").String())
}

func TestPatternCompare(t *testing.T) {
	ab := NewPattern(NewItemset("A", "B"))
	aThenB := NewPattern(NewItemset("A"), NewItemset("B"))
	a := NewPattern(NewItemset("A"))

	assert.True(t, a.Compare(ab) < 0)
	assert.True(t, a.Compare(aThenB) < 0)
	assert.True(t, aThenB.Compare(ab) < 0)
	assert.True(t, ab.Equal(NewPattern(NewItemset("B", "A"))))
	assert.NotEqual(t, ab.Key(), aThenB.Key())
}

func TestPatternIsSubPatternOf(t *testing.T) {
	long := NewPattern(NewItemset("A", "B"), NewItemset("C"), NewItemset("B", "D"))

	assert.True(t, NewPattern(NewItemset("B"), NewItemset("D")).IsSubPatternOf(long))
	assert.True(t, NewPattern(NewItemset("A"), NewItemset("B", "D")).IsSubPatternOf(long))
	assert.True(t, NewPattern(NewItemset("B"), NewItemset("B")).IsSubPatternOf(long))
	assert.False(t, NewPattern(NewItemset("A", "C")).IsSubPatternOf(long))
	assert.False(t, NewPattern(NewItemset("C"), NewItemset("A")).IsSubPatternOf(long))
	assert.True(t, long.IsSubPatternOf(long))
}

func TestPatternContainedIn(t *testing.T) {
	seq := Sequence{
		2: NewItemset("A", "B", "C"),
		4: NewItemset("B", "C"),
	}
	assert.True(t, NewPattern(NewItemset("B", "C")).ContainedIn(seq))
	assert.True(t, NewPattern(NewItemset("A"), NewItemset("C")).ContainedIn(seq))
	assert.False(t, NewPattern(NewItemset("C"), NewItemset("A")).ContainedIn(seq))
	assert.False(t, NewPattern(NewItemset("A", "D")).ContainedIn(seq))
	assert.True(t, Pattern{}.ContainedIn(seq))
}

func TestResult(t *testing.T) {
	r := NewResult(NewPattern(NewItemset("B", "C")), 2)
	assert.Equal(t, 2, r.Length)
	assert.Equal(t, "2 2 <(B,C)>", r.String())

	b, err := json.Marshal(r)
	assert.Nil(t, err)
	assert.Equal(t, `{"l":2,"s":2,"p":[["B","C"]]}`, string(b))
}
