package pattern

import (
	M "seqminer/model"
)

// GrowthKind tells how an atom extends the prefix of its class.
type GrowthKind int

const (
	// SequenceExtension appends a new single item item-set after the prefix.
	SequenceExtension GrowthKind = iota + 1
	// ItemsetExtension adds an item to the prefix's last item-set.
	ItemsetExtension
)

func (k GrowthKind) String() string {
	switch k {
	case SequenceExtension:
		return "sequence"
	case ItemsetExtension:
		return "itemset"
	}
	return "unknown"
}

// atom is a member of an equivalence class: the class prefix grown by item.
type atom struct {
	pattern M.Pattern
	kind    GrowthKind
	item    M.Item
	idList  IDList
}

func newSeedAtom(item M.Item, idList IDList) *atom {
	return &atom{
		pattern: M.Pattern{M.Itemset{item}},
		kind:    SequenceExtension,
		item:    item,
		idList:  idList,
	}
}

func (a *atom) support() int {
	return a.idList.Support()
}

func (a *atom) result() M.Result {
	return M.NewResult(a.pattern, a.support())
}

// growthKinds lists how x can be grown with sibling y. Itemset growth is
// restricted to siblings of the same kind with a greater item so every
// item-set is generated once, in canonical order.
func growthKinds(x, y *atom) []GrowthKind {
	kinds := make([]GrowthKind, 0, 2)
	if x.kind == y.kind && x.item.Less(y.item) {
		kinds = append(kinds, ItemsetExtension)
	}
	if y.kind == SequenceExtension {
		kinds = append(kinds, SequenceExtension)
	}
	return kinds
}

// grow joins x with its sibling y.
func grow(x, y *atom, kind GrowthKind) *atom {
	switch kind {
	case SequenceExtension:
		return &atom{
			pattern: x.pattern.ExtendSequence(y.item),
			kind:    SequenceExtension,
			item:    y.item,
			idList:  sequenceJoin(x.idList, y.idList),
		}
	case ItemsetExtension:
		return &atom{
			pattern: x.pattern.ExtendItemset(y.item),
			kind:    ItemsetExtension,
			item:    y.item,
			idList:  itemsetJoin(x.idList, y.idList),
		}
	}
	return nil
}

// sequenceJoin keeps, for every sequence of both lists, the right
// occurrences strictly after the earliest left occurrence.
func sequenceJoin(left, right IDList) IDList {
	joined := make(IDList, 0)
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		switch {
		case left[i].SID < right[j].SID:
			i = left.nextSID(i)
		case left[i].SID > right[j].SID:
			j = right.nextSID(j)
		default:
			earliest := left[i].EID
			end := right.nextSID(j)
			for k := j; k < end; k++ {
				if right[k].EID > earliest {
					joined = append(joined, right[k])
				}
			}
			i = left.nextSID(i)
			j = end
		}
	}
	return joined
}

// itemsetJoin keeps the occurrences present in both lists.
func itemsetJoin(left, right IDList) IDList {
	joined := make(IDList, 0)
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		switch {
		case left[i].SID < right[j].SID,
			left[i].SID == right[j].SID && left[i].EID < right[j].EID:
			i++
		case left[i].SID > right[j].SID,
			left[i].SID == right[j].SID && left[i].EID > right[j].EID:
			j++
		default:
			joined = append(joined, left[i])
			i++
			j++
		}
	}
	return joined
}
