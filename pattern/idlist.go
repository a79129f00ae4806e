package pattern

import (
	M "seqminer/model"
	"sort"
)

// Occurrence marks the event at which a pattern's last item-set matched.
type Occurrence struct {
	SID int64 `json:"sid"`
	EID int64 `json:"eid"`
}

// IDList is the vertical representation of a pattern: every (sid, eid) at
// which the pattern can end, sorted by sid then eid.
type IDList []Occurrence

// Support is the number of distinct sequences in the list.
func (l IDList) Support() int {
	n := 0
	for i := range l {
		if i == 0 || l[i].SID != l[i-1].SID {
			n++
		}
	}
	return n
}

// nextSID returns the end of the run of occurrences of l[start].SID.
func (l IDList) nextSID(start int) int {
	end := start
	for end < len(l) && l[end].SID == l[start].SID {
		end++
	}
	return end
}

// BuildIndex converts db into the id-list of every distinct item, one
// occurrence per (sid, eid) at which the item appears. Sequences and events
// are visited in ascending order so every list comes out sorted.
func BuildIndex(db M.Database) map[M.Item]IDList {
	index := make(map[M.Item]IDList)
	for _, sid := range db.SIDs() {
		seq := db[sid]
		for _, eid := range seq.EIDs() {
			for _, item := range M.NewItemset(seq[eid]...) {
				index[item] = append(index[item], Occurrence{SID: sid, EID: eid})
			}
		}
	}
	return index
}

// FrequentItems returns the items of index with support of at least
// minSupport, in canonical order.
func FrequentItems(index map[M.Item]IDList, minSupport int) []M.Item {
	items := make([]M.Item, 0, len(index))
	for item, l := range index {
		if l.Support() >= minSupport {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Less(items[j]) })
	return items
}
