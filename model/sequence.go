package model

import "sort"

// Sequence maps event ids to the item-set observed at that event. Temporal
// order is ascending eid.
type Sequence map[int64]Itemset

// EIDs returns the event ids in temporal order.
func (s Sequence) EIDs() []int64 {
	eids := make([]int64, 0, len(s))
	for eid := range s {
		eids = append(eids, eid)
	}
	sort.Slice(eids, func(i, j int) bool { return eids[i] < eids[j] })
	return eids
}

// Database maps sequence ids to sequences. It is read-only while mining.
type Database map[int64]Sequence

func NewDatabase() Database {
	return make(Database)
}

// Set stores the item-set of event eid in sequence sid. An item-set already
// present for the same (sid, eid) is replaced.
func (db Database) Set(sid, eid int64, items ...Item) {
	seq, ok := db[sid]
	if !ok {
		seq = make(Sequence)
		db[sid] = seq
	}
	seq[eid] = NewItemset(items...)
}

// SIDs returns the sequence ids in ascending order.
func (db Database) SIDs() []int64 {
	sids := make([]int64, 0, len(db))
	for sid := range db {
		sids = append(sids, sid)
	}
	sort.Slice(sids, func(i, j int) bool { return sids[i] < sids[j] })
	return sids
}

func (db Database) NumSequences() int {
	return len(db)
}

// NumEvents is the total number of (sid, eid) pairs.
func (db Database) NumEvents() int {
	n := 0
	for _, seq := range db {
		n += len(seq)
	}
	return n
}
