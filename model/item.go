package model

import (
	"sort"
	"strings"
)

// Item is an atomic value of an item-set. Items are ordered byte-wise.
type Item string

func (i Item) Less(other Item) bool {
	return strings.Compare(string(i), string(other)) < 0
}

// Itemset holds items that occur together at one event. Canonical form is
// ascending without duplicates.
type Itemset []Item

// NewItemset returns the canonical item-set for items.
func NewItemset(items ...Item) Itemset {
	is := make(Itemset, len(items))
	copy(is, items)
	return is.Canonical()
}

// NewItemsetFromStrings builds a canonical item-set skipping empty values.
func NewItemsetFromStrings(values []string) Itemset {
	items := make([]Item, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		items = append(items, Item(v))
	}
	return NewItemset(items...)
}

// Canonical sorts the item-set in place and drops duplicates.
func (is Itemset) Canonical() Itemset {
	if len(is) < 2 {
		return is
	}
	sort.Slice(is, func(i, j int) bool { return is[i].Less(is[j]) })
	j := 1
	for i := 1; i < len(is); i++ {
		if is[i] != is[j-1] {
			is[j] = is[i]
			j++
		}
	}
	return is[:j]
}

func (is Itemset) Contains(item Item) bool {
	idx := sort.Search(len(is), func(i int) bool { return !is[i].Less(item) })
	return idx < len(is) && is[idx] == item
}

// IsSubsetOf expects both item-sets in canonical form.
func (is Itemset) IsSubsetOf(other Itemset) bool {
	if len(is) > len(other) {
		return false
	}
	j := 0
	for _, item := range is {
		for j < len(other) && other[j].Less(item) {
			j++
		}
		if j == len(other) || other[j] != item {
			return false
		}
		j++
	}
	return true
}

// Last returns the greatest item of a canonical item-set.
func (is Itemset) Last() Item {
	return is[len(is)-1]
}

func (is Itemset) Compare(other Itemset) int {
	for i := 0; i < len(is) && i < len(other); i++ {
		if c := strings.Compare(string(is[i]), string(other[i])); c != 0 {
			return c
		}
	}
	return len(is) - len(other)
}

func (is Itemset) String() string {
	parts := make([]string, len(is))
	for i, item := range is {
		parts[i] = string(item)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
