package model

import "strings"

const (
	keyItemSeparator    = "\x1f"
	keyItemsetSeparator = "\x1e"
)

// Pattern is an ordered list of item-sets. Its length is the total number of
// items across all item-sets.
type Pattern []Itemset

func NewPattern(itemsets ...Itemset) Pattern {
	p := make(Pattern, 0, len(itemsets))
	for _, is := range itemsets {
		p = append(p, NewItemset(is...))
	}
	return p
}

func (p Pattern) Length() int {
	n := 0
	for _, is := range p {
		n += len(is)
	}
	return n
}

// Size is the number of item-sets.
func (p Pattern) Size() int {
	return len(p)
}

func (p Pattern) Clone() Pattern {
	c := make(Pattern, len(p))
	for i, is := range p {
		c[i] = append(Itemset(nil), is...)
	}
	return c
}

// ExtendSequence returns a copy of p followed by the item-set {item}.
func (p Pattern) ExtendSequence(item Item) Pattern {
	c := p.Clone()
	return append(c, Itemset{item})
}

// ExtendItemset returns a copy of p with item added to its last item-set.
func (p Pattern) ExtendItemset(item Item) Pattern {
	if len(p) == 0 {
		return Pattern{Itemset{item}}
	}
	c := p.Clone()
	last := len(c) - 1
	c[last] = append(c[last], item).Canonical()
	return c
}

// Items returns all items in pattern order.
func (p Pattern) Items() []Item {
	items := make([]Item, 0, p.Length())
	for _, is := range p {
		items = append(items, is...)
	}
	return items
}

// Compare orders patterns item-set by item-set; a proper prefix sorts first.
func (p Pattern) Compare(other Pattern) int {
	for i := 0; i < len(p) && i < len(other); i++ {
		if c := p[i].Compare(other[i]); c != 0 {
			return c
		}
	}
	return len(p) - len(other)
}

func (p Pattern) Equal(other Pattern) bool {
	return p.Compare(other) == 0
}

// IsSubPatternOf reports whether every item-set of p is contained, in order,
// in a distinct item-set of other.
func (p Pattern) IsSubPatternOf(other Pattern) bool {
	j := 0
	for _, is := range p {
		for j < len(other) && !is.IsSubsetOf(other[j]) {
			j++
		}
		if j == len(other) {
			return false
		}
		j++
	}
	return true
}

// ContainedIn reports whether seq contains p as a temporally ordered
// subsequence.
func (p Pattern) ContainedIn(seq Sequence) bool {
	if len(p) == 0 {
		return true
	}
	i := 0
	for _, eid := range seq.EIDs() {
		if p[i].IsSubsetOf(seq[eid]) {
			i++
			if i == len(p) {
				return true
			}
		}
	}
	return false
}

// Key is a collision free map key for the pattern.
func (p Pattern) Key() string {
	parts := make([]string, len(p))
	for i, is := range p {
		items := make([]string, len(is))
		for j, item := range is {
			items[j] = string(item)
		}
		parts[i] = strings.Join(items, keyItemSeparator)
	}
	return strings.Join(parts, keyItemsetSeparator)
}

func (p Pattern) String() string {
	parts := make([]string, len(p))
	for i, is := range p {
		parts[i] = is.String()
	}
	return "<" + strings.Join(parts, ",") + ">"
}
