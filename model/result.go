package model

import "fmt"

// Result is a maximal frequent pattern together with its support.
type Result struct {
	Length  int     `json:"l"`
	Support int     `json:"s"`
	Pattern Pattern `json:"p"`
}

func NewResult(p Pattern, support int) Result {
	return Result{Length: p.Length(), Support: support, Pattern: p}
}

// String renders the result as an output line: length, support, pattern.
func (r Result) String() string {
	return fmt.Sprintf("%d %d %s", r.Length, r.Support, r.Pattern)
}
