package supergraph

import "fmt"

// Point is a program point. Implementations must be comparable.
type Point interface {
	String() string
}

// Branch tags a conditional edge with the outcome it is taken on.
type Branch int

const (
	// BranchNone marks an unconditional edge.
	BranchNone Branch = iota

	// BranchTrue marks an edge taken when the condition holds.
	BranchTrue

	// BranchFalse marks an edge taken when the condition does not hold.
	BranchFalse
)

var branchValueMap = map[Branch]string{
	BranchNone:  "",
	BranchTrue:  "true",
	BranchFalse: "false",
}

func (b Branch) String() string {
	v, ok := branchValueMap[b]
	if !ok {
		return fmt.Sprintf("invalid(%d)", b)
	}

	return v
}

// UnmarshalText for setting values with fixtures, configs, etc.
func (b *Branch) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range branchValueMap {
		if v == text {
			*b = k
			return nil
		}
	}

	return fmt.Errorf("unknown branch tag %q", text)
}

// Edge connects two points. Implementations must be comparable.
type Edge interface {
	Src() Point
	Dst() Point
	Branch() Branch
}

// Graph is a read-only view of a supergraph.
//
// Returned slices belong to the graph and must not be modified.
type Graph interface {
	Predecessors(p Point) []Edge
	Successors(p Point) []Edge
	EntryPoints() []Point
}
