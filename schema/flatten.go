package schema

import (
	"github.com/hexbee-net/parquet-schema/parquet"
)

// leafState is what a node inherits from its ancestors. It is never modified once
// created: each child gets its own copy.
type leafState struct {
	node   Type
	base   Type
	parent *GroupType
	path   columnPath
	maxR   uint16
	maxD   uint16
}

// columnPath is a path whose appends never alias: siblings can extend the same
// parent path without overwriting each other.
type columnPath []string

func (path columnPath) append(name string) columnPath {
	return append(path[:len(path):len(path)], name)
}

// levels applies the repetition of a node to the levels inherited from its parent.
// They wrap past 65535, see New.
func levels(rep parquet.FieldRepetitionType, maxR, maxD uint16) (uint16, uint16) {
	switch rep {
	case parquet.FieldRepetitionType_OPTIONAL:
		maxD++
	case parquet.FieldRepetitionType_REPEATED:
		maxD++
		maxR++
	}

	return maxR, maxD
}

// visit processes a single node. Primitives produce a column, groups produce the work
// items for their children, in order.
func visit(s leafState) (*Column, []leafState) {
	path := s.path.append(s.node.Name())
	maxR, maxD := levels(s.node.RepetitionType(), s.maxR, s.maxD)

	switch n := s.node.(type) {
	case *PrimitiveType:
		return &Column{
			flatName:  flatName(path),
			path:      path,
			primitive: n,
			maxR:      maxR,
			maxD:      maxD,
			base:      s.base,
			parent:    s.parent,
		}, nil

	case *GroupType:
		children := make([]leafState, len(n.fields))
		for i, f := range n.fields {
			children[i] = leafState{
				node:   f,
				base:   s.base,
				parent: n,
				path:   path,
				maxR:   maxR,
				maxD:   maxD,
			}
		}

		return nil, children
	}

	return nil, nil
}

// buildLeaves returns the columns of fields in depth first order.
// The traversal uses an explicit stack so that its depth is not bound by the call stack.
func buildLeaves(fields []Type) []*Column {
	var (
		leaves []*Column
		stack  = make([]leafState, 0, len(fields))
	)

	for i := len(fields) - 1; i >= 0; i-- {
		stack = append(stack, leafState{
			node: fields[i],
			base: fields[i],
		})
	}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		col, children := visit(s)
		if col != nil {
			col.index = len(leaves)
			leaves = append(leaves, col)

			continue
		}

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return leaves
}
