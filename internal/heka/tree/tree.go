package tree

import (
	"github.com/pkg/errors"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
)

// MaxLevels is the depth of the deepest tree in a bundle.
const MaxLevels = 5

// Levels holds the schema of each tree level, root first. Trees with fewer
// levels leave the tail nil.
type Levels [MaxLevels]*record.Schema

// Depth is the number of levels in use.
func (l Levels) Depth() int {
	for i, s := range l {
		if s == nil {
			return i
		}
	}
	return MaxLevels
}

// Node is one record of a tree. Interior nodes own their children; leaf
// nodes of the pulse tree hold samples once they have been filled.
type Node struct {
	Header   record.Header
	Children []*Node
	Samples  []float64
}

// Child walks down the tree by child index.
func (n *Node) Child(path ...int) (*Node, error) {
	cur := n
	for depth, i := range path {
		if i < 0 || i >= len(cur.Children) {
			return nil, errors.Wrapf(record.ErrPrecondition,
				"index %d at depth %d out of range (%d children)", i, depth+1, len(cur.Children))
		}
		cur = cur.Children[i]
	}
	return cur, nil
}

// Leaves returns every leaf below n in order.
func (n *Node) Leaves() []*Node {
	if len(n.Children) == 0 {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
