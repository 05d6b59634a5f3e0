package search

import (
	"fmt"

	"github.com/domino14/fishderby/game"
)

// NodeID indexes a node in a Tree.
type NodeID int32

const NoNode NodeID = -1

type gameNode struct {
	state    *game.State
	move     game.Move
	parent   NodeID
	depth    uint8
	children []NodeID
	expanded bool
	// value is the last score the search assigned to this node.
	value  float64
	valued bool
}

// Tree is the search tree of one turn, kept as an arena. Children are
// generated on first access and kept for the rest of the turn, so later
// iterative-deepening passes walk the same nodes.
type Tree struct {
	rules game.Rules
	nodes []gameNode
}

func NewTree(rules game.Rules, root *game.State) *Tree {
	t := &Tree{rules: rules, nodes: make([]gameNode, 1, 1024)}
	t.nodes[0] = gameNode{state: root, move: game.Stay, parent: NoNode}
	return t
}

func (t *Tree) Root() NodeID {
	return 0
}

func (t *Tree) State(id NodeID) *game.State {
	return t.nodes[id].state
}

// Move is the move that led from the parent to id. It is meaningless for
// the root.
func (t *Tree) Move(id NodeID) game.Move {
	return t.nodes[id].move
}

func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Depth is the number of plies between the root and id.
func (t *Tree) Depth(id NodeID) int {
	return int(t.nodes[id].depth)
}

// Children returns the successors of id for the player on turn in its
// state. An empty result marks a leaf.
func (t *Tree) Children(id NodeID) []NodeID {
	if t.nodes[id].expanded {
		return t.nodes[id].children
	}
	succ := t.rules.Successors(t.nodes[id].state)
	children := make([]NodeID, len(succ))
	depth := t.nodes[id].depth + 1
	for i, sc := range succ {
		children[i] = NodeID(len(t.nodes))
		t.nodes = append(t.nodes, gameNode{
			state:  sc.State,
			move:   sc.Move,
			parent: id,
			depth:  depth,
		})
	}
	// t.nodes may have been reallocated by the appends above.
	t.nodes[id].children = children
	t.nodes[id].expanded = true
	return children
}

// Len is the number of nodes generated so far.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Value(id NodeID) (float64, bool) {
	return t.nodes[id].value, t.nodes[id].valued
}

func (t *Tree) setValue(id NodeID, v float64) {
	t.nodes[id].value = v
	t.nodes[id].valued = true
}

func (t *Tree) String(id NodeID) string {
	// Allocates; used for logging and tests.
	v, ok := t.Value(id)
	if !ok {
		return fmt.Sprintf("<node %d move %v depth %d>", id, t.Move(id), t.Depth(id))
	}
	return fmt.Sprintf("<node %d move %v depth %d value %v>", id, t.Move(id), t.Depth(id), v)
}
