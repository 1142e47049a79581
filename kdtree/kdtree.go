// Package kdtree implements a 3D kd-tree built with the Surface Area
// Heuristic (SAH) and traversed for nearest-hit ray queries and point
// containment queries. Leaf behaviour is injected by a LeafHandler rather
// than by subclassing, and the tree owns a single growable node array
// instead of per-node allocations.
package kdtree

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-raytrace/geom"
	"github.com/cwbudde/algo-raytrace/internal/mathutil"
)

// ErrInvalidArgument is the sentinel wrapped by every validation failure.
var ErrInvalidArgument = errors.New("kdtree: invalid argument")

// ErrAllocationFailure is returned when the node array cannot grow further
// because it has reached Config.MaxNodes.
var ErrAllocationFailure = errors.New("kdtree: allocation failure")

// ErrNotImplemented is returned by Hit/Contains when no LeafHandler was
// supplied at Build time.
var ErrNotImplemented = errors.New("kdtree: leaf hook not implemented")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Item is the smallest indexable unit stored in the tree: an id referring
// to external geometry and the bounding box of its extent. Items are
// immutable once passed to Build; their boxes are consumed into the tree
// and not retained beyond it.
type Item struct {
	ID  int
	Box geom.BoundingBox
}

// nodeType discriminates a KDNode. Branch values equal the split axis
// (0/1/2) so the axis can be read directly off the tag; leaf is a
// distinct fourth value.
type nodeType int8

const (
	axisX nodeType = 0
	axisY nodeType = 1
	axisZ nodeType = 2
	leaf  nodeType = 3
)

// KDNode is the packed, tagged node record described by the tree's design:
// a LEAF carries an owned slice of item ids; a BRANCH (X/Y/Z) carries the
// split coordinate and the index of its upper child — the lower child is
// always Upper's sibling at the node's own index + 1.
type KDNode struct {
	Type  nodeType
	Items []int32 // leaf only
	Split float64 // branch only
	Upper int32   // branch only: index of the upper child
}

// Config holds the tree's build parameters.
type Config struct {
	// MaxDepth is the maximum recursion depth. 0 means "derive
	// automatically from the item count": ceil(8 + 1.3*ln(N)).
	MaxDepth int

	// MinItems is the item-count floor below which a node is always a
	// leaf. Clamped to >= 1.
	MinItems int

	// HitCost is the traversal cost weight in the SAH formula. Clamped to
	// >= 1.
	HitCost float64

	// EmptyBonus rewards splits that produce an empty child, in [0,1].
	// Values outside that range are rejected with ErrInvalidArgument.
	EmptyBonus float64

	// MaxNodes caps the size of the node array; 0 means unbounded. This is
	// the knob that makes AllocationFailure (§7) observable without an
	// actual out-of-memory condition: a caller that wants to bound worst
	// case tree size for a pathological input sets it explicitly.
	MaxNodes int
}

// DefaultConfig returns the package defaults: MinItems=1, HitCost=1,
// EmptyBonus=0.2, MaxDepth auto-derived, no node ceiling.
func DefaultConfig() Config {
	return Config{
		MaxDepth:   0,
		MinItems:   1,
		HitCost:    1,
		EmptyBonus: 0.2,
	}
}

func (c *Config) normalise(itemCount int) error {
	if c.EmptyBonus < 0 || c.EmptyBonus > 1 {
		return invalidf("empty_bonus must be in [0,1], got %g", c.EmptyBonus)
	}
	c.MinItems = mathutil.MaxInt(c.MinItems, 1)
	c.HitCost = mathutil.Clamp(c.HitCost, 1, math.Inf(1))
	if c.MaxDepth <= 0 {
		c.MaxDepth = int(math.Ceil(8 + 1.3*math.Log(float64(itemCount))))
	}
	return nil
}

// Tree is an immutable-after-build SAH kd-tree.
type Tree struct {
	nodes   []KDNode
	root    int
	bounds  geom.BoundingBox
	cfg     Config
	handler LeafHandler
}

// Bounds returns the tree's overall bounding box (union of all item boxes
// at build time).
func (t *Tree) Bounds() geom.BoundingBox { return t.bounds }

// Config returns the build parameters the tree was constructed with
// (MaxDepth, MinItems and HitCost resolved to their effective values).
func (t *Tree) Config() Config { return t.cfg }

// NodeCount returns the number of nodes currently in the tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// LeafItems returns the item ids owned by the leaf at nodeID. It panics if
// nodeID does not name a leaf; callers driven by a LeafHandler already know
// that nodeID is a leaf because the tree only invokes the handler there.
func (t *Tree) LeafItems(nodeID int) []int32 {
	n := t.nodes[nodeID]
	if n.Type != leaf {
		panic("kdtree: LeafItems called on a branch node")
	}
	return n.Items
}
