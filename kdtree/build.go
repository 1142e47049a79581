package kdtree

import (
	"sort"

	"github.com/cwbudde/algo-raytrace/geom"
)

// Build constructs a tree over items using cfg and handler. handler may be
// nil; in that case Hit/Contains later return ErrNotImplemented instead of
// failing the build, mirroring a hook that simply was never overridden.
func Build(items []Item, cfg Config, handler LeafHandler) (*Tree, error) {
	if len(items) == 0 {
		return nil, invalidf("items must be non-empty")
	}
	if err := cfg.normalise(len(items)); err != nil {
		return nil, err
	}

	bounds := geom.EmptyBoundingBox()
	for _, it := range items {
		bounds.Union(it.Box)
	}

	t := &Tree{
		bounds:  bounds,
		cfg:     cfg,
		handler: handler,
		nodes:   make([]KDNode, 0, 128),
	}

	root, err := t.buildRecursive(items, bounds, 0)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

// reserve appends a placeholder node and returns its index, failing with
// ErrAllocationFailure once cfg.MaxNodes is reached. The placeholder is
// overwritten by the caller once its final contents (which, for a branch,
// depend on the index of nodes built after it) are known.
func (t *Tree) reserve() (int, error) {
	if t.cfg.MaxNodes > 0 && len(t.nodes) >= t.cfg.MaxNodes {
		return 0, ErrAllocationFailure
	}
	t.nodes = append(t.nodes, KDNode{})
	return len(t.nodes) - 1, nil
}

func itemIDs(items []Item) []int32 {
	ids := make([]int32, len(items))
	for i, it := range items {
		ids[i] = int32(it.ID)
	}
	return ids
}

// buildRecursive builds the subtree over items/bounds at depth and returns
// its root index. The node's own slot is reserved at entry but only
// written after both children (if any) have finished recursing: the node
// array may be reallocated by an append performed deep inside that
// recursion, so writing through an index obtained before the recursive
// calls, rather than a pointer captured before them, is what keeps this
// safe — indices stay valid across reallocation, pointers would not.
func (t *Tree) buildRecursive(items []Item, bounds geom.BoundingBox, depth int) (int, error) {
	idx, err := t.reserve()
	if err != nil {
		return 0, err
	}

	if depth >= t.cfg.MaxDepth || len(items) <= t.cfg.MinItems {
		t.nodes[idx] = KDNode{Type: leaf, Items: itemIDs(items)}
		return idx, nil
	}

	axis, split, found := bestSplit(items, bounds, t.cfg)
	if !found {
		t.nodes[idx] = KDNode{Type: leaf, Items: itemIDs(items)}
		return idx, nil
	}

	var lowerItems, upperItems []Item
	for _, it := range items {
		if it.Box.GetLower(axis) < split {
			lowerItems = append(lowerItems, it)
		}
		if it.Box.GetUpper(axis) > split {
			upperItems = append(upperItems, it)
		}
	}

	lowerBounds := bounds.SetUpper(axis, split)
	upperBounds := bounds.SetLower(axis, split)

	// The lower child must land at idx+1: no other reserve() call happens
	// between reserving idx and this one.
	if _, err := t.buildRecursive(lowerItems, lowerBounds, depth+1); err != nil {
		return 0, err
	}
	upperIdx, err := t.buildRecursive(upperItems, upperBounds, depth+1)
	if err != nil {
		return 0, err
	}

	t.nodes[idx] = KDNode{Type: nodeType(axis), Split: split, Upper: int32(upperIdx)}
	return idx, nil
}

type edge struct {
	value   float64
	isUpper bool
}

// less implements the edge sort order: by value, with a coincident upper
// edge sorting before a coincident lower edge so the sweep closes a
// straddling interval before opening a new one.
func (e edge) less(o edge) bool {
	if e.value != o.value {
		return e.value < o.value
	}
	return e.isUpper && !o.isUpper
}

// bestSplit tries axes in [longest, (longest+1)%3, (longest+2)%3], stopping
// at the first axis that produces any valid interior candidate, and
// returns the minimum-cost split found there. found is false when no axis
// produced a single valid candidate, or when the best candidate on that
// first axis does not beat the leaf cost.
func bestSplit(items []Item, bounds geom.BoundingBox, cfg Config) (axis int, split float64, found bool) {
	longest := bounds.LargestAxis()
	axes := [3]int{longest, (longest + 1) % 3, (longest + 2) % 3}

	leafCost := float64(len(items)) * cfg.HitCost
	area := bounds.SurfaceArea()

	for _, a := range axes {
		edges := make([]edge, 0, 2*len(items))
		for _, it := range items {
			edges = append(edges, edge{it.Box.GetLower(a), false}, edge{it.Box.GetUpper(a), true})
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i].less(edges[j]) })

		lo := bounds.GetLower(a)
		hi := bounds.GetUpper(a)

		lowerCount := 0
		upperCount := len(items)

		bestCost := leafCost
		bestSplit := 0.0
		haveCandidate := false

		for _, e := range edges {
			if e.isUpper {
				upperCount--
			}
			if e.value > lo && e.value < hi {
				cost := splitCost(a, e.value, lowerCount, upperCount, bounds, area, cfg)
				if !haveCandidate || cost < bestCost {
					bestCost = cost
					bestSplit = e.value
					haveCandidate = true
				}
			}
			if !e.isUpper {
				lowerCount++
			}
		}

		if haveCandidate {
			if bestCost < leafCost {
				return a, bestSplit, true
			}
			// A valid candidate existed on this axis but none beat the
			// leaf cost: per spec this still counts as "the first axis
			// that produced a valid candidate", so we stop here and fall
			// back to a leaf rather than trying the remaining axes.
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func splitCost(axis int, split float64, nLo, nHi int, bounds geom.BoundingBox, area float64, cfg Config) float64 {
	loBox := bounds.SetUpper(axis, split)
	hiBox := bounds.SetLower(axis, split)
	aLo := loBox.SurfaceArea()
	aHi := hiBox.SurfaceArea()

	bonus := 1.0
	if nLo == 0 || nHi == 0 {
		bonus = 1 - cfg.EmptyBonus
	}
	return 1 + bonus*(aLo*float64(nLo)+aHi*float64(nHi))/area*cfg.HitCost
}
