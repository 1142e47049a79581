package kdtree

import "github.com/cwbudde/algo-raytrace/geom"

// LeafHandler supplies the leaf behaviour the tree itself knows nothing
// about: how to test the leaf's items against a ray, and which of them
// enclose a point. The tree is generic over this interface rather than
// requiring callers to subclass it.
type LeafHandler interface {
	// HitLeaf is invoked when traversal reaches the leaf nodeID. It should
	// test ray against the leaf's items (via tree.LeafItems(nodeID)) up to
	// parametric distance tMax and report whether any of them were hit,
	// optionally recording side-channel details about the closest hit.
	HitLeaf(tree *Tree, nodeID int, ray geom.Ray, tMax float64) (bool, error)

	// ContainsLeaf returns the subset of the leaf's items whose geometry
	// actually encloses point.
	ContainsLeaf(tree *Tree, nodeID int, point geom.Point3) []int32
}

// FuncHandler adapts a pair of plain functions operating on item-id lists
// to LeafHandler, for embedders that would rather not implement an
// interface against the tree type directly.
type FuncHandler struct {
	Hit      func(ids []int32, ray geom.Ray, tMax float64) (bool, error)
	Contains func(ids []int32, point geom.Point3) []int32
}

// HitLeaf implements LeafHandler by forwarding the leaf's item ids to Hit.
func (h FuncHandler) HitLeaf(tree *Tree, nodeID int, ray geom.Ray, tMax float64) (bool, error) {
	if h.Hit == nil {
		return false, ErrNotImplemented
	}
	return h.Hit(tree.LeafItems(nodeID), ray, tMax)
}

// ContainsLeaf implements LeafHandler by forwarding the leaf's item ids to
// Contains.
func (h FuncHandler) ContainsLeaf(tree *Tree, nodeID int, point geom.Point3) []int32 {
	if h.Contains == nil {
		return nil
	}
	return h.Contains(tree.LeafItems(nodeID), point)
}
