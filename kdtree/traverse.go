package kdtree

import "github.com/cwbudde/algo-raytrace/geom"

// Hit intersects ray against the tree's overall bounds and, on a hit,
// descends to the first leaf whose LeafHandler reports a hit, respecting
// near/far ordering so that leaf is the one containing the nearest
// intersection along the ray.
func (t *Tree) Hit(ray geom.Ray) (bool, error) {
	if t.handler == nil {
		return false, ErrNotImplemented
	}
	hit, tMin, tMax := t.bounds.FullIntersection(ray.Origin(), ray.Direction())
	if !hit {
		return false, nil
	}
	return t.hitRecursive(t.root, ray, tMin, tMax)
}

func (t *Tree) hitRecursive(nodeID int, ray geom.Ray, tMin, tMax float64) (bool, error) {
	n := t.nodes[nodeID]
	if n.Type == leaf {
		return t.handler.HitLeaf(t, nodeID, ray, tMax)
	}

	axis := int(n.Type)
	split := n.Split
	o := ray.Origin().GetAxis(axis)
	d := ray.Direction().GetAxis(axis)

	lowerChild := nodeID + 1
	upperChild := int(n.Upper)

	if d == 0 {
		if o < split {
			return t.hitRecursive(lowerChild, ray, tMin, tMax)
		}
		return t.hitRecursive(upperChild, ray, tMin, tMax)
	}

	tSplit := (split - o) / d
	below := o < split || (o == split && d < 0)
	near, far := lowerChild, upperChild
	if !below {
		near, far = upperChild, lowerChild
	}

	if tSplit > tMax || tSplit <= 0 {
		return t.hitRecursive(near, ray, tMin, tMax)
	}
	if tSplit < tMin {
		return t.hitRecursive(far, ray, tMin, tMax)
	}

	hit, err := t.hitRecursive(near, ray, tMin, tSplit)
	if err != nil {
		return false, err
	}
	if hit {
		return true, nil
	}
	return t.hitRecursive(far, ray, tSplit, tMax)
}

// Contains returns the union of item ids, across every leaf visited while
// descending to point, whose geometry the LeafHandler reports as actually
// enclosing point. A point on a split plane descends into the upper child
// only.
//
// A single descent only ever reaches one leaf, so "union of all visited
// leaves" here collapses to that leaf's own result — but the dispatcher
// must still return it on both branch arms, which is the fix for the
// behaviour noted in DESIGN.md (an earlier source for this traversal
// dropped the result of one of the two recursive arms).
func (t *Tree) Contains(point geom.Point3) ([]int32, error) {
	if t.handler == nil {
		return nil, ErrNotImplemented
	}
	if !t.bounds.Contains(point) {
		return nil, nil
	}
	return t.containsRecursive(t.root, point), nil
}

func (t *Tree) containsRecursive(nodeID int, point geom.Point3) []int32 {
	n := t.nodes[nodeID]
	if n.Type == leaf {
		return t.handler.ContainsLeaf(t, nodeID, point)
	}

	axis := int(n.Type)
	if point.GetAxis(axis) < n.Split {
		return t.containsRecursive(nodeID+1, point)
	}
	return t.containsRecursive(int(n.Upper), point)
}
