package kdtree

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-raytrace/geom"
)

// boxHandler is a LeafHandler over a plain map of item id to bounding box,
// used by every test below in place of real scene geometry.
type boxHandler struct {
	boxes map[int32]geom.BoundingBox
	// visits records, in order, the leaf node ids HitLeaf was called on.
	visits []int
}

func (h *boxHandler) HitLeaf(tree *Tree, nodeID int, ray geom.Ray, tMax float64) (bool, error) {
	h.visits = append(h.visits, nodeID)
	for _, id := range tree.LeafItems(nodeID) {
		box := h.boxes[id]
		hit, tMin, tHi := box.FullIntersection(ray.Origin(), ray.Direction())
		if hit && tHi >= 0 && tMin <= tMax {
			return true, nil
		}
	}
	return false, nil
}

func (h *boxHandler) ContainsLeaf(tree *Tree, nodeID int, point geom.Point3) []int32 {
	var out []int32
	for _, id := range tree.LeafItems(nodeID) {
		if h.boxes[id].Contains(point) {
			out = append(out, id)
		}
	}
	return out
}

type basicRay struct {
	origin geom.Point3
	dir    geom.Vector3
}

func (r basicRay) Origin() geom.Point3               { return r.origin }
func (r basicRay) Direction() geom.Vector3            { return r.dir }
func (r basicRay) RefractionWavelength() float64      { return 0 }
func (r basicRay) NewSpectrum() *geom.Spectrum        { return geom.NewSpectrum(0) }
func (r basicRay) SpawnDaughter(geom.Point3, geom.Vector3) (geom.Ray, bool) {
	return nil, false
}
func (r basicRay) Trace(geom.World) (*geom.Spectrum, error) { return geom.NewSpectrum(0), nil }

func threeBoxItems() []Item {
	return []Item{
		{ID: 0, Box: geom.NewBoundingBox(geom.Point3{0, 0, 0}, geom.Point3{1, 1, 1})},
		{ID: 1, Box: geom.NewBoundingBox(geom.Point3{2, 0, 0}, geom.Point3{3, 1, 1})},
		{ID: 2, Box: geom.NewBoundingBox(geom.Point3{4, 0, 0}, geom.Point3{5, 1, 1})},
	}
}

func newBoxHandler(items []Item) *boxHandler {
	h := &boxHandler{boxes: make(map[int32]geom.BoundingBox, len(items))}
	for _, it := range items {
		h.boxes[int32(it.ID)] = it.Box
	}
	return h
}

func TestBoundsCoverAllItems(t *testing.T) {
	items := threeBoxItems()
	tree, err := Build(items, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, it := range items {
		b := tree.Bounds()
		if !b.Contains(it.Box.Lower) || !b.Contains(it.Box.Upper) {
			t.Fatalf("tree bounds %+v do not contain item %d box %+v", b, it.ID, it.Box)
		}
	}
}

func TestHitOrderAndFirstHit(t *testing.T) {
	items := threeBoxItems()
	handler := newBoxHandler(items)
	tree, err := Build(items, DefaultConfig(), handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ray := basicRay{origin: geom.Point3{-1, 0.5, 0.5}, dir: geom.Vector3{1, 0, 0}}
	hit, err := tree.Hit(ray)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Fatalf("expected a hit")
	}

	// The first leaf whose HitLeaf call reports true must be the one
	// containing item 0, i.e. traversal must not have visited a leaf
	// containing only items 1 or 2 and reported a hit there first.
	var firstHitLeaf int = -1
	for _, nodeID := range handler.visits {
		ok := false
		for _, id := range tree.LeafItems(nodeID) {
			if id == 0 {
				ok = true
			}
		}
		if ok {
			firstHitLeaf = nodeID
			break
		}
	}
	if firstHitLeaf == -1 {
		t.Fatalf("leaf containing item 0 was never visited: %v", handler.visits)
	}
	if handler.visits[len(handler.visits)-1] != firstHitLeaf {
		t.Fatalf("traversal did not stop at the leaf containing item 0: visited %v", handler.visits)
	}
}

func TestContainsMatchesScenario(t *testing.T) {
	items := threeBoxItems()
	handler := newBoxHandler(items)
	tree, err := Build(items, DefaultConfig(), handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := tree.Contains(geom.Point3{2.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("got %v, want [1]", got)
	}
}

func TestContainsOutsideBoundsIsEmpty(t *testing.T) {
	items := threeBoxItems()
	handler := newBoxHandler(items)
	tree, err := Build(items, DefaultConfig(), handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := tree.Contains(geom.Point3{100, 100, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	items := threeBoxItems()
	t1, err := Build(items, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t2, err := Build(items, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if t1.NodeCount() != t2.NodeCount() {
		t.Fatalf("node counts differ: %d vs %d", t1.NodeCount(), t2.NodeCount())
	}
	for i := range t1.nodes {
		a, b := t1.nodes[i], t2.nodes[i]
		if a.Type != b.Type || a.Split != b.Split || a.Upper != b.Upper || !equalIDs(a.Items, b.Items) {
			t.Fatalf("node %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func equalIDs(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLeafChildInvariant(t *testing.T) {
	items := threeBoxItems()
	tree, err := Build(items, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, n := range tree.nodes {
		if n.Type == leaf {
			continue
		}
		if int(n.Upper) <= i+1 {
			t.Fatalf("node %d: upper child %d must be strictly greater than lower child %d", i, n.Upper, i+1)
		}
	}
}

func TestEmptyItemsRejected(t *testing.T) {
	if _, err := Build(nil, DefaultConfig(), nil); err == nil {
		t.Fatalf("expected error for empty item set")
	}
}

func TestInvalidEmptyBonusRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmptyBonus = 1.5
	if _, err := Build(threeBoxItems(), cfg, nil); err == nil {
		t.Fatalf("expected error for out-of-range empty bonus")
	}
}

func TestMaxNodesAllocationFailure(t *testing.T) {
	items := make([]Item, 0, 64)
	for i := 0; i < 64; i++ {
		lo := geom.Point3{X: float64(i) * 2, Y: 0, Z: 0}
		hi := geom.Point3{X: float64(i)*2 + 1, Y: 1, Z: 1}
		items = append(items, Item{ID: i, Box: geom.NewBoundingBox(lo, hi)})
	}
	cfg := DefaultConfig()
	cfg.MaxNodes = 2
	if _, err := Build(items, cfg, nil); err == nil {
		t.Fatalf("expected allocation failure for a tight node ceiling")
	}
}

func TestHitWithoutHandlerIsNotImplemented(t *testing.T) {
	tree, err := Build(threeBoxItems(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tree.Hit(basicRay{origin: geom.Point3{-1, 0.5, 0.5}, dir: geom.Vector3{1, 0, 0}}); err == nil {
		t.Fatalf("expected ErrNotImplemented")
	}
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	items := make([]Item, 0, 1000)
	for i := 0; i < 1000; i++ {
		x := rng.Float64() * 100
		y := rng.Float64() * 100
		z := rng.Float64() * 100
		items = append(items, Item{
			ID:  i,
			Box: geom.NewBoundingBox(geom.Point3{x, y, z}, geom.Point3{x + 1, y + 1, z + 1}),
		})
	}

	handler := newBoxHandler(items)
	original, err := Build(items, DefaultConfig(), handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := Persist(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored, err := Restore(data, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if original.NodeCount() != restored.NodeCount() {
		t.Fatalf("node counts differ after restore: %d vs %d", original.NodeCount(), restored.NodeCount())
	}

	for i := 0; i < 200; i++ {
		origin := geom.Point3{rng.Float64() * 100, rng.Float64() * 100, rng.Float64() * 100}
		dir := geom.Vector3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}.Normalise()
		ray := basicRay{origin: origin, dir: dir}

		hitOriginal, err := original.Hit(ray)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		hitRestored, err := restored.Hit(ray)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hitOriginal != hitRestored {
			t.Fatalf("hit result differs after restore for ray %+v", ray)
		}
	}
}

func TestSAHCostFormula(t *testing.T) {
	bounds := geom.NewBoundingBox(geom.Point3{0, 0, 0}, geom.Point3{2, 1, 1})
	area := bounds.SurfaceArea()
	cfg := DefaultConfig()

	got := splitCost(0, 1, 2, 3, bounds, area, cfg)
	loBox := bounds.SetUpper(0, 1)
	hiBox := bounds.SetLower(0, 1)
	want := 1 + (loBox.SurfaceArea()*2+hiBox.SurfaceArea()*3)/area*cfg.HitCost
	if got != want {
		t.Fatalf("got %g want %g", got, want)
	}

	gotEmpty := splitCost(0, 1, 0, 5, bounds, area, cfg)
	wantEmpty := 1 + (1-cfg.EmptyBonus)*(loBox.SurfaceArea()*0+hiBox.SurfaceArea()*5)/area*cfg.HitCost
	if gotEmpty != wantEmpty {
		t.Fatalf("got %g want %g for empty-child bonus case", gotEmpty, wantEmpty)
	}
}
