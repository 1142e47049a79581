// Command kdtree-bench builds a kd-tree over random unit-cube items and
// reports build time, node count, and ray/point query throughput.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/cwbudde/algo-raytrace/geom"
	"github.com/cwbudde/algo-raytrace/kdtree"
)

// bruteHandler answers leaf queries by testing each of the leaf's own
// item boxes directly; it stands in for the real per-primitive
// intersection code a renderer would supply.
type bruteHandler struct {
	boxes map[int32]geom.BoundingBox
}

func (h *bruteHandler) HitLeaf(tree *kdtree.Tree, nodeID int, ray geom.Ray, tMax float64) (bool, error) {
	for _, id := range tree.LeafItems(nodeID) {
		hit, tMin, tHi := h.boxes[id].FullIntersection(ray.Origin(), ray.Direction())
		if hit && tHi >= 0 && tMin <= tMax {
			return true, nil
		}
	}
	return false, nil
}

func (h *bruteHandler) ContainsLeaf(tree *kdtree.Tree, nodeID int, point geom.Point3) []int32 {
	var out []int32
	for _, id := range tree.LeafItems(nodeID) {
		if h.boxes[id].Contains(point) {
			out = append(out, id)
		}
	}
	return out
}

type simpleRay struct {
	origin geom.Point3
	dir    geom.Vector3
}

func (r simpleRay) Origin() geom.Point3          { return r.origin }
func (r simpleRay) Direction() geom.Vector3       { return r.dir }
func (r simpleRay) RefractionWavelength() float64 { return 0 }
func (r simpleRay) NewSpectrum() *geom.Spectrum   { return geom.NewSpectrum(0) }
func (r simpleRay) SpawnDaughter(geom.Point3, geom.Vector3) (geom.Ray, bool) {
	return nil, false
}
func (r simpleRay) Trace(geom.World) (*geom.Spectrum, error) { return geom.NewSpectrum(0), nil }

func main() {
	numItems := flag.Int("items", 100000, "Number of random items")
	numRays := flag.Int("rays", 100000, "Number of random hit queries")
	numPoints := flag.Int("points", 100000, "Number of random containment queries")
	seed := flag.Int64("seed", 1, "Random seed")
	minItems := flag.Int("min-items", 1, "Config.MinItems")
	hitCost := flag.Float64("hit-cost", 1, "Config.HitCost")
	emptyBonus := flag.Float64("empty-bonus", 0.2, "Config.EmptyBonus")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	items := make([]kdtree.Item, *numItems)
	boxes := make(map[int32]geom.BoundingBox, *numItems)
	const worldExtent = 1000.0
	for i := range items {
		x := rng.Float64() * worldExtent
		y := rng.Float64() * worldExtent
		z := rng.Float64() * worldExtent
		box := geom.NewBoundingBox(geom.Point3{x, y, z}, geom.Point3{x + 1, y + 1, z + 1})
		items[i] = kdtree.Item{ID: i, Box: box}
		boxes[int32(i)] = box
	}

	handler := &bruteHandler{boxes: boxes}
	cfg := kdtree.Config{MinItems: *minItems, HitCost: *hitCost, EmptyBonus: *emptyBonus}

	start := time.Now()
	tree, err := kdtree.Build(items, cfg, handler)
	buildTime := time.Since(start)
	if err != nil {
		die("build: %v", err)
	}
	fmt.Printf("built %d items into %d nodes in %s\n", *numItems, tree.NodeCount(), buildTime)

	hits := 0
	start = time.Now()
	for i := 0; i < *numRays; i++ {
		origin := geom.Point3{rng.Float64() * worldExtent, rng.Float64() * worldExtent, rng.Float64() * worldExtent}
		dir := geom.Vector3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}.Normalise()
		hit, err := tree.Hit(simpleRay{origin: origin, dir: dir})
		if err != nil {
			die("hit: %v", err)
		}
		if hit {
			hits++
		}
	}
	hitTime := time.Since(start)
	fmt.Printf("%d hit queries in %s (%d hits, %.1f ns/query)\n", *numRays, hitTime, hits, float64(hitTime.Nanoseconds())/float64(*numRays))

	contained := 0
	start = time.Now()
	for i := 0; i < *numPoints; i++ {
		p := geom.Point3{rng.Float64() * worldExtent, rng.Float64() * worldExtent, rng.Float64() * worldExtent}
		ids, err := tree.Contains(p)
		if err != nil {
			die("contains: %v", err)
		}
		if len(ids) > 0 {
			contained++
		}
	}
	containsTime := time.Since(start)
	fmt.Printf("%d containment queries in %s (%d non-empty, %.1f ns/query)\n", *numPoints, containsTime, contained, float64(containsTime.Nanoseconds())/float64(*numPoints))
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
