package kdtree

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/cwbudde/algo-raytrace/geom"
)

// persisted is the on-the-wire tuple: bounds, the node array in build
// order, and the build settings. Item boxes are never persisted — the
// leaf ids are enough for a restored tree, since hit/contains re-fetch
// geometry externally through the caller's LeafHandler.
type persisted struct {
	Bounds geom.BoundingBox
	Nodes  []KDNode
	Root   int
	Config Config
}

// Persist encodes tree into a portable binary form using encoding/gob.
func Persist(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	p := persisted{
		Bounds: t.bounds,
		Nodes:  t.nodes,
		Root:   t.root,
		Config: t.cfg,
	}
	if err := gob.NewEncoder(&buf).Encode(&p); err != nil {
		return nil, fmt.Errorf("kdtree: persist: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore rebuilds a tree from data produced by Persist, without re-running
// the SAH builder. handler supplies the leaf behaviour, exactly as it would
// for Build — persistence carries no item geometry, so a restored tree is
// inert until given one.
func Restore(data []byte, handler LeafHandler) (*Tree, error) {
	var p persisted
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return nil, fmt.Errorf("kdtree: restore: %w", err)
	}
	return &Tree{
		bounds:  p.Bounds,
		nodes:   p.Nodes,
		root:    p.Root,
		cfg:     p.Config,
		handler: handler,
	}, nil
}
