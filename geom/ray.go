package geom

// Spectrum accumulates per-bin radiance/transmission contributions traced
// back through a ray tree.
type Spectrum struct {
	Bins []float64
}

// NewSpectrum returns a zero spectrum of n bins.
func NewSpectrum(n int) *Spectrum {
	return &Spectrum{Bins: make([]float64, n)}
}

// MulScalar scales every bin of s by f in place and returns s.
func (s *Spectrum) MulScalar(f float64) *Spectrum {
	for i := range s.Bins {
		s.Bins[i] *= f
	}
	return s
}

// AddArray adds arr into s bin-wise in place and returns s. arr must have
// the same length as s.Bins.
func (s *Spectrum) AddArray(arr []float64) *Spectrum {
	for i := range s.Bins {
		if i < len(arr) {
			s.Bins[i] += arr[i]
		}
	}
	return s
}

// World is the scene collaborator a Ray is traced against. It is opaque to
// this module — material never inspects it, only threads it through
// Ray.Trace — the scene graph and primitive geometry behind it are out of
// spec scope (§1).
type World interface {
	// Trace intersects ray against the scene and returns the spectrum
	// that results (possibly by recursively invoking the dielectric
	// material at the hit surface).
	Trace(ray Ray) (*Spectrum, error)
}

// Ray is the active ray collaborator consumed by the kd-tree traversal and
// the dielectric material (§6). A concrete renderer's ray carries a depth
// counter that SpawnDaughter consults to terminate recursion; this module
// only depends on the interface.
type Ray interface {
	Origin() Point3
	Direction() Vector3

	// RefractionWavelength is the scalar wavelength (nm) this ray is
	// currently evaluating for dispersive refraction.
	RefractionWavelength() float64

	// NewSpectrum returns a zero spectrum with this ray's bin count.
	NewSpectrum() *Spectrum

	// SpawnDaughter creates a new ray from origin in direction, inheriting
	// this ray's wavelength and a depth counter one deeper. ok is false
	// when the configured recursion depth limit has been reached, in
	// which case the returned Ray is nil and must not be traced.
	SpawnDaughter(origin Point3, direction Vector3) (daughter Ray, ok bool)

	// Trace intersects this ray against world and returns the resulting
	// spectrum.
	Trace(world World) (*Spectrum, error)
}

// BasicRay is a minimal concrete Ray used by the material tests; it is not
// part of the spec-mandated interface, only a stand-in implementation of it.
type BasicRay struct {
	Orig         Point3
	Dir          Vector3
	WavelengthNM float64
	NumBins      int
	Depth        int
	MaxDepth     int
	TraceFn      func(r *BasicRay, world World) (*Spectrum, error)
}

// NewBasicRay returns a BasicRay at depth 0 with the given bin count and
// maximum recursion depth.
func NewBasicRay(origin Point3, direction Vector3, wavelengthNM float64, numBins, maxDepth int) *BasicRay {
	return &BasicRay{
		Orig:         origin,
		Dir:          direction,
		WavelengthNM: wavelengthNM,
		NumBins:      numBins,
		MaxDepth:     maxDepth,
	}
}

func (r *BasicRay) Origin() Point3                { return r.Orig }
func (r *BasicRay) Direction() Vector3             { return r.Dir }
func (r *BasicRay) RefractionWavelength() float64 { return r.WavelengthNM }
func (r *BasicRay) NewSpectrum() *Spectrum         { return NewSpectrum(r.NumBins) }

func (r *BasicRay) SpawnDaughter(origin Point3, direction Vector3) (Ray, bool) {
	if r.Depth+1 > r.MaxDepth {
		return nil, false
	}
	return &BasicRay{
		Orig:         origin,
		Dir:          direction,
		WavelengthNM: r.WavelengthNM,
		NumBins:      r.NumBins,
		Depth:        r.Depth + 1,
		MaxDepth:     r.MaxDepth,
		TraceFn:      r.TraceFn,
	}, true
}

func (r *BasicRay) Trace(world World) (*Spectrum, error) {
	if r.TraceFn != nil {
		return r.TraceFn(r, world)
	}
	if world != nil {
		return world.Trace(r)
	}
	return r.NewSpectrum(), nil
}
