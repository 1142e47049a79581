// Package material implements the dielectric interface material: given a
// ray hit on a smooth surface it produces reflected and transmitted
// daughter rays, weights their traced radiance by Fresnel coefficients, and
// handles total internal reflection.
package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-approx"

	"github.com/cwbudde/algo-raytrace/geom"
	"github.com/cwbudde/algo-raytrace/internal/mathutil"
)

// ErrInvalidArgument is the sentinel wrapped by every construction-time
// validation failure in this package.
var ErrInvalidArgument = errors.New("material: invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Index1D is a single-wavelength index-of-refraction evaluator — the
// "Function1D" spec.md's material constructor option names (§6). Both
// *sellmeier.Function and IndexFunc (wrapping a plain callable) satisfy it.
type Index1D interface {
	IndexAt(wavelengthNM float64) float64
}

// IndexFunc adapts a plain callable to Index1D, mirroring spec.md's
// "possibly auto-wrapped from a raw callable" clause.
type IndexFunc func(wavelengthNM float64) float64

// IndexAt implements Index1D.
func (f IndexFunc) IndexAt(wavelengthNM float64) float64 { return f(wavelengthNM) }

// Transmission2D is the reserved, currently-unused bulk-attenuation
// function of wavelength and path depth (§3, §4.3 "evaluate_volume").
type Transmission2D interface {
	Sample(wavelengthNM, depth float64) (float64, error)
}

// Options configures a Glass material.
type Options struct {
	// Cutoff is the importance-culling threshold below which a reflected
	// or transmitted branch is not traced.
	Cutoff float64

	// FastCullEstimate, when true, replaces the exact Fresnel reflectance
	// computation with a cheap Schlick approximation evaluated with
	// algo-approx's FastExp in place of an exact pow/exp — a faster but
	// slightly less accurate mode for preview renders.
	FastCullEstimate bool
}

// DefaultOptions returns the spec.md default: Cutoff = 1e-6.
func DefaultOptions() Options {
	return Options{Cutoff: 1e-6}
}

// Glass is the dielectric interface material.
type Glass struct {
	Index        Index1D
	Transmission Transmission2D
	Cutoff       float64
	FastCull     bool
}

// NewGlass validates and builds a Glass material. index must not be nil;
// transmission may be nil (the bulk-attenuation hook is reserved, §4.3).
func NewGlass(index Index1D, transmission Transmission2D, opts Options) (*Glass, error) {
	if index == nil {
		return nil, invalidf("index function must not be nil")
	}
	if opts.Cutoff < 0 {
		return nil, invalidf("cutoff must be >= 0, got %g", opts.Cutoff)
	}
	return &Glass{
		Index:        index,
		Transmission: transmission,
		Cutoff:       opts.Cutoff,
		FastCull:     opts.FastCullEstimate,
	}, nil
}

// Evaluate computes the reflected+transmitted radiance contribution at a
// dielectric interface hit, per spec.md §4.3.
//
// normal, insidePoint and outsidePoint are expressed in the material's
// local frame; localToWorld/worldToLocal transform between that frame and
// world space. exiting is true iff the ray is leaving the material.
func (g *Glass) Evaluate(
	ray geom.Ray,
	normal geom.Normal3,
	exiting bool,
	insidePoint, outsidePoint geom.Point3,
	localToWorld, worldToLocal geom.Matrix4,
	world geom.World,
) (*geom.Spectrum, error) {
	incident := ray.Direction().Transform(worldToLocal).Normalise()
	n := normal.Normalise()
	// Face the normal against the incident ray so c1 is the cosine of the
	// angle between the incident direction and the side the ray arrives
	// from, regardless of which way the caller's geometric normal points.
	if n.Dot(incident) > 0 {
		n = n.Negate()
	}
	// Normalise can leave the dot product a hair outside [-1,1]; clamp so
	// the Snell/Fresnel terms below never see an out-of-domain cosine.
	c1 := mathutil.Clamp(-n.Dot(incident), -1, 1)

	lambda := ray.RefractionWavelength()
	index := g.Index.IndexAt(lambda)

	var n1, n2 float64
	if exiting {
		n1, n2 = index, 1
	} else {
		n1, n2 = 1, index
	}

	gamma := n1 / n2
	c2t := 1 - gamma*gamma*(1-c1*c1)

	reflectDir := incident.Add(n.Vector().Scale(2 * c1))

	if c2t <= 0 {
		// Total internal reflection: a single reflected daughter ray.
		worldDir := reflectDir.Transform(localToWorld)
		origin := outsidePoint
		if exiting {
			origin = insidePoint
		}
		worldOrigin := origin.Transform(localToWorld)

		daughter, ok := ray.SpawnDaughter(worldOrigin, worldDir)
		if !ok {
			return ray.NewSpectrum(), nil
		}
		return daughter.Trace(world)
	}

	ct := math.Sqrt(c2t)
	sign := -1.0
	if exiting {
		sign = 1.0
	}
	transmitDir := incident.Scale(gamma).Add(n.Vector().Scale(gamma*c1 + sign*ct))

	var r float64
	if g.FastCull {
		r = schlickReflectance(n1, n2, c1)
	} else {
		r = fresnelReflectance(n1, n2, c1, ct)
	}
	t := 1 - r

	worldReflectDir := reflectDir.Transform(localToWorld)
	worldTransmitDir := transmitDir.Transform(localToWorld)
	worldInside := insidePoint.Transform(localToWorld)
	worldOutside := outsidePoint.Transform(localToWorld)

	reflectOrigin, transmitOrigin := worldOutside, worldInside
	if exiting {
		reflectOrigin, transmitOrigin = worldInside, worldOutside
	}

	result := ray.NewSpectrum()
	if r > g.Cutoff {
		daughter, ok := ray.SpawnDaughter(reflectOrigin, worldReflectDir)
		if ok {
			spec, err := daughter.Trace(world)
			if err != nil {
				return nil, err
			}
			result = spec.MulScalar(r)
		}
	}
	if t > g.Cutoff {
		daughter, ok := ray.SpawnDaughter(transmitOrigin, worldTransmitDir)
		if ok {
			spec, err := daughter.Trace(world)
			if err != nil {
				return nil, err
			}
			result.AddArray(spec.MulScalar(t).Bins)
		}
	}
	return result, nil
}

// EvaluateVolume passes the input spectrum through unchanged. Bulk
// attenuation via g.Transmission is reserved but not activated — see
// DESIGN.md / spec.md §9.
func (g *Glass) EvaluateVolume(in *geom.Spectrum) *geom.Spectrum {
	return in
}

// fresnelReflectance computes the exact unpolarised Fresnel reflectance.
func fresnelReflectance(n1, n2, c1, ct float64) float64 {
	rs := (n1*c1 - n2*ct) / (n1*c1 + n2*ct)
	rp := (n1*ct - n2*c1) / (n1*ct + n2*c1)
	return 0.5 * (rs*rs + rp*rp)
}

// schlickReflectance is the Schlick approximation to the unpolarised
// Fresnel reflectance, using algo-approx's FastExp in place of an exact
// pow/exp to evaluate the (1-cosTheta)^5 term.
func schlickReflectance(n1, n2, c1 float64) float64 {
	r0 := (n1 - n2) / (n1 + n2)
	r0 *= r0
	x := 1 - c1
	if x <= 0 {
		return r0
	}
	pow5 := float64(approx.FastExp(float32(5 * math.Log(x))))
	return r0 + (1-r0)*pow5
}
