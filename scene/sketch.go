package scene

import (
	"math"
	"math/rand"
)

// sketch strokes are drawn as two jittered passes over the ideal geometry,
// which is what gives the hand-drawn look. All jitter comes from a rand
// source seeded with the element's stable sketch seed, so repeated builds
// of the same element produce bit-identical stroke geometry.

// SketchStroke jitters a polyline. Each input segment is subdivided and
// every vertex displaced by up to roughness pixels; the result contains two
// passes separated by a NaN break point.
func SketchStroke(points []Point, roughness float64, seed int64) []Point {
	if roughness <= 0 || len(points) < 2 {
		return points
	}
	rng := rand.New(rand.NewSource(seed))
	first := jitterPass(points, roughness, rng)
	second := jitterPass(points, roughness, rng)

	out := make([]Point, 0, len(first)+len(second)+1)
	out = append(out, first...)
	out = append(out, BreakPoint())
	out = append(out, second...)
	return out
}

// BreakPoint returns the pen-up separator used between sketch passes.
func BreakPoint() Point {
	return Point{X: math.NaN(), Y: math.NaN()}
}

// IsBreak reports whether p is a pen-up separator.
func IsBreak(p Point) bool {
	return math.IsNaN(p.X)
}

func jitterPass(points []Point, roughness float64, rng *rand.Rand) []Point {
	var out []Point
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		segs := subdivisions(a, b)
		for s := 0; s <= segs; s++ {
			t := float64(s) / float64(segs)
			p := Point{
				X: a.X + (b.X-a.X)*t,
				Y: a.Y + (b.Y-a.Y)*t,
			}
			// Endpoints of the whole stroke stay anchored.
			if !(i == 0 && s == 0) && !(i+2 == len(points) && s == segs) {
				p.X += (rng.Float64()*2 - 1) * roughness
				p.Y += (rng.Float64()*2 - 1) * roughness
			}
			if s == 0 && i > 0 {
				continue // shared vertex already emitted
			}
			out = append(out, p)
		}
	}
	return out
}

// subdivisions picks how many sub-segments a segment gets, proportional to
// its length so long strokes wobble along their whole run.
func subdivisions(a, b Point) int {
	d := math.Hypot(b.X-a.X, b.Y-a.Y)
	n := int(d / 24)
	if n < 1 {
		n = 1
	}
	if n > 16 {
		n = 16
	}
	return n
}

// RectOutline returns the closed outline of a w×h rectangle at origin.
func RectOutline(w, h float64) []Point {
	return []Point{{0, 0}, {w, 0}, {w, h}, {0, h}, {0, 0}}
}

// EllipseOutline approximates a w×h ellipse at origin with a fixed number
// of segments. The segment count is constant so sketch jitter stays
// comparable across renders and sizes.
func EllipseOutline(w, h float64) []Point {
	const segments = 24
	cx, cy := w/2, h/2
	out := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := float64(i) / segments * 2 * math.Pi
		out = append(out, Point{
			X: cx + cx*math.Cos(a),
			Y: cy + cy*math.Sin(a),
		})
	}
	return out
}
