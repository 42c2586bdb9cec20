package theme

import "hash/fnv"

// SketchSeed derives the deterministic pseudo-random seed for an element's
// hand-drawn stroke jitter from its stable identity. Rendering the same
// element twice must produce bit-identical geometry, so the seed can never
// come from the clock or a render counter.
func SketchSeed(elementID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(elementID))
	return int64(h.Sum64())
}
