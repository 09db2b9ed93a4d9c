package codec

import "github.com/wippyai/mxpack/wire"

// Classify reports the single primitive kind shared by every element of an
// array. Only bool, uint, int and float participate: any other element kind,
// an empty array, or a mix of primitive kinds is heterogeneous and returns
// ok == false. No numeric promotion is applied.
func Classify(elems []wire.Value) (kind wire.Kind, ok bool) {
	if len(elems) == 0 {
		return wire.KindNil, false
	}
	kind = elems[0].Kind
	if !kind.IsPrimitive() {
		return wire.KindNil, false
	}
	for _, e := range elems[1:] {
		if e.Kind != kind {
			return wire.KindNil, false
		}
	}
	return kind, true
}
