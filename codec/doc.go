// Package codec converts host values to MessagePack and back.
//
// Dispatch goes through a Registry: decode handlers are indexed by wire
// kind, encode handlers by host class. DefaultRegistry holds the standard
// handlers and is frozen after construction, so a Codec built on it is safe
// for concurrent use.
//
// Decoding rules:
//
//	nil            -> empty Cell
//	bool           -> Logical
//	uint / int     -> Uint64 / Int64 (non-negative integers are uint)
//	float          -> Double
//	raw            -> Char, two little-endian bytes per unit
//	map            -> Struct; non-string keys and repeated names are dropped
//	array          -> typed vector if every element has the same primitive
//	                  kind, Cell otherwise
//
// Encoding writes a vector of length one as a bare scalar, so the array-ness
// of length-one vectors is not recoverable from the wire. Empty vectors and
// cells encode as nil. A single-field Struct is written without a map header
// unless the codec was configured WithRecordHeaders(true).
//
// Session decodes a stream of concatenated messages delivered in chunks:
//
//	s := codec.Default().NewSession()
//	s.Feed(chunk)
//	values, err := s.Drain()
package codec
