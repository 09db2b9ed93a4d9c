// Package mxpack converts values of a MATLAB-style dynamic type system to
// MessagePack and back.
//
// Host values are logical and numeric vectors of a fixed element class,
// 16-bit character strings, heterogeneous cells and structs with ordered
// named fields. Wire values are the eight MessagePack kinds: nil, bool,
// unsigned and signed integers, floats, raw byte strings, arrays and maps.
//
// # Architecture Overview
//
//	mxpack/          Pack, Unpack and Unpacker over the default codec
//	├── codec/       Dispatch registry, decoder, encoder, streaming session
//	├── value/       Host value model and WIT type descriptions
//	├── wire/        MessagePack reader and writer over tinylib/msgp
//	├── wasmhost/    Host module exposing the codec to WebAssembly guests
//	├── errors/      Structured error types for debugging
//	└── cmd/mxpack/  Command line packer, unpacker and inspector
//
// # Quick Start
//
// Encode a struct and decode it back:
//
//	rec := value.NewStruct(
//	    value.Field{Name: "gains", Value: value.Double{0.5, 1, 2}},
//	    value.Field{Name: "label", Value: value.NewChar("probe")},
//	)
//
//	b, err := mxpack.Pack(rec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v, err := mxpack.Unpack(b)
//
// Decode every message in a buffer:
//
//	values, err := mxpack.Unpacker(stream)
//
// # Type Mapping
//
// Decoding:
//
//   - nil decodes to an empty cell
//   - bool, uint, int and float decode to logical, uint64, int64 and double
//   - raw decodes to char, two little-endian bytes per unit
//   - arrays whose elements share one primitive kind decode to a typed
//     vector, all other arrays to a cell
//   - maps decode to structs; entries with non-string keys are dropped
//
// Encoding:
//
//   - a vector of length one is written as a bare scalar, longer vectors as
//     arrays, and empty vectors as nil
//   - single values are written as float32, char as raw
//   - a cell with one element is written as that element
//   - a struct with one field is written without a map header unless the
//     codec is configured with WithRecordHeaders(true)
//
// # Error Handling
//
// All errors are *errors.Error with phase, kind and value path:
//
//	var e *errors.Error
//	if stderrors.As(err, &e) {
//	    fmt.Println(e.Phase, e.Kind, errors.JoinPath(e.Path))
//	}
//
// errors.IsDispatch distinguishes a wire kind or host class with no handler
// from malformed bytes (errors.IsMalformed).
package mxpack
