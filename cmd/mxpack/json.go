package main

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/wippyai/mxpack/errors"
	"github.com/wippyai/mxpack/value"
)

// node is one parsed JSON value. Number and bool literals stay unmaterialized
// so arrays of them can collapse into one vector.
type node struct {
	v      value.Value
	num    json.Number
	isNum  bool
	isBool bool
	b      bool
}

// FromJSON converts a JSON document to a host value. Numbers become vectors
// of class; arrays of numbers or of bools become one vector; strings become
// char; objects become structs with keys in document order; null becomes the
// empty cell.
func FromJSON(data []byte, class value.Class) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := readNode(dec, class)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.InvalidInput(errors.PhaseConfig, "trailing data after JSON value")
	}
	return materialize(n, class)
}

func readNode(dec *json.Decoder, class value.Class) (node, error) {
	tok, err := dec.Token()
	if err != nil {
		return node{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse JSON")
	}

	switch t := tok.(type) {
	case nil:
		return node{v: value.Empty()}, nil
	case bool:
		return node{isBool: true, b: t}, nil
	case json.Number:
		return node{isNum: true, num: t}, nil
	case string:
		return node{v: value.NewChar(t)}, nil
	case json.Delim:
		if t == '{' {
			return readObject(dec, class)
		}
		return readArray(dec, class)
	}
	return node{}, errors.InvalidInput(errors.PhaseConfig, "unexpected JSON token")
}

func readObject(dec *json.Decoder, class value.Class) (node, error) {
	var fields []value.Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return node{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse JSON")
		}
		key, _ := tok.(string)
		n, err := readNode(dec, class)
		if err != nil {
			return node{}, err
		}
		v, err := materialize(n, class)
		if err != nil {
			return node{}, err
		}
		fields = append(fields, value.Field{Name: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return node{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse JSON")
	}
	return node{v: value.NewStruct(fields...)}, nil
}

func readArray(dec *json.Decoder, class value.Class) (node, error) {
	var nodes []node
	for dec.More() {
		n, err := readNode(dec, class)
		if err != nil {
			return node{}, err
		}
		nodes = append(nodes, n)
	}
	if _, err := dec.Token(); err != nil {
		return node{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse JSON")
	}

	allNum, allBool := len(nodes) > 0, len(nodes) > 0
	for _, n := range nodes {
		allNum = allNum && n.isNum
		allBool = allBool && n.isBool
	}

	switch {
	case allNum:
		nums := make([]json.Number, len(nodes))
		for i, n := range nodes {
			nums[i] = n.num
		}
		v, err := numberVector(class, nums)
		return node{v: v}, err
	case allBool:
		out := make(value.Logical, len(nodes))
		for i, n := range nodes {
			out[i] = n.b
		}
		return node{v: out}, nil
	}

	cell := make(value.Cell, len(nodes))
	for i, n := range nodes {
		v, err := materialize(n, class)
		if err != nil {
			return node{}, err
		}
		cell[i] = v
	}
	return node{v: cell}, nil
}

func materialize(n node, class value.Class) (value.Value, error) {
	switch {
	case n.isNum:
		return numberVector(class, []json.Number{n.num})
	case n.isBool:
		return value.Logical{n.b}, nil
	}
	return n.v, nil
}

func numberVector(class value.Class, nums []json.Number) (value.Value, error) {
	switch class {
	case value.ClassDouble:
		return parseNums(nums, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	case value.ClassSingle:
		return parseNums(nums, func(s string) (float32, error) {
			f, err := strconv.ParseFloat(s, 32)
			return float32(f), err
		})
	case value.ClassInt8:
		return parseNums(nums, parseInt[int8](8))
	case value.ClassInt16:
		return parseNums(nums, parseInt[int16](16))
	case value.ClassInt32:
		return parseNums(nums, parseInt[int32](32))
	case value.ClassInt64:
		return parseNums(nums, parseInt[int64](64))
	case value.ClassUint8:
		return parseNums(nums, parseUint[uint8](8))
	case value.ClassUint16:
		return parseNums(nums, parseUint[uint16](16))
	case value.ClassUint32:
		return parseNums(nums, parseUint[uint32](32))
	case value.ClassUint64:
		return parseNums(nums, parseUint[uint64](64))
	case value.ClassLogical:
		return parseNums(nums, func(s string) (bool, error) {
			f, err := strconv.ParseFloat(s, 64)
			return f != 0, err
		})
	}
	return nil, errors.New(errors.PhaseConfig, errors.KindTypeMismatch).
		HostType(class.String()).
		Detail("class cannot hold numbers").
		Build()
}

func parseNums[E any](nums []json.Number, parse func(string) (E, error)) (value.Value, error) {
	out := make([]E, len(nums))
	for i, n := range nums {
		x, err := parse(n.String())
		if err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "number "+n.String())
		}
		out[i] = x
	}
	return vectorOf(out), nil
}

func parseInt[T int8 | int16 | int32 | int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		i, err := strconv.ParseInt(s, 10, bits)
		return T(i), err
	}
}

func parseUint[T uint8 | uint16 | uint32 | uint64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		u, err := strconv.ParseUint(s, 10, bits)
		return T(u), err
	}
}

func vectorOf(elems any) value.Value {
	switch s := elems.(type) {
	case []bool:
		return value.Logical(s)
	case []float64:
		return value.Double(s)
	case []float32:
		return value.Single(s)
	case []int8:
		return value.Int8(s)
	case []int16:
		return value.Int16(s)
	case []int32:
		return value.Int32(s)
	case []int64:
		return value.Int64(s)
	case []uint8:
		return value.Uint8(s)
	case []uint16:
		return value.Uint16(s)
	case []uint32:
		return value.Uint32(s)
	case []uint64:
		return value.Uint64(s)
	}
	return nil
}

// member is one struct field in document order.
type member struct {
	Value any
	Name  string
}

type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// ToJSON renders a host value as JSON. Length-one vectors render as
// scalars, non-finite floats as strings.
func ToJSON(v value.Value, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(jsonValue(v), "", "  ")
	}
	return json.Marshal(jsonValue(v))
}

func jsonValue(v value.Value) any {
	switch x := v.(type) {
	case nil:
		return nil
	case value.Logical:
		return vectorJSON(x, func(b bool) any { return b })
	case value.Double:
		return vectorJSON(x, floatJSON)
	case value.Single:
		return vectorJSON(x, func(f float32) any { return floatJSON(float64(f)) })
	case value.Int8:
		return vectorJSON(x, func(i int8) any { return i })
	case value.Int16:
		return vectorJSON(x, func(i int16) any { return i })
	case value.Int32:
		return vectorJSON(x, func(i int32) any { return i })
	case value.Int64:
		return vectorJSON(x, func(i int64) any { return i })
	case value.Uint8:
		return vectorJSON(x, func(u uint8) any { return u })
	case value.Uint16:
		return vectorJSON(x, func(u uint16) any { return u })
	case value.Uint32:
		return vectorJSON(x, func(u uint32) any { return u })
	case value.Uint64:
		return vectorJSON(x, func(u uint64) any { return u })
	case value.Char:
		return x.String()
	case value.Cell:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonValue(e)
		}
		return out
	case value.Struct:
		out := make(object, len(x.Fields))
		for i, f := range x.Fields {
			out[i] = member{Name: f.Name, Value: jsonValue(f.Value)}
		}
		return out
	}
	return v.Class().String()
}

func vectorJSON[E any](s []E, conv func(E) any) any {
	if len(s) == 1 {
		return conv(s[0])
	}
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = conv(e)
	}
	return out
}

func floatJSON(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return f
}
