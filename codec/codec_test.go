package codec

import (
	"bytes"
	stderrors "errors"
	"math"
	"sync"
	"testing"

	"github.com/wippyai/mxpack/errors"
	"github.com/wippyai/mxpack/value"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func asError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}

func roundTrip(t *testing.T, c *Codec, v value.Value) value.Value {
	t.Helper()
	b, err := c.Pack(v)
	if err != nil {
		t.Fatalf("Pack(%#v) failed: %v", v, err)
	}
	got, err := c.Unpack(b)
	if err != nil {
		t.Fatalf("Unpack(%x) failed: %v", b, err)
	}
	return got
}

// Scalars come back at the canonical decode width: unsigned 64-bit for
// non-negative integers, signed 64-bit for negative ones, double for floats.
func TestRoundTrip_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want value.Value
	}{
		{"true", value.Logical{true}, value.Logical{true}},
		{"false", value.Logical{false}, value.Logical{false}},
		{"int8 negative", value.Int8{-5}, value.Int64{-5}},
		{"int8 positive", value.Int8{5}, value.Uint64{5}},
		{"uint8", value.Uint8{200}, value.Uint64{200}},
		{"int16", value.Int16{-300}, value.Int64{-300}},
		{"uint16", value.Uint16{60000}, value.Uint64{60000}},
		{"int32", value.Int32{-70000}, value.Int64{-70000}},
		{"uint32", value.Uint32{4000000000}, value.Uint64{4000000000}},
		{"int64 min", value.Int64{math.MinInt64}, value.Int64{math.MinInt64}},
		{"uint64 max", value.Uint64{math.MaxUint64}, value.Uint64{math.MaxUint64}},
		{"double", value.Double{1.25}, value.Double{1.25}},
		{"double inf", value.Double{math.Inf(-1)}, value.Double{math.Inf(-1)}},
		{"single", value.Single{1.5}, value.Double{1.5}},
		{"char", value.NewChar("hi"), value.NewChar("hi")},
		{"empty char", value.Char{}, value.Char{}},
	}

	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, c, tt.in)
			if !value.Equal(got, tt.want) {
				t.Errorf("round trip = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// Length-one containers lose their array-ness on the wire.
func TestRoundTrip_SingletonAsymmetry(t *testing.T) {
	c := New(nil)

	b, err := c.Pack(value.Double{3})
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if len(b) != 9 || b[0] != 0xcb {
		t.Errorf("length-1 vector should encode as a bare float64, got %x", b)
	}

	got := roundTrip(t, c, value.Cell{value.Double{3}})
	if !value.Equal(got, value.Double{3}) {
		t.Errorf("single element cell = %#v, want bare scalar", got)
	}

	got = roundTrip(t, c, value.Cell{value.Cell{value.NewChar("a")}})
	if !value.Equal(got, value.NewChar("a")) {
		t.Errorf("nested single element cells = %#v, want bare char", got)
	}
}

func TestRoundTrip_HomogeneousVectors(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want value.Value
	}{
		{"doubles", value.Double{1, 2, 3}, value.Double{1, 2, 3}},
		{"singles", value.Single{1.5, -2.5}, value.Double{1.5, -2.5}},
		{"logicals", value.Logical{true, false, true}, value.Logical{true, false, true}},
		{"negative ints", value.Int64{-1, -2, -3}, value.Int64{-1, -2, -3}},
		{"uint16", value.Uint16{1, 2, 3}, value.Uint64{1, 2, 3}},
		{"non-negative int32", value.Int32{0, 7}, value.Uint64{0, 7}},
		{"whole doubles stay doubles", value.Double{1, 2}, value.Double{1, 2}},
	}

	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, c, tt.in)
			if !value.Equal(got, tt.want) {
				t.Errorf("round trip = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// A signed vector mixing signs holds both uint and int wire kinds, so it
// decodes as a cell.
func TestRoundTrip_MixedSignVector(t *testing.T) {
	got := roundTrip(t, New(nil), value.Int32{-1, 2})
	want := value.Cell{value.Int64{-1}, value.Uint64{2}}
	if !value.Equal(got, want) {
		t.Errorf("round trip = %#v, want %#v", got, want)
	}
}

func TestRoundTrip_Heterogeneous(t *testing.T) {
	in := value.Cell{value.Logical{true}, value.Double{2.5}}
	got := roundTrip(t, New(nil), in)

	cell, ok := got.(value.Cell)
	if !ok || len(cell) != 2 {
		t.Fatalf("got %#v, want 2-element cell", got)
	}
	if !value.Equal(cell[0], value.Logical{true}) || !value.Equal(cell[1], value.Double{2.5}) {
		t.Errorf("elements = %#v", cell)
	}

	nested := value.Cell{
		value.NewChar("name"),
		value.Double{1, 2},
		value.Cell{value.Logical{false}, value.Empty()},
	}
	got = roundTrip(t, New(nil), nested)
	want := value.Cell{
		value.NewChar("name"),
		value.Double{1, 2},
		value.Cell{value.Logical{false}, value.Empty()},
	}
	if !value.Equal(got, want) {
		t.Errorf("nested round trip = %#v, want %#v", got, want)
	}
}

func TestRoundTrip_Record(t *testing.T) {
	in := value.NewStruct(
		value.Field{Name: "a", Value: value.Double{1}},
		value.Field{Name: "b", Value: value.NewChar("x")},
	)
	got := roundTrip(t, New(nil), in)
	if !value.Equal(got, in) {
		t.Errorf("round trip = %#v, want %#v", got, in)
	}

	s := got.(value.Struct)
	if names := s.Names(); names[0] != "a" || names[1] != "b" {
		t.Errorf("field order = %v", names)
	}
}

func TestRoundTrip_EmptyRecord(t *testing.T) {
	b, err := New(nil).Pack(value.NewStruct())
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if !bytes.Equal(b, []byte{0x80}) {
		t.Errorf("empty struct = %x, want 80", b)
	}
	got := roundTrip(t, New(nil), value.NewStruct())
	if !value.Equal(got, value.NewStruct()) {
		t.Errorf("round trip = %#v", got)
	}
}

func TestSingleFieldRecord(t *testing.T) {
	rec := value.NewStruct(value.Field{Name: "gain", Value: value.Double{0.5}})

	t.Run("legacy layout keeps name and value", func(t *testing.T) {
		c := New(nil)
		b, err := c.Pack(rec)
		if err != nil {
			t.Fatalf("Pack failed: %v", err)
		}
		if b[0] != 0xa4 {
			t.Fatalf("expected bare name without map header, got %x", b)
		}

		got, err := c.Unpacker(b)
		if err != nil {
			t.Fatalf("Unpacker failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d values, want name and value", len(got))
		}
		name := value.CharFromBytes([]byte("gain"))
		if !value.Equal(got[0], name) {
			t.Errorf("name = %#v", got[0])
		}
		if !value.Equal(got[1], value.Double{0.5}) {
			t.Errorf("value = %#v", got[1])
		}
	})

	t.Run("record headers", func(t *testing.T) {
		c := New(nil).WithRecordHeaders(true)
		got := roundTrip(t, c, rec)
		if !value.Equal(got, rec) {
			t.Errorf("round trip = %#v, want %#v", got, rec)
		}
	})
}

func TestPack_WireLayout(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want []byte
	}{
		{"char", value.NewChar("A"), []byte{0xa2, 0x41, 0x00}},
		{"empty char", value.Char{}, []byte{0xa0}},
		{"single", value.Single{1.5}, []byte{0xca, 0x3f, 0xc0, 0x00, 0x00}},
		{"int16 vector", value.Int16{1, -1}, []byte{0x92, 0x01, 0xff}},
		{"empty vector", value.Double{}, []byte{0xc0}},
		{"empty cell", value.Cell{}, []byte{0xc0}},
		{"two field struct", value.NewStruct(
			value.Field{Name: "a", Value: value.Uint8{1}},
			value.Field{Name: "b", Value: value.Uint8{2}},
		), []byte{0x82, 0xa1, 'a', 0x01, 0xa1, 'b', 0x02}},
	}

	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Pack(tt.in)
			if err != nil {
				t.Fatalf("Pack failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Pack = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestPack_Concatenates(t *testing.T) {
	got, err := New(nil).Pack(value.Uint8{1}, value.Logical{true}, value.Empty())
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0xc3, 0xc0}) {
		t.Errorf("Pack = %x", got)
	}
}

func TestPack_Errors(t *testing.T) {
	c := New(nil)

	if _, err := c.Pack(nil); errors.KindOf(err) != errors.KindTypeMismatch {
		t.Errorf("nil value: expected type mismatch, got %v", err)
	}

	out, err := c.Pack(value.Double{1}, value.Cell{nil, value.Double{1}})
	if errors.KindOf(err) != errors.KindTypeMismatch {
		t.Fatalf("nil element: expected type mismatch, got %v", err)
	}
	if out != nil {
		t.Errorf("failed Pack returned %x", out)
	}
	var e *errors.Error
	if !asError(err, &e) || errors.JoinPath(e.Path) != "[0]" {
		t.Errorf("error path = %v", err)
	}
}

func TestPack_UnknownClass(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()
	_, err := New(reg).Pack(value.Double{1})
	if !errors.IsDispatch(err) {
		t.Errorf("expected dispatch error, got %v", err)
	}
}

func TestDepthGuard(t *testing.T) {
	t.Run("decode", func(t *testing.T) {
		nested := []byte{0x92, 0x92, 0x92, 0xc0, 0xc0, 0xc0, 0xc0}
		if _, err := New(nil).WithMaxDepth(3).Unpack(nested); err != nil {
			t.Fatalf("depth 3 should fit: %v", err)
		}
		_, err := New(nil).WithMaxDepth(2).Unpack(nested)
		if errors.KindOf(err) != errors.KindDepthExceeded {
			t.Errorf("expected depth exceeded, got %v", err)
		}
	})

	t.Run("encode self reference", func(t *testing.T) {
		c := value.Cell{nil, value.Double{1}}
		c[0] = c
		_, err := New(nil).Pack(c)
		if errors.KindOf(err) != errors.KindDepthExceeded {
			t.Errorf("expected depth exceeded, got %v", err)
		}
	})

	t.Run("encode limit", func(t *testing.T) {
		v := value.Cell{value.Cell{value.Cell{value.Double{1}, value.Double{2}}, value.Double{3}}, value.Double{4}}
		if _, err := New(nil).WithMaxDepth(3).Pack(v); err != nil {
			t.Fatalf("depth 3 should fit: %v", err)
		}
		_, err := New(nil).WithMaxDepth(2).Pack(v)
		if errors.KindOf(err) != errors.KindDepthExceeded {
			t.Errorf("expected depth exceeded, got %v", err)
		}
	})
}

func TestUnpack(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want value.Value
	}{
		{"nil is empty cell", []byte{0xc0}, value.Empty()},
		{"trailing bytes ignored", []byte{0x01, 0xc1}, value.Uint64{1}},
		{"non-negative signed prefix", []byte{0xd0, 0x05}, value.Uint64{5}},
		{"odd raw", []byte{0xa3, 'a', 0, 'b'}, value.Char{'a', 'b'}},
		{"bin as char", []byte{0xc4, 0x02, 'a', 0}, value.NewChar("a")},
		{"float32 widened", []byte{0xca, 0x3f, 0xc0, 0x00, 0x00}, value.Double{1.5}},
		{"empty array", []byte{0x90}, value.Cell{}},
		{"array with nil", []byte{0x92, 0x01, 0xc0}, value.Cell{value.Uint64{1}, value.Empty()}},
		{"array of strings", []byte{0x92, 0xa2, 'a', 0, 0xa0}, value.Cell{value.NewChar("a"), value.Char{}}},
		{"non-string key dropped", []byte{0x82, 0x01, 0xa1, 'x', 0xa1, 'k', 0x02},
			value.NewStruct(value.Field{Name: "k", Value: value.Uint64{2}})},
		{"duplicate key dropped", []byte{0x82, 0xa1, 'k', 0x01, 0xa1, 'k', 0x02},
			value.NewStruct(value.Field{Name: "k", Value: value.Uint64{1}})},
	}

	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Unpack(tt.in)
			if err != nil {
				t.Fatalf("Unpack failed: %v", err)
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("Unpack(%x) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnpack_Errors(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name string
		in   []byte
		kind errors.Kind
	}{
		{"empty", nil, errors.KindMalformedInput},
		{"reserved prefix", []byte{0xc1}, errors.KindMalformedInput},
		{"truncated", []byte{0x92, 0x01}, errors.KindMalformedInput},
		{"extension", []byte{0xd4, 0x01, 0x00}, errors.KindDispatch},
		{"nested extension", []byte{0x92, 0x01, 0xd4, 0x01, 0x00}, errors.KindDispatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Unpack(tt.in)
			if errors.KindOf(err) != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if got != nil {
				t.Errorf("failed Unpack returned %#v", got)
			}
		})
	}
}

func TestUnpack_DispatchPath(t *testing.T) {
	_, err := New(nil).Unpack([]byte{0x81, 0xa1, 'k', 0x92, 0x01, 0xd4, 0x01, 0x00})
	var e *errors.Error
	if !asError(err, &e) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if got := errors.JoinPath(e.Path); got != "k[1]" {
		t.Errorf("path = %q, want k[1]", got)
	}
	if e.WireType != "extension" {
		t.Errorf("wire type = %q", e.WireType)
	}
}

func TestUnpacker(t *testing.T) {
	c := New(nil)

	var stream []byte
	for _, v := range []value.Value{value.Double{1}, value.NewChar("two"), value.Logical{true, false}} {
		b, err := c.Pack(v)
		if err != nil {
			t.Fatalf("Pack failed: %v", err)
		}
		stream = append(stream, b...)
	}

	got, err := c.Unpacker(stream)
	if err != nil {
		t.Fatalf("Unpacker failed: %v", err)
	}
	want := []value.Value{value.Double{1}, value.NewChar("two"), value.Logical{true, false}}
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if !value.Equal(got[i], want[i]) {
			t.Errorf("value %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestUnpacker_Edges(t *testing.T) {
	c := New(nil)

	got, err := c.Unpacker(nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("empty input = %#v, %v; want empty sequence", got, err)
	}

	got, err = c.Unpacker([]byte{0x01, 0x92, 0x01})
	if err != nil {
		t.Fatalf("partial trailing message: %v", err)
	}
	if len(got) != 1 || !value.Equal(got[0], value.Uint64{1}) {
		t.Errorf("got %#v, want one value", got)
	}

	got, err = c.Unpacker([]byte{0x01, 0xc1})
	if !errors.IsMalformed(err) {
		t.Errorf("expected malformed input, got %v", err)
	}
	if got != nil {
		t.Errorf("failed Unpacker returned %#v", got)
	}

	if _, err := DecodeAll([]byte{0x01, 0xd4, 0x01, 0x00}); !errors.IsDispatch(err) {
		t.Errorf("expected dispatch error, got %v", err)
	}
}

func TestDecoder_LogsDroppedKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := New(nil).WithLogger(zap.New(core))

	if _, err := c.Unpack([]byte{0x82, 0x01, 0xa1, 'x', 0xa1, 'k', 0x02}); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if n := logs.FilterMessage("dropping map entry with non-string key").Len(); n != 1 {
		t.Errorf("logged %d dropped keys, want 1", n)
	}
	if logs.FilterMessage("decode").Len() == 0 {
		t.Error("expected per-value decode trace")
	}
}

func TestCodec_Concurrent(t *testing.T) {
	c := Default()
	in := value.NewStruct(
		value.Field{Name: "id", Value: value.Uint32{1, 2, 3}},
		value.Field{Name: "label", Value: value.NewChar("probe")},
	)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				b, err := c.Pack(in)
				if err != nil {
					t.Errorf("Pack failed: %v", err)
					return
				}
				if _, err := c.Unpack(b); err != nil {
					t.Errorf("Unpack failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
