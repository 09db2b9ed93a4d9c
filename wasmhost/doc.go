// Package wasmhost exposes the codec to WebAssembly guests as the wazero host
// module "mxpack".
//
// Guests pass MessagePack buffers by pointer and length into their own linear
// memory:
//
//	bridge := wasmhost.New(codec.Default())
//	if _, err := bridge.Instantiate(ctx, r); err != nil {
//	    return err
//	}
//	mod, err := r.Instantiate(ctx, guestWasm)
//
// Host code can read and write the same regions with ReadValues and
// WriteValues.
package wasmhost
