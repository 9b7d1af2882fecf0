package testutil

// GuestModule returns the binary of a minimal wasm guest that imports one
// host function and forwards to it:
//
//	(module
//	  (import importModule importName (func $f (param i64) [(result i64)]))
//	  (memory (export "memory") 1)
//	  (global $heap (mut i32) (i32.const 1024))
//	  (func (export "allocate") (param i32) (result i32)
//	    global.get $heap
//	    global.get $heap
//	    local.get 0
//	    i32.add
//	    global.set $heap)
//	  (func (export "call_<importName>") (param i64) [(result i64)]
//	    local.get 0
//	    call $f))
//
// allocate is a bump allocator that never frees, which is enough for tests.
func GuestModule(importModule, importName string, hasResult bool) []byte {
	forward := []byte{0x60, 0x01, 0x7e, 0x00}
	if hasResult {
		forward = []byte{0x60, 0x01, 0x7e, 0x01, 0x7e}
	}

	var types []byte
	types = append(types, 0x02)
	types = append(types, 0x60, 0x01, 0x7f, 0x01, 0x7f)
	types = append(types, forward...)

	var imports []byte
	imports = append(imports, 0x01)
	imports = append(imports, wasmName(importModule)...)
	imports = append(imports, wasmName(importName)...)
	imports = append(imports, 0x00, 0x01)

	var exports []byte
	exports = append(exports, 0x03)
	exports = append(exports, wasmName("memory")...)
	exports = append(exports, 0x02, 0x00)
	exports = append(exports, wasmName("allocate")...)
	exports = append(exports, 0x00, 0x01)
	exports = append(exports, wasmName("call_"+importName)...)
	exports = append(exports, 0x00, 0x02)

	code := []byte{
		0x02,
		0x0b, 0x00, 0x23, 0x00, 0x23, 0x00, 0x20, 0x00, 0x6a, 0x24, 0x00, 0x0b,
		0x06, 0x00, 0x20, 0x00, 0x10, 0x00, 0x0b,
	}

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = append(out, wasmSection(0x01, types)...)
	out = append(out, wasmSection(0x02, imports)...)
	out = append(out, wasmSection(0x03, []byte{0x02, 0x00, 0x01})...)
	out = append(out, wasmSection(0x05, []byte{0x01, 0x00, 0x01})...)
	out = append(out, wasmSection(0x06, []byte{0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b})...)
	out = append(out, wasmSection(0x07, exports)...)
	out = append(out, wasmSection(0x0a, code)...)
	return out
}

func wasmSection(id byte, content []byte) []byte {
	return append(append([]byte{id}, uleb128(uint32(len(content)))...), content...) //nolint:gosec // G115: test modules are tiny
}

func wasmName(s string) []byte {
	return append(uleb128(uint32(len(s))), s...) //nolint:gosec // G115: test modules are tiny
}

func uleb128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
