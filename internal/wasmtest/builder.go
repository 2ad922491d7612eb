// Package wasmtest assembles small WebAssembly binaries for tests.
// It covers only the handful of sections and instructions the host's tests need.
package wasmtest

import "slices"

// ValType is a WebAssembly value type.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
)

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Instruction opcodes.
const (
	OpUnreachable byte = 0x00
	OpIf          byte = 0x04
	OpEnd         byte = 0x0b
	OpDrop        byte = 0x1a
	OpCall        byte = 0x10
	OpLocalGet    byte = 0x20
	OpLocalSet    byte = 0x21
	OpLocalTee    byte = 0x22
	OpGlobalGet   byte = 0x23
	OpGlobalSet   byte = 0x24
	OpI32Const    byte = 0x41
	OpI64Const    byte = 0x42
	OpI64Eqz      byte = 0x50
	OpI32Add      byte = 0x6a

	blockEmpty byte = 0x40
)

const (
	exportKindFunc   byte = 0x00
	exportKindMemory byte = 0x02
)

type importEntry struct {
	module, name string
	typeIdx      uint32
}

type funcEntry struct {
	typeIdx uint32
	locals  []ValType
	body    []byte
}

type exportEntry struct {
	name string
	kind byte
	idx  uint32
}

type globalEntry struct {
	typ     ValType
	mutable bool
	init    int64
}

type dataEntry struct {
	offset uint32
	bytes  []byte
}

// Builder accumulates a module. Imports must be added before functions are defined.
type Builder struct {
	types     []FuncType
	imports   []importEntry
	funcs     []funcEntry
	exports   []exportEntry
	globals   []globalEntry
	data      []dataEntry
	memPages  uint32
	hasMemory bool
}

// NewBuilder creates an empty module builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) typeIndex(ft FuncType) uint32 {
	for i, t := range b.types {
		if slices.Equal(t.Params, ft.Params) && slices.Equal(t.Results, ft.Results) {
			return uint32(i) //nolint:gosec // G115: tiny test modules
		}
	}
	b.types = append(b.types, ft)
	return uint32(len(b.types) - 1) //nolint:gosec // G115: tiny test modules
}

// ImportFunc adds a function import and returns its function index.
func (b *Builder) ImportFunc(module, name string, ft FuncType) uint32 {
	if len(b.funcs) > 0 {
		panic("wasmtest: imports must precede function definitions")
	}
	b.imports = append(b.imports, importEntry{module: module, name: name, typeIdx: b.typeIndex(ft)})
	return uint32(len(b.imports) - 1) //nolint:gosec // G115: tiny test modules
}

// Func defines a function. body must not include the trailing end opcode.
func (b *Builder) Func(ft FuncType, locals []ValType, body ...[]byte) uint32 {
	b.funcs = append(b.funcs, funcEntry{typeIdx: b.typeIndex(ft), locals: locals, body: slices.Concat(body...)})
	return uint32(len(b.imports) + len(b.funcs) - 1) //nolint:gosec // G115: tiny test modules
}

// ExportFunc exports function idx under name.
func (b *Builder) ExportFunc(name string, idx uint32) {
	b.exports = append(b.exports, exportEntry{name: name, kind: exportKindFunc, idx: idx})
}

// Memory declares memory 0 with the given minimum pages, exported under export
// unless export is empty.
func (b *Builder) Memory(pages uint32, export string) {
	b.hasMemory = true
	b.memPages = pages
	if export != "" {
		b.exports = append(b.exports, exportEntry{name: export, kind: exportKindMemory, idx: 0})
	}
}

// GlobalI32 declares an i32 global and returns its index.
func (b *Builder) GlobalI32(init int32, mutable bool) uint32 {
	b.globals = append(b.globals, globalEntry{typ: I32, mutable: mutable, init: int64(init)})
	return uint32(len(b.globals) - 1) //nolint:gosec // G115: tiny test modules
}

// Data places bytes in memory 0 at offset.
func (b *Builder) Data(offset uint32, bytes []byte) {
	b.data = append(b.data, dataEntry{offset: offset, bytes: bytes})
}

// Bytes encodes the module.
func (b *Builder) Bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	if len(b.types) > 0 {
		var sec []byte
		sec = appendULEB(sec, uint64(len(b.types)))
		for _, t := range b.types {
			sec = append(sec, 0x60)
			sec = appendValTypes(sec, t.Params)
			sec = appendValTypes(sec, t.Results)
		}
		out = appendSection(out, 1, sec)
	}

	if len(b.imports) > 0 {
		var sec []byte
		sec = appendULEB(sec, uint64(len(b.imports)))
		for _, imp := range b.imports {
			sec = appendName(sec, imp.module)
			sec = appendName(sec, imp.name)
			sec = append(sec, exportKindFunc)
			sec = appendULEB(sec, uint64(imp.typeIdx))
		}
		out = appendSection(out, 2, sec)
	}

	if len(b.funcs) > 0 {
		var sec []byte
		sec = appendULEB(sec, uint64(len(b.funcs)))
		for _, f := range b.funcs {
			sec = appendULEB(sec, uint64(f.typeIdx))
		}
		out = appendSection(out, 3, sec)
	}

	if b.hasMemory {
		sec := []byte{0x01, 0x00}
		sec = appendULEB(sec, uint64(b.memPages))
		out = appendSection(out, 5, sec)
	}

	if len(b.globals) > 0 {
		var sec []byte
		sec = appendULEB(sec, uint64(len(b.globals)))
		for _, g := range b.globals {
			mut := byte(0)
			if g.mutable {
				mut = 1
			}
			sec = append(sec, byte(g.typ), mut, OpI32Const)
			sec = appendSLEB(sec, g.init)
			sec = append(sec, OpEnd)
		}
		out = appendSection(out, 6, sec)
	}

	if len(b.exports) > 0 {
		var sec []byte
		sec = appendULEB(sec, uint64(len(b.exports)))
		for _, e := range b.exports {
			sec = appendName(sec, e.name)
			sec = append(sec, e.kind)
			sec = appendULEB(sec, uint64(e.idx))
		}
		out = appendSection(out, 7, sec)
	}

	if len(b.funcs) > 0 {
		var sec []byte
		sec = appendULEB(sec, uint64(len(b.funcs)))
		for _, f := range b.funcs {
			var body []byte
			body = appendULEB(body, uint64(len(f.locals)))
			for _, l := range f.locals {
				body = append(body, 0x01, byte(l))
			}
			body = append(body, f.body...)
			body = append(body, OpEnd)
			sec = appendULEB(sec, uint64(len(body)))
			sec = append(sec, body...)
		}
		out = appendSection(out, 10, sec)
	}

	if len(b.data) > 0 {
		var sec []byte
		sec = appendULEB(sec, uint64(len(b.data)))
		for _, d := range b.data {
			sec = append(sec, 0x00, OpI32Const)
			sec = appendSLEB(sec, int64(d.offset))
			sec = append(sec, OpEnd)
			sec = appendULEB(sec, uint64(len(d.bytes)))
			sec = append(sec, d.bytes...)
		}
		out = appendSection(out, 11, sec)
	}

	return out
}

// I32Const encodes i32.const v.
func I32Const(v int32) []byte {
	return appendSLEB([]byte{OpI32Const}, int64(v))
}

// I64Const encodes i64.const v.
func I64Const(v int64) []byte {
	return appendSLEB([]byte{OpI64Const}, v)
}

// Call encodes call idx.
func Call(idx uint32) []byte {
	return appendULEB([]byte{OpCall}, uint64(idx))
}

// LocalGet encodes local.get idx.
func LocalGet(idx uint32) []byte {
	return appendULEB([]byte{OpLocalGet}, uint64(idx))
}

// LocalTee encodes local.tee idx.
func LocalTee(idx uint32) []byte {
	return appendULEB([]byte{OpLocalTee}, uint64(idx))
}

// GlobalGet encodes global.get idx.
func GlobalGet(idx uint32) []byte {
	return appendULEB([]byte{OpGlobalGet}, uint64(idx))
}

// GlobalSet encodes global.set idx.
func GlobalSet(idx uint32) []byte {
	return appendULEB([]byte{OpGlobalSet}, uint64(idx))
}

// If encodes an if block with no result around body.
func If(body ...[]byte) []byte {
	out := []byte{OpIf, blockEmpty}
	out = append(out, slices.Concat(body...)...)
	return append(out, OpEnd)
}

// Op wraps single-byte instructions.
func Op(ops ...byte) []byte {
	return ops
}

// Pack builds the packed ptr/len i64 the host ABI uses.
func Pack(ptr, length uint32) int64 {
	return int64(uint64(ptr)<<32 | uint64(length)) //nolint:gosec // G115: pointers stay below 2^31 in tests
}

func appendSection(out []byte, id byte, content []byte) []byte {
	out = append(out, id)
	out = appendULEB(out, uint64(len(content)))
	return append(out, content...)
}

func appendName(out []byte, s string) []byte {
	out = appendULEB(out, uint64(len(s)))
	return append(out, s...)
}

func appendValTypes(out []byte, types []ValType) []byte {
	out = appendULEB(out, uint64(len(types)))
	for _, t := range types {
		out = append(out, byte(t))
	}
	return out
}

func appendULEB(out []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func appendSLEB(out []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if done {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
