package wasmtest

// HostModule is the namespace the canned guest imports from.
const HostModule = "fornjot_v1"

// Memory layout of the canned guest.
const (
	metadataOffset = 16
	logOffset      = 1024
	keyOffset      = 2048
	heapStart      = 4096
)

// Import names an extra function import of type () -> ().
type Import struct {
	Module string
	Name   string
}

// GuestOptions shapes the canned model guest.
type GuestOptions struct {
	// Metadata is the JSON returned by on_load. Empty makes on_load return a null pointer.
	Metadata string

	// LogMessage, when set, is logged at LogLevel by on_load before it returns.
	LogMessage string
	LogLevel   int32

	// ResultKey is the argument generate looks up; its value is returned verbatim as
	// the generate payload. Absence traps. Defaults to "result".
	ResultKey string

	// Handle, when non-zero, is passed to context_get_argument instead of the value
	// returned by context_current.
	Handle int32

	// TrapOnLoad makes on_load execute unreachable.
	TrapOnLoad bool

	// OmitGenerate leaves out the generate export.
	OmitGenerate bool

	// OmitMemory leaves out the memory export.
	OmitMemory bool

	// Deallocate exports a no-op deallocate.
	Deallocate bool

	// ExtraImports are added after the three host imports.
	ExtraImports []Import
}

// Guest assembles a model that talks to the host only through the capability imports.
//
// on_load returns opts.Metadata. generate calls context_current, looks up
// opts.ResultKey with context_get_argument and returns the value it receives, so a
// test controls the generate payload through the model's arguments.
func Guest(opts GuestOptions) []byte {
	if opts.ResultKey == "" {
		opts.ResultKey = "result"
	}

	b := NewBuilder()

	logFn := b.ImportFunc(HostModule, "log", FuncType{Params: []ValType{I32, I64}})
	currentFn := b.ImportFunc(HostModule, "context_current", FuncType{Results: []ValType{I32}})
	getArgFn := b.ImportFunc(HostModule, "context_get_argument",
		FuncType{Params: []ValType{I32, I64}, Results: []ValType{I64}})
	for _, imp := range opts.ExtraImports {
		b.ImportFunc(imp.Module, imp.Name, FuncType{})
	}

	heap := b.GlobalI32(heapStart, true)

	allocate := b.Func(FuncType{Params: []ValType{I32}, Results: []ValType{I32}}, nil,
		GlobalGet(heap),
		GlobalGet(heap),
		LocalGet(0),
		Op(OpI32Add),
		GlobalSet(heap),
	)

	var onLoad [][]byte
	if opts.TrapOnLoad {
		onLoad = append(onLoad, Op(OpUnreachable))
	}
	if opts.LogMessage != "" {
		onLoad = append(onLoad,
			I32Const(opts.LogLevel),
			I64Const(Pack(logOffset, uint32(len(opts.LogMessage)))), //nolint:gosec // G115: tiny test strings
			Call(logFn),
		)
	}
	if opts.Metadata == "" {
		onLoad = append(onLoad, I64Const(0))
	} else {
		onLoad = append(onLoad, I64Const(Pack(metadataOffset, uint32(len(opts.Metadata))))) //nolint:gosec // G115: tiny test strings
	}
	onLoadFn := b.Func(FuncType{Results: []ValType{I64}}, nil, onLoad...)

	handle := Call(currentFn)
	if opts.Handle != 0 {
		handle = I32Const(opts.Handle)
	}
	generateFn := b.Func(FuncType{Results: []ValType{I64}}, []ValType{I64},
		handle,
		I64Const(Pack(keyOffset, uint32(len(opts.ResultKey)))), //nolint:gosec // G115: tiny test strings
		Call(getArgFn),
		LocalTee(0),
		Op(OpI64Eqz),
		If(Op(OpUnreachable)),
		LocalGet(0),
	)

	if !opts.OmitMemory {
		b.Memory(1, "memory")
	} else {
		b.Memory(1, "")
	}
	b.ExportFunc("allocate", allocate)
	b.ExportFunc("on_load", onLoadFn)
	if !opts.OmitGenerate {
		b.ExportFunc("generate", generateFn)
	}
	if opts.Deallocate {
		dealloc := b.Func(FuncType{Params: []ValType{I32, I32}}, nil)
		b.ExportFunc("deallocate", dealloc)
	}

	if opts.Metadata != "" {
		b.Data(metadataOffset, []byte(opts.Metadata))
	}
	if opts.LogMessage != "" {
		b.Data(logOffset, []byte(opts.LogMessage))
	}
	b.Data(keyOffset, []byte(opts.ResultKey))

	return b.Bytes()
}

// BoxMetadata is the metadata JSON of the reference box model.
const BoxMetadata = `{"name":"box","version":"0.1.0","description":"A box"}`
