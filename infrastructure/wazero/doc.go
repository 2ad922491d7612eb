// Package wazero implements the sandbox runtime over the wazero WebAssembly engine.
//
// Every model gets its own wazero.Runtime, so the host module a guest imports is built
// from that model's capabilities alone. Compiled code is shared through a single
// wazero.CompilationCache.
//
// # Guest ABI
//
// Strings and payloads cross the boundary as a packed i64: the upper 32 bits hold a
// pointer into guest memory, the lower 32 bits the length. The host module
// (default name "fornjot_v1") exports:
//
//	log(level i32, message i64)
//	context_current() -> i32
//	context_get_argument(ctx i32, name i64) -> i64   ;; 0 when absent
//
// The guest must export:
//
//	memory
//	allocate(size i32) -> i32
//	on_load() -> i64    ;; JSON Metadata
//	generate() -> i64   ;; JSON {"tag":"ok","shape":...} or {"tag":"err","error":...}
//
// and may export deallocate(ptr i32, len i32) and _initialize.
//
// # Basic Usage
//
//	rt := wazero.NewRuntime(wazero.WithLogger(logger))
//	defer rt.Close(ctx)
//
//	compiled, err := rt.Compile(ctx, "box.wasm", binary)
//	if err != nil {
//	    return err
//	}
//	inst, err := compiled.Instantiate(ctx, bridge)
package wazero
