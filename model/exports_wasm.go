//go:build wasip1

package model

import (
	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/internal/abi"
)

//go:wasmimport fornjot_v1 log
//nolint:revive // intentional snake_case to match WASM import convention
func host_log(level int32, msg uint64)

//go:wasmimport fornjot_v1 context_current
//nolint:revive // intentional snake_case to match WASM import convention
func host_context_current() int32

//go:wasmimport fornjot_v1 context_get_argument
//nolint:revive // intentional snake_case to match WASM import convention
func host_context_get_argument(ctx int32, name uint64) uint64

func hostLog(level entities.LogLevel, msg string) {
	packed := abi.PtrFromString(msg)
	host_log(int32(level), packed)
	abi.Release(packed)
}

// hostContext resolves arguments through the host by handle.
type hostContext struct {
	handle int32
}

func (c hostContext) Argument(name string) (string, bool) {
	packed := abi.PtrFromString(name)
	defer abi.Release(packed)
	return abi.StringFromPtr(host_context_get_argument(c.handle, packed))
}

//go:wasmexport on_load
func onLoad() uint64 {
	return export(OnLoadPayload(registered))
}

//go:wasmexport generate
func generate() uint64 {
	return export(GeneratePayload(registered, hostContext{handle: host_context_current()}))
}

// export hands a payload to the host. An encoding failure is a bug in the model and
// traps.
func export(payload []byte, err error) uint64 {
	if err != nil {
		panic(err)
	}
	return abi.PtrFromBytes(payload)
}
