package wazero

import (
	"context"
	"log/slog"

	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/domain/ports"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// registerCapabilities instantiates the host module for one model, closed over caps.
// Host functions never trap: bad guest input is logged and answered with a neutral value.
func registerCapabilities(ctx context.Context, rt wazero.Runtime, caps ports.Capabilities, cfg Config) error {
	h := &hostModule{caps: caps, logger: cfg.Logger, maxMessage: cfg.MaxMessageSize}

	_, err := rt.NewHostModuleBuilder(cfg.ModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.log), hostImports[importLog].params, hostImports[importLog].results).
		WithParameterNames("level", "message").
		Export(importLog).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.contextCurrent), hostImports[importCurrent].params, hostImports[importCurrent].results).
		Export(importCurrent).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.contextGetArgument), hostImports[importGetArgument].params, hostImports[importGetArgument].results).
		WithParameterNames("ctx", "name").
		Export(importGetArgument).
		Instantiate(ctx)
	return err
}

type hostModule struct {
	caps       ports.Capabilities
	logger     *slog.Logger
	maxMessage uint32
}

func (h *hostModule) log(ctx context.Context, mod api.Module, stack []uint64) {
	level := entities.LogLevel(api.DecodeI32(stack[0]))
	msg, err := readString(mod, stack[1], h.maxMessage)
	if err != nil {
		h.logger.WarnContext(ctx, "wazero: dropped guest log message",
			"model", GetModelName(ctx, mod), "error", err)
		return
	}
	h.caps.Log(ctx, level, msg)
}

func (h *hostModule) contextCurrent(ctx context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(uint32(h.caps.ContextCurrent(ctx)))
}

func (h *hostModule) contextGetArgument(ctx context.Context, mod api.Module, stack []uint64) {
	handle := entities.ContextHandle(api.DecodeU32(stack[0]))
	name, err := readString(mod, stack[1], h.maxMessage)
	if err != nil {
		h.logger.WarnContext(ctx, "wazero: unreadable argument name",
			"model", GetModelName(ctx, mod), "error", err)
		stack[0] = 0
		return
	}

	value, ok := h.caps.ContextGetArgument(ctx, handle, name)
	if !ok {
		stack[0] = 0
		return
	}

	packed, err := writeString(ctx, mod, value)
	if err != nil {
		h.logger.ErrorContext(ctx, "wazero: failed to hand argument to guest",
			"model", GetModelName(ctx, mod), "argument", name, "error", err)
		stack[0] = 0
		return
	}
	stack[0] = packed
}
