package wazero

import (
	"fmt"
	"slices"

	"github.com/fornjot/modelhost/domain/ports"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

type signature struct {
	params  []api.ValueType
	results []api.ValueType
}

func (s signature) matches(def api.FunctionDefinition) bool {
	return slices.Equal(s.params, def.ParamTypes()) && slices.Equal(s.results, def.ResultTypes())
}

func (s signature) String() string {
	return fmt.Sprintf("%v -> %v", valueTypeNames(s.params), valueTypeNames(s.results))
}

func valueTypeNames(types []api.ValueType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return names
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

// hostImports are the only functions a guest may import from the host namespace.
var hostImports = map[string]signature{
	importLog:         {params: []api.ValueType{i32, i64}},
	importCurrent:     {results: []api.ValueType{i32}},
	importGetArgument: {params: []api.ValueType{i32, i64}, results: []api.ValueType{i64}},
}

// guestExports are the functions every model must export.
var guestExports = map[string]signature{
	exportAllocate:       {params: []api.ValueType{i32}, results: []api.ValueType{i32}},
	ports.ExportOnLoad:   {results: []api.ValueType{i64}},
	ports.ExportGenerate: {results: []api.ValueType{i64}},
}

var optionalExports = map[string]signature{
	exportDeallocate: {params: []api.ValueType{i32, i32}},
	exportInitialize: {},
}

// checkInterface verifies that compiled follows the model ABI. Imports from other
// namespaces are left to instantiation, which fails if they cannot be satisfied.
func checkInterface(compiled wazero.CompiledModule, hostModule string) error {
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		if module != hostModule {
			continue
		}
		want, ok := hostImports[name]
		if !ok {
			return fmt.Errorf("imports unknown host function %s.%s", module, name)
		}
		if !want.matches(def) {
			return fmt.Errorf("imports %s.%s with signature %v, want %s",
				module, name, signature{def.ParamTypes(), def.ResultTypes()}, want)
		}
	}

	exports := compiled.ExportedFunctions()
	for name, want := range guestExports {
		def, ok := exports[name]
		if !ok {
			return fmt.Errorf("missing required export %q", name)
		}
		if !want.matches(def) {
			return fmt.Errorf("export %q has signature %v, want %s",
				name, signature{def.ParamTypes(), def.ResultTypes()}, want)
		}
	}
	for name, want := range optionalExports {
		if def, ok := exports[name]; ok && !want.matches(def) {
			return fmt.Errorf("export %q has signature %v, want %s",
				name, signature{def.ParamTypes(), def.ResultTypes()}, want)
		}
	}

	if _, ok := compiled.ExportedMemories()[exportMemory]; !ok {
		return fmt.Errorf("missing required memory export %q", exportMemory)
	}
	return nil
}
