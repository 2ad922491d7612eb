package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fornjot/modelhost/config"
	"github.com/fornjot/modelhost/internal/wasmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapeResult = `{"tag":"ok","shape":{"vertices":[{"x":0,"y":0,"z":0},{"x":1,"y":0,"z":0},{"x":0,"y":1,"z":0}],"faces":[[0,1,2]]}}`

// modelDir writes the canned box guest into a fresh directory.
func modelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bin := wasmtest.Guest(wasmtest.GuestOptions{Metadata: wasmtest.BoxMetadata})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.wasm"), bin, 0o600))
	return dir
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(config.EnvModelDir, "")
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestList(t *testing.T) {
	code, stdout, stderr := run(t, "list", "--model-dir", modelDir(t))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "box")
	assert.Contains(t, stdout, "0.1.0")
	assert.Contains(t, stdout, "A box")
}

func TestList_JSON(t *testing.T) {
	code, stdout, stderr := run(t, "list", "-m", modelDir(t), "--json")
	require.Equal(t, 0, code, stderr)

	var models []map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &models))
	assert.Equal(t, []map[string]string{{"name": "box", "version": "0.1.0", "description": "A box"}}, models)
}

func TestList_EmptyDirectory(t *testing.T) {
	code, stdout, _ := run(t, "list", "-m", t.TempDir(), "--json")
	assert.Equal(t, 0, code)
	assert.JSONEq(t, `[]`, stdout)
}

func TestList_MissingDirectory(t *testing.T) {
	code, _, stderr := run(t, "list", "-m", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unable to read")
}

func TestRun_Shape(t *testing.T) {
	code, stdout, stderr := run(t, "run", "box", "result="+shapeResult, "-m", modelDir(t))
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "box: 3 vertices, 1 faces\n", stdout)
}

func TestRun_GuestErrorExitsZero(t *testing.T) {
	code, stdout, stderr := run(t, "run", "box", `result={"tag":"err","error":{"message":"The \"width\" argument is missing"}}`, "-m", modelDir(t))
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `The "width" argument is missing`)
}

func TestRun_JSON(t *testing.T) {
	code, stdout, stderr := run(t, "run", "box", "result="+shapeResult, "-m", modelDir(t), "--json")
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, shapeResult, stdout)
}

func TestRun_NotFound(t *testing.T) {
	code, stdout, stderr := run(t, "run", "nonexistent", "-m", modelDir(t))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `model "nonexistent" not found`)
}

func TestRun_TrapIsFatal(t *testing.T) {
	code, _, stderr := run(t, "run", "box", "-m", modelDir(t))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "call to generate")
}

func TestRun_BadArgumentFailsBeforeLoading(t *testing.T) {
	code, _, stderr := run(t, "run", "box", "width", "-m", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `invalid argument "width"`)
	assert.NotContains(t, stderr, "unable to read")
}

func TestRun_RequiresModel(t *testing.T) {
	code, _, _ := run(t, "run")
	assert.Equal(t, 1, code)
}

func TestModelDirFromEnvironment(t *testing.T) {
	dir := modelDir(t)
	t.Setenv(config.EnvModelDir, dir)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"list", "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `"box"`)
}

func TestConfigFile(t *testing.T) {
	dir := modelDir(t)
	cfgPath := filepath.Join(t.TempDir(), "modelhost.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("model_dir: "+dir+"\nvalidate_payloads: true\nlog_level: debug\n"), 0o600))

	code, stdout, stderr := run(t, "run", "box", "result="+shapeResult, "--config", cfgPath)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "3 vertices")
	assert.Contains(t, stderr, "Loading models")

	code, _, stderr = run(t, "run", "box", `result={"tag":"ok","shape":{"vertices":[{"x":0}],"faces":[]}}`, "--config", cfgPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "malformed result")
}

func TestBadLogLevel(t *testing.T) {
	code, _, stderr := run(t, "list", "-m", modelDir(t), "--log-level", "chatty")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config validation failed")
}

func TestSchema(t *testing.T) {
	code, stdout, _ := run(t, "schema")
	require.Equal(t, 0, code)

	var all map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(stdout), &all))
	assert.Contains(t, all, "on_load")
	assert.Contains(t, all, "generate")

	code, stdout, _ = run(t, "schema", "on_load")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `"version"`)

	code, _, _ = run(t, "schema", "memory")
	assert.Equal(t, 1, code)
}
