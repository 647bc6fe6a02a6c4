package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vector76/todo/internal/model"
	"github.com/vector76/todo/internal/store"
)

// testEnv points every command at a private data file and config path.
type testEnv struct {
	dir        string
	dataFile   string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		dir:        dir,
		dataFile:   filepath.Join(dir, "todos.json"),
		configPath: filepath.Join(dir, "config.yaml"),
	}
}

// exec runs the CLI with the given stdin and returns stdout and the error.
func (e *testEnv) exec(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--data-file", e.dataFile, "--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// run executes a CLI command and fails the test on error.
func (e *testEnv) run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.exec(t, "", args...)
	require.NoError(t, err, "command %v failed; output:\n%s", args, out)
	return out
}

// runErr executes a CLI command and expects an error.
func (e *testEnv) runErr(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, err := e.exec(t, "", args...)
	require.Error(t, err, "command %v should fail; output:\n%s", args, out)
	return out, err
}

// store reopens the data file to inspect what the CLI persisted.
func (e *testEnv) store() *store.Store {
	return store.Open(e.dataFile)
}

func (e *testEnv) get(t *testing.T, id string) model.Todo {
	t.Helper()
	todo, ok := e.store().Get(id)
	require.True(t, ok, "todo %s should exist", id)
	return todo
}

func TestRootShowsHelp(t *testing.T) {
	env := newTestEnv(t)
	out := env.run(t)
	assert.Contains(t, out, "Todo CLI")
	assert.Contains(t, out, "Todo Commands:")
}

func TestRootVersion(t *testing.T) {
	env := newTestEnv(t)
	out := env.run(t, "--version")
	assert.Equal(t, "todo "+version+"\n", out)
}

func TestInfo(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "a", "one")
	env.run(t, "a", "two")

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(env.run(t, "info")), &info))
	assert.Equal(t, env.dataFile, info["data_file"])
	assert.Equal(t, env.configPath, info["config_file"])
	assert.EqualValues(t, 2, info["todos"])
	assert.EqualValues(t, 98, info["available"])
	assert.EqualValues(t, 100, info["capacity"])
}

func TestConfigFileSetsDataFile(t *testing.T) {
	env := newTestEnv(t)
	configured := filepath.Join(env.dir, "elsewhere", "todos.json")
	require.NoError(t, os.WriteFile(env.configPath, []byte("data_file: "+configured+"\n"), 0o644))

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--config", env.configPath, "a", "configured"})
	require.NoError(t, cmd.Execute())

	todo, ok := store.Open(configured).Get("0")
	require.True(t, ok)
	assert.Equal(t, "configured", todo.Description)
}

func TestEnvSetsDataFile(t *testing.T) {
	env := newTestEnv(t)
	fromEnv := filepath.Join(env.dir, "env", "todos.json")
	t.Setenv("TODO_FILE", fromEnv)

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--config", env.configPath, "a", "from env"})
	require.NoError(t, cmd.Execute())

	_, ok := store.Open(fromEnv).Get("0")
	assert.True(t, ok)
}

func TestInvalidConfigFails(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("log_level: chatty\n"), 0o644))

	_, err := env.runErr(t, "l")
	assert.Contains(t, err.Error(), "log_level")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.runErr(t, "--log-level", "loud", "l")
	assert.Contains(t, err.Error(), "log_level")
}

func TestLogFileReceivesStoreWarnings(t *testing.T) {
	env := newTestEnv(t)
	logFile := filepath.Join(env.dir, "todo.log")
	require.NoError(t, os.WriteFile(env.configPath, []byte("log_file: "+logFile+"\n"), 0o644))
	require.NoError(t, os.WriteFile(env.dataFile, []byte("{broken"), 0o644))

	out := env.run(t, "l")
	assert.Contains(t, out, "No todos found.")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cmp":"store"`)
	assert.Contains(t, string(data), `"level":"warn"`)
}

func writeTestConfig(t *testing.T, env *testEnv, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0o644))
}

// serve runs the serve command with an already cancelled context, so it
// starts and shuts down immediately.
func (e *testEnv) serve(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append([]string{"--data-file", e.dataFile, "--config", e.configPath, "serve"}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestServeAddrFromFlag(t *testing.T) {
	env := newTestEnv(t)
	writeTestConfig(t, env, "serve:\n  addr: 127.0.0.1:1\n")

	out, err := env.serve(t, "--addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Equal(t, "listening on http://127.0.0.1:0\n", out)
}

func TestServeAddrFromConfig(t *testing.T) {
	env := newTestEnv(t)
	writeTestConfig(t, env, "serve:\n  addr: 127.0.0.1:0\n")

	out, err := env.serve(t)
	require.NoError(t, err)
	assert.Contains(t, out, "http://127.0.0.1:0")
}

func TestServeRejectsEmptyAddr(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.serve(t, "--addr", "")
	assert.Error(t, err)
}
