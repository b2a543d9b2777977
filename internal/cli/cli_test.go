package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rello/internal/store"
	"github.com/mesh-intelligence/rello/pkg/types"
)

// testEnv isolates one CLI run sequence: its own config dir and board file.
type testEnv struct {
	t         *testing.T
	configDir string
	boardFile string
	backend   string
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

func newTestEnv(t *testing.T, backend string) *testEnv {
	t.Helper()
	for _, key := range []string{"RELLO_CONFIG_DIR", "RELLO_BOARD_FILE", "RELLO_BACKEND", "RELLO_LOG_LEVEL", "RELLO_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	name := "board.toml"
	if backend == types.BackendSQLite {
		name = "board.db"
	}
	return &testEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		boardFile: filepath.Join(dir, name),
		backend:   backend,
	}
}

// run executes rello in-process with stdin as input.
func (e *testEnv) run(stdin string, args ...string) runResult {
	e.t.Helper()
	full := append([]string{"--config-dir", e.configDir, "--board", e.boardFile, "--backend", e.backend}, args...)
	var stdout, stderr bytes.Buffer
	code := Run(full, strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// mustRun fails the test unless the command exits successfully.
func (e *testEnv) mustRun(args ...string) runResult {
	e.t.Helper()
	res := e.run("", args...)
	require.Equal(e.t, exitSuccess, res.code, "rello %v\nstdout: %s\nstderr: %s", args, res.stdout, res.stderr)
	return res
}

// board loads the persisted board directly from the store.
func (e *testEnv) board() *types.Board {
	e.t.Helper()
	s, err := store.New(types.Config{Backend: e.backend, BoardFile: e.boardFile})
	require.NoError(e.t, err)
	defer s.Close()
	b, err := s.Load()
	require.NoError(e.t, err)
	return b
}

func forEachBackend(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	for _, backend := range types.Backends() {
		t.Run(backend, func(t *testing.T) {
			fn(t, newTestEnv(t, backend))
		})
	}
}

func TestColumnAndItemLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		assert.Equal(t, "Column Added!\n", env.mustRun("column", "add", "ToDo").stdout)
		env.mustRun("column", "add", "Done")

		res := env.mustRun("item", "add", "--column", "ToDo", "--title", "Write", "--body", "docs", "--assignee", "bo")
		assert.Equal(t, "Item Added! (ID: 0)\n", res.stdout)

		res = env.mustRun("list")
		assert.Equal(t, "Board: \n\tToDo: \n\t\t(ID: 0) Title: Write, Body: docs, Assigned To: bo\n\tDone: \n\t\t\n", res.stdout)

		assert.Equal(t, "Moved Item\n", env.mustRun("item", "move", "0", "Done").stdout)

		b := env.board()
		assert.Equal(t, uint16(1), b.Counter)
		col, ok := b.ItemExists(0)
		require.True(t, ok)
		assert.Equal(t, "Done", col)

		assert.Equal(t, "Item Removed!\n", env.mustRun("item", "remove", "0").stdout)
		assert.Equal(t, "Column Removed!\n", env.mustRun("column", "remove", "Done").stdout)

		b = env.board()
		assert.Equal(t, uint16(1), b.Counter, "counter never goes back")
		assert.Equal(t, 0, b.ItemCount())
		assert.True(t, b.ColumnExists("ToDo"))
		assert.False(t, b.ColumnExists("Done"))
	})
}

func TestNotFoundIsUserError(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"remove missing column", []string{"column", "remove", "Nope"}, "That column doesn't exist"},
		{"add to missing column", []string{"item", "add", "--column", "Nope", "--title", "t", "--body", "b", "--assignee", ""}, "That column doesn't exist"},
		{"remove missing item", []string{"item", "remove", "7"}, "That item doesn't exist"},
		{"move to missing column", []string{"item", "move", "0", "Nope"}, "That column doesn't exist"},
		{"move missing item", []string{"item", "move", "7", "ToDo"}, "That item doesn't exist"},
		{"edit missing item", []string{"item", "edit", "7", "--title", "x"}, "That item doesn't exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, types.BackendTOML)
			env.mustRun("column", "add", "ToDo")
			env.mustRun("item", "add", "--column", "ToDo", "--title", "a", "--body", "b", "--assignee", "")
			before := env.board()

			res := env.run("", tt.args...)
			assert.Equal(t, exitUserError, res.code)
			assert.Contains(t, res.stderr, tt.wantErr)
			assert.Equal(t, before, env.board(), "board must be unchanged")
		})
	}
}

func TestInvalidID(t *testing.T) {
	for _, id := range []string{"abc", "1.5", "65536"} {
		t.Run(id, func(t *testing.T) {
			env := newTestEnv(t, types.BackendTOML)
			res := env.run("", "item", "remove", id)
			assert.Equal(t, exitUserError, res.code)
			assert.Contains(t, res.stderr, types.ErrInvalidID.Error())
			_, err := os.Stat(env.boardFile)
			assert.True(t, os.IsNotExist(err), "nothing to save")
		})
	}
}

func TestItemAddPrompts(t *testing.T) {
	env := newTestEnv(t, types.BackendTOML)
	env.mustRun("column", "add", "ToDo")

	res := env.run("ToDo\nWrite\ndocs\n\n", "item", "add")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Enter Column: Enter Title: Enter Body: Enter Assignee (Press Enter If None): Item Added! (ID: 0)\n", res.stdout)

	item, col, ok := env.board().Item(0)
	require.True(t, ok)
	assert.Equal(t, "ToDo", col)
	assert.Equal(t, "Write", item.Title)
	assert.Equal(t, "docs", item.Body)
	assert.Nil(t, item.Assignee)
}

func TestItemAddPromptsOnlyForMissingFlags(t *testing.T) {
	env := newTestEnv(t, types.BackendTOML)
	env.mustRun("column", "add", "ToDo")

	res := env.run("al\n", "item", "add", "--column", "ToDo", "--title", "t", "--body", "b")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Enter Assignee (Press Enter If None): Item Added! (ID: 0)\n", res.stdout)

	item, _, ok := env.board().Item(0)
	require.True(t, ok)
	require.NotNil(t, item.Assignee)
	assert.Equal(t, "al", *item.Assignee)
}

func TestItemMovePromptsForColumn(t *testing.T) {
	env := newTestEnv(t, types.BackendTOML)
	env.mustRun("column", "add", "ToDo")
	env.mustRun("column", "add", "Done")
	env.mustRun("item", "add", "--column", "ToDo", "--title", "t", "--body", "b", "--assignee", "")

	res := env.run("Done\n", "item", "move", "0")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Enter Column: Moved Item\n", res.stdout)

	col, ok := env.board().ItemExists(0)
	require.True(t, ok)
	assert.Equal(t, "Done", col)
}

func TestItemEdit(t *testing.T) {
	setup := func(t *testing.T) *testEnv {
		env := newTestEnv(t, types.BackendTOML)
		env.mustRun("column", "add", "ToDo")
		env.mustRun("item", "add", "--column", "ToDo", "--title", "old", "--body", "body", "--assignee", "bo")
		return env
	}

	t.Run("flags", func(t *testing.T) {
		env := setup(t)
		res := env.mustRun("item", "edit", "0", "--title", "new")
		assert.Equal(t, "Body unchanged\nItem Edited!\n", res.stdout)

		item, _, _ := env.board().Item(0)
		assert.Equal(t, "new", item.Title)
		assert.Equal(t, "body", item.Body)
		require.NotNil(t, item.Assignee)
		assert.Equal(t, "bo", *item.Assignee)
	})

	t.Run("unassign", func(t *testing.T) {
		env := setup(t)
		env.mustRun("item", "edit", "0", "--assignee", "-")

		item, _, _ := env.board().Item(0)
		assert.Nil(t, item.Assignee)
		assert.Equal(t, "old", item.Title)
	})

	t.Run("prompts", func(t *testing.T) {
		env := setup(t)
		res := env.run("\nnew body\n\n", "item", "edit", "0")
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Equal(t,
			"New Title (Press Enter If No Change): New Body (Press Enter If No Change): "+
				"New Assignee (Press Enter If No Change, - To Unassign): Title unchanged\nItem Edited!\n",
			res.stdout)

		item, _, _ := env.board().Item(0)
		assert.Equal(t, "old", item.Title)
		assert.Equal(t, "new body", item.Body)
	})
}

func TestListJSON(t *testing.T) {
	env := newTestEnv(t, types.BackendTOML)
	env.mustRun("column", "add", "ToDo")
	env.mustRun("item", "add", "--column", "ToDo", "--title", "t", "--body", "b", "--assignee", "")

	res := env.mustRun("list", "--json")

	var got types.Board
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, uint16(1), got.Counter)
	require.Len(t, got.Columns, 1)
	assert.Equal(t, "ToDo", got.Columns[0].Title)
	require.Len(t, got.Columns[0].Items, 1)
	assert.Equal(t, "t", got.Columns[0].Items[0].Title)
}

func TestReadOnlyCommandDoesNotWrite(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		env.mustRun("list")
		res := env.run("", "item", "remove", "3")
		require.Equal(t, exitUserError, res.code)

		_, err := os.Stat(env.boardFile)
		assert.True(t, os.IsNotExist(err), "read-only and failed commands create no board")
	})
}

func TestShellSavesOnExit(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		script := strings.Join([]string{
			"column add ToDo",
			`item add ToDo "Write docs" "for the cli"`,
			"item move 0 Nope",
			"exit",
		}, "\n") + "\n"

		res := env.run(script, "shell")
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Item Added! (ID: 0)")
		assert.Contains(t, res.stdout, "That column doesn't exist")

		item, col, ok := env.board().Item(0)
		require.True(t, ok)
		assert.Equal(t, "ToDo", col)
		assert.Equal(t, "Write docs", item.Title)
		assert.Equal(t, "for the cli", item.Body)
	})
}

// corruptBoard breaks the persisted board in a way each backend detects on
// load.
func (e *testEnv) corruptBoard() {
	e.t.Helper()
	if e.backend == types.BackendTOML {
		require.NoError(e.t, os.WriteFile(e.boardFile, []byte("counter = [oops"), 0o644))
		return
	}
	db, err := sql.Open("sqlite", e.boardFile)
	require.NoError(e.t, err)
	defer db.Close()
	_, err = db.Exec("UPDATE board SET counter = 70000")
	require.NoError(e.t, err)
}

func TestCorruptBoardDegrades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		env.mustRun("column", "add", "ToDo")
		env.mustRun("item", "add", "--column", "ToDo", "--title", "keep", "--body", "me", "--assignee", "")
		env.corruptBoard()

		res := env.run("", "column", "add", "Doing")
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stderr, "corrupt")

		quarantined := env.boardFile + ".corrupt"
		assert.FileExists(t, quarantined, "corrupt board kept aside")
		if env.backend == types.BackendSQLite {
			db, err := sql.Open("sqlite", quarantined)
			require.NoError(t, err)
			defer db.Close()
			var title string
			require.NoError(t, db.QueryRow("SELECT title FROM items WHERE id = 0").Scan(&title))
			assert.Equal(t, "keep", title, "old items survive the degraded save")
		}

		b := env.board()
		assert.True(t, b.ColumnExists("Doing"))
		assert.False(t, b.ColumnExists("ToDo"))
	})
}

func TestLogFormat(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		env := newTestEnv(t, types.BackendTOML)
		env.corruptBoard()

		res := env.run("", "--log-format", "json", "list")
		require.Equal(t, exitSuccess, res.code, res.stderr)

		lines := strings.Split(strings.TrimSpace(res.stderr), "\n")
		require.NotEmpty(t, lines)
		for _, line := range lines {
			var rec map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &rec), "line %q", line)
			assert.Equal(t, "warn", rec["level"])
		}
	})

	t.Run("env", func(t *testing.T) {
		env := newTestEnv(t, types.BackendTOML)
		t.Setenv("RELLO_LOG_FORMAT", "logfmt")
		env.corruptBoard()

		res := env.run("", "list")
		require.Equal(t, exitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stderr, "level=warn")
	})
}

func TestUnreadableBoardIsNotOverwritten(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		// A directory in place of the board cannot be read as one.
		require.NoError(t, os.MkdirAll(env.boardFile, 0o755))
		marker := filepath.Join(env.boardFile, "keep")
		require.NoError(t, os.WriteFile(marker, []byte("data"), 0o644))

		res := env.run("", "column", "add", "ToDo")
		assert.Equal(t, exitSysError, res.code)
		assert.Contains(t, res.stderr, "could not save board")
		assert.FileExists(t, marker)
	})
}

func TestSaveFailureIsSystemError(t *testing.T) {
	env := newTestEnv(t, types.BackendTOML)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	env.boardFile = filepath.Join(blocker, "board.toml")

	res := env.run("", "column", "add", "ToDo")
	assert.Equal(t, exitSysError, res.code)
	assert.Contains(t, res.stderr, "could not save board")
}

func TestUnknownBackend(t *testing.T) {
	env := newTestEnv(t, "yaml")
	res := env.run("", "list")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "unknown backend")
	assert.Contains(t, res.stderr, "toml, sqlite")
}

func TestUsageErrors(t *testing.T) {
	env := newTestEnv(t, types.BackendTOML)
	for _, args := range [][]string{
		{"column", "add"},
		{"item", "remove"},
		{"bogus"},
	} {
		res := env.run("", args...)
		assert.Equal(t, exitUserError, res.code, "args %v", args)
		assert.NotEmpty(t, res.stderr)
	}
}

func TestInit(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		res := env.mustRun("init")
		assert.Contains(t, res.stdout, "Board initialized at "+env.boardFile)
		assert.FileExists(t, env.boardFile)

		data, err := os.ReadFile(filepath.Join(env.configDir, "config.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "backend: "+env.backend)
		assert.Contains(t, string(data), "board_file: "+env.boardFile)
		assert.Contains(t, string(data), "log_level: warn")
		assert.Contains(t, string(data), "log_format: text", "existing keys are kept")

		res = env.mustRun("init")
		assert.Contains(t, res.stdout, "Board already exists")
	})
}

func TestConfigFileSelectsBoard(t *testing.T) {
	env := newTestEnv(t, types.BackendTOML)
	env.mustRun("init")
	env.mustRun("column", "add", "ToDo")

	// Without --board or --backend, config.yaml written by init wins.
	var stdout, stderr bytes.Buffer
	code := Run([]string{"--config-dir", env.configDir, "list"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())
	assert.Contains(t, stdout.String(), "ToDo")
}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"version"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout.String(), "rello v")
	assert.Contains(t, stdout.String(), modulePath)
}
