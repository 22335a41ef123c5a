package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal"
	"github.com/tuannm99/pagedb/internal/engine"
	"github.com/tuannm99/pagedb/internal/sql/executor"
)

// runScript feeds commands to a fresh session over the database at path and
// returns the output split into lines, the way a user would see it.
func runScript(t *testing.T, path string, commands []string) []string {
	t.Helper()

	cfg := internal.DefaultConfig()
	cfg.Storage.SyncWrites = false

	db, err := engine.Open(path, cfg)
	require.NoError(t, err)

	var out bytes.Buffer
	s := NewSession(db, &out)
	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	require.NoError(t, s.Run(context.Background(), in))
	require.NoError(t, db.Close())

	return strings.Split(out.String(), "\n")
}

func newDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestSession_InsertAndSelect(t *testing.T) {
	got := runScript(t, newDBPath(t), []string{
		"insert 1 user1 person1@example.com",
		"select",
		".exit",
	})
	assert.Equal(t, []string{
		"db > Executed.",
		"db > 1 user1 person1@example.com",
		"Executed.",
		"db > ",
	}, got)
}

func TestSession_KeepsDataAfterClose(t *testing.T) {
	path := newDBPath(t)

	got := runScript(t, path, []string{"insert 1 user1 person1@example.com", ".exit"})
	assert.Equal(t, []string{"db > Executed.", "db > "}, got)

	got = runScript(t, path, []string{"select", ".exit"})
	assert.Equal(t, []string{
		"db > 1 user1 person1@example.com",
		"Executed.",
		"db > ",
	}, got)
}

func TestSession_TableFull(t *testing.T) {
	var script []string
	for i := 1; i <= 1301; i++ {
		script = append(script, fmt.Sprintf("insert %d user%d person%d@example.com", i, i, i))
	}
	script = append(script, ".exit")

	got := runScript(t, newDBPath(t), script)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "db > Table full.", got[len(got)-2])
	assert.Equal(t, "db > Executed.", got[len(got)-3])
}

func TestSession_MaxLengthStrings(t *testing.T) {
	username := strings.Repeat("a", 32)
	email := strings.Repeat("a", 255)

	got := runScript(t, newDBPath(t), []string{
		fmt.Sprintf("insert 1 %s %s", username, email),
		"select",
		".exit",
	})
	assert.Equal(t, []string{
		"db > Executed.",
		fmt.Sprintf("db > 1 %s %s", username, email),
		"Executed.",
		"db > ",
	}, got)
}

func TestSession_StringsTooLong(t *testing.T) {
	username := strings.Repeat("a", 33)
	email := strings.Repeat("a", 256)

	got := runScript(t, newDBPath(t), []string{
		fmt.Sprintf("insert 1 %s %s", username, email),
		"select",
		".exit",
	})
	assert.Equal(t, []string{
		"db > String too long.",
		"db > Executed.",
		"db > ",
	}, got)
}

func TestSession_NegativeID(t *testing.T) {
	got := runScript(t, newDBPath(t), []string{
		"insert -1 cstack foo@bar.com",
		"select",
		".exit",
	})
	assert.Equal(t, []string{
		"db > ID must be positive.",
		"db > Executed.",
		"db > ",
	}, got)
}

func TestSession_FourRows(t *testing.T) {
	var script []string
	for i := 1; i <= 4; i++ {
		script = append(script, fmt.Sprintf("insert %d wen zhao@wen.com", i))
	}
	script = append(script, "select", ".exit")

	got := runScript(t, newDBPath(t), script)
	assert.Equal(t, []string{
		"db > Executed.",
		"db > Executed.",
		"db > Executed.",
		"db > Executed.",
		"db > 1 wen zhao@wen.com",
		"2 wen zhao@wen.com",
		"3 wen zhao@wen.com",
		"4 wen zhao@wen.com",
		"Executed.",
		"db > ",
	}, got)
}

func TestSession_ErrorsDoNotStopLoop(t *testing.T) {
	got := runScript(t, newDBPath(t), []string{
		"insert 1 asd",
		"update 1 a b",
		".tables",
		"",
		"insert 10 asd asd.com",
		".exit",
	})
	assert.Equal(t, []string{
		"db > Syntax error. Cannot parse statement.",
		"db > Unrecognized statement.",
		"db > Unrecognized command '.tables'.",
		"db > Unrecognized statement.",
		"db > Executed.",
		"db > ",
	}, got)
}

func TestSession_OversizedLineDoesNotEndSession(t *testing.T) {
	// well past any fixed line buffer
	username := strings.Repeat("u", 2<<20)

	got := runScript(t, newDBPath(t), []string{
		"insert 1 " + username + " e",
		"select",
		".exit",
	})
	assert.Equal(t, []string{
		"db > String too long.",
		"db > Executed.",
		"db > ",
	}, got)
}

func TestSession_LastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(&stubExec{res: &executor.Result{}}, &out)

	require.NoError(t, s.Run(context.Background(), strings.NewReader("select")))
	assert.Equal(t, "db > Executed.\ndb > ", out.String())
}

func TestSession_EOFEndsCleanly(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(executor.NewExecutorForTest(nil), &out)

	require.NoError(t, s.Run(context.Background(), strings.NewReader("")))
	assert.Equal(t, "db > ", out.String())
}

func TestSession_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := NewSession(executor.NewExecutorForTest(nil), &out)
	require.NoError(t, s.Run(ctx, strings.NewReader("select\n")))
	assert.Empty(t, out.String())
}

// ---- HandleLine ----

type stubExec struct {
	res  *executor.Result
	err  error
	seen []string
}

func (s *stubExec) ExecLine(line string) (*executor.Result, error) {
	s.seen = append(s.seen, line)
	return s.res, s.err
}

func TestHandleLine(t *testing.T) {
	stub := &stubExec{res: &executor.Result{}}
	s := NewSession(stub, &bytes.Buffer{})

	out, exit := s.HandleLine(".exit")
	assert.True(t, exit)
	assert.Empty(t, out)

	out, exit = s.HandleLine("  .exit  ")
	assert.True(t, exit)
	assert.Empty(t, out)

	out, exit = s.HandleLine(".EXIT")
	assert.False(t, exit)
	assert.Equal(t, "Unrecognized command '.EXIT'.", out)

	// meta commands never reach the executor
	assert.Empty(t, stub.seen)

	out, exit = s.HandleLine("select")
	assert.False(t, exit)
	assert.Equal(t, "Executed.", out)
	assert.Equal(t, []string{"select"}, stub.seen)

	stub.err = errors.New("disk on fire")
	out, _ = s.HandleLine("insert 1 a b")
	assert.Equal(t, "Error: disk on fire", out)
}

func TestSession_CustomPrompt(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(&stubExec{res: &executor.Result{}}, &out)
	s.Prompt = "> "

	require.NoError(t, s.Run(context.Background(), strings.NewReader("select\n.exit\n")))
	assert.Equal(t, "> Executed.\n> ", out.String())
}

func TestSession_IDsAreUnique(t *testing.T) {
	a := NewSession(&stubExec{}, &bytes.Buffer{})
	b := NewSession(&stubExec{}, &bytes.Buffer{})
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
