package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/fixedpool"
)

func newTestShell(t *testing.T, size int) (*Shell, *fixedpool.SafePool) {
	t.Helper()
	pool, err := fixedpool.NewSafePool(size, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Release() })
	return New(pool, nil), pool
}

func exec(t *testing.T, s *Shell, line string) string {
	t.Helper()
	var buf bytes.Buffer
	s.ExecLine(line).Print(&buf)
	return buf.String()
}

func Test_Shell_Script(t *testing.T) {
	s, _ := newTestShell(t, 64)

	script := `
# raw block, then typed values
alloc 8 8
put i64 42
put point 1 -2
get i64 0x8
get point 16
del i64 8
free 0
stats
quit
alloc 1
`
	var out bytes.Buffer
	require.NoError(t, s.Run(strings.NewReader(script), &out))

	want := strings.Join([]string{
		"OK", "addr=0x0",
		"OK", "addr=0x8",
		"OK", "addr=0x10",
		"42",
		"(1, -2)",
		"OK",
		"OK",
		"capacity=64 B",
		"in_use=16 B",
		"entries=1",
		"free_regions=2",
		"largest_free=32 B",
		"utilization=25.00%",
	}, "\n") + "\n"
	assert.Equal(t, want, out.String())
}

func Test_Shell_Errors(t *testing.T) {
	s, _ := newTestShell(t, 16)

	tests := []struct {
		line string
		want string
	}{
		{"bogus", "unknown command: bogus"},
		{"alloc", "expected at least 1 argument(s)"},
		{"alloc 1 2 3", "expected at most 2 argument(s)"},
		{"alloc x", `invalid number "x"`},
		{"alloc 32", "out of memory"},
		{"alloc 4 3", "alignment 3 is not a power of two"},
		{"free zz", `invalid address "zz"`},
		{"free 4", "nothing freed at 0x4"},
		{"put str hi", `unknown type "str"`},
		{"put i64", "expected at least 2 argument(s)"},
		{"put point 1", "expected at least 3 argument(s)"},
		{"put f64 nope", "parse value"},
		{"get i64 0", "address not allocated"},
		{"del i64", "expected at least 2 argument(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out := exec(t, s, tt.line)
			assert.True(t, strings.HasPrefix(out, "ERROR\n"), out)
			assert.Contains(t, out, tt.want)
		})
	}
}

func Test_Shell_TypeChecks(t *testing.T) {
	s, pool := newTestShell(t, 64)

	require.Equal(t, "OK\naddr=0x0\n", exec(t, s, "put f64 2.5"))
	assert.Equal(t, "2.5\n", exec(t, s, "get f64 0"))
	assert.Contains(t, exec(t, s, "get i64 0"), "type mismatch")
	assert.Contains(t, exec(t, s, "del point 0"), "type mismatch")
	assert.Equal(t, 1, pool.Metrics().NumEntries)

	// a typed entry can still be released by size
	assert.Contains(t, exec(t, s, "free 0 4"), "nothing freed")
	assert.Equal(t, "OK\n", exec(t, s, "free 0 8"))
	assert.Equal(t, 0, pool.Metrics().NumEntries)
}

func Test_Shell_Dump(t *testing.T) {
	s, _ := newTestShell(t, 16)
	exec(t, s, "put i64 7")

	out := exec(t, s, "dump")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "REGION START")
	assert.Contains(t, lines[1], "Used")
	assert.Contains(t, lines[1], "int64")
	assert.Contains(t, lines[2], "Free")
}

func Test_Shell_HelpAndQuit(t *testing.T) {
	s, _ := newTestShell(t, 16)

	assert.Contains(t, exec(t, s, "help"), "alloc <size> [align]")
	assert.Contains(t, exec(t, s, "HELP"), "quit")
	assert.True(t, s.ExecLine("quit").IsExit())
	assert.True(t, s.ExecLine("exit").IsExit())
	assert.False(t, s.ExecLine("").IsExit())
}

func TestParse(t *testing.T) {
	cmd, err := Parse("  Alloc  16   8 ")
	require.NoError(t, err)
	assert.Equal(t, "alloc", cmd.Name)
	assert.Equal(t, []string{"16", "8"}, cmd.Args)
	assert.Equal(t, "Alloc  16   8", cmd.Line)

	_, err = Parse("   ")
	assert.Error(t, err)
}

func TestParseAddr(t *testing.T) {
	tests := []struct {
		input   string
		want    fixedpool.Addr
		wantErr bool
	}{
		{"0", 0, false},
		{"16", 16, false},
		{"0x10", 16, false},
		{"0o20", 16, false},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAddr(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestComplete(t *testing.T) {
	assert.Equal(t, []string{"del", "dump"}, complete("d"))
	assert.Equal(t, []string{"free"}, complete("FR"))
	assert.Empty(t, complete("zz"))
}
