package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/behavior"
)

func TestParse(t *testing.T) {
	src := `
# comments and blank lines are ignored
at 3 order h
at 0.5 select all
at 3 select 100 100 400 400
at 10 order 200.5 -3
at 12 clear
`
	cmds, err := Parse("test", src)
	require.NoError(t, err)
	require.Len(t, cmds, 5)

	assert.Equal(t, SelectAll, cmds[0].Kind)
	assert.Equal(t, 0.5, cmds[0].At)

	// Same-time commands keep source order.
	assert.Equal(t, IssueOrder, cmds[1].Kind)
	assert.Equal(t, behavior.TokenOrder('h'), cmds[1].Order)
	assert.Equal(t, 3, cmds[1].Line)
	assert.Equal(t, SelectBox, cmds[2].Kind)
	assert.Equal(t, [2]r2.Vec{{X: 100, Y: 100}, {X: 400, Y: 400}}, cmds[2].Box)

	assert.Equal(t, behavior.PointOrder(r2.Vec{X: 200.5, Y: -3}), cmds[3].Order)
	assert.Equal(t, ClearSelection, cmds[4].Kind)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing time", "at order h"},
		{"unknown command", "at 1 jump"},
		{"short box", "at 1 select 1 2 3"},
		{"long token", "at 1 order harvest"},
		{"negative time", "at -1 order h"},
		{"bad character", "at 1 order h;"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("test", tc.src)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.txt")
	require.NoError(t, os.WriteFile(path, []byte("at 1 select all\nat 2 order b\n"), 0644))

	cmds, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cmds, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

// recorder is a Target that logs calls.
type recorder struct {
	calls  []string
	orders []behavior.Order
}

func (r *recorder) SelectAll() int { r.calls = append(r.calls, "all"); return 3 }
func (r *recorder) SelectBox(a, b r2.Vec) int {
	r.calls = append(r.calls, "box")
	return 1
}
func (r *recorder) ClearSelection() { r.calls = append(r.calls, "clear") }
func (r *recorder) IssueOrder(o behavior.Order) (int, int) {
	r.calls = append(r.calls, "order")
	r.orders = append(r.orders, o)
	return 3, 0
}

func TestRunnerAppliesAsTimePasses(t *testing.T) {
	cmds, err := Parse("test", "at 0 select all\nat 1 order a\nat 1 clear\nat 5 select 0 0 10 10")
	require.NoError(t, err)

	r := NewRunner(cmds)
	rec := &recorder{}

	assert.Equal(t, 1, r.Apply(rec, 0.01))
	assert.Equal(t, 0, r.Apply(rec, 0.99))
	assert.Equal(t, 2, r.Apply(rec, 1.0))
	assert.False(t, r.Done())
	assert.Equal(t, 1, r.Apply(rec, 100))
	assert.True(t, r.Done())
	assert.Equal(t, 0, r.Apply(rec, 200))

	assert.Equal(t, []string{"all", "order", "clear", "box"}, rec.calls)
	assert.Equal(t, []behavior.Order{behavior.TokenOrder('a')}, rec.orders)
}
