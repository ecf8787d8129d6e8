package script

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/behavior"
)

// Target is the selection and order surface commands act on.
type Target interface {
	SelectAll() int
	SelectBox(a, b r2.Vec) int
	ClearSelection()
	IssueOrder(o behavior.Order) (recipients, ignored int)
}

// Runner replays commands as simulation time passes.
type Runner struct {
	cmds []Command
	next int
}

// NewRunner creates a runner over commands sorted by time.
func NewRunner(cmds []Command) *Runner {
	return &Runner{cmds: cmds}
}

// Apply runs every pending command whose time is at or before clock and
// returns how many ran.
func (r *Runner) Apply(t Target, clock float64) int {
	ran := 0
	for r.next < len(r.cmds) && r.cmds[r.next].At <= clock {
		c := r.cmds[r.next]
		r.next++
		ran++

		switch c.Kind {
		case SelectAll:
			n := t.SelectAll()
			slog.Debug("script select", "line", c.Line, "selected", n)
		case SelectBox:
			n := t.SelectBox(c.Box[0], c.Box[1])
			slog.Debug("script select", "line", c.Line, "selected", n)
		case ClearSelection:
			t.ClearSelection()
		case IssueOrder:
			recipients, ignored := t.IssueOrder(c.Order)
			slog.Info("script order",
				"line", c.Line,
				"at", c.At,
				"recipients", recipients,
				"ignored", ignored,
			)
		}
	}
	return ran
}

// Done reports whether every command has run.
func (r *Runner) Done() bool { return r.next >= len(r.cmds) }
