// Package script parses and replays timed selection and order commands for
// headless runs.
//
//	# harvest with everyone, then send a squad to a point
//	at 0.5 select all
//	at 0.5 order h
//	at 10 select 100 100 400 400
//	at 10 order 200 300
//	at 20 clear
package script

import (
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/behavior"
)

// File is the parsed form of a script.
type File struct {
	Lines []*Line `@@*`
}

// Line is one timed command.
type Line struct {
	Pos lexer.Position

	At     float64   `"at" @Number`
	Select *Select   `( @@`
	Order  *OrderCmd `| @@`
	Clear  bool      `| @"clear" )`
}

// Select replaces the selection with every slug or those inside a box.
type Select struct {
	All bool      `"select" ( @"all"`
	Box []float64 `| @Number @Number @Number @Number )`
}

// OrderCmd issues a token or point order to the selection.
type OrderCmd struct {
	Point []float64 `"order" ( @Number @Number`
	Token string    `| @Ident )`
}

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})

var parser = participle.MustBuild[File](
	participle.Lexer(scriptLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Kind is the type of a command.
type Kind int

const (
	SelectAll Kind = iota
	SelectBox
	ClearSelection
	IssueOrder
)

// Command is a validated, timed command.
type Command struct {
	At    float64
	Kind  Kind
	Box   [2]r2.Vec      // SelectBox corners
	Order behavior.Order // IssueOrder
	Line  int
}

// Parse parses script source. filename is used in error positions.
func Parse(filename, source string) ([]Command, error) {
	f, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	cmds := make([]Command, 0, len(f.Lines))
	for _, l := range f.Lines {
		if l.At < 0 {
			return nil, fmt.Errorf("%s: negative time %v", l.Pos, l.At)
		}
		c := Command{At: l.At, Line: l.Pos.Line}
		switch {
		case l.Select != nil && l.Select.All:
			c.Kind = SelectAll
		case l.Select != nil:
			b := l.Select.Box
			c.Kind = SelectBox
			c.Box = [2]r2.Vec{{X: b[0], Y: b[1]}, {X: b[2], Y: b[3]}}
		case l.Order != nil && len(l.Order.Point) == 2:
			c.Kind = IssueOrder
			c.Order = behavior.PointOrder(r2.Vec{X: l.Order.Point[0], Y: l.Order.Point[1]})
		case l.Order != nil:
			tok := []rune(l.Order.Token)
			if len(tok) != 1 {
				return nil, fmt.Errorf("%s: order token %q must be a single letter", l.Pos, l.Order.Token)
			}
			c.Kind = IssueOrder
			c.Order = behavior.TokenOrder(tok[0])
		case l.Clear:
			c.Kind = ClearSelection
		}
		cmds = append(cmds, c)
	}

	// Commands at the same time keep their source order.
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].At < cmds[j].At })
	return cmds, nil
}

// Load reads and parses a script file.
func Load(path string) ([]Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Parse(path, string(data))
}
