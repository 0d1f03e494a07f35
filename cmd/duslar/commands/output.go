package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	OutputAuto  OutputFormat = ""
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
)

// renderer prints command results as tables for people or JSON for scripts.
type renderer struct {
	w      io.Writer
	format OutputFormat
	header lipgloss.Style
	muted  lipgloss.Style
}

// newRenderer resolves OutputAuto to a table on a terminal and JSON otherwise.
func newRenderer(w io.Writer, format OutputFormat) (*renderer, error) {
	tty := isTerminal(w)
	switch format {
	case OutputAuto:
		format = OutputJSON
		if tty {
			format = OutputTable
		}
	case OutputTable, OutputJSON:
	default:
		return nil, fmt.Errorf("unsupported output format %q (table|json)", format)
	}

	r := &renderer{w: w, format: format, header: lipgloss.NewStyle(), muted: lipgloss.NewStyle()}
	if tty {
		r.header = r.header.Bold(true)
		r.muted = r.muted.Faint(true)
	}
	return r, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// List prints rows under headers; v is what JSON output encodes.
func (r *renderer) List(v any, headers []string, rows [][]string) error {
	if r.format == OutputJSON {
		return r.json(v)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.w, r.muted.Render("(empty)"))
		return err
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return lipgloss.NewStyle().PaddingRight(1)
		}).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(r.w, t.Render())
	return err
}

// Record prints one object as aligned field/value pairs.
func (r *renderer) Record(v any, fields [][2]string) error {
	if r.format == OutputJSON {
		return r.json(v)
	}

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{r.header.Render(f[0]), f[1]})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...)

	_, err := fmt.Fprintln(r.w, t.Render())
	return err
}

// Message prints a one-line confirmation; JSON output encodes v instead.
func (r *renderer) Message(v any, text string) error {
	if r.format == OutputJSON {
		return r.json(v)
	}
	_, err := fmt.Fprintln(r.w, text)
	return err
}

func (r *renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
