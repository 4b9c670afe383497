package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Printer writes command results either as JSON or as styled text.
// Human-mode errors, warnings and notes go to the error writer so tool
// output piped from stdout stays clean.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	styled bool
	styles styles
}

type styles struct {
	err, success, warn lipgloss.Style
	bold, dim, code    lipgloss.Style
	title              lipgloss.Style
	border             lipgloss.Color
}

// newStyles returns the ANSI palette, or unstyled renderers when color is off.
func newStyles(color bool) styles {
	base := lipgloss.NewStyle()
	if !color {
		return styles{
			err: base, success: base, warn: base,
			bold: base, dim: base, code: base,
			title: base,
		}
	}
	return styles{
		err:     base.Foreground(lipgloss.Color("9")).Bold(true),
		success: base.Foreground(lipgloss.Color("10")),
		warn:    base.Foreground(lipgloss.Color("11")),
		bold:    base.Bold(true),
		dim:     base.Foreground(lipgloss.Color("8")),
		code:    base.Foreground(lipgloss.Color("13")),
		title:   base.Bold(true).Foreground(lipgloss.Color("12")),
		border:  lipgloss.Color("8"),
	}
}

// NewPrinter creates a Printer writing to w. color enables ANSI styling
// and bordered tables; it is ignored in JSON mode.
func NewPrinter(w io.Writer, jsonMode, color bool) *Printer {
	color = color && !jsonMode
	return &Printer{w: w, errW: w, json: jsonMode, styled: color, styles: newStyles(color)}
}

// WithStderr routes human-mode errors, warnings and notes to w.
// JSON mode keeps everything on the main writer.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON reports whether the printer emits JSON.
func (p *Printer) IsJSON() bool {
	return p.json
}

// Success writes a result. Human mode prints data["message"] when present,
// otherwise every key in sorted order.
func (p *Printer) Success(data map[string]any) error {
	if p.json {
		return p.WriteJSON(data)
	}
	if msg, ok := data["message"].(string); ok {
		p.line(p.w, p.styles.success.Render(msg))
		return nil
	}
	for _, key := range slices.Sorted(maps.Keys(data)) {
		p.line(p.w, fmt.Sprintf("%s: %v", p.styles.bold.Render(key), data[key]))
	}
	return nil
}

// Error writes err. JSON mode emits {"error": ..., "code": N} on the main
// writer; errors without an exit code report ExitUserError.
func (p *Printer) Error(err error) {
	code, msg := ExitUserError, err.Error()
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code, msg = exitErr.Code, exitErr.Message
	}
	if p.json {
		mustWrite(p.w.Write(append(ErrorJSON(msg, code), '\n')))
		return
	}
	p.line(p.errW, p.styles.err.Render("Error")+": "+msg)
}

// Warn writes a warning. JSON mode emits {"warning": ...}.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		_ = p.WriteJSON(map[string]any{"warning": msg})
		return
	}
	p.line(p.errW, p.styles.warn.Render("Warning")+": "+msg)
}

// Note writes a dimmed hint to the error writer. Silent in JSON mode.
func (p *Printer) Note(format string, args ...any) {
	if p.json {
		return
	}
	p.line(p.errW, p.styles.dim.Render(fmt.Sprintf(format, args...)))
}

// Print writes formatted text without a trailing newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// Command writes a shell command line, highlighted on a terminal.
func (p *Printer) Command(command string) {
	p.line(p.w, p.styles.code.Render(command))
}

// WriteJSON encodes data as indented JSON.
func (p *Printer) WriteJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorJSON returns the JSON error envelope {"error": message, "code": code}.
func ErrorJSON(message string, code int) []byte {
	data, _ := json.Marshal(map[string]any{"error": message, "code": code})
	return data
}

// Table writes rows under headers. Styled output draws a bordered table;
// plain output pads columns with spaces so scripts can split on whitespace.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	if p.styled {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(p.styles.border)).
			Headers(headers...).
			Rows(rows...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return p.styles.bold.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		p.line(p.w, t.Render())
		return
	}

	widths := make([]int, len(headers))
	for _, row := range slices.Concat([][]string{headers}, rows) {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], len(row[i]))
		}
	}
	for _, row := range slices.Concat([][]string{headers}, rows) {
		cells := make([]string, 0, len(widths))
		for i := range min(len(row), len(widths)) {
			cells = append(cells, row[i]+strings.Repeat(" ", widths[i]-len(row[i])))
		}
		p.line(p.w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// Box writes content inside a rounded border when styled, or under a
// title line otherwise.
func (p *Printer) Box(title, content string) {
	if !p.styled {
		if title != "" {
			p.line(p.w, title+"\n")
		}
		p.line(p.w, content)
		return
	}
	body := content
	if title != "" {
		body = p.styles.title.Render(title) + "\n\n" + content
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.styles.border).
		Padding(0, 1)
	p.line(p.w, box.Render(body))
}

func (p *Printer) line(w io.Writer, s string) {
	mustWrite(fmt.Fprintln(w, s))
}

// mustWrite panics on write failures to stdout, stderr or buffers, which
// only happen when the process can no longer report anything.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}
