package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/muurk/nodeedit/internal/graph"
)

// Output formats accepted by --format
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Printer writes command output. Styled components go through it so
// commands never print directly to stdout.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer that writes to w. If w is nil, os.Stdout is
// used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the width used for rendering
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintRecords prints records as a table
func (p *Printer) PrintRecords(records []graph.Record) {
	p.Println(RenderRecords(records, p.width))
}

// PrintSuggestions prints suggested values per key
func (p *Printer) PrintSuggestions(s graph.Suggestions) {
	p.Println(RenderSuggestions(s, p.width))
}

// Encode writes v in a machine-readable format (json or yaml).
func (p *Printer) Encode(format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (use table, json or yaml)", format)
	}
}

// NodeDocument is the machine-readable form of a record.
type NodeDocument struct {
	ElementID  string         `json:"element_id" yaml:"element_id"`
	Labels     []string       `json:"labels" yaml:"labels"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// Documents converts records for Encode. Property values are rendered the
// way the table shows them so driver types encode predictably.
func Documents(records []graph.Record) []NodeDocument {
	docs := make([]NodeDocument, len(records))
	for i, r := range records {
		props := make(map[string]any, len(r.Props))
		for k, v := range r.Props {
			switch v.(type) {
			case string, bool, int64, int, float64, nil:
				props[k] = v
			default:
				props[k] = graph.FormatValue(v)
			}
		}
		labels := r.Labels
		if labels == nil {
			labels = []string{}
		}
		docs[i] = NodeDocument{ElementID: r.ElementID, Labels: labels, Properties: props}
	}
	return docs
}
