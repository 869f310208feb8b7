package verilog

import (
	"bytes"
	"fmt"
)

// writer accumulates the artifact text. Emission is append-only;
// once a line is written it is never revisited.
type writer struct {
	buf    bytes.Buffer
	indent int
}

// line writes s at the current indent.
func (w *writer) line(s string) {
	for i := 0; i < w.indent; i++ {
		w.buf.WriteString("    ")
	}
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// linef writes a formatted line at the current indent.
func (w *writer) linef(format string, args ...any) {
	w.line(fmt.Sprintf(format, args...))
}

// blank writes an empty separator line.
func (w *writer) blank() {
	w.buf.WriteByte('\n')
}

func (w *writer) String() string {
	return w.buf.String()
}
