// Package swift holds the text-level primitives shared by every emitter:
// an indenting line printer, the language keyword tables, and string
// literal escaping.
package swift

import (
	"bytes"
	"fmt"
)

const indentUnit = "  "

// Printer is an append-only accumulator of generated source. Lines are
// written whole; nesting is tracked by In/Out so emitters never format
// indentation by hand.
type Printer struct {
	buf    bytes.Buffer
	indent string
}

func NewPrinter() *Printer {
	return &Printer{}
}

// P writes one line at the current nesting level. A call with no
// arguments produces a blank line without trailing indentation.
func (p *Printer) P(parts ...any) {
	if len(parts) > 0 {
		p.buf.WriteString(p.indent)
		for _, part := range parts {
			fmt.Fprint(&p.buf, part)
		}
	}
	p.buf.WriteByte('\n')
}

func (p *Printer) In() {
	p.indent += indentUnit
}

func (p *Printer) Out() {
	if len(p.indent) >= len(indentUnit) {
		p.indent = p.indent[:len(p.indent)-len(indentUnit)]
	}
}

func (p *Printer) Len() int {
	return p.buf.Len()
}

func (p *Printer) String() string {
	return p.buf.String()
}

func (p *Printer) Bytes() []byte {
	return p.buf.Bytes()
}
