package cpu

import (
	"fmt"
	"io"
	"strings"
)

// TraceEntry describes one executed instruction. Registers and Cycles hold
// the state before execution.
type TraceEntry struct {
	Opcode    *Opcode
	Raw       []uint8
	Addr      uint16
	Registers Registers
	Cycles    uint64
}

func (e TraceEntry) String() string {
	var hex strings.Builder
	for i, b := range e.Raw {
		if i > 0 {
			hex.WriteByte(' ')
		}
		fmt.Fprintf(&hex, "%02X", b)
	}

	name := " " + e.Opcode.Name
	if e.Opcode.Unofficial {
		name = "*" + e.Opcode.Name
	}

	r := e.Registers
	return fmt.Sprintf("%04X  %-8s %s %-27s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		r.PC, hex.String(), name, formatOperand(e.Opcode.Mode, e.Raw, r.PC),
		r.A, r.X, r.Y, r.P, r.SP, e.Cycles)
}

type Tracer interface {
	Trace(e TraceEntry)
}

var (
	_ Tracer = NopTracer{}
	_ Tracer = (*LogTracer)(nil)
	_ Tracer = TracerFunc(nil)
)

type NopTracer struct{}

func (NopTracer) Trace(TraceEntry) {}

// LogTracer writes one nestest-style line per instruction.
type LogTracer struct {
	w   io.Writer
	err error
}

func NewLogTracer(w io.Writer) *LogTracer {
	return &LogTracer{w: w}
}

func (t *LogTracer) Trace(e TraceEntry) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, e.String())
}

// Err returns the first write error, after which tracing stops.
func (t *LogTracer) Err() error {
	return t.err
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(e TraceEntry)

func (f TracerFunc) Trace(e TraceEntry) {
	f(e)
}
