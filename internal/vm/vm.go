package vm

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/yex-lang/yex/internal/config"
)

var errHalted = errors.New("halted")
var errStackUnderflow = errors.New("stack underflow")
var errStackOverflow = errors.New("stack overflow")
var errCallDepthExceeded = errors.New("call depth exceeded")
var errTruncatedBytecode = errors.New("truncated bytecode")

// FaultKind classifies a runtime fault.
type FaultKind int

const (
	TypeFault FaultKind = iota
	ArityFault
	IOFault

	// MachineFault covers machine limits and malformed bytecode: stack
	// exhaustion, call depth, bad operands. Not reachable from well-typed
	// programs staying within the configured limits.
	MachineFault
)

func (k FaultKind) String() string {
	switch k {
	case TypeFault:
		return "TypeFault"
	case ArityFault:
		return "ArityFault"
	case IOFault:
		return "IOFault"
	case MachineFault:
		return "MachineFault"
	default:
		return "Fault"
	}
}

// Fault is a fatal runtime error. Faults abort the whole run and carry
// the last known source position.
type Fault struct {
	Kind   FaultKind
	Msg    string
	File   string
	Line   int
	Column int
}

func (f *Fault) Error() string {
	return fmt.Sprintf("[%s:%d:%d] %s", f.File, f.Line, f.Column, f.Msg)
}

// frame is one ongoing call. Each frame resolves constants against the
// pool of the unit its chunk was compiled in, so functions defined in an
// earlier unit keep working when a later unit calls them.
type frame struct {
	chunk  *Chunk
	ip     int
	slots  []Value
	consts []Value
}

// VM executes compiled units. Globals persist across runs so a REPL can
// feed it one unit per line.
type VM struct {
	stack []Value
	sp    int

	frames []frame
	fp     int

	globals *EnvTable

	typeModules map[string]*Module

	maxStack int
	maxDepth int

	Stdout   io.Writer
	Stdin    io.Reader
	stdinBuf *bufio.Reader

	db     *sql.DB
	dbPath string
}

// New builds a machine configured by cfg (nil means defaults) with the
// prelude installed.
func New(cfg *config.Config) *VM {
	if cfg == nil {
		cfg = config.Default()
	}
	m := &VM{
		stack:       make([]Value, cfg.StackSize),
		frames:      make([]frame, cfg.CallDepth),
		globals:     NewEnvTable(),
		typeModules: make(map[string]*Module),
		maxStack:    cfg.StackSize,
		maxDepth:    cfg.CallDepth,
		Stdout:      os.Stdout,
		Stdin:       os.Stdin,
		dbPath:      cfg.Database,
	}
	m.installPrelude()
	return m
}

// Globals exposes the global table, mainly for tests and the REPL.
func (m *VM) Globals() *EnvTable {
	return m.globals
}

// Run executes a compiled unit and returns the value its main chunk
// returns. The operand stack is reset first; globals are kept.
func (m *VM) Run(unit *Unit) (Value, error) {
	m.sp = 0
	m.fp = 0
	if err := m.pushFrame(unit.Main, unit.Consts, nil); err != nil {
		return NilVal(), err
	}
	return m.run()
}

// Close releases external resources held by the machine.
func (m *VM) Close() error {
	if m.db != nil {
		err := m.db.Close()
		m.db = nil
		return err
	}
	return nil
}

func (m *VM) frame() *frame {
	return &m.frames[m.fp-1]
}

func (m *VM) pushFrame(chunk *Chunk, consts []Value, args []Value) error {
	if m.fp >= m.maxDepth {
		return m.fault(MachineFault, "%v", errCallDepthExceeded)
	}
	slots := make([]Value, chunk.Slots)
	copy(slots, args)
	m.frames[m.fp] = frame{chunk: chunk, slots: slots, consts: consts}
	m.fp++
	return nil
}

// Stack primitives

func (m *VM) push(v Value) error {
	if m.sp >= m.maxStack {
		return m.fault(MachineFault, "%v", errStackOverflow)
	}
	m.stack[m.sp] = v
	m.sp++
	return nil
}

func (m *VM) pop() (Value, error) {
	if m.sp == 0 {
		return NilVal(), m.fault(MachineFault, "%v", errStackUnderflow)
	}
	m.sp--
	v := m.stack[m.sp]
	m.stack[m.sp] = NilVal()
	return v, nil
}

func (m *VM) peek(distance int) Value {
	return m.stack[m.sp-1-distance]
}

// Operand readers

func (m *VM) readByte() (byte, error) {
	f := m.frame()
	if f.ip >= f.chunk.Len() {
		return 0, m.fault(MachineFault, "%v", errTruncatedBytecode)
	}
	b := f.chunk.Code[f.ip]
	f.ip++
	return b, nil
}

func (m *VM) readU16() (int, error) {
	f := m.frame()
	if f.ip+1 >= f.chunk.Len() {
		return 0, m.fault(MachineFault, "%v", errTruncatedBytecode)
	}
	v := f.chunk.ReadU16(f.ip)
	f.ip += 2
	return v, nil
}

// readSlot reads a slot operand and bounds-checks it against the frame,
// so a malformed chunk faults instead of panicking.
func (m *VM) readSlot() (int, error) {
	slot, err := m.readU16()
	if err != nil {
		return 0, err
	}
	if slot >= len(m.frame().slots) {
		return 0, m.fault(MachineFault, "invalid slot %d", slot)
	}
	return slot, nil
}

func (m *VM) readConstant() (Value, error) {
	idx, err := m.readU16()
	if err != nil {
		return NilVal(), err
	}
	f := m.frame()
	if idx >= len(f.consts) {
		return NilVal(), m.fault(MachineFault, "invalid constant index %d", idx)
	}
	return f.consts[idx], nil
}

func (m *VM) readSymOperand() (Symbol, error) {
	v, err := m.readConstant()
	if err != nil {
		return 0, err
	}
	if !v.IsSym() {
		return 0, m.fault(MachineFault, "expected a symbol constant")
	}
	return v.AsSym(), nil
}

// fault builds a Fault at the position of the instruction being executed.
func (m *VM) fault(kind FaultKind, format string, args ...any) error {
	file, line, col := m.position()
	return &Fault{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, args...),
		File:   file,
		Line:   line,
		Column: col,
	}
}

func (m *VM) position() (string, int, int) {
	if m.fp == 0 {
		return "", 0, 0
	}
	f := m.frame()
	ip := f.ip - 1
	if ip < 0 {
		ip = 0
	}
	if ip >= len(f.chunk.Lines) {
		ip = len(f.chunk.Lines) - 1
	}
	if ip < 0 {
		return f.chunk.File, 0, 0
	}
	return f.chunk.File, f.chunk.Lines[ip], f.chunk.Columns[ip]
}
