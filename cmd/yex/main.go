// Command yex runs yex source files or an interactive session.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/yex-lang/yex/internal/ast"
	"github.com/yex-lang/yex/internal/config"
	"github.com/yex-lang/yex/internal/parser"
	"github.com/yex-lang/yex/internal/vm"
)

const (
	colorReset = "\x1b[0m"
	colorCyan  = "\x1b[36m"
	colorRed   = "\x1b[31m"
)

func main() {
	disasm := flag.Bool("disasm", false, "print the compiled bytecode instead of running")
	configPath := flag.String("config", config.DefaultFile, "path to the configuration file")
	eval := flag.String("e", "", "evaluate an expression and print the result")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	machine := vm.New(cfg)
	defer machine.Close()

	switch {
	case *eval != "":
		if err := runSource(machine, *eval, "<eval>", *disasm || cfg.Debug, true); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case flag.NArg() > 0:
		if err := runFile(machine, flag.Arg(0), *disasm || cfg.Debug); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		repl(machine, cfg)
	}
}

func runFile(machine *vm.VM, path string, disasm bool) error {
	prog, err := loadProgram(path, map[string]bool{})
	if err != nil {
		return err
	}
	unit, err := vm.Compile(prog, filepath.Base(path))
	if err != nil {
		return err
	}
	if disasm {
		fmt.Print(vm.Disassemble(unit))
		return nil
	}
	_, err = machine.Run(unit)
	return err
}

func runSource(machine *vm.VM, src, name string, disasm, echo bool) error {
	prog, err := parser.Parse(src)
	if err != nil {
		return err
	}
	unit, err := vm.Compile(prog, name)
	if err != nil {
		return err
	}
	if disasm {
		fmt.Print(vm.Disassemble(unit))
	}
	result, err := machine.Run(unit)
	if err != nil {
		return err
	}
	if echo {
		fmt.Println(result.Inspect())
	}
	return nil
}

// loadProgram parses a file and splices in the programs of its `open`
// statements, relative to the opening file. Cycles load once.
func loadProgram(path string, seen map[string]bool) (*ast.Program, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if seen[abs] {
		return &ast.Program{}, nil
	}
	seen[abs] = true

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := &ast.Program{}
	for _, stmt := range prog.Stmts {
		open, ok := stmt.(*ast.OpenStmt)
		if !ok {
			out.Stmts = append(out.Stmts, stmt)
			continue
		}
		sub, err := loadProgram(filepath.Join(filepath.Dir(abs), open.Path), seen)
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, sub.Stmts...)
	}
	return out, nil
}

func repl(machine *vm.VM, cfg *config.Config) {
	colored := !cfg.NoColor && isatty.IsTerminal(os.Stdout.Fd())
	paint := func(color, s string) string {
		if !colored {
			return s
		}
		return color + s + colorReset
	}

	fmt.Println("yex interactive session. Ctrl-D to leave.")
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(paint(colorCyan, "yex> "))
		if !in.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		prog, err := parser.Parse(line)
		if err != nil {
			fmt.Println(paint(colorRed, err.Error()))
			continue
		}
		unit, err := vm.Compile(prog, "<repl>")
		if err != nil {
			fmt.Println(paint(colorRed, err.Error()))
			continue
		}
		if cfg.Debug {
			fmt.Print(vm.Disassemble(unit))
		}
		result, err := machine.Run(unit)
		if err != nil {
			fmt.Println(paint(colorRed, err.Error()))
			continue
		}
		fmt.Println(">> " + result.Inspect())
	}
}
