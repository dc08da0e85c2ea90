// Command ints runs ints source files and hosts an interactive REPL.
//
// Usage:
//
//	ints <source-file> [args...]   Run a program.
//	ints                           Start the REPL.
//	ints version                   Print the release string.
//
// Runtime errors print a single "Error: <message>" line to stderr and
// exit with status 1; exit() inside a program sets its own status.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	ints "github.com/cad3n123/ints"
)

const (
	appName     = "ints"
	historyFile = ".ints_history"
	promptMain  = "==> "
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl())
	}
	switch os.Args[1] {
	case "version":
		fmt.Println(ints.Version)
	case "-h", "--help", "help":
		usage()
	default:
		os.Exit(cmdRun(os.Args[1], os.Args[2:]))
	}
}

func usage() {
	fmt.Printf(`ints %s

Usage:
  %s <file.ints> [args...]   Run a program.
  %s                         Start the REPL.
  %s version                 Print the release string.
`, ints.Version, appName, appName, appName)
}

func cmdRun(file string, args []string) int {
	ip := ints.NewInterpreter()
	if err := ip.RunFile(file, args); err != nil {
		var exitErr *ints.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func cmdRepl() int {
	fmt.Printf("ints %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", ints.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	ip := ints.NewInterpreter()
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		if strings.HasPrefix(code, ":") {
			if strings.EqualFold(code, ":quit") {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		if err := ip.EvalSource(line); err != nil {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
			continue
		}
		ln.AppendHistory(line)
	}
}
