// Command pylang runs a script file or starts the interactive REPL.
//
//	pylang            start the REPL
//	pylang script.pyl run a file
//
// Exit codes: 0 on success, 64 on usage errors, 65 on lex/parse/resolve
// errors, 70 on runtime errors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	pylang "github.com/generalpy101/pylang"
)

const appName = "pylang"

var banner = fmt.Sprintf("pylang %s REPL\nCtrl+C cancels input, Ctrl+D exits.", pylang.Version)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("pylang %s (built %s)\n", pylang.Version, pylang.BuildDate)
		return
	}

	args := flag.Args()
	switch len(args) {
	case 0:
		os.Exit(runRepl())
	case 1:
		os.Exit(runFile(args[0]))
	default:
		usage()
		os.Exit(pylang.ExitUsage)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", appName)
}

// -----------------------------------------------------------------------------
// file mode
// -----------------------------------------------------------------------------

func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return pylang.ExitUsage
	}

	ip := pylang.NewInterpreter()
	if err := ip.RunSource(string(src)); err != nil {
		if pylang.IsStaticError(err) {
			return pylang.ExitStatic
		}
		return pylang.ExitRuntime
	}
	return pylang.ExitOK
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func runRepl() int {
	cfg, err := pylang.LoadConfig(pylang.ConfigFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return pylang.ExitUsage
	}

	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, cfg.Repl.History)

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

	ip := pylang.NewInterpreter()
	if cfg.Repl.Color {
		ip.Stderr = &colorWriter{w: os.Stderr}
	}

	for {
		code, ok := readBalanced(ln, cfg.Repl.Prompt, cfg.Repl.ContPrompt)
		if !ok {
			fmt.Println()
			return pylang.ExitOK
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		// Errors keep the session alive; state from earlier lines stays.
		_ = ip.RunLine(code)
	}
}

// readBalanced collects lines until brackets balance, so multi-line
// declarations can be typed naturally. Returns false on Ctrl+D.
func readBalanced(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if bracketDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// bracketDepth counts unclosed ( and { outside string literals and line
// comments.
func bracketDepth(src string) int {
	depth := 0
	inStr := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inStr {
			if c == '"' {
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			}
		case '(', '{':
			depth++
		case ')', '}':
			depth--
		}
	}
	return depth
}

// colorWriter paints diagnostics red.
type colorWriter struct {
	w io.Writer
}

func (c *colorWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write([]byte(red(strings.TrimRight(string(p), "\n")) + "\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}
