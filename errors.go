// errors.go: diagnostic classification and rendering.
//
// Every stage has its own error type carrying a 1-based source line:
// *LexError (lexer.go), *ParseError (parser.go), *ResolveError
// (resolver.go), *RuntimeError (interp.go). Each already renders
// itself in the diagnostic form `[line N] <message>`. This file adds the
// pieces the drivers share: the static/runtime split that decides exit
// codes, and a helper to print a batch of static diagnostics.
package pylang

import (
	"fmt"
	"io"
)

// Exit codes used by the CLI driver.
const (
	ExitOK      = 0
	ExitUsage   = 64 // CLI misuse
	ExitStatic  = 65 // lex/parse/resolve errors
	ExitRuntime = 70 // runtime error
)

// IsStaticError reports whether err was produced before execution started.
func IsStaticError(err error) bool {
	switch err.(type) {
	case *LexError, *ParseError, *ResolveError:
		return true
	}
	return false
}

// ReportAll writes one diagnostic line per error. The slices collected by
// the lexer, parser and resolver all flow through here.
func ReportAll[E error](w io.Writer, errs []E) {
	for _, e := range errs {
		fmt.Fprintln(w, e.Error())
	}
}
