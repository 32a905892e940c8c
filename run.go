// run.go: the scan → parse → resolve → execute pipeline.
//
// Static errors (lex, parse, resolve) are reported in full (every error
// the stage found) and abort before any execution. The first static error
// is returned so drivers can pick an exit code; prior print output, if
// any, is never possible for static failures since nothing has run.
package pylang

import "fmt"

// RunSource runs a complete source text. Diagnostics go to ip.Stderr.
func (ip *Interpreter) RunSource(src string) error {
	stmts, err := ip.prepare(src)
	if err != nil {
		return err
	}
	return ip.Run(stmts)
}

// RunLine runs one REPL line against the persistent session state. A line
// that is exactly one bare expression prints its value, unless that value
// is nil, which prints nothing.
func (ip *Interpreter) RunLine(src string) error {
	stmts, err := ip.prepare(src)
	if err != nil {
		return err
	}
	if len(stmts) == 1 {
		if es, ok := stmts[0].(*ExprStmt); ok {
			v, err := ip.Eval(es.Expression)
			if err == nil {
				printValue(ip, v)
			}
			return err
		}
	}
	return ip.Run(stmts)
}

func printValue(ip *Interpreter, v Value) {
	if v.Tag == VTNil {
		return
	}
	fmt.Fprintln(ip.Stdout, Stringify(v))
}

// prepare scans, parses and resolves src, merging the distance table into
// the session. Site ids continue from the previous call so REPL lines keep
// earlier resolutions intact.
func (ip *Interpreter) prepare(src string) ([]Stmt, error) {
	tokens, lerrs := NewLexer(src).Scan()
	if len(lerrs) > 0 {
		ReportAll(ip.Stderr, lerrs)
		return nil, lerrs[0]
	}

	parser := NewParserAt(tokens, ip.siteBase)
	stmts, perrs := parser.Parse()
	if len(perrs) > 0 {
		ReportAll(ip.Stderr, perrs)
		return nil, perrs[0]
	}
	ip.siteBase = parser.Sites()

	locals, rerrs := NewResolver().Resolve(stmts)
	if len(rerrs) > 0 {
		ReportAll(ip.Stderr, rerrs)
		return nil, rerrs[0]
	}
	ip.AbsorbLocals(locals)

	return stmts, nil
}
