// builtins.go: native functions seeded into the globals frame.
package pylang

import "time"

// registerBuiltins installs the standard natives. clock is the language's
// single nondeterministic source.
func registerBuiltins(ip *Interpreter) {
	ip.globals.Define("clock", FunVal(&Native{
		Name:  "clock",
		NArgs: 0,
		Impl: func(ip *Interpreter, args []Value) (Value, error) {
			return Num(float64(time.Now().UnixNano()) / 1e9), nil
		},
	}))
}
