// interp.go: the tree-walking evaluator.
//
// The interpreter owns the globals frame (pre-seeded with the native
// builtins), the current environment, and the resolver's site→distance
// table. All of that is instance state: two interpreters never share
// anything, which keeps embedding (tests, the web shell) trivial.
//
// Control flow inside statement execution is threaded as an explicit
// signal (normal / return / break / continue) rather than unwound through
// panics; hard failures travel as *RuntimeError Go errors and are
// formatted only at the surface.
package pylang

import (
	"fmt"
	"io"
	"os"
)

// RuntimeError aborts execution; it carries the originating source line.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Line, e.Msg)
}

// maxCallDepth bounds recursion so a runaway program surfaces a runtime
// error instead of killing the host process.
const maxCallDepth = 4096

type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// control is the statement-level flow signal. value is meaningful only for
// ctrlReturn.
type control struct {
	kind  ctrlKind
	value Value
}

// Interpreter evaluates resolved programs.
type Interpreter struct {
	Stdout io.Writer
	Stderr io.Writer

	globals  *Env
	env      *Env
	locals   map[int]int
	depth    int
	siteBase int
}

// NewInterpreter creates an interpreter with the standard natives seeded
// into a fresh globals frame, writing to the process stdout/stderr.
func NewInterpreter() *Interpreter {
	globals := NewEnv(nil)
	ip := &Interpreter{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		globals: globals,
		env:     globals,
		locals:  make(map[int]int),
	}
	registerBuiltins(ip)
	return ip
}

// Globals exposes the root environment (natives register through it).
func (ip *Interpreter) Globals() *Env { return ip.globals }

// AbsorbLocals merges a resolver's distance table. Site ids are unique per
// session, so merging never clobbers earlier programs. The REPL relies on
// this to keep closures from old lines resolvable.
func (ip *Interpreter) AbsorbLocals(locals map[int]int) {
	for site, depth := range locals {
		ip.locals[site] = depth
	}
}

// Run executes a resolved program. On failure the diagnostic has already
// been written to Stderr; the error is returned for exit-code decisions.
func (ip *Interpreter) Run(stmts []Stmt) error {
	for _, s := range stmts {
		ctrl, err := ip.exec(s)
		if err != nil {
			fmt.Fprintln(ip.Stderr, err.Error())
			return err
		}
		// Top-level break/continue/return are rejected by the resolver,
		// so a non-normal signal here is unreachable; ignore it rather
		// than crash if a caller skipped resolution.
		_ = ctrl
	}
	return nil
}

// Eval evaluates a single expression in the current environment. The REPL
// uses it to print the value of bare expression lines.
func (ip *Interpreter) Eval(e Expr) (Value, error) {
	v, err := ip.eval(e)
	if err != nil {
		fmt.Fprintln(ip.Stderr, err.Error())
	}
	return v, err
}

// --- statement execution ---------------------------------------------------

func (ip *Interpreter) exec(s Stmt) (control, error) {
	switch stmt := s.(type) {
	case *ExprStmt:
		_, err := ip.eval(stmt.Expression)
		return control{}, err

	case *PrintStmt:
		v, err := ip.eval(stmt.Expression)
		if err != nil {
			return control{}, err
		}
		fmt.Fprintln(ip.Stdout, Stringify(v))
		return control{}, nil

	case *VarStmt:
		value := Nil
		if stmt.Initializer != nil {
			v, err := ip.eval(stmt.Initializer)
			if err != nil {
				return control{}, err
			}
			value = v
		}
		ip.env.Define(stmt.Name.Lexeme, value)
		return control{}, nil

	case *BlockStmt:
		return ip.execBlock(stmt.Statements, NewEnv(ip.env))

	case *IfStmt:
		cond, err := ip.eval(stmt.Condition)
		if err != nil {
			return control{}, err
		}
		if isTruthy(cond) {
			return ip.exec(stmt.ThenBranch)
		}
		if stmt.ElseBranch != nil {
			return ip.exec(stmt.ElseBranch)
		}
		return control{}, nil

	case *WhileStmt:
		return ip.execWhile(stmt)

	case *BreakStmt:
		return control{kind: ctrlBreak}, nil

	case *ContinueStmt:
		return control{kind: ctrlContinue}, nil

	case *ReturnStmt:
		value := Nil
		if stmt.Value != nil {
			v, err := ip.eval(stmt.Value)
			if err != nil {
				return control{}, err
			}
			value = v
		}
		return control{kind: ctrlReturn, value: value}, nil

	case *FunctionStmt:
		fn := &Function{Decl: stmt, Closure: ip.env}
		ip.env.Define(stmt.Name.Lexeme, FunVal(fn))
		return control{}, nil

	case *ClassStmt:
		return control{}, ip.execClass(stmt)
	}
	return control{}, nil
}

// execBlock runs stmts in env and restores the previous environment on
// every exit path, including unwinds and runtime errors.
func (ip *Interpreter) execBlock(stmts []Stmt, env *Env) (control, error) {
	prev := ip.env
	ip.env = env
	defer func() { ip.env = prev }()

	for _, s := range stmts {
		ctrl, err := ip.exec(s)
		if err != nil || ctrl.kind != ctrlNone {
			return ctrl, err
		}
	}
	return control{}, nil
}

// execWhile runs the loop. The increment (present on desugared for loops)
// runs after the body on normal completion and on continue, but not on
// break. That is the contract that keeps `continue` inside a for stepping
// the loop variable.
func (ip *Interpreter) execWhile(stmt *WhileStmt) (control, error) {
	for {
		cond, err := ip.eval(stmt.Condition)
		if err != nil {
			return control{}, err
		}
		if !isTruthy(cond) {
			return control{}, nil
		}

		ctrl, err := ip.exec(stmt.Body)
		if err != nil {
			return control{}, err
		}
		switch ctrl.kind {
		case ctrlBreak:
			return control{}, nil
		case ctrlReturn:
			return ctrl, nil
		}

		if stmt.Increment != nil {
			if _, err := ip.eval(stmt.Increment); err != nil {
				return control{}, err
			}
		}
	}
}

// execClass evaluates a class declaration: superclass first, then the
// method table closing over an environment that binds super when there is
// a superclass.
func (ip *Interpreter) execClass(stmt *ClassStmt) error {
	var superclass *Class
	if stmt.Superclass != nil {
		sv, err := ip.eval(stmt.Superclass)
		if err != nil {
			return err
		}
		sc, ok := sv.Data.(*Class)
		if !ok || sv.Tag != VTClass {
			return &RuntimeError{Line: stmt.Superclass.Name.Line, Msg: "Superclass must be a class."}
		}
		superclass = sc
	}

	ip.env.Define(stmt.Name.Lexeme, Nil)

	env := ip.env
	if superclass != nil {
		env = NewEnv(ip.env)
		env.Define("super", ClassVal(superclass))
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods[method.Name.Lexeme] = &Function{
			Decl:          method,
			Closure:       env,
			IsInitializer: method.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: stmt.Name.Lexeme, Superclass: superclass, Methods: methods}
	return ip.env.Assign(stmt.Name, ClassVal(class))
}

// --- function calls --------------------------------------------------------

// Call runs a user function: fresh frame over the captured closure,
// parameters bound, body executed. A return signal stops the body; an init
// method always yields its bound instance.
func (f *Function) Call(ip *Interpreter, args []Value, line int) (Value, error) {
	if ip.depth >= maxCallDepth {
		return Nil, &RuntimeError{Line: line, Msg: "Stack overflow."}
	}
	ip.depth++
	defer func() { ip.depth-- }()

	env := NewEnv(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	ctrl, err := ip.execBlock(f.Decl.Body, env)
	if err != nil {
		return Nil, err
	}
	if f.IsInitializer {
		return f.Closure.GetAt(0, "self"), nil
	}
	if ctrl.kind == ctrlReturn {
		return ctrl.value, nil
	}
	return Nil, nil
}

// --- expression evaluation -------------------------------------------------

func (ip *Interpreter) eval(e Expr) (Value, error) {
	switch expr := e.(type) {
	case *Literal:
		switch v := expr.Value.(type) {
		case nil:
			return Nil, nil
		case bool:
			return Bool(v), nil
		case float64:
			return Num(v), nil
		case string:
			return Str(v), nil
		}
		return Nil, nil

	case *Grouping:
		return ip.eval(expr.Inner)

	case *Unary:
		return ip.evalUnary(expr)

	case *Binary:
		return ip.evalBinary(expr)

	case *Logical:
		left, err := ip.eval(expr.Left)
		if err != nil {
			return Nil, err
		}
		if expr.Op.Type == OR {
			if isTruthy(left) {
				return left, nil
			}
		} else {
			if !isTruthy(left) {
				return left, nil
			}
		}
		return ip.eval(expr.Right)

	case *Variable:
		return ip.lookUpVariable(expr.Name, expr.Site)

	case *Assign:
		value, err := ip.eval(expr.Value)
		if err != nil {
			return Nil, err
		}
		if distance, ok := ip.locals[expr.Site]; ok {
			ip.env.AssignAt(distance, expr.Name.Lexeme, value)
		} else if err := ip.globals.Assign(expr.Name, value); err != nil {
			return Nil, err
		}
		return value, nil

	case *Call:
		return ip.evalCall(expr)

	case *Get:
		obj, err := ip.eval(expr.Object)
		if err != nil {
			return Nil, err
		}
		inst, ok := obj.Data.(*Instance)
		if !ok || obj.Tag != VTInstance {
			return Nil, &RuntimeError{Line: expr.Name.Line, Msg: "Only instances have properties."}
		}
		return inst.Get(expr.Name)

	case *Set:
		obj, err := ip.eval(expr.Object)
		if err != nil {
			return Nil, err
		}
		inst, ok := obj.Data.(*Instance)
		if !ok || obj.Tag != VTInstance {
			return Nil, &RuntimeError{Line: expr.Name.Line, Msg: "Only instances have fields."}
		}
		value, err := ip.eval(expr.Value)
		if err != nil {
			return Nil, err
		}
		inst.Set(expr.Name, value)
		return value, nil

	case *Self:
		return ip.lookUpVariable(expr.Keyword, expr.Site)

	case *Super:
		return ip.evalSuper(expr)
	}
	return Nil, nil
}

func (ip *Interpreter) lookUpVariable(name Token, site int) (Value, error) {
	if distance, ok := ip.locals[site]; ok {
		return ip.env.GetAt(distance, name.Lexeme), nil
	}
	return ip.globals.Get(name)
}

func (ip *Interpreter) evalUnary(expr *Unary) (Value, error) {
	right, err := ip.eval(expr.Right)
	if err != nil {
		return Nil, err
	}
	switch expr.Op.Type {
	case MINUS:
		if right.Tag != VTNum {
			return Nil, &RuntimeError{Line: expr.Op.Line, Msg: "Operand must be a number."}
		}
		return Num(-right.Data.(float64)), nil
	case BANG:
		return Bool(!isTruthy(right)), nil
	}
	return Nil, nil
}

func (ip *Interpreter) evalBinary(expr *Binary) (Value, error) {
	left, err := ip.eval(expr.Left)
	if err != nil {
		return Nil, err
	}
	right, err := ip.eval(expr.Right)
	if err != nil {
		return Nil, err
	}

	switch expr.Op.Type {
	case PLUS:
		if left.Tag == VTNum && right.Tag == VTNum {
			return Num(left.Data.(float64) + right.Data.(float64)), nil
		}
		if left.Tag == VTStr && right.Tag == VTStr {
			return Str(left.Data.(string) + right.Data.(string)), nil
		}
		return Nil, &RuntimeError{Line: expr.Op.Line, Msg: "Operands must be two numbers or two strings."}
	case EQUAL_EQUAL:
		return Bool(valuesEqual(left, right)), nil
	case BANG_EQUAL:
		return Bool(!valuesEqual(left, right)), nil
	}

	// Remaining operators are numeric only.
	if left.Tag != VTNum || right.Tag != VTNum {
		return Nil, &RuntimeError{Line: expr.Op.Line, Msg: "Operands must be numbers."}
	}
	l, r := left.Data.(float64), right.Data.(float64)
	switch expr.Op.Type {
	case MINUS:
		return Num(l - r), nil
	case STAR:
		return Num(l * r), nil
	case SLASH:
		// IEEE-754: division by zero yields ±Inf or NaN, never an error.
		return Num(l / r), nil
	case GREATER:
		return Bool(l > r), nil
	case GREATER_EQUAL:
		return Bool(l >= r), nil
	case LESS:
		return Bool(l < r), nil
	case LESS_EQUAL:
		return Bool(l <= r), nil
	}
	return Nil, nil
}

func (ip *Interpreter) evalCall(expr *Call) (Value, error) {
	callee, err := ip.eval(expr.Callee)
	if err != nil {
		return Nil, err
	}

	args := make([]Value, 0, len(expr.Args))
	for _, arg := range expr.Args {
		v, err := ip.eval(arg)
		if err != nil {
			return Nil, err
		}
		args = append(args, v)
	}

	var fn Callable
	switch callee.Tag {
	case VTFun:
		fn = callee.Data.(Callable)
	case VTClass:
		fn = callee.Data.(*Class)
	default:
		return Nil, &RuntimeError{Line: expr.Paren.Line, Msg: "Can only call functions and classes."}
	}

	if len(args) != fn.Arity() {
		return Nil, &RuntimeError{
			Line: expr.Paren.Line,
			Msg:  fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
		}
	}
	return fn.Call(ip, args, expr.Paren.Line)
}

// evalSuper fetches the superclass stored at the recorded distance and the
// bound instance one scope inner, then binds the named superclass method.
func (ip *Interpreter) evalSuper(expr *Super) (Value, error) {
	distance, ok := ip.locals[expr.Site]
	if !ok {
		return Nil, &RuntimeError{Line: expr.Keyword.Line, Msg: "Cannot use 'super' outside of a class."}
	}
	superclass := ip.env.GetAt(distance, "super").Data.(*Class)
	objVal := ip.env.GetAt(distance-1, "self")
	inst := objVal.Data.(*Instance)

	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		return Nil, &RuntimeError{Line: expr.Method.Line, Msg: "Undefined property '" + expr.Method.Lexeme + "'."}
	}
	return FunVal(method.Bind(inst)), nil
}
