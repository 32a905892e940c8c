// printer.go: value stringification for print and the REPL.
package pylang

import (
	"math"
	"strconv"
)

// Stringify renders a value the way print shows it: nil/true/false as
// keywords, integral numbers without a fractional part, other numbers in
// their shortest representation, strings raw without quotes.
func Stringify(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return formatNumber(v.Data.(float64))
	case VTStr:
		return v.Data.(string)
	case VTFun:
		switch fn := v.Data.(type) {
		case *Function:
			return "<fn " + fn.Decl.Name.Lexeme + ">"
		case *Native:
			return "<native fn>"
		}
		return "<fn>"
	case VTClass:
		return v.Data.(*Class).Name
	case VTInstance:
		return v.Data.(*Instance).Class.Name + " instance"
	}
	return "nil"
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
