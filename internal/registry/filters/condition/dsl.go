// Package condition implements the single-comparison expression grammar
// used by user_level_filter: "<field> <op> <value>", e.g. "level >= 3".
package condition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for any malformed expression.
var ErrSyntax = errors.New("condition: syntax error")

// Predicate evaluates a single named field against the compiled comparison.
type Predicate func(fields map[string]float64) bool

var ops = []string{">=", "<=", "==", "!=", ">", "<"}

// Compile parses "<field> <op> <value>" and returns a Predicate. Whitespace
// around the operator is optional.
func Compile(expr string) (Predicate, error) {
	expr = strings.TrimSpace(expr)
	for _, op := range ops {
		idx := strings.Index(expr, op)
		if idx < 0 {
			continue
		}
		field := strings.TrimSpace(expr[:idx])
		rhs := strings.TrimSpace(expr[idx+len(op):])
		if field == "" || rhs == "" {
			return nil, fmt.Errorf("%w: %q", ErrSyntax, expr)
		}
		value, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid rhs %q", ErrSyntax, rhs)
		}
		return compare(field, op, value), nil
	}
	return nil, fmt.Errorf("%w: no comparison operator in %q", ErrSyntax, expr)
}

func compare(field, op string, value float64) Predicate {
	return func(fields map[string]float64) bool {
		v := fields[field]
		switch op {
		case ">=":
			return v >= value
		case "<=":
			return v <= value
		case "==":
			return v == value
		case "!=":
			return v != value
		case ">":
			return v > value
		case "<":
			return v < value
		default:
			return false
		}
	}
}
