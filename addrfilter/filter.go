// Package addrfilter filters DAR addresses with expr-lang expressions.
//
// Expressions see the address under Addr plus a few string helpers:
//
//	Addr.PostalCode == "8200"
//	contains(Addr.RoadName, "gade") and Addr.MunicipalityCode == "0751"
package addrfilter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/magenta-aps/go-dar-client/dar"
)

// Filter is a compiled address filter expression.
type Filter struct {
	program *vm.Program
	expr    string
}

// helpers are available in every filter expression.
var helpers = map[string]interface{}{
	"contains": func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	},
	"startsWith": func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	},
	"endsWith": func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	},
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

// Compile compiles a filter expression.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	env := map[string]interface{}{
		"Addr": dar.Address{},
	}
	for name, fn := range helpers {
		env[name] = fn
	}

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{program: program, expr: expression}, nil
}

// Expression returns the source expression the filter was compiled from.
func (f *Filter) Expression() string {
	return f.expr
}

// Match evaluates the filter against a single address.
func (f *Filter) Match(addr dar.Address) (bool, error) {
	env := map[string]interface{}{
		"Addr": addr,
	}
	for name, fn := range helpers {
		env[name] = fn
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter: %w", err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression did not evaluate to a boolean")
	}
	return matched, nil
}

// Apply returns the addresses matching the filter, order preserved.
func (f *Filter) Apply(addrs []dar.Address) ([]dar.Address, error) {
	var matched []dar.Address
	for _, addr := range addrs {
		ok, err := f.Match(addr)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, addr)
		}
	}
	return matched, nil
}
