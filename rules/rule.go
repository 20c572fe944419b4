// Package rules evaluates conditional-node configurations. A conditional
// node stores an operator and a threshold; this package compiles them into
// expr programs and evaluates them against data produced upstream.
package rules

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/polkaflow/flow-engine/types"
)

// Operators accepted by conditional nodes.
const (
	OpGreaterThan   = "greater_than"
	OpLessThan      = "less_than"
	OpEquals        = "equals"
	OpNotEquals     = "not_equals"
	OpGreaterEquals = "greater_equals"
	OpLessEquals    = "less_equals"
)

var operatorSymbols = map[string]string{
	OpGreaterThan:   ">",
	OpLessThan:      "<",
	OpEquals:        "==",
	OpNotEquals:     "!=",
	OpGreaterEquals: ">=",
	OpLessEquals:    "<=",
}

// Evaluator evaluates a boolean expression against a data map.
type Evaluator interface {
	Evaluate(expression string, env map[string]interface{}) (bool, error)
}

// ExprEvaluator is an Evaluator backed by expr-lang/expr with a compiled
// program cache keyed by expression text.
type ExprEvaluator struct {
	cache map[string]*vm.Program
	mu    sync.RWMutex
}

// NewExprEvaluator returns an ExprEvaluator with an empty cache.
func NewExprEvaluator() *ExprEvaluator {
	return &ExprEvaluator{cache: make(map[string]*vm.Program)}
}

// Evaluate compiles (or reuses) the expression and runs it against env.
// The expression must yield a boolean.
func (e *ExprEvaluator) Evaluate(expression string, env map[string]interface{}) (bool, error) {
	e.mu.RLock()
	program, ok := e.cache[expression]
	e.mu.RUnlock()

	if !ok {
		e.mu.Lock()
		if program, ok = e.cache[expression]; !ok {
			var err error
			program, err = expr.Compile(expression, expr.Env(env))
			if err != nil {
				e.mu.Unlock()
				return false, err
			}
			e.cache[expression] = program
		}
		e.mu.Unlock()
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	boolResult, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not evaluate to a boolean, got %T", expression, result)
	}
	return boolResult, nil
}

// BuildExpression turns a conditional node's operator and threshold into an
// expr expression over the variable "input".
func BuildExpression(cfg *types.ConditionalData) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("nil conditional config")
	}
	symbol, ok := operatorSymbols[cfg.Condition]
	if !ok {
		return "", fmt.Errorf("unknown condition operator %q", cfg.Condition)
	}
	threshold, err := strconv.ParseFloat(cfg.Value, 64)
	if err != nil {
		return "", fmt.Errorf("condition threshold %q is not numeric: %w", cfg.Value, err)
	}
	return fmt.Sprintf("input %s %v", symbol, threshold), nil
}

// EvaluateCondition applies a conditional node's config to an input value.
func EvaluateCondition(e Evaluator, cfg *types.ConditionalData, input float64) (bool, error) {
	expression, err := BuildExpression(cfg)
	if err != nil {
		return false, err
	}
	return e.Evaluate(expression, map[string]interface{}{"input": input})
}
