package xlstamp

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultPropagateCondition keeps propagating while any scanned cell on the
// row holds a non-empty value.
const DefaultPropagateCondition = `any(cells, # != "")`

// rowPredicate evaluates the propagation condition against one row at a time.
// Compiled programs are cached per expression.
type rowPredicate struct {
	condition string
	cache     sync.Map // expression string → compiled *vm.Program
}

func newRowPredicate(condition string) *rowPredicate {
	return &rowPredicate{condition: condition}
}

// Eval runs the condition with "cells" bound to the scanned column values and
// "row" to the 1-based row number. A non-bool result is an error.
func (p *rowPredicate) Eval(cells []string, row int) (bool, error) {
	env := map[string]any{
		"cells": cells,
		"row":   row,
	}
	program, err := p.compile(p.condition, env)
	if err != nil {
		return false, fmt.Errorf("compile condition %q: %w", p.condition, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", p.condition, err)
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q evaluated to %T, expected bool", p.condition, result)
	}
	return b, nil
}

func (p *rowPredicate) compile(condition string, env map[string]any) (*vm.Program, error) {
	if cached, ok := p.cache.Load(condition); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(condition, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	p.cache.Store(condition, program)
	return program, nil
}
