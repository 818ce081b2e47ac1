package descriptor

import (
	"errors"

	"go.starlark.net/syntax"
)

// parseStarlark walks a descriptor parsed by go.starlark.net/syntax.
func parseStarlark(c *collector, src []byte) error {
	opts := &syntax.FileOptions{}
	f, err := opts.Parse(c.file, src, 0)
	if err != nil {
		return starlarkSyntaxError(c.file, err)
	}

	for _, stmt := range f.Stmts {
		start, _ := stmt.Span()

		exprStmt, ok := stmt.(*syntax.ExprStmt)
		if !ok {
			if _, isLoad := stmt.(*syntax.LoadStmt); !isLoad {
				c.logger.Debug("skipping statement", "file", c.file, "line", start.Line)
			}
			continue
		}

		call, ok := exprStmt.X.(*syntax.CallExpr)
		if !ok {
			continue
		}
		fn, ok := call.Fn.(*syntax.Ident)
		if !ok {
			continue
		}
		kind, ok := KindForRule(fn.Name)
		if !ok {
			c.logger.Debug("skipping unsupported rule", "file", c.file, "line", start.Line, "rule", fn.Name)
			continue
		}

		if err := c.starlarkRule(kind, call); err != nil {
			return err
		}
	}

	return nil
}

func (c *collector) starlarkRule(kind Kind, call *syntax.CallExpr) error {
	start, _ := call.Span()
	t := Target{Kind: kind, Line: int(start.Line)}
	seen := make(map[string]bool)

	for _, arg := range call.Args {
		pos, _ := arg.Span()
		line, col := int(pos.Line), int(pos.Col)

		bin, ok := arg.(*syntax.BinaryExpr)
		if !ok || bin.Op != syntax.EQ {
			return c.errorf(line, col, "%s: only keyword arguments are supported", kind.RuleName())
		}
		key, ok := bin.X.(*syntax.Ident)
		if !ok {
			return c.errorf(line, col, "%s: invalid keyword argument", kind.RuleName())
		}
		if !isModeledAttr(key.Name) {
			continue
		}

		v, err := c.starlarkValue(kind, key.Name, bin.Y)
		if err != nil {
			return err
		}
		if err := c.assign(&t, seen, key.Name, v, line, col); err != nil {
			return err
		}
	}

	c.add(t)
	return nil
}

// starlarkValue evaluates a string literal, a list of string literals, or a
// nested call (no-op).
func (c *collector) starlarkValue(kind Kind, attr string, expr syntax.Expr) (argValue, error) {
	switch e := expr.(type) {
	case *syntax.Literal:
		if s, ok := starlarkString(e); ok {
			return argValue{strs: []string{s}, scalar: true}, nil
		}
	case *syntax.ListExpr:
		strs := make([]string, 0, len(e.List))
		for _, elem := range e.List {
			lit, ok := elem.(*syntax.Literal)
			s, isStr := starlarkString(lit)
			if !ok || !isStr {
				pos, _ := elem.Span()
				return argValue{}, c.errorf(int(pos.Line), int(pos.Col), "%s: %s must contain only string literals", kind.RuleName(), attr)
			}
			strs = append(strs, s)
		}
		return argValue{strs: strs}, nil
	case *syntax.CallExpr:
		return argValue{nop: true}, nil
	}

	pos, _ := expr.Span()
	return argValue{}, c.errorf(int(pos.Line), int(pos.Col), "%s: unsupported value for %s", kind.RuleName(), attr)
}

func starlarkString(lit *syntax.Literal) (string, bool) {
	if lit == nil || lit.Token != syntax.STRING {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}

func starlarkSyntaxError(file string, err error) error {
	var serr syntax.Error
	if errors.As(err, &serr) {
		return &SyntaxError{
			File:   file,
			Line:   int(serr.Pos.Line),
			Column: int(serr.Pos.Col),
			Msg:    serr.Msg,
		}
	}
	return &SyntaxError{File: file, Msg: err.Error()}
}
