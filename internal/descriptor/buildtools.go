package descriptor

import (
	"github.com/bazelbuild/buildtools/build"
)

// parseBuildtools walks a descriptor parsed by buildtools, the parser behind
// buildifier.
func parseBuildtools(c *collector, src []byte) error {
	f, err := build.ParseBuild(c.file, src)
	if err != nil {
		return &SyntaxError{File: c.file, Msg: err.Error()}
	}

	for _, stmt := range f.Stmt {
		start, _ := stmt.Span()

		call, ok := stmt.(*build.CallExpr)
		if !ok {
			switch stmt.(type) {
			case *build.LoadStmt, *build.CommentBlock:
			default:
				c.logger.Debug("skipping statement", "file", c.file, "line", start.Line)
			}
			continue
		}

		fn, ok := call.X.(*build.Ident)
		if !ok {
			continue
		}
		kind, ok := KindForRule(fn.Name)
		if !ok {
			c.logger.Debug("skipping unsupported rule", "file", c.file, "line", start.Line, "rule", fn.Name)
			continue
		}

		if err := c.buildtoolsRule(kind, call); err != nil {
			return err
		}
	}

	return nil
}

func (c *collector) buildtoolsRule(kind Kind, call *build.CallExpr) error {
	start, _ := call.Span()
	t := Target{Kind: kind, Line: start.Line}
	seen := make(map[string]bool)

	for _, arg := range call.List {
		pos, _ := arg.Span()

		assign, ok := arg.(*build.AssignExpr)
		if !ok || assign.Op != "=" {
			return c.errorf(pos.Line, pos.LineRune, "%s: only keyword arguments are supported", kind.RuleName())
		}
		key, ok := assign.LHS.(*build.Ident)
		if !ok {
			return c.errorf(pos.Line, pos.LineRune, "%s: invalid keyword argument", kind.RuleName())
		}
		if !isModeledAttr(key.Name) {
			continue
		}

		v, err := c.buildtoolsValue(kind, key.Name, assign.RHS)
		if err != nil {
			return err
		}
		if err := c.assign(&t, seen, key.Name, v, pos.Line, pos.LineRune); err != nil {
			return err
		}
	}

	c.add(t)
	return nil
}

func (c *collector) buildtoolsValue(kind Kind, attr string, expr build.Expr) (argValue, error) {
	switch e := expr.(type) {
	case *build.StringExpr:
		return argValue{strs: []string{e.Value}, scalar: true}, nil
	case *build.ListExpr:
		strs := make([]string, 0, len(e.List))
		for _, elem := range e.List {
			str, ok := elem.(*build.StringExpr)
			if !ok {
				pos, _ := elem.Span()
				return argValue{}, c.errorf(pos.Line, pos.LineRune, "%s: %s must contain only string literals", kind.RuleName(), attr)
			}
			strs = append(strs, str.Value)
		}
		return argValue{strs: strs}, nil
	case *build.CallExpr:
		return argValue{nop: true}, nil
	}

	pos, _ := expr.Span()
	return argValue{}, c.errorf(pos.Line, pos.LineRune, "%s: unsupported value for %s", kind.RuleName(), attr)
}
