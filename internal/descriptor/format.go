package descriptor

import (
	"github.com/bazelbuild/buildtools/build"
	"github.com/bazelbuild/buildtools/convertast"
	"go.starlark.net/syntax"
)

// Format returns the descriptor re-printed in buildifier style. Comments are
// retained.
func Format(filename string, src []byte) ([]byte, error) {
	opts := &syntax.FileOptions{}
	f, err := opts.Parse(filename, src, syntax.RetainComments)
	if err != nil {
		return nil, starlarkSyntaxError(filename, err)
	}

	out := convertast.ConvFile(f)
	out.Path = filename
	out.Type = build.TypeBuild
	return build.Format(out), nil
}
