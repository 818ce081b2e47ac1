package descriptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_PreservesTargets(t *testing.T) {
	src := `load("@rules_cc//cc:defs.bzl","cc_library")
cc_library(name="a",srcs=["a.cc"],hdrs=["a.h"],deps=[":b"])
cc_test(name="a_test",srcs=["a_test.cc"],deps=[":a","@com_google_googletest//:gtest_main"])
`
	formatted, err := Format("BUILD", []byte(src))
	require.NoError(t, err)

	out := string(formatted)
	assert.Contains(t, out, `name = "a"`)
	assert.Contains(t, out, `"@com_google_googletest//:gtest_main"`)

	before, err := Parse("BUILD", []byte(src))
	require.NoError(t, err)
	after, err := Parse("BUILD", formatted)
	require.NoError(t, err)

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Kind, after[i].Kind)
		assert.Equal(t, before[i].Name, after[i].Name)
		assert.Equal(t, before[i].Sources, after[i].Sources)
		assert.Equal(t, before[i].Headers, after[i].Headers)
		assert.Equal(t, before[i].Deps, after[i].Deps)
	}
}

func TestFormat_SyntaxError(t *testing.T) {
	_, err := Format("BUILD", []byte("cc_library(name = "))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDescriptor))
}
