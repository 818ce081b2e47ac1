package cmake

import "strings"

// Link identifiers for the GoogleTest targets made available by FetchContent.
const (
	GTestMainTarget = "GTest::gtest_main"
	GTestTarget     = "GTest::gtest"
)

// Exact Bazel labels of the GoogleTest repository.
const (
	gtestMainLabel = "@com_google_googletest//:gtest_main"
	gtestLabel     = "@com_google_googletest//:gtest"
)

// Resolve maps a Bazel dependency label to the identifier used in
// target_link_libraries. It reports false for external labels that no known
// package provides; such labels are left out of the generated script.
//
// Rules, first match wins:
//
//	":name"            -> name
//	"//pkg:name"       -> name
//	"//pkg/sub"        -> sub
//	gtest_main label   -> GTest::gtest_main
//	gtest label        -> GTest::gtest
//	"@...gtest...main" -> GTest::gtest_main
//	"@...gtest..."     -> GTest::gtest
func Resolve(label string) (string, bool) {
	switch {
	case strings.HasPrefix(label, ":"):
		return label[1:], true
	case strings.HasPrefix(label, "//"):
		if i := strings.LastIndex(label, ":"); i >= 0 {
			return label[i+1:], true
		}
		return label[strings.LastIndex(label, "/")+1:], true
	case strings.Contains(label, gtestMainLabel):
		return GTestMainTarget, true
	case strings.Contains(label, gtestLabel):
		return GTestTarget, true
	case strings.HasPrefix(label, "@") && isGoogleTest(label):
		if strings.Contains(label, "main") {
			return GTestMainTarget, true
		}
		return GTestTarget, true
	}
	return "", false
}

// isGoogleTest is the case-sensitive substring match used to recognize the
// GoogleTest repository in any label spelling.
func isGoogleTest(label string) bool {
	return strings.Contains(label, "googletest") || strings.Contains(label, "gtest")
}

// resolveAll resolves labels in order, returning the identifiers and the
// labels that could not be resolved.
func resolveAll(labels []string) (resolved, dropped []string) {
	for _, label := range labels {
		if id, ok := Resolve(label); ok {
			resolved = append(resolved, id)
		} else {
			dropped = append(dropped, label)
		}
	}
	return resolved, dropped
}
