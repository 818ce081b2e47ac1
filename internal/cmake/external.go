package cmake

import (
	"strings"

	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

// ExternalPackage is a third-party project fetched with FetchContent when a
// target depends on it.
type ExternalPackage struct {
	// Name is the FetchContent content name.
	Name string
	// Title labels the fetch block comment.
	Title string
	// Repository is the git URL.
	Repository string
	// Tag is the pinned git tag.
	Tag string
	// Matches reports whether an external ("@...") label refers to the package.
	Matches func(label string) bool
}

// googleTest returns the GoogleTest package pinned to tag.
func googleTest(tag string) ExternalPackage {
	return ExternalPackage{
		Name:       "googletest",
		Title:      "GoogleTest",
		Repository: "https://github.com/google/googletest.git",
		Tag:        tag,
		Matches:    isGoogleTest,
	}
}

// requiredPackages returns the packages referenced by any target, in the
// order of the known-package table.
func requiredPackages(known []ExternalPackage, targets []descriptor.Target) []ExternalPackage {
	var required []ExternalPackage
	for _, pkg := range known {
		if referencesPackage(pkg, targets) {
			required = append(required, pkg)
		}
	}
	return required
}

func referencesPackage(pkg ExternalPackage, targets []descriptor.Target) bool {
	for i := range targets {
		for _, dep := range targets[i].Deps {
			if strings.HasPrefix(dep, "@") && pkg.Matches(dep) {
				return true
			}
		}
	}
	return false
}

func (p ExternalPackage) fetchLines() []string {
	return []string{
		"# Fetch " + p.Title,
		"FetchContent_Declare(",
		"    " + p.Name,
		"    GIT_REPOSITORY " + p.Repository,
		"    GIT_TAG        " + p.Tag,
		")",
		"FetchContent_MakeAvailable(" + p.Name + ")",
	}
}
