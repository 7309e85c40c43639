package site

import "fmt"

// DuplicateRouteError reports two source files resolving to the same URL
// path. It aborts the build.
type DuplicateRouteError struct {
	Path    string    // the colliding URL path
	Sources [2]string // both source files, in walk order
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %q: %s and %s", e.Path, e.Sources[0], e.Sources[1])
}
