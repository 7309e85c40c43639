package content

import "fmt"

// MalformedMetadataError reports a front matter block that was opened
// but never closed. It aborts the build.
type MalformedMetadataError struct {
	Path string // source file
	Line int    // line of the opening delimiter
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("%s:%d: front matter block is never closed", e.Path, e.Line)
}
