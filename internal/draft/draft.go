// Package draft holds in-progress form state for products and banners.
// Drafts are plain local state: nothing here talks to the backend.
package draft

import (
	"fmt"
)

// Draft is the lifecycle every form state shares.
type Draft interface {
	// Reset returns the draft to its empty baseline, including transient
	// fields such as selected files and search text.
	Reset()
	// Editing reports whether the draft was loaded from an existing entity.
	Editing() bool
}

// UnknownFieldError is returned by SetField for names the draft does not have.
type UnknownFieldError struct {
	Draft string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s draft has no field %q", e.Draft, e.Field)
}
