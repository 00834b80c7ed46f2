// Package validators checks article records read back from outside the
// compiler, such as a hand-edited or stale artifact.
package validators

import (
	"fmt"
	"strings"

	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"
)

// FieldError is one rule violation on one article field
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects every violation found on an article
type ValidationErrors struct {
	Slug   string
	Errors []FieldError
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fmt.Sprintf("%s %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("article %q: %s", e.Slug, strings.Join(parts, "; "))
}

func (e *ValidationErrors) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// ArticleValidator validates article records against the guarantees the
// compiler gives for every article it emits.
type ArticleValidator struct {
	maxTags int
}

// NewArticleValidator creates a validator. maxTags of zero means no limit.
func NewArticleValidator(maxTags int) *ArticleValidator {
	return &ArticleValidator{maxTags: maxTags}
}

// Validate returns a *ValidationErrors listing every problem, or nil.
// Absent lists are allowed.
func (v *ArticleValidator) Validate(a *entities.Article) error {
	errs := &ValidationErrors{Slug: a.Slug.String()}

	if _, err := valueobjects.NewSlug(a.Slug.String()); err != nil {
		errs.add("slug", err.Error())
	}
	if a.Title == "" {
		errs.add("title", "is required")
	}
	if a.ShortTitle == "" {
		errs.add("shortTitle", "is required")
	}
	if a.Category == "" {
		errs.add("category", "is required")
	}

	if v.maxTags > 0 && len(a.Tags) > v.maxTags {
		errs.add("tags", fmt.Sprintf("has %d entries, at most %d allowed", len(a.Tags), v.maxTags))
	}

	// Absent dates are encoded as null, never as ""
	if a.Date != nil && *a.Date == "" {
		errs.add("date", "is empty; omit it or use null")
	}

	if len(errs.Errors) > 0 {
		return errs
	}
	return nil
}
