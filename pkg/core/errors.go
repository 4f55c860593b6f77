package core

import "errors"

// Common errors.
var (
	ErrReadOnly              = errors.New("repository is in read-only mode")
	ErrNotFound              = errors.New("recap not found")
	ErrEmptyID               = errors.New("recap ID cannot be empty")
	ErrInvalidFormat         = errors.New("not a valid .srec file (missing frontmatter)")
	ErrIncompleteFrontmatter = errors.New("incomplete frontmatter")
	ErrInvalidConvergence    = errors.New("convergence must be between 0 and 1")
)
