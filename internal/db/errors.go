package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrNoteNotFound        = errors.New("note not found")
	ErrHelpArticleNotFound = errors.New("help article not found")
)
