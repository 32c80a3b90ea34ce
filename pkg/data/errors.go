package data

import "errors"

var (
	// ErrFormat is returned when a story file has missing or malformed
	// frontmatter. The offending story is skipped.
	ErrFormat = errors.New("malformed story file")

	// ErrMissingFile is returned when a required language file, template
	// or data bundle does not exist.
	ErrMissingFile = errors.New("required file not found")

	// ErrEmptyResult is returned when no valid story survived aggregation.
	ErrEmptyResult = errors.New("no valid stories found")
)
