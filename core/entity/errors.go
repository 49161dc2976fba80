package entity

import "fmt"

// ParseError reports a malformed snapshot source. It is fatal to the whole
// extraction: a snapshot that cannot be parsed yields no EntitySet.
type ParseError struct {
	// Source names the file or node that failed to parse.
	Source string
	// Message describes the failure.
	Message string
	// Err is the underlying error, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Source, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateKeyError reports two artifacts claiming the same qualified name
// within one snapshot. Fatal, like ParseError.
type DuplicateKeyError struct {
	QualifiedName string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate qualified name %q in snapshot", e.QualifiedName)
}
