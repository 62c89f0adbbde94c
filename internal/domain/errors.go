package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrAuthentication is returned when no usable Google credential can be acquired
	ErrAuthentication = errors.New("google authentication failed")

	// ErrDatasheetNotFound is returned when no file in the folder matches the wire name
	ErrDatasheetNotFound = errors.New("no matching datasheet found")

	// ErrFileNotFound is returned when a requested file or sheet does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrStorageFailure is returned when a Drive, Sheets or Docs request fails
	ErrStorageFailure = errors.New("document storage request failed")

	// ErrUnsupportedFormat is returned when a file's content cannot be extracted
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ExtractionError records which sheet and stage failed during extraction
type ExtractionError struct {
	SheetName string
	Stage     string // "read", "parse"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
