package table

import (
	"errors"
	"fmt"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum import size")
	errBinaryContent      = errors.New("content looks binary")
	errUnsupportedCharset = errors.New("unsupported character encoding")
)

// FileReadError is returned when the imported file could not be read.
type FileReadError struct {
	Name string
	Err  error
}

func (err *FileReadError) Error() string {
	if err.Name == "" {
		return "unable to read the selected file"
	}
	return fmt.Sprintf("unable to read the selected file %q", err.Name)
}

func (err *FileReadError) Unwrap() error { return err.Err }

// DecodeError is returned when the file content cannot be interpreted as text.
type DecodeError struct {
	Name    string
	Charset string // detected charset, if any
	Err     error
}

func (err *DecodeError) Error() string {
	msg := "unexpected file format"
	if err.Name != "" {
		msg = fmt.Sprintf("unexpected file format for %q", err.Name)
	}
	if err.Charset != "" {
		msg += fmt.Sprintf(" (detected encoding: %s)", err.Charset)
	}
	return msg
}

func (err *DecodeError) Unwrap() error { return err.Err }

// HeaderInferenceError is returned when every cell of the header row is blank.
type HeaderInferenceError struct {
	Columns int
}

func (err *HeaderInferenceError) Error() string {
	return "unable to determine the headers of the CSV file"
}
