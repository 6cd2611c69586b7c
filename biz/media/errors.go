package media

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput means the uploaded file is not an image. Retrying
	// with the same input will not help.
	ErrInvalidInput = errors.New("media: input is not an image")

	// ErrOwnerNotReady means the owner has no stable name yet, so storage
	// keys cannot be built for it. The owner must be fully created first.
	ErrOwnerNotReady = errors.New("media: owner has no stable name")

	// ErrIndexOutOfRange means the requested index is not in [0, image_count).
	ErrIndexOutOfRange = errors.New("media: image index out of range")

	// ErrUnsupportedFormat means the payload could not be decoded as an image.
	ErrUnsupportedFormat = errors.New("media: unsupported image format")
)

// TranscodeError wraps a codec failure for a specific input. It is not
// retryable for that input but does not affect other variants or indices.
type TranscodeError struct {
	Variant string
	Op      string // "decode" or "encode"
	Err     error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("media: transcode %s (%s): %v", e.Variant, e.Op, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// StoreError wraps an object store failure with the key and operation that
// failed. The manager never retries these; the caller decides.
type StoreError struct {
	Op  string // "put", "delete", "copy", "exists"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("media: store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// PartialWriteError reports a multi-step operation that failed after some
// writes had already been made. The persisted image count is never advanced
// past such a failure, so a retried upload or replace targets the same index
// and overwrites the partial objects. A failed reindex shift may leave the
// store ahead of the count; the carried step and index locate where it
// stopped.
type PartialWriteError struct {
	Owner   string
	Index   int
	Variant string
	Step    string // "upload", "replace", "reindex"
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("media: partial %s for %s at index %d (variant %s): %v",
		e.Step, e.Owner, e.Index, e.Variant, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
