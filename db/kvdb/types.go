package kvdb

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
)

type InvalidKeyError struct {
	Key    string
	Reason string
}
type NotFoundError struct {
	Bucket string
	Key    string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %s: %s", e.Key, e.Reason)
}

func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key not found in %s: %s", e.Bucket, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// BuildRecord describes a finished rebuild of the search index.
type BuildRecord struct {
	RequestID  string    `json:"request_id,omitempty"`
	RootPath   string    `json:"root_path"`
	Documents  int       `json:"documents"`
	Terms      int       `json:"terms"`
	OutputPath string    `json:"output_path"`
	FinishedAt time.Time `json:"finished_at"`
}
