package store

import "github.com/pkg/errors"

// StorageError wraps any failure raised by a repository operation against
// the persistent store, per spec.md §7.
type StorageError struct {
	Op  string
	err error
}

func (e *StorageError) Error() string {
	return errors.Wrapf(e.err, "store: %s", e.Op).Error()
}

func (e *StorageError) Unwrap() error {
	return e.err
}

func wrapStorageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, err: err}
}
