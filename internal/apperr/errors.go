package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrNoScan   = errors.New("no source repository scanned yet")
)
