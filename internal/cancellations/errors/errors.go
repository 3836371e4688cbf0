package errors

import "errors"

var ErrNotFound = errors.New("cancellation request not found")
