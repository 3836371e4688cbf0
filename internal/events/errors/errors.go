package errors

import "errors"

var ErrNotFound = errors.New("event request not found")
