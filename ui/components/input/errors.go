package input

import "errors"

var errNotNumeric = errors.New("not a number")
