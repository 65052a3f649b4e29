package shorthand

import "errors"

var ErrSyntax = errors.New("bad shorthand")
