package xmlgap

import "errors"

var (
	ErrScan = errors.New("xml scan error")
)
