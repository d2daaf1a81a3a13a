package isa

import "errors"

// ErrFieldOverflow is returned when a field value does not fit in its
// allotted bit width, at either encode or hex-decode time.
var ErrFieldOverflow = errors.New("isa: field value overflows its bit width")
