package registry

import "campusreg/pkg/errors"

// Error kinds callers classify with errors.Is. Registry operations wrap
// these with the offending key so messages stay self-describing.
var (
	ErrDuplicate   = errors.Error("already exists")
	ErrNotFound    = errors.Error("not found")
	ErrNotEnrolled = errors.Error("not enrolled")
)
