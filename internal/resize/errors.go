package resize

import "fmt"

// LimitError reports a target that exceeds an absolute capacity
// ceiling. It is returned before any remote call is issued.
type LimitError struct {
	Field string
	Value int
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("requested %s %d exceeds the maximum of %d", e.Field, e.Value, e.Limit)
}

// InvalidSpecError reports a capacity specification the remote system
// could never accept, such as an IOPS value outside the band its size
// supports.
type InvalidSpecError struct {
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return "invalid disk capacity: " + e.Reason
}

// AbortedError reports a resize that stopped partway. Applied is the
// last configuration confirmed on the remote system; the disk is left
// there, no rollback is attempted.
type AbortedError struct {
	Applied Spec
	Err     error
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("resize aborted with disk at size=%dGB iops=%d: %v", e.Applied.SizeGB, e.Applied.IOPS, e.Err)
}

func (e *AbortedError) Unwrap() error { return e.Err }
