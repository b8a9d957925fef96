package object

import "fmt"

// Access is the access level of one composite reference. Access belongs to
// the view, not the backing store: ReadOnly() hands out a restricted alias
// while other references to the same store keep their original rights.
type Access uint8

const (
	// AccessNone forbids every operation through this reference.
	AccessNone Access = iota

	// AccessExecuteOnly allows execution by the operator engine but
	// forbids element reads and writes through this core.
	AccessExecuteOnly

	// AccessWriteOnly allows element writes but not reads.
	AccessWriteOnly

	// AccessReadOnly allows element reads but not writes.
	AccessReadOnly

	// AccessUnlimited allows everything. The default for new objects.
	AccessUnlimited
)

// CanRead reports whether element reads are permitted.
func (a Access) CanRead() bool {
	return a == AccessReadOnly || a == AccessUnlimited
}

// CanWrite reports whether element writes are permitted.
func (a Access) CanWrite() bool {
	return a == AccessWriteOnly || a == AccessUnlimited
}

func (a Access) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessExecuteOnly:
		return "execute-only"
	case AccessWriteOnly:
		return "write-only"
	case AccessReadOnly:
		return "read-only"
	case AccessUnlimited:
		return "unlimited"
	default:
		return fmt.Sprintf("access(%d)", uint8(a))
	}
}
