package enums

import "fmt"

// InviteStatus tracks an invite code through redemption.
type InviteStatus string

const (
	InviteStatusPending InviteStatus = "pending"
	InviteStatusUsed    InviteStatus = "used"
)

var validInviteStatuses = []InviteStatus{
	InviteStatusPending,
	InviteStatusUsed,
}

// String implements fmt.Stringer.
func (s InviteStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InviteStatus.
func (s InviteStatus) IsValid() bool {
	for _, candidate := range validInviteStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// InviteKind selects which invite table a code lives in.
type InviteKind string

const (
	InviteKindInstructor InviteKind = "instructor"
	InviteKindGeneric    InviteKind = "generic"
)

var validInviteKinds = []InviteKind{
	InviteKindInstructor,
	InviteKindGeneric,
}

func (k InviteKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known InviteKind.
func (k InviteKind) IsValid() bool {
	for _, candidate := range validInviteKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// Table returns the backing table name for the invite kind.
func (k InviteKind) Table() string {
	if k == InviteKindInstructor {
		return "instructor_invites"
	}
	return "invites"
}

// ParseInviteKind converts raw input into an InviteKind.
func ParseInviteKind(value string) (InviteKind, error) {
	for _, candidate := range validInviteKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invite kind %q", value)
}

// InviteKindForTable maps an invite table back to its kind.
func InviteKindForTable(table string) (InviteKind, bool) {
	switch table {
	case "instructor_invites":
		return InviteKindInstructor, true
	case "invites":
		return InviteKindGeneric, true
	default:
		return "", false
	}
}
