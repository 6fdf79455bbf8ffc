package viewstate

// StatusKind tags the lifecycle of one logical action.
type StatusKind uint8

const (
	StatusIdle StatusKind = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Status is Idle, Pending, Succeeded or Failed(reason). The zero value is Idle.
type Status struct {
	kind   StatusKind
	reason string
}

// Idle returns the idle status.
func Idle() Status { return Status{} }

// Pending returns the in-flight status.
func Pending() Status { return Status{kind: StatusPending} }

// Succeeded returns the success status.
func Succeeded() Status { return Status{kind: StatusSucceeded} }

// Failed returns a failure status carrying reason.
func Failed(reason string) Status { return Status{kind: StatusFailed, reason: reason} }

// Kind returns the status tag.
func (s Status) Kind() StatusKind { return s.kind }

// Reason returns the failure reason, empty unless the status is Failed.
func (s Status) Reason() string { return s.reason }

// IsPending reports whether the action is in flight.
func (s Status) IsPending() bool { return s.kind == StatusPending }

func (s Status) String() string {
	if s.kind == StatusFailed && s.reason != "" {
		return "failed(" + s.reason + ")"
	}
	return s.kind.String()
}
