package models

import "strings"

// BookingStatus is the canonical lifecycle state of a booking. Values are
// stored and compared in UPPER_SNAKE form; legacy casings from older clients
// are mapped at the API boundary by NormalizeStatus.
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusCheckedIn  BookingStatus = "CHECKED_IN"
	StatusCheckedOut BookingStatus = "CHECKED_OUT"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCancelled  BookingStatus = "CANCELLED"
	StatusRejected   BookingStatus = "REJECTED"
	StatusNoShow     BookingStatus = "NO_SHOW"
)

// statusTransitions is the full transition table of the state machine. A
// status missing from the map is terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusRejected},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {StatusCompleted},
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut,
		StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	if !s.IsValid() {
		return false
	}
	return len(statusTransitions[s]) == 0
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// NormalizeStatus maps legacy casings ("Pending", "Checked-In", "checked in")
// to the canonical UPPER_SNAKE value. Unknown inputs come back uppercased so
// IsValid rejects them with the value visible in the error.
func NormalizeStatus(raw string) BookingStatus {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	switch s {
	case "CHECKEDIN":
		s = "CHECKED_IN"
	case "CHECKEDOUT":
		s = "CHECKED_OUT"
	case "NOSHOW":
		s = "NO_SHOW"
	}
	return BookingStatus(s)
}

type BookingSource string

const (
	SourceWeb       BookingSource = "WEB"
	SourceMobile    BookingSource = "MOBILE"
	SourceReception BookingSource = "RECEPTION"
)

func (s BookingSource) IsValid() bool {
	switch s {
	case SourceWeb, SourceMobile, SourceReception:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type RefundPolicy string

const (
	FullRefund    RefundPolicy = "FULL_REFUND"
	PartialRefund RefundPolicy = "PARTIAL_REFUND"
	NoRefund      RefundPolicy = "NO_REFUND"
)
