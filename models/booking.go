package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentDetails is written by the payment collaborator, never by clients
// directly.
type PaymentDetails struct {
	Method        string          `gorm:"column:method;size:32" json:"method,omitempty"`
	Status        PaymentStatus   `gorm:"column:status;size:32;default:UNPAID" json:"status"`
	AmountPaid    decimal.Decimal `gorm:"column:amount_paid;type:decimal(10,2)" json:"amountPaid"`
	TransactionID string          `gorm:"column:transaction_id;size:64" json:"transactionId,omitempty"`
	RefundAmount  decimal.Decimal `gorm:"column:refund_amount;type:decimal(10,2)" json:"refundAmount"`
	PaidAt        *time.Time      `gorm:"column:paid_at" json:"paidAt,omitempty"`
	RefundedAt    *time.Time      `gorm:"column:refunded_at" json:"refundedAt,omitempty"`
}

type ValidationInfo struct {
	IsValidated bool       `gorm:"column:is_validated;default:false" json:"isValidated"`
	ValidatedBy string     `gorm:"column:validated_by;size:64" json:"validatedBy,omitempty"`
	ValidatedAt *time.Time `gorm:"column:validated_at" json:"validatedAt,omitempty"`
	Notes       string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

type CancellationInfo struct {
	Reason       string          `gorm:"column:reason;type:text" json:"reason,omitempty"`
	RefundPolicy RefundPolicy    `gorm:"column:refund_policy;size:32" json:"refundPolicy,omitempty"`
	RefundAmount decimal.Decimal `gorm:"column:refund_amount;type:decimal(10,2)" json:"refundAmount"`
}

type Pricing struct {
	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2)" json:"subtotal"`
	Taxes      decimal.Decimal `gorm:"column:taxes;type:decimal(10,2)" json:"taxes"`
	Discount   decimal.Decimal `gorm:"column:discount;type:decimal(10,2)" json:"discount"`
	Fees       decimal.Decimal `gorm:"column:fees;type:decimal(10,2)" json:"fees"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:decimal(10,2)" json:"totalPrice"`
}

// Booking is the aggregate root of the reservation engine. All mutations go
// through services.BookingService; rows are soft-deleted only, and terminal
// bookings are retained for audit and invoicing.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BookingNumber string `gorm:"column:booking_number;size:16;uniqueIndex" json:"bookingNumber"`
	UserID        uint   `gorm:"index;column:user_id" json:"userId"`
	HotelID       uint   `gorm:"index;column:hotel_id" json:"hotelId"`

	Status BookingStatus `gorm:"column:status;size:32;index" json:"status"`
	Source BookingSource `gorm:"column:source;size:32" json:"source"`

	// Version guards concurrent status transitions (optimistic lock).
	Version uint `gorm:"column:version;default:0" json:"-"`

	CheckIn              time.Time  `gorm:"column:check_in;index" json:"checkIn"`
	CheckOut             time.Time  `gorm:"column:check_out" json:"checkOut"`
	CancellationDeadline *time.Time `gorm:"column:cancellation_deadline" json:"cancellationDeadline,omitempty"`
	ConfirmedAt          *time.Time `gorm:"column:confirmed_at" json:"confirmedAt,omitempty"`
	CheckedInAt          *time.Time `gorm:"column:checked_in_at" json:"checkedInAt,omitempty"`
	CheckedOutAt         *time.Time `gorm:"column:checked_out_at" json:"checkedOutAt,omitempty"`
	CancelledAt          *time.Time `gorm:"column:cancelled_at" json:"cancelledAt,omitempty"`

	Adults   int `gorm:"column:adults;default:1" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`

	Pricing      Pricing          `gorm:"embedded" json:"pricing"`
	Payment      PaymentDetails   `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Validation   ValidationInfo   `gorm:"embedded;embeddedPrefix:validation_" json:"validation"`
	Cancellation CancellationInfo `gorm:"embedded;embeddedPrefix:cancellation_" json:"cancellation"`

	ContactPhone     string         `gorm:"column:contact_phone;size:32" json:"contactPhone"`
	ContactEmail     string         `gorm:"column:contact_email;size:128" json:"contactEmail"`
	EmergencyContact datatypes.JSON `gorm:"column:emergency_contact" json:"emergencyContact,omitempty"`

	Rooms           []BookingRoom        `gorm:"foreignKey:BookingID" json:"rooms"`
	Extras          []Extra              `gorm:"foreignKey:BookingID" json:"extras"`
	StatusHistory   []StatusHistoryEntry `gorm:"foreignKey:BookingID" json:"statusHistory"`
	SpecialRequests []SpecialRequest     `gorm:"foreignKey:BookingID" json:"specialRequests"`
}

// NumberOfNights is derived from the stay dates and never stored.
func (b *Booking) NumberOfNights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

func (b *Booking) TotalGuests() int {
	return b.Adults + b.Children
}

// AssignedGuests counts guests placed into rooms; must equal TotalGuests.
func (b *Booking) AssignedGuests() int {
	n := 0
	for _, r := range b.Rooms {
		n += len(r.Guests)
	}
	return n
}

// MainGuest returns the single guest flagged as primary, or nil.
func (b *Booking) MainGuest() *Guest {
	for ri := range b.Rooms {
		for gi := range b.Rooms[ri].Guests {
			if b.Rooms[ri].Guests[gi].IsMainGuest {
				return &b.Rooms[ri].Guests[gi]
			}
		}
	}
	return nil
}

// ExtrasTotal sums the append-only extras ledger, adjustments included.
func (b *Booking) ExtrasTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b.Extras {
		total = total.Add(e.TotalPrice)
	}
	return total
}

// FinalTotalPrice = pricing total + extras. Computed on read to avoid
// staleness.
func (b *Booking) FinalTotalPrice() decimal.Decimal {
	return b.Pricing.TotalPrice.Add(b.ExtrasTotal())
}

// RemainingAmount is never negative; overpayments clamp to zero.
func (b *Booking) RemainingAmount() decimal.Decimal {
	remaining := b.FinalTotalPrice().Sub(b.Payment.AmountPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsCancellable gates the cancellation policy engine: only pre-stay statuses
// and only before check-in.
func (b *Booking) IsCancellable(now time.Time) bool {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return false
	}
	return now.Before(b.CheckIn)
}

func (b *Booking) IsModifiable() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
