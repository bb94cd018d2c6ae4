package services

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel-reservations/models"
)

var bookingNumberPattern = regexp.MustCompile(`^BK\d{8}$`)

func TestCreateBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)

	now := time.Now().UTC()
	checkIn := now.Add(72 * time.Hour)
	checkOut := now.Add(120 * time.Hour) // two nights

	in := baseBookingInput(hotel.ID, rooms[0].ID, checkIn, checkOut)
	in.SpecialRequests = []SpecialRequestInput{
		{Type: models.RequestLateCheckOut, Description: "flight leaves at 22:00"},
	}

	b, err := svc.CreateBooking(in)
	require.NoError(t, err)

	require.Regexp(t, bookingNumberPattern, b.BookingNumber)
	require.Equal(t, models.StatusPending, b.Status)
	require.Equal(t, models.PaymentUnpaid, b.Payment.Status)
	require.Equal(t, 2, b.NumberOfNights())

	requireDecimalEqual(t, decimal.NewFromInt(200), b.Pricing.Subtotal)
	requireDecimalEqual(t, decimal.NewFromInt(20), b.Pricing.Taxes)
	requireDecimalEqual(t, decimal.NewFromInt(220), b.Pricing.TotalPrice)

	require.NotNil(t, b.CancellationDeadline)
	require.WithinDuration(t, checkIn.Add(-24*time.Hour), *b.CancellationDeadline, time.Second)

	require.Len(t, b.Rooms, 1)
	require.Len(t, b.Rooms[0].Guests, 2)
	require.NotNil(t, b.MainGuest())
	require.Equal(t, "Ada Lovelace", b.MainGuest().FullName())

	require.Len(t, b.SpecialRequests, 1)
	require.Equal(t, models.RequestPending, b.SpecialRequests[0].Status)

	require.Len(t, b.StatusHistory, 1)
	require.Equal(t, models.StatusPending, b.StatusHistory[0].Status)
}

func TestCreateBookingSequentialNumbers(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)

	now := time.Now().UTC()
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
			now.Add(72*time.Hour), now.Add(96*time.Hour)))
		require.NoError(t, err)

		require.Equal(t, fmt.Sprintf("BK%08d", i+1), b.BookingNumber)
		require.False(t, seen[b.BookingNumber])
		seen[b.BookingNumber] = true
	}
}

func TestCreateBookingReferenceChecks(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	otherHotel, otherRooms := seedHotel(t, db, 1)

	now := time.Now().UTC()
	checkIn := now.Add(72 * time.Hour)
	checkOut := now.Add(96 * time.Hour)

	var vErr *ValidationError

	_, err := svc.CreateBooking(baseBookingInput(hotel.ID+otherHotel.ID, rooms[0].ID, checkIn, checkOut))
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "hotelId", vErr.Field)

	// a real room, but belonging to another hotel
	_, err = svc.CreateBooking(baseBookingInput(hotel.ID, otherRooms[0].ID, checkIn, checkOut))
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "rooms", vErr.Field)
}

func TestLifecycleHappyPath(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)

	now := time.Now().UTC()
	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour)))
	require.NoError(t, err)

	b, err = svc.Validate(b.ID, "staff:9", "documents look fine")
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, b.Status)
	require.True(t, b.Validation.IsValidated)
	require.Equal(t, "staff:9", b.Validation.ValidatedBy)
	require.NotNil(t, b.ConfirmedAt)

	b, err = svc.CheckIn(b.ID, "staff:9", "")
	require.NoError(t, err)
	require.Equal(t, models.StatusCheckedIn, b.Status)
	require.NotNil(t, b.CheckedInAt)

	b, err = svc.CheckOut(b.ID, "staff:9", "")
	require.NoError(t, err)
	require.Equal(t, models.StatusCheckedOut, b.Status)
	require.NotNil(t, b.CheckedOutAt)

	b, err = svc.ChangeStatus(b.ID, models.StatusCompleted, "system", "invoice settled", "")
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, b.Status)

	// one entry per transition plus the creation entry
	require.Len(t, b.StatusHistory, 5)
	require.Equal(t, models.StatusCompleted, b.StatusHistory[4].Status)
}

func TestInvalidTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)

	now := time.Now().UTC()
	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour)))
	require.NoError(t, err)

	var tErr *TransitionError

	// skipping confirmation is not an edge of the machine
	_, err = svc.CheckIn(b.ID, "staff:9", "")
	require.True(t, errors.As(err, &tErr))
	require.Equal(t, models.StatusPending, tErr.From)
	require.Equal(t, models.StatusCheckedIn, tErr.To)

	// drive to COMPLETED, then verify it is terminal
	_, err = svc.Validate(b.ID, "staff:9", "")
	require.NoError(t, err)
	_, err = svc.CheckIn(b.ID, "staff:9", "")
	require.NoError(t, err)
	_, err = svc.CheckOut(b.ID, "staff:9", "")
	require.NoError(t, err)
	_, err = svc.ChangeStatus(b.ID, models.StatusCompleted, "system", "", "")
	require.NoError(t, err)

	_, err = svc.ChangeStatus(b.ID, models.StatusCancelled, "staff:9", "late regret", "")
	require.True(t, errors.As(err, &tErr))
	require.Equal(t, models.StatusCompleted, tErr.From)

	// unknown target statuses are rejected before the table lookup
	var vErr *ValidationError
	_, err = svc.ChangeStatus(b.ID, "ARCHIVED", "staff:9", "", "")
	require.True(t, errors.As(err, &vErr))
}

func TestCancelRefundTiers(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	cases := []struct {
		name    string
		checkIn time.Time
		policy  models.RefundPolicy
		refund  decimal.Decimal
	}{
		{
			name:    "more than 48h ahead refunds everything",
			checkIn: now.Add(72 * time.Hour),
			policy:  models.FullRefund,
			refund:  decimal.NewFromInt(110),
		},
		{
			name:    "between 24h and 48h refunds half",
			checkIn: now.Add(36 * time.Hour),
			policy:  models.PartialRefund,
			refund:  decimal.NewFromInt(55),
		},
		{
			name:    "under 24h refunds nothing",
			checkIn: now.Add(12 * time.Hour),
			policy:  models.NoRefund,
			refund:  decimal.Zero,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
				tc.checkIn, tc.checkIn.Add(24*time.Hour)))
			require.NoError(t, err)

			b, err = svc.Cancel(b.ID, "change of plans", "user:1", "")
			require.NoError(t, err)

			require.Equal(t, models.StatusCancelled, b.Status)
			require.NotNil(t, b.CancelledAt)
			require.Equal(t, "change of plans", b.Cancellation.Reason)
			require.Equal(t, tc.policy, b.Cancellation.RefundPolicy)
			requireDecimalEqual(t, tc.refund, b.Cancellation.RefundAmount)
		})
	}
}

func TestCancelRefundsPaidBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour)))
	require.NoError(t, err)

	b, err = svc.RecordPayment(b.ID, "card", decimal.NewFromInt(110), "tx-001")
	require.NoError(t, err)
	require.Equal(t, models.PaymentPaid, b.Payment.Status)

	b, err = svc.Cancel(b.ID, "double booked", "user:1", "")
	require.NoError(t, err)

	require.Equal(t, models.PaymentRefunded, b.Payment.Status)
	requireDecimalEqual(t, decimal.NewFromInt(110), b.Payment.RefundAmount)
	require.NotNil(t, b.Payment.RefundedAt)
}

func TestCancelNotCancellable(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour)))
	require.NoError(t, err)

	_, err = svc.Validate(b.ID, "staff:9", "")
	require.NoError(t, err)
	_, err = svc.CheckIn(b.ID, "staff:9", "")
	require.NoError(t, err)

	var ncErr *NotCancellableError
	_, err = svc.Cancel(b.ID, "too late", "user:1", "")
	require.True(t, errors.As(err, &ncErr))
	require.Equal(t, models.StatusCheckedIn, ncErr.Status)
}

func TestAddExtraLedger(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour))) // total 110
	require.NoError(t, err)

	b, err = svc.AddExtra(b.ID, ExtraInput{
		Name:      "Minibar",
		Quantity:  2,
		UnitPrice: decimal.NewFromInt(18),
		Category:  models.CategoryMinibar,
	}, "staff:9")
	require.NoError(t, err)

	b, err = svc.AddExtra(b.ID, ExtraInput{
		Name:      "Room service dinner",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(25),
		Category:  models.CategoryRestaurant,
	}, "staff:9")
	require.NoError(t, err)

	require.Len(t, b.Extras, 2)
	requireDecimalEqual(t, decimal.NewFromInt(61), b.ExtrasTotal())
	requireDecimalEqual(t, decimal.NewFromInt(171), b.FinalTotalPrice())

	// a correction is a new negative row pointing at the original
	minibarID := b.Extras[0].ID
	b, err = svc.AddExtra(b.ID, ExtraInput{
		Name:           "Minibar correction",
		Quantity:       1,
		UnitPrice:      decimal.NewFromInt(-18),
		Category:       models.CategoryMinibar,
		AdjustsExtraID: &minibarID,
	}, "staff:9")
	require.NoError(t, err)

	require.Len(t, b.Extras, 3)
	requireDecimalEqual(t, decimal.NewFromInt(43), b.ExtrasTotal())
	requireDecimalEqual(t, decimal.NewFromInt(153), b.FinalTotalPrice())
}

func TestAddExtraRejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour)))
	require.NoError(t, err)

	var vErr *ValidationError

	// adjustment target must exist on this booking
	missing := uint(9999)
	_, err = svc.AddExtra(b.ID, ExtraInput{
		Name:           "Correction",
		Quantity:       1,
		UnitPrice:      decimal.NewFromInt(-5),
		Category:       models.CategoryOther,
		AdjustsExtraID: &missing,
	}, "staff:9")
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "adjustsExtraId", vErr.Field)

	_, err = svc.Cancel(b.ID, "no longer needed", "user:1", "")
	require.NoError(t, err)

	_, err = svc.AddExtra(b.ID, ExtraInput{
		Name:      "Minibar",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(18),
		Category:  models.CategoryMinibar,
	}, "staff:9")
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "status", vErr.Field)
}

func TestRecordPayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour))) // total 110
	require.NoError(t, err)

	b, err = svc.RecordPayment(b.ID, "card", decimal.NewFromInt(60), "tx-001")
	require.NoError(t, err)
	require.Equal(t, models.PaymentUnpaid, b.Payment.Status)
	requireDecimalEqual(t, decimal.NewFromInt(60), b.Payment.AmountPaid)
	requireDecimalEqual(t, decimal.NewFromInt(50), b.RemainingAmount())

	b, err = svc.RecordPayment(b.ID, "card", decimal.NewFromInt(50), "tx-002")
	require.NoError(t, err)
	require.Equal(t, models.PaymentPaid, b.Payment.Status)
	requireDecimalEqual(t, decimal.Zero, b.RemainingAmount())

	var vErr *ValidationError
	_, err = svc.RecordPayment(b.ID, "card", decimal.Zero, "tx-003")
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "amount", vErr.Field)
}

func TestUpdateStayReprices(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	checkIn := now.Add(72 * time.Hour)
	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		checkIn, checkIn.Add(48*time.Hour))) // two nights, total 220
	require.NoError(t, err)

	newCheckOut := checkIn.Add(72 * time.Hour) // three nights
	discount := decimal.NewFromInt(30)
	b, err = svc.UpdateStay(b.ID, UpdateStayInput{
		CheckOut: &newCheckOut,
		Discount: &discount,
	})
	require.NoError(t, err)

	require.Equal(t, 3, b.NumberOfNights())
	requireDecimalEqual(t, decimal.NewFromInt(300), b.Pricing.Subtotal)
	requireDecimalEqual(t, decimal.NewFromInt(30), b.Pricing.Taxes)
	requireDecimalEqual(t, decimal.NewFromInt(300), b.Pricing.TotalPrice)
	require.NotNil(t, b.CancellationDeadline)
	require.WithinDuration(t, checkIn.Add(-24*time.Hour), *b.CancellationDeadline, time.Second)

	// once checked in the stay is frozen
	_, err = svc.Validate(b.ID, "staff:9", "")
	require.NoError(t, err)
	_, err = svc.CheckIn(b.ID, "staff:9", "")
	require.NoError(t, err)

	var vErr *ValidationError
	_, err = svc.UpdateStay(b.ID, UpdateStayInput{CheckOut: &newCheckOut})
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "status", vErr.Field)
}

func TestConcurrentTransitionConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour)))
	require.NoError(t, err)

	stale, err := svc.GetBooking(b.ID)
	require.NoError(t, err)

	// another writer wins the race
	_, err = svc.Validate(b.ID, "staff:9", "")
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.changeStatusTx(tx, stale, models.StatusCancelled, "user:1", "changed my mind", "", nil, now)
	})

	var ccErr *ConcurrencyError
	require.True(t, errors.As(err, &ccErr))
	require.Equal(t, b.ID, ccErr.BookingID)

	// the booking reflects the winner only
	b, err = svc.GetBooking(b.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, b.Status)
	require.Len(t, b.StatusHistory, 2)
}

func TestSpecialRequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	hotel, rooms := seedHotel(t, db, 1)
	now := time.Now().UTC()

	b, err := svc.CreateBooking(baseBookingInput(hotel.ID, rooms[0].ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour)))
	require.NoError(t, err)

	b, err = svc.AddSpecialRequest(b.ID, SpecialRequestInput{
		Type:        models.RequestExtraBed,
		Description: "one extra bed for a child",
	})
	require.NoError(t, err)
	require.Len(t, b.SpecialRequests, 1)
	reqID := b.SpecialRequests[0].ID

	require.NoError(t, svc.HandleSpecialRequest(b.ID, reqID, models.RequestHandled, "staff:9", "bed placed"))

	b, err = svc.GetBooking(b.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestHandled, b.SpecialRequests[0].Status)
	require.Equal(t, "staff:9", b.SpecialRequests[0].HandledBy)
	require.NotNil(t, b.SpecialRequests[0].HandledAt)

	// a handled request cannot be handled again
	var vErr *ValidationError
	err = svc.HandleSpecialRequest(b.ID, reqID, models.RequestDeclined, "staff:9", "")
	require.True(t, errors.As(err, &vErr))

	// only HANDLED / DECLINED are acceptable resolutions
	err = svc.HandleSpecialRequest(b.ID, reqID, models.RequestPending, "staff:9", "")
	require.True(t, errors.As(err, &vErr))
}

func TestGetBookingNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	var nfErr *NotFoundError
	_, err := svc.GetBooking(42)
	require.True(t, errors.As(err, &nfErr))
	require.Equal(t, uint(42), nfErr.BookingID)

	_, err = svc.GetBookingByNumber("BK99999999")
	require.True(t, errors.As(err, &nfErr))
}
