package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-reservations/models"
)

// BookingService wraps *gorm.DB and owns every mutation of the booking
// aggregate. Reads may be eventually consistent; writes are single atomic
// persists guarded by the booking's version column.
type BookingService struct {
	DB      *gorm.DB
	Numbers NumberGenerator
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db, Numbers: CounterNumberGenerator{}}
}

// bookingPreloads loads the full aggregate for reads and API responses.
func bookingPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Rooms").
		Preload("Rooms.Room").
		Preload("Rooms.Guests").
		Preload("Extras").
		Preload("StatusHistory").
		Preload("SpecialRequests")
}

func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := bookingPreloads(s.DB).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{BookingID: id}
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

func (s *BookingService) GetBookingByNumber(number string) (*models.Booking, error) {
	var booking models.Booking
	if err := bookingPreloads(s.DB).Where("booking_number = ?", number).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{}
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

// CreateBooking validates, prices and persists a new PENDING booking with its
// rooms, guests and initial history entry in one transaction. The booking
// number is drawn inside the same transaction so concurrent creators get
// distinct, ordered numbers.
func (s *BookingService) CreateBooking(in CreateBookingInput) (*models.Booking, error) {
	now := time.Now().UTC()

	if err := ValidateCreateBooking(in, now); err != nil {
		return nil, err
	}

	if err := s.checkReferences(in); err != nil {
		return nil, err
	}

	nights := int(in.CheckOut.Sub(in.CheckIn).Hours() / 24)
	if nights < 1 {
		return nil, &ValidationError{Field: "checkOut", Message: "stay must cover at least one night"}
	}

	pricing := CalculatePricing(in.Rooms, nights, in.Discount, in.Fees)
	deadline := in.CheckIn.Add(-24 * time.Hour)

	var bookingID uint
	// Retry once on a duplicate booking number: the unique index is a
	// belt-and-braces guard under the counter and should never fire unless
	// the counter row was reset.
	var txErr error
	for attempt := 0; attempt < 2; attempt++ {
		txErr = s.DB.Transaction(func(tx *gorm.DB) error {
			number, err := s.Numbers.Next(tx)
			if err != nil {
				return err
			}

			booking := models.Booking{
				BookingNumber:        number,
				UserID:               in.UserID,
				HotelID:              in.HotelID,
				Status:               models.StatusPending,
				Source:               in.Source,
				CheckIn:              in.CheckIn,
				CheckOut:             in.CheckOut,
				CancellationDeadline: &deadline,
				Adults:               in.Adults,
				Children:             in.Children,
				Pricing:              pricing,
				Payment:              models.PaymentDetails{Status: models.PaymentUnpaid},
				ContactPhone:         in.ContactPhone,
				ContactEmail:         in.ContactEmail,
				EmergencyContact:     in.EmergencyContact,
			}

			for _, room := range in.Rooms {
				br := models.BookingRoom{
					RoomID:        room.RoomID,
					PricePerNight: room.PricePerNight,
				}
				for _, g := range room.Guests {
					br.Guests = append(br.Guests, models.Guest{
						FirstName:   g.FirstName,
						LastName:    g.LastName,
						IsMainGuest: g.IsMainGuest,
					})
				}
				booking.Rooms = append(booking.Rooms, br)
			}

			for _, sr := range in.SpecialRequests {
				booking.SpecialRequests = append(booking.SpecialRequests, models.SpecialRequest{
					Type:        sr.Type,
					Description: sr.Description,
					Status:      models.RequestPending,
				})
			}

			booking.StatusHistory = append(booking.StatusHistory, models.StatusHistoryEntry{
				Status:    models.StatusPending,
				ChangedBy: fmt.Sprintf("user:%d", in.UserID),
				ChangedAt: now,
				Reason:    "booking created",
			})

			if err := tx.Create(&booking).Error; err != nil {
				return fmt.Errorf("failed to create booking: %w", err)
			}

			bookingID = booking.ID
			return nil
		})

		if txErr == nil {
			break
		}
		if isDuplicateKeyError(txErr) {
			log.Printf("booking number collision on attempt %d - retrying", attempt+1)
			continue
		}
		return nil, txErr
	}
	if txErr != nil {
		return nil, txErr
	}

	return s.GetBooking(bookingID)
}

func (s *BookingService) checkReferences(in CreateBookingInput) error {
	var hotel models.Hotel
	if err := s.DB.First(&hotel, in.HotelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Field: "hotelId", Message: "hotel not found"}
		}
		return fmt.Errorf("db error checking hotel %d: %w", in.HotelID, err)
	}

	for _, room := range in.Rooms {
		var rm models.Room
		if err := s.DB.First(&rm, room.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Field: "rooms", Message: fmt.Sprintf("room %d not found", room.RoomID)}
			}
			return fmt.Errorf("db error checking room %d: %w", room.RoomID, err)
		}
		if rm.HotelID != in.HotelID {
			return &ValidationError{Field: "rooms", Message: fmt.Sprintf("room %d does not belong to hotel %d", room.RoomID, in.HotelID)}
		}
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}

// statusTimestamp maps a target status to the timestamp column it stamps.
func statusTimestamp(target models.BookingStatus) string {
	switch target {
	case models.StatusConfirmed:
		return "confirmed_at"
	case models.StatusCheckedIn:
		return "checked_in_at"
	case models.StatusCheckedOut:
		return "checked_out_at"
	case models.StatusCancelled:
		return "cancelled_at"
	}
	return ""
}

// changeStatusTx applies one state-machine edge inside tx. The update is
// conditional on the version the booking was read at; losing a race leaves
// zero rows affected and surfaces as ConcurrencyError instead of corrupting
// history.
func (s *BookingService) changeStatusTx(
	tx *gorm.DB,
	booking *models.Booking,
	target models.BookingStatus,
	actorID, reason, notes string,
	extra map[string]interface{},
	now time.Time,
) error {
	if !target.IsValid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", target)}
	}
	if !booking.Status.CanTransitionTo(target) {
		return &TransitionError{From: booking.Status, To: target}
	}

	updates := map[string]interface{}{
		"status":  target,
		"version": booking.Version + 1,
	}
	if col := statusTimestamp(target); col != "" {
		updates[col] = now
	}
	for k, v := range extra {
		updates[k] = v
	}

	res := tx.Model(&models.Booking{}).
		Where("id = ? AND version = ?", booking.ID, booking.Version).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &ConcurrencyError{BookingID: booking.ID}
	}

	entry := models.StatusHistoryEntry{
		BookingID: booking.ID,
		Status:    target,
		ChangedBy: actorID,
		ChangedAt: now,
		Reason:    reason,
		Notes:     notes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return nil
}

func (s *BookingService) fetchForUpdate(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{BookingID: id}
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

// ChangeStatus moves the booking along one edge of the state machine,
// stamping the matching timestamp and appending a history entry atomically.
func (s *BookingService) ChangeStatus(id uint, target models.BookingStatus, actorID, reason, notes string) (*models.Booking, error) {
	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.fetchForUpdate(tx, id)
		if err != nil {
			return err
		}
		return s.changeStatusTx(tx, booking, target, actorID, reason, notes, nil, now)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

// Validate confirms a PENDING booking and stamps the validation block in the
// same atomic update.
func (s *BookingService) Validate(id uint, actorID, notes string) (*models.Booking, error) {
	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.fetchForUpdate(tx, id)
		if err != nil {
			return err
		}
		extra := map[string]interface{}{
			"validation_is_validated": true,
			"validation_validated_by": actorID,
			"validation_validated_at": now,
			"validation_notes":        notes,
		}
		return s.changeStatusTx(tx, booking, models.StatusConfirmed, actorID, "admin validation", notes, extra, now)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

func (s *BookingService) CheckIn(id uint, actorID, notes string) (*models.Booking, error) {
	return s.ChangeStatus(id, models.StatusCheckedIn, actorID, "guest check-in", notes)
}

func (s *BookingService) CheckOut(id uint, actorID, notes string) (*models.Booking, error) {
	return s.ChangeStatus(id, models.StatusCheckedOut, actorID, "guest check-out", notes)
}

// Cancel terminates the booking through the cancellation policy engine. The
// refund tier is derived from the hours remaining until check-in; the
// CANCELLED history entry goes through the same path as every other
// transition.
func (s *BookingService) Cancel(id uint, reason, actorID, notes string) (*models.Booking, error) {
	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.fetchForUpdate(tx, id)
		if err != nil {
			return err
		}
		if !booking.IsCancellable(now) {
			return &NotCancellableError{Status: booking.Status, CheckIn: booking.CheckIn}
		}

		hours := booking.CheckIn.Sub(now).Hours()
		policy, multiplier := RefundPolicyFor(hours)
		refund := RefundAmount(booking.Pricing.TotalPrice, multiplier)

		extra := map[string]interface{}{
			"cancellation_reason":        reason,
			"cancellation_refund_policy": policy,
			"cancellation_refund_amount": refund,
		}
		if refund.IsPositive() && booking.Payment.Status == models.PaymentPaid {
			extra["payment_status"] = models.PaymentRefunded
			extra["payment_refund_amount"] = refund
			extra["payment_refunded_at"] = now
		}

		return s.changeStatusTx(tx, booking, models.StatusCancelled, actorID, reason, notes, extra, now)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

// AddExtra appends one row to the consumption ledger. The booking version is
// bumped under the same condition as status transitions so a concurrent
// writer cannot interleave.
func (s *BookingService) AddExtra(id uint, in ExtraInput, actorID string) (*models.Booking, error) {
	if err := ValidateExtra(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.fetchForUpdate(tx, id)
		if err != nil {
			return err
		}
		if booking.Status.IsTerminal() {
			return &ValidationError{Field: "status", Message: "cannot add extras to a terminal booking"}
		}

		if in.AdjustsExtraID != nil {
			var original models.Extra
			if err := tx.Where("id = ? AND booking_id = ?", *in.AdjustsExtraID, id).First(&original).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ValidationError{Field: "adjustsExtraId", Message: "adjusted extra not found on this booking"}
				}
				return fmt.Errorf("failed to look up adjusted extra: %w", err)
			}
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND version = ?", booking.ID, booking.Version).
			Update("version", booking.Version+1)
		if res.Error != nil {
			return fmt.Errorf("failed to bump booking version: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &ConcurrencyError{BookingID: booking.ID}
		}

		extra := models.Extra{
			BookingID:      booking.ID,
			Name:           in.Name,
			Description:    in.Description,
			Quantity:       in.Quantity,
			UnitPrice:      in.UnitPrice,
			TotalPrice:     in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
			Category:       in.Category,
			AddedBy:        actorID,
			AddedAt:        now,
			AdjustsExtraID: in.AdjustsExtraID,
		}
		if err := tx.Create(&extra).Error; err != nil {
			return fmt.Errorf("failed to append extra: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

// RecordPayment is the authorized write path for the payment collaborator.
// Amounts accumulate; the payment flips to PAID once the final total is
// covered.
func (s *BookingService) RecordPayment(id uint, method string, amount decimal.Decimal, transactionID string) (*models.Booking, error) {
	if !amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Message: "payment amount must be positive"}
	}

	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Extras").First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{BookingID: id}
			}
			return fmt.Errorf("failed to retrieve booking: %w", err)
		}

		paid := booking.Payment.AmountPaid.Add(amount)
		updates := map[string]interface{}{
			"payment_method":         method,
			"payment_amount_paid":    paid,
			"payment_transaction_id": transactionID,
			"payment_paid_at":        now,
			"version":                booking.Version + 1,
		}
		if paid.GreaterThanOrEqual(booking.FinalTotalPrice()) {
			updates["payment_status"] = models.PaymentPaid
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND version = ?", booking.ID, booking.Version).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to record payment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &ConcurrencyError{BookingID: booking.ID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

type UpdateStayInput struct {
	CheckIn  *time.Time       `json:"checkIn,omitempty"`
	CheckOut *time.Time       `json:"checkOut,omitempty"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Fees     *decimal.Decimal `json:"fees,omitempty"`
}

// UpdateStay changes dates, discount or fees on a modifiable booking and
// re-runs the pricing calculation over the booked rooms.
func (s *BookingService) UpdateStay(id uint, in UpdateStayInput) (*models.Booking, error) {
	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Rooms").First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{BookingID: id}
			}
			return fmt.Errorf("failed to retrieve booking: %w", err)
		}
		if !booking.IsModifiable() {
			return &ValidationError{Field: "status", Message: "booking is no longer modifiable"}
		}

		checkIn := booking.CheckIn
		checkOut := booking.CheckOut
		if in.CheckIn != nil {
			checkIn = *in.CheckIn
		}
		if in.CheckOut != nil {
			checkOut = *in.CheckOut
		}
		if err := validateStayDates(checkIn, checkOut, now); err != nil {
			return err
		}
		nights := int(checkOut.Sub(checkIn).Hours() / 24)
		if nights < 1 {
			return &ValidationError{Field: "checkOut", Message: "stay must cover at least one night"}
		}

		discount := booking.Pricing.Discount
		fees := booking.Pricing.Fees
		if in.Discount != nil {
			if in.Discount.IsNegative() {
				return &ValidationError{Field: "discount", Message: "discount must not be negative"}
			}
			discount = *in.Discount
		}
		if in.Fees != nil {
			if in.Fees.IsNegative() {
				return &ValidationError{Field: "fees", Message: "fees must not be negative"}
			}
			fees = *in.Fees
		}

		rooms := make([]RoomSelection, 0, len(booking.Rooms))
		for _, r := range booking.Rooms {
			rooms = append(rooms, RoomSelection{RoomID: r.RoomID, PricePerNight: r.PricePerNight})
		}
		pricing := CalculatePricing(rooms, nights, discount, fees)
		deadline := checkIn.Add(-24 * time.Hour)

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND version = ?", booking.ID, booking.Version).
			Updates(map[string]interface{}{
				"check_in":              checkIn,
				"check_out":             checkOut,
				"cancellation_deadline": deadline,
				"subtotal":              pricing.Subtotal,
				"taxes":                 pricing.Taxes,
				"discount":              pricing.Discount,
				"fees":                  pricing.Fees,
				"total_price":           pricing.TotalPrice,
				"version":               booking.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update stay: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &ConcurrencyError{BookingID: booking.ID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

// AddSpecialRequest attaches a request to a non-terminal booking.
func (s *BookingService) AddSpecialRequest(id uint, in SpecialRequestInput) (*models.Booking, error) {
	if !in.Type.IsValid() {
		return nil, &ValidationError{Field: "type", Message: "unknown special request type"}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, err := s.fetchForUpdate(tx, id)
		if err != nil {
			return err
		}
		if booking.Status.IsTerminal() {
			return &ValidationError{Field: "status", Message: "cannot add requests to a terminal booking"}
		}

		req := models.SpecialRequest{
			BookingID:   booking.ID,
			Type:        in.Type,
			Description: in.Description,
			Status:      models.RequestPending,
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

// HandleSpecialRequest marks a pending request as handled or declined.
func (s *BookingService) HandleSpecialRequest(bookingID, requestID uint, status models.SpecialRequestStatus, actorID, notes string) error {
	if status != models.RequestHandled && status != models.RequestDeclined {
		return &ValidationError{Field: "status", Message: "status must be HANDLED or DECLINED"}
	}

	now := time.Now().UTC()
	res := s.DB.Model(&models.SpecialRequest{}).
		Where("id = ? AND booking_id = ? AND status = ?", requestID, bookingID, models.RequestPending).
		Updates(map[string]interface{}{
			"status":     status,
			"handled_by": actorID,
			"handled_at": now,
			"notes":      notes,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to handle special request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &ValidationError{Field: "requestId", Message: "no pending request with this id on the booking"}
	}
	return nil
}
