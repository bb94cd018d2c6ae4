package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-reservations/models"
)

// newTestDB opens a named in-memory database so every test gets an isolated
// schema. The pool is capped at one connection; a fresh pooled connection
// would otherwise see an empty memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Hotel{},
		&models.Room{},
		&models.User{},
		&models.Booking{},
		&models.BookingRoom{},
		&models.Guest{},
		&models.Extra{},
		&models.StatusHistoryEntry{},
		&models.SpecialRequest{},
		&models.BookingCounter{},
	))
	require.NoError(t, EnsureBookingCounter(db))

	return db
}

func seedHotel(t *testing.T, db *gorm.DB, roomCount int) (models.Hotel, []models.Room) {
	t.Helper()

	hotel := models.Hotel{Name: "Grand Riverside Hotel", Address: "1 Riverside Road"}
	require.NoError(t, db.Create(&hotel).Error)

	rooms := make([]models.Room, 0, roomCount)
	for i := 0; i < roomCount; i++ {
		room := models.Room{
			HotelID:       hotel.ID,
			RoomNumber:    fmt.Sprintf("10%d", i+1),
			Type:          "Standard",
			Floor:         "1",
			PricePerNight: decimal.NewFromInt(100),
			MaxOccupancy:  2,
		}
		require.NoError(t, db.Create(&room).Error)
		rooms = append(rooms, room)
	}
	return hotel, rooms
}

// baseBookingInput builds a valid two-adult, one-room creation input at a
// nightly rate of 100.
func baseBookingInput(hotelID, roomID uint, checkIn, checkOut time.Time) CreateBookingInput {
	return CreateBookingInput{
		UserID:   1,
		HotelID:  hotelID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   2,
		Children: 0,
		Rooms: []RoomSelection{{
			RoomID:        roomID,
			PricePerNight: decimal.NewFromInt(100),
			Guests: []GuestInput{
				{FirstName: "Ada", LastName: "Lovelace", IsMainGuest: true},
				{FirstName: "Alan", LastName: "Turing"},
			},
		}},
		Source:       models.SourceWeb,
		ContactPhone: "+66812345678",
		ContactEmail: "ada@example.com",
	}
}

func requireDecimalEqual(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	require.True(t, want.Equal(got), "expected %s, got %s", want, got)
}
