package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-reservations/models"
	"hotel-reservations/services"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "reservations_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase ensures the minimum reference data the engine needs: the
// booking-number counter row, one hotel with rooms and a staff account.
func SeedDatabase() {
	if err := services.EnsureBookingCounter(DB); err != nil {
		log.Fatalf("Failed to seed booking counter: %v", err)
	}

	var hotelCount int64
	DB.Model(&models.Hotel{}).Count(&hotelCount)
	if hotelCount == 0 {
		hotel := models.Hotel{
			Name:    "Grand Riverside Hotel",
			Address: "1 Riverside Road",
			Phone:   "+66021234567",
			Email:   "frontdesk@grandriverside.example",
		}
		if err := DB.Create(&hotel).Error; err != nil {
			log.Printf("warning: failed to seed hotel: %v", err)
		} else {
			rooms := []models.Room{
				{HotelID: hotel.ID, RoomNumber: "101", Type: "Standard", Floor: "1", PricePerNight: decimal.NewFromInt(1200), MaxOccupancy: 2},
				{HotelID: hotel.ID, RoomNumber: "102", Type: "Standard", Floor: "1", PricePerNight: decimal.NewFromInt(1200), MaxOccupancy: 2},
				{HotelID: hotel.ID, RoomNumber: "201", Type: "Superior", Floor: "2", PricePerNight: decimal.NewFromInt(1800), MaxOccupancy: 3},
				{HotelID: hotel.ID, RoomNumber: "301", Type: "Deluxe", Floor: "3", PricePerNight: decimal.NewFromInt(2500), MaxOccupancy: 4},
			}
			if err := DB.Create(&rooms).Error; err != nil {
				log.Printf("warning: failed to seed rooms: %v", err)
			} else {
				log.Println("Hotel and rooms seeded")
			}
		}
	}

	var staffCount int64
	DB.Model(&models.User{}).Where("is_staff = ?", true).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("STAFF_DEFAULT_PASSWORD", "reception123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default staff password: %v", err)
		} else {
			staff := models.User{
				FullName: "Reception Staff",
				Email:    "reception@grandriverside.example",
				Password: string(hash),
				IsStaff:  true,
			}
			if err := DB.Create(&staff).Error; err != nil {
				log.Printf("warning: failed to seed staff user: %v", err)
			} else {
				log.Println("Default staff user seeded")
			}
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
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
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
