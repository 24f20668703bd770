package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-pms/models"

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
	dbName := envOrDefault("DB_NAME", "hotel_pms")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase ensures the default operator account and settings row exist.
func SeedDatabase() {
	var staffCount int64
	DB.Model(&models.StaffUser{}).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("STAFF_SEED_PASSWORD", "reception123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default staff password: %v", err)
		} else {
			staff := models.StaffUser{
				FullName: "Front Desk",
				Username: "reception@hotel.local",
				Password: string(hash),
			}
			if err := DB.Create(&staff).Error; err != nil {
				log.Printf("warning: failed to create default staff user: %v", err)
			} else {
				log.Println("Default staff user seeded")
			}
		}
	}

	var settingsCount int64
	DB.Model(&models.HotelSetting{}).Count(&settingsCount)
	if settingsCount == 0 {
		setting := models.HotelSetting{
			Name:          "Hotel",
			TaxRate:       7,
			Currency:      "THB",
			InvoicePrefix: "INV-",
			CheckInTime:   "14:00",
			CheckOutTime:  "12:00",
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed hotel settings: %v", err)
		} else {
			log.Println("Default hotel settings seeded")
		}
	}
}

// Migrate runs AutoMigrate on the given connection, parent tables first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.StaffUser{},
		&models.HotelSetting{},
		&models.Guest{},
		&models.Room{},
		&models.RoomImage{},
		&models.Booking{},
		&models.Invoice{},
		&models.InvoiceCounter{},
	)
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

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
