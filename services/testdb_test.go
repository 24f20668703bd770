package services

import (
	"testing"

	"hotel-pms/config"
	"hotel-pms/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database. The pool is pinned to one
// connection so every goroutine sees the same :memory: instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestNotifier(t *testing.T) *NotificationService {
	t.Helper()
	n := NewNotificationService()
	t.Cleanup(n.Close)
	return n
}

func newTestBookingService(t *testing.T, db *gorm.DB) *BookingService {
	t.Helper()
	return NewBookingService(db, NewAvailabilityService(db), NewGuestService(db), newTestNotifier(t))
}

func createTestRoom(t *testing.T, db *gorm.DB, number string, price float64) *models.Room {
	t.Helper()
	room, err := NewRoomService(db).Create(models.Room{
		RoomNumber:    number,
		Type:          models.RoomTypeDouble,
		PricePerNight: price,
		Capacity:      2,
	})
	if err != nil {
		t.Fatalf("create room %s: %v", number, err)
	}
	return room
}

func roomStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var room models.Room
	if err := db.First(&room, id).Error; err != nil {
		t.Fatalf("fetch room %d: %v", id, err)
	}
	return room.Status
}
