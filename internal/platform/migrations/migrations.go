package migrations

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	userdomain "github.com/masayahak/go-order-app/internal/domains/users/domain"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&sessionRecord{},
		&customerRecord{},
		&productRecord{},
		&orderRecord{},
		&orderDetailRecord{},
	)
}

// SeedAdmin creates the initial Administrator account when the users table
// is empty. Safe to call on every startup.
func SeedAdmin(ctx context.Context, db *gorm.DB, username, password string) error {
	if db == nil {
		return nil
	}
	if username == "" || password == "" {
		return errors.New("admin seed credentials are required")
	}
	var count int64
	if err := db.WithContext(ctx).Model(&userRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	admin, err := userdomain.New(username, password, userdomain.RoleAdministrator)
	if err != nil {
		return err
	}
	record := userRecord{
		Username:     admin.Username,
		PasswordHash: admin.PasswordHash,
		Role:         string(admin.Role),
	}
	return db.WithContext(ctx).Create(&record).Error
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the Postgres session store.
type sessionRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Username  string    `gorm:"column:username;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "sessions" }

// Customer schema mirrors the customers Postgres adapter.
type customerRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;index"`
	Phone     *string   `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Product schema mirrors the products Postgres adapter.
type productRecord struct {
	Code      string    `gorm:"primaryKey;column:code;size:64"`
	Name      string    `gorm:"column:name;index"`
	UnitPrice int64     `gorm:"column:unit_price"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	CustomerID   int64     `gorm:"column:customer_id;index"`
	CustomerName string    `gorm:"column:customer_name;index"`
	OrderDate    time.Time `gorm:"column:order_date;type:date;index"`
	TotalAmount  int64     `gorm:"column:total_amount"`
	Version      int64     `gorm:"column:version;default:1"`
	CreatedBy    *int64    `gorm:"column:created_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order detail schema mirrors the orders Postgres adapter. The quantity
// check constraint backs the repository's all-or-nothing writes.
type orderDetailRecord struct {
	ID          int64  `gorm:"primaryKey;column:id"`
	OrderID     int64  `gorm:"column:order_id;index"`
	ProductCode string `gorm:"column:product_code;size:64"`
	ProductName string `gorm:"column:product_name"`
	Quantity    int64  `gorm:"column:quantity;check:quantity > 0"`
	UnitPrice   int64  `gorm:"column:unit_price"`
	Amount      int64  `gorm:"column:amount"`
}

func (orderDetailRecord) TableName() string { return "order_details" }
