package models

import "time"

// Table statuses. Occupied/available are driven by the order and billing
// flows; reserved/maintenance are set manually by staff.
const (
	TableAvailable   = "available"
	TableOccupied    = "occupied"
	TableReserved    = "reserved"
	TableMaintenance = "maintenance"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"table_number"`
	Capacity    int       `gorm:"not null;default:4" json:"capacity"`
	Location    string    `gorm:"type:varchar(100)" json:"location"`
	Status      string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	QRCodeURL   string    `gorm:"type:longtext" json:"qr_code_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func IsValidTableStatus(status string) bool {
	switch status {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance:
		return true
	}
	return false
}
