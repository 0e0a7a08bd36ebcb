package models

import "time"

// Order statuses. Pending is set at creation, completed is set by table
// settlement; everything in between is driven by staff.
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderServed    = "served"
	OrderCancelled = "cancelled"
	OrderCompleted = "completed"
)

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TableID       uint        `gorm:"not null;index" json:"table_id"`
	Table         Table       `gorm:"foreignKey:TableID" json:"-"`
	CustomerID    uint        `gorm:"not null;index" json:"customer_id"`
	Customer      Customer    `gorm:"foreignKey:CustomerID" json:"-"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal      float64     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ServiceCharge float64     `gorm:"type:decimal(10,2);not null" json:"service_charge"`
	Tax           float64     `gorm:"type:decimal(10,2);not null" json:"tax"`
	TotalAmount   float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status        string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

// OrderItem is a frozen snapshot of a menu item at order time. Name and unit
// price are copied, not referenced, so later menu edits never change what a
// historical order says.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"not null;index" json:"order_id"`
	MenuItemID uint    `gorm:"not null" json:"menu_item_id"`
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	Quantity   int     `gorm:"not null" json:"quantity"`
	UnitPrice  float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderPreparing, OrderServed, OrderCancelled, OrderCompleted:
		return true
	}
	return false
}

// IsActive reports whether the order still counts toward the table's bill.
func (o *Order) IsActive() bool {
	return o.Status != OrderCancelled && o.Status != OrderCompleted
}
