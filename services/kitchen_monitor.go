package services

import (
	"time"

	"gorm.io/gorm"

	"qr-order-backend/models"
	"qr-order-backend/realtime"
	"qr-order-backend/utils"
)

// KitchenMonitor periodically re-broadcasts the active kitchen queue. Push
// delivery is best-effort with no replay, so this resync pass lets displays
// that missed an event converge without a manual refresh.
type KitchenMonitor struct {
	DB       *gorm.DB
	Interval time.Duration
	stopChan chan struct{}
}

func NewKitchenMonitor(db *gorm.DB) *KitchenMonitor {
	return &KitchenMonitor{
		DB:       db,
		Interval: 15 * time.Second,
		stopChan: make(chan struct{}),
	}
}

func (km *KitchenMonitor) Start() {
	go func() {
		ticker := time.NewTicker(km.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				km.syncKitchen()
			case <-km.stopChan:
				return
			}
		}
	}()
}

func (km *KitchenMonitor) Stop() {
	close(km.stopChan)
}

func (km *KitchenMonitor) syncKitchen() {
	if realtime.ClientCount() == 0 {
		return
	}

	var orders []models.Order
	if err := km.DB.Preload("Items").
		Where("status IN ?", []string{models.OrderPending, models.OrderPreparing}).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("kitchen monitor: error fetching active orders: %v", err)
		return
	}

	realtime.BroadcastKitchenSync(orders)
}
