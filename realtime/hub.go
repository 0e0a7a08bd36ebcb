package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"qr-order-backend/models"
	"qr-order-backend/utils"
)

// Event types pushed to connected viewers. Every consuming view also does an
// initial full fetch on mount; there is no replay for late joiners.
const (
	EventNewOrder          = "newOrder"
	EventOrderStatusUpdate = "orderStatusUpdate"
	EventTableStatusUpdate = "tableStatusUpdate"
	EventKitchenSync       = "kitchenSync"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans broadcasts out to every connected viewer. Subscriptions are
// public: the kitchen display, admin dashboard and customer tracker all share
// the same channel and filter client-side.
type Hub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]bool),
}

// RegisterClient adds a connection to the broadcast set.
func RegisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = true
}

// UnregisterClient removes a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// ClientCount returns the number of connected viewers.
func ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// BroadcastNewOrder pushes the full order record to all viewers.
func BroadcastNewOrder(order models.Order) {
	broadcast(Message{
		Event: EventNewOrder,
		Data:  order,
	})
}

// BroadcastOrderStatus announces a status change for a single order.
func BroadcastOrderStatus(orderID uint, status string) {
	broadcast(Message{
		Event: EventOrderStatusUpdate,
		Data: map[string]interface{}{
			"orderId": orderID,
			"status":  status,
		},
	})
}

// BroadcastTableStatus announces a table occupancy change.
func BroadcastTableStatus(tableID uint, status string) {
	broadcast(Message{
		Event: EventTableStatusUpdate,
		Data: map[string]interface{}{
			"tableId": tableID,
			"status":  status,
		},
	})
}

// BroadcastKitchenSync pushes the full active kitchen order list, the
// periodic reconciliation pass under the event-driven updates.
func BroadcastKitchenSync(orders []models.Order) {
	broadcast(Message{
		Event: EventKitchenSync,
		Data:  orders,
	})
}

// broadcast delivers best-effort, at-most-once per connected client. A failed
// write drops the client; the triggering request never waits on delivery.
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("realtime: error marshaling %s event: %v", msg.Event, err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("realtime: dropping client after write error: %v", err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
