package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qr-order-backend/models"
	"qr-order-backend/realtime"
	"qr-order-backend/services"
	"qr-order-backend/utils"
)

type OrderController struct {
	DB    *gorm.DB
	Email *services.EmailService
}

func NewOrderController(db *gorm.DB, email *services.EmailService) *OrderController {
	return &OrderController{DB: db, Email: email}
}

type orderItemReq struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type createOrderReq struct {
	TableID      uint `json:"tableId"`
	CustomerInfo struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"customerInfo"`
	Items         []orderItemReq `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	ServiceCharge float64        `json:"serviceCharge"`
	Tax           float64        `json:"tax"`
	TotalAmount   float64        `json:"totalAmount"`
}

// CreateOrder handles a customer submitting their cart against a table.
// The customer is found-or-created by phone, the order is stored with a
// frozen item snapshot, and the table is marked occupied.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, utils.ValidationError("Invalid order data"))
		return
	}

	if req.TableID == 0 || len(req.Items) == 0 {
		utils.RespondAppError(c, utils.ValidationError("Invalid order data"))
		return
	}
	for _, item := range req.Items {
		if item.ID == 0 || item.Quantity < 1 || item.Price < 0 {
			utils.RespondAppError(c, utils.ValidationError("Invalid order data"))
			return
		}
	}
	if !utils.IsValidPhone(req.CustomerInfo.Phone) {
		utils.RespondAppError(c, utils.ValidationError("Customer phone number is required"))
		return
	}

	// Client-computed totals are stored verbatim; log when they disagree
	// with a server-side recomputation so mismatches can be audited.
	var subtotal float64
	for _, item := range req.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	expected := utils.ComputeBill(subtotal)
	if math.Abs(expected.GrandTotal-req.TotalAmount) > 0.01 {
		utils.InfoLogger.Printf("order totals mismatch for table %d: client sent %.2f, recomputed %.2f",
			req.TableID, req.TotalAmount, expected.GrandTotal)
	}

	customer, err := oc.resolveCustomer(req.CustomerInfo.Name, req.CustomerInfo.Phone, req.CustomerInfo.Email)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	order := models.Order{
		TableID:       req.TableID,
		CustomerID:    customer.ID,
		Subtotal:      req.Subtotal,
		ServiceCharge: req.ServiceCharge,
		Tax:           req.Tax,
		TotalAmount:   req.TotalAmount,
		Status:        models.OrderPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.Price,
		})
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	realtime.BroadcastNewOrder(order)

	// Occupy the table. A failure here leaves the order intact; the status is
	// reconciled the next time staff touch the table.
	if err := oc.DB.Model(&models.Table{}).Where("id = ?", req.TableID).
		Update("status", models.TableOccupied).Error; err != nil {
		utils.ErrorLogger.Printf("error marking table %d occupied: %v", req.TableID, err)
	} else {
		realtime.BroadcastTableStatus(req.TableID, models.TableOccupied)
	}

	utils.InfoLogger.Printf("Order %d created for table %d (customer %d, total %.2f)",
		order.ID, order.TableID, customer.ID, order.TotalAmount)

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"data":       order,
		"customerId": customer.ID,
	})
}

// resolveCustomer looks a customer up by phone, refreshing name/email with
// non-empty submitted values, or creates one on first order. Phone is the
// natural key and never changes.
func (oc *OrderController) resolveCustomer(name, phone, email string) (*models.Customer, error) {
	var customer models.Customer
	err := oc.DB.Where("phone = ?", phone).First(&customer).Error
	if err == nil {
		updates := map[string]interface{}{}
		if name != "" && name != customer.Name {
			updates["name"] = name
		}
		if email != "" && email != customer.Email {
			updates["email"] = email
		}
		if len(updates) > 0 {
			if err := oc.DB.Model(&customer).Updates(updates).Error; err != nil {
				// Stale contact info is not worth failing the order over.
				utils.ErrorLogger.Printf("error updating customer %d: %v", customer.ID, err)
			}
		}
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.StorageError(err)
	}

	customer = models.Customer{Name: name, Phone: phone, Email: email}
	if err := oc.DB.Create(&customer).Error; err != nil {
		return nil, utils.StorageError(err)
	}
	return &customer, nil
}

// GetAllOrders -> filtered, paginated order history, newest first.
// Filters: table_id, status, start_date, end_date (inclusive), page, limit.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Model(&models.Order{})

	if tableID := c.Query("table_id"); tableID != "" {
		query = query.Where("table_id = ?", tableID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
		if err != nil {
			utils.RespondAppError(c, utils.ValidationError("Invalid start_date"))
			return
		}
		query = query.Where("created_at >= ?", start)
	}
	if endDate := c.Query("end_date"); endDate != "" {
		end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
		if err != nil {
			utils.RespondAppError(c, utils.ValidationError("Invalid end_date"))
			return
		}
		// One day past the end date so the whole end date is included.
		query = query.Where("created_at < ?", end.AddDate(0, 0, 1))
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondPage(c, http.StatusOK, orders, utils.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetOrderByID -> public order detail for the customer tracker.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		utils.RespondAppError(c, utils.NotFoundError("Order not found"))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondAppError(c, utils.NotFoundError("Order not found"))
			return
		}
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", order)
}

// GetOrdersByCustomer -> a customer's order history, newest first.
func (oc *OrderController) GetOrdersByCustomer(c *gin.Context) {
	customerID := c.Param("customerId")

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", orders)
}

// UpdateOrderStatus -> staff advances an order through the lifecycle. Any
// status in the enum is accepted from any current status; the kitchen and
// admin UIs are trusted to request sane transitions.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		utils.RespondAppError(c, utils.NotFoundError("Order not found"))
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondAppError(c, utils.ValidationError("Invalid status"))
		return
	}
	if !models.IsValidOrderStatus(body.Status) {
		utils.RespondAppError(c, utils.ValidationError("Invalid status"))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondAppError(c, utils.NotFoundError("Order not found"))
			return
		}
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	order.Status = body.Status
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	realtime.BroadcastOrderStatus(order.ID, order.Status)

	// Invoice mail when the food hits the table. Failures are logged and
	// never fail the status update.
	if order.Status == models.OrderServed && oc.Email != nil {
		go oc.Email.SendInvoice(order.ID)
	}

	utils.InfoLogger.Printf("Order %d status changed to %s", order.ID, order.Status)
	utils.RespondJSON(c, http.StatusOK, "", order)
}

// GetTableActiveOrders -> all orders still counting toward the table's bill.
func (oc *OrderController) GetTableActiveOrders(c *gin.Context) {
	tableID := c.Param("tableId")

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("table_id = ? AND status NOT IN ?", tableID, []string{models.OrderCancelled, models.OrderCompleted}).
		Find(&orders).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", orders)
}

// SettleTableBill marks every active order for the table completed and frees
// the table, as one transaction, then broadcasts the per-order and table
// events in that sequence.
func (oc *OrderController) SettleTableBill(c *gin.Context) {
	tableID, err := strconv.ParseUint(c.Param("tableId"), 10, 32)
	if err != nil {
		utils.RespondAppError(c, utils.ValidationError("Invalid table id"))
		return
	}

	var body struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	// Payment method is recorded for the acknowledgement only; gateways are
	// out of scope.
	_ = c.ShouldBindJSON(&body)

	var settled []models.Order
	txErr := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_id = ? AND status NOT IN ?", tableID,
			[]string{models.OrderCancelled, models.OrderCompleted}).
			Find(&settled).Error; err != nil {
			return utils.StorageError(err)
		}
		if len(settled) == 0 {
			return utils.ErrNothingToSettle
		}

		orderIDs := make([]uint, 0, len(settled))
		for _, o := range settled {
			orderIDs = append(orderIDs, o.ID)
		}

		if err := tx.Model(&models.Order{}).Where("id IN ?", orderIDs).
			Update("status", models.OrderCompleted).Error; err != nil {
			return utils.StorageError(err)
		}
		if err := tx.Model(&models.Table{}).Where("id = ?", tableID).
			Update("status", models.TableAvailable).Error; err != nil {
			return utils.StorageError(err)
		}
		return nil
	})
	if txErr != nil {
		utils.RespondAppError(c, txErr)
		return
	}

	for _, o := range settled {
		realtime.BroadcastOrderStatus(o.ID, models.OrderCompleted)
	}
	realtime.BroadcastTableStatus(uint(tableID), models.TableAvailable)

	var subtotal float64
	for _, o := range settled {
		subtotal += o.Subtotal
	}
	bill := utils.ComputeBill(subtotal)

	utils.InfoLogger.Printf("Table %d settled: %d orders, grand total %.2f (%s)",
		tableID, len(settled), bill.GrandTotal, body.PaymentMethod)

	utils.RespondJSON(c, http.StatusOK, "Table settled successfully", gin.H{
		"ordersSettled": len(settled),
		"bill":          bill,
	})
}

// GetKitchenOrders -> the kitchen display's active queue, oldest first.
func (oc *OrderController) GetKitchenOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("status IN ?", []string{models.OrderPending, models.OrderPreparing}).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondAppError(c, utils.StorageError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "", orders)
}
