package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qr-order-backend/controllers"
	"qr-order-backend/middlewares"
	"qr-order-backend/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	// 50 requests per second per IP across the whole API. Registered before
	// any route so gin applies it to all of them.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	email := services.NewEmailService(db)

	adminCtrl := controllers.NewAdminController(db)
	menuCtrl := controllers.NewMenuController(db)
	tableCtrl := controllers.NewTableController(db)
	orderCtrl := controllers.NewOrderController(db, email)
	salesCtrl := controllers.NewSalesController(db)
	uploadCtrl := controllers.NewUploadController()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Uploaded menu images
	r.Static("/uploads", "public/uploads")

	// Realtime channel shared by kitchen display, admin dashboard and
	// customer tracker
	r.GET("/ws", controllers.WSHandler)

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	api.POST("/admin/login", middlewares.NewLoginRateLimiter(), adminCtrl.Login)

	api.GET("/menu", menuCtrl.GetAllMenuItems)

	api.GET("/tables", tableCtrl.GetAllTables)
	api.GET("/tables/:id", tableCtrl.GetTableByID)
	api.GET("/tables/:id/qr/download", tableCtrl.DownloadQRCode)

	// Customers place and track orders without logging in
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/:id", orderCtrl.GetOrderByID)
	api.GET("/orders/customer/:customerId", orderCtrl.GetOrdersByCustomer)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	// MENU (staff)
	auth.POST("/menu", menuCtrl.CreateMenuItem)
	auth.PUT("/menu/:id", menuCtrl.UpdateMenuItem)
	auth.DELETE("/menu/:id", menuCtrl.DeleteMenuItem)

	// TABLES (staff)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.PUT("/tables/:id", tableCtrl.UpdateTable)
	auth.DELETE("/tables/:id", tableCtrl.DeleteTable)
	auth.POST("/tables/:id/qr", tableCtrl.RegenerateQRCode)

	// ORDERS (staff)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.PUT("/orders/:id", orderCtrl.UpdateOrderStatus)
	auth.GET("/orders/table/:tableId/active", orderCtrl.GetTableActiveOrders)
	auth.POST("/orders/table/:tableId/pay", orderCtrl.SettleTableBill)

	// KITCHEN DISPLAY
	auth.GET("/kitchen/orders", orderCtrl.GetKitchenOrders)

	// SALES REPORTS (admin)
	auth.GET("/admin/sales/today", salesCtrl.GetSalesToday)
	auth.GET("/admin/sales/month", salesCtrl.GetSalesMonth)
	auth.GET("/admin/sales/year", salesCtrl.GetSalesYear)
	auth.GET("/admin/sales", salesCtrl.GetSalesByDateRange)

	// UPLOADS (staff)
	auth.POST("/upload", uploadCtrl.UploadFile)

	return r
}
