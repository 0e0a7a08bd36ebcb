package database

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"qr-order-backend/models"
	"qr-order-backend/utils"
)

// Seed creates the default admin account and a starter menu. It is
// idempotent: existing rows are left alone.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedMenu(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Admin{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := db.Create(&models.Admin{
		Username: "admin",
		Password: string(hashed),
	}).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Admin user created: username=admin, password=admin123")
	return nil
}

func seedMenu(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.MenuItem{
		{Name: "Butter Chicken", Description: "Creamy tomato-based curry with tender chicken pieces", Price: 350, Category: "Indian", IsAvailable: true},
		{Name: "Paneer Tikka Masala", Description: "Grilled cottage cheese in rich spiced gravy", Price: 280, Category: "Indian", IsAvailable: true},
		{Name: "Biryani", Description: "Aromatic basmati rice with spiced chicken/veg", Price: 320, Category: "Indian", IsAvailable: true},
		{Name: "Margherita Pizza", Description: "Classic pizza with tomato, mozzarella and basil", Price: 300, Category: "Italian", IsAvailable: true},
		{Name: "Pasta Alfredo", Description: "Fettuccine in creamy parmesan sauce", Price: 260, Category: "Italian", IsAvailable: true},
		{Name: "Hakka Noodles", Description: "Stir-fried noodles with vegetables", Price: 220, Category: "Chinese", IsAvailable: true},
		{Name: "Spring Rolls", Description: "Crispy rolls stuffed with vegetables", Price: 180, Category: "Chinese", IsAvailable: true},
		{Name: "Gulab Jamun", Description: "Soft milk dumplings in rose syrup", Price: 120, Category: "Desserts", IsAvailable: true},
		{Name: "Masala Chai", Description: "Spiced Indian tea", Price: 60, Category: "Beverages", IsAvailable: true},
		{Name: "Fresh Lime Soda", Description: "Sweet and salty lime soda", Price: 80, Category: "Beverages", IsAvailable: true},
	}

	if err := db.Create(&items).Error; err != nil {
		return err
	}

	utils.InfoLogger.Printf("Seeded %d menu items", len(items))
	return nil
}
