package main

import (
	"time"

	"github.com/freshcart-shop/freshcart/internal/config"
	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	seedUsers(db, stdLog.Printf)
	categoryIDs := seedCategories(db, stdLog.Printf)
	seedProducts(db, categoryIDs, stdLog.Printf)
	seedAddresses(db, stdLog.Printf)
	seedCoupons(db, categoryIDs, stdLog.Printf)

	stdLog.Printf("Seed finished")
}

type printf func(format string, args ...interface{})

func seedUsers(db *gorm.DB, log printf) {
	users := []struct {
		email       string
		displayName string
		password    string
		isAdmin     bool
	}{
		{"admin@freshcart.test", "FreshCart Admin", "admin123456", true},
		{"asha@freshcart.test", "Asha Nair", "pass123456", false},
		{"rohan@freshcart.test", "Rohan Mehta", "pass123456", false},
	}

	for _, u := range users {
		var existing models.User
		err := db.Where("email = ?", u.email).First(&existing).Error
		if err == nil {
			log("User already exists: %s", u.email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log("Failed to hash password for %s: %v", u.email, err)
			continue
		}
		user := models.User{
			Email:        u.email,
			DisplayName:  u.displayName,
			PasswordHash: string(hash),
			IsAdmin:      u.isAdmin,
		}
		if err := db.Create(&user).Error; err != nil {
			log("Failed to create user %s: %v", u.email, err)
			continue
		}
		log("Created user: %s", u.email)
	}
}

func seedCategories(db *gorm.DB, log printf) map[string]uint {
	categories := []models.Category{
		{Slug: "fruits-vegetables", Name: "Fruits & Vegetables", SortOrder: 1},
		{Slug: "dairy-eggs", Name: "Dairy & Eggs", SortOrder: 2},
		{Slug: "snacks", Name: "Snacks", SortOrder: 3},
		{Slug: "beverages", Name: "Beverages", SortOrder: 4},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := db.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := db.Create(&cat).Error; err != nil {
				log("Failed to create category %s: %v", cat.Slug, err)
			} else {
				log("Created category: %s", cat.Slug)
			}
		} else {
			log("Category already exists: %s", cat.Slug)
		}
	}

	ids := map[string]uint{}
	var list []models.Category
	if err := db.Find(&list).Error; err != nil {
		log("Failed to load categories: %v", err)
		return ids
	}
	for _, cat := range list {
		ids[cat.Slug] = cat.ID
	}
	return ids
}

func seedProducts(db *gorm.DB, categoryIDs map[string]uint, log printf) {
	products := []struct {
		slug     string
		name     string
		category string
		price    string
		variants []models.ProductVariant
	}{
		{
			slug: "alphonso-mango", name: "Alphonso Mango", category: "fruits-vegetables", price: "120.00",
			variants: []models.ProductVariant{
				{Name: "500 g", SKU: "MAN-500", Price: money("120.00"), Stock: 80, IsActive: true},
				{Name: "1 kg", SKU: "MAN-1K", Price: money("230.00"), Stock: 50, IsActive: true},
			},
		},
		{
			slug: "farm-eggs", name: "Farm Eggs", category: "dairy-eggs", price: "90.00",
			variants: []models.ProductVariant{
				{Name: "6 pack", SKU: "EGG-6", Price: money("90.00"), Stock: 120, IsActive: true},
				{Name: "12 pack", SKU: "EGG-12", Price: money("170.00"), Stock: 90, IsActive: true},
			},
		},
		{
			slug: "masala-chips", name: "Masala Chips", category: "snacks", price: "45.00",
		},
		{
			slug: "cold-brew-coffee", name: "Cold Brew Coffee", category: "beverages", price: "150.00",
		},
	}

	for _, p := range products {
		var existing models.Product
		if err := db.Where("slug = ?", p.slug).First(&existing).Error; err == nil {
			log("Product already exists: %s", p.slug)
			continue
		}
		product := models.Product{
			CategoryID: categoryIDs[p.category],
			Slug:       p.slug,
			Name:       p.name,
			Price:      money(p.price),
			IsActive:   true,
		}
		if err := db.Create(&product).Error; err != nil {
			log("Failed to create product %s: %v", p.slug, err)
			continue
		}
		for _, variant := range p.variants {
			variant.ProductID = product.ID
			if err := db.Create(&variant).Error; err != nil {
				log("Failed to create variant %s: %v", variant.SKU, err)
			}
		}
		log("Created product: %s", p.slug)
	}
}

func seedAddresses(db *gorm.DB, log printf) {
	var user models.User
	if err := db.Where("email = ?", "asha@freshcart.test").First(&user).Error; err != nil {
		log("Skipping addresses, demo user missing: %v", err)
		return
	}

	var count int64
	db.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&count)
	if count > 0 {
		log("Addresses already exist for %s", user.Email)
		return
	}

	address := models.Address{
		UserID:     user.ID,
		Label:      "Home",
		Line1:      "14 Lakeview Residency",
		Line2:      "HSR Layout",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560102",
		Phone:      "+91-9800000001",
		IsDefault:  true,
	}
	if err := db.Create(&address).Error; err != nil {
		log("Failed to create address: %v", err)
		return
	}
	log("Created address for %s", user.Email)
}

func seedCoupons(db *gorm.DB, categoryIDs map[string]uint, log printf) {
	validUntil := time.Now().AddDate(0, 1, 0)
	coupons := []models.Coupon{
		{
			Code:           "WELCOME10",
			Description:    "10% off your first month of orders",
			DiscountType:   constants.CouponTypePercentage,
			DiscountValue:  money("10"),
			MinOrderAmount: money("200"),
			MaxDiscount:    money("100"),
			UsageLimit:     1000,
			PerUserLimit:   1,
			ValidUntil:     &validUntil,
			Status:         constants.CouponStatusActive,
			IsActive:       true,
		},
		{
			Code:           "FLAT50",
			Description:    "Flat 50 off on orders above 400",
			DiscountType:   constants.CouponTypeFixedAmount,
			DiscountValue:  money("50"),
			MinOrderAmount: money("400"),
			UsageLimit:     500,
			PerUserLimit:   3,
			ValidUntil:     &validUntil,
			Status:         constants.CouponStatusActive,
			IsActive:       true,
		},
		{
			Code:           "FREESHIP",
			Description:    "Free delivery on snacks and beverages",
			DiscountType:   constants.CouponTypeFreeShipping,
			MinOrderAmount: money("150"),
			CategoryIDs:    models.UintArray{categoryIDs["snacks"], categoryIDs["beverages"]},
			UsageLimit:     2000,
			PerUserLimit:   5,
			ValidUntil:     &validUntil,
			Status:         constants.CouponStatusActive,
			IsActive:       true,
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := db.Where("code = ?", coupon.Code).First(&existing).Error; err == nil {
			log("Coupon already exists: %s", coupon.Code)
			continue
		}
		if err := db.Create(&coupon).Error; err != nil {
			log("Failed to create coupon %s: %v", coupon.Code, err)
			continue
		}
		log("Created coupon: %s", coupon.Code)
	}
}

func money(value string) models.Money {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return models.Money{}
	}
	return models.NewMoneyFromDecimal(amount)
}
