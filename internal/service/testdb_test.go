package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/freshcart-shop/freshcart/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func testMoney(t *testing.T, value string) models.Money {
	t.Helper()
	amount, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", value, err)
	}
	return models.NewMoneyFromDecimal(amount)
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:     userID,
		Line1:      "12 Market Street",
		City:       "Bengaluru",
		PostalCode: "560001",
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

func createTestProduct(t *testing.T, db *gorm.DB, slug, price string) *models.Product {
	t.Helper()
	category := &models.Category{Slug: slug + "-cat", Name: "Category " + slug}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := &models.Product{
		CategoryID: category.ID,
		Slug:       slug,
		Name:       "Product " + slug,
		Price:      testMoney(t, price),
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func addToTestCart(t *testing.T, db *gorm.DB, userID, productID uint, quantity int) {
	t.Helper()
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
}
