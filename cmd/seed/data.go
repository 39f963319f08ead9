package main

import (
	"time"

	"grocery-pos/internal/model"

	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var sampleWarehouses = []model.Warehouse{
	{ID: "W001", Name: "Main Street Store", Code: "MAIN"},
	{ID: "W002", Name: "Riverside Store", Code: "RIVER"},
}

var sampleProducts = []model.Product{
	{ID: "P001", Name: "Gala Apple", SKU: "FRU-001", Barcode: ptr("4011"), SellingPrice: dec("2.99")},
	{ID: "P002", Name: "Banana", SKU: "FRU-002", Barcode: ptr("4012"), SellingPrice: dec("0.35")},
	{ID: "P003", Name: "Whole Milk 1L", SKU: "DAI-001", Barcode: ptr("8801001"), SellingPrice: dec("1.20"), TaxRate: ptr(dec("0"))},
	{ID: "P004", Name: "Cheddar 200g", SKU: "DAI-002", Barcode: ptr("8801002"), SellingPrice: dec("3.75"), TaxRate: ptr(dec("5"))},
	{ID: "P005", Name: "Jasmine Rice 1kg", SKU: "GRO-001", Barcode: ptr("8802001"), SellingPrice: dec("10.00"), TaxRate: ptr(dec("10"))},
	{ID: "P006", Name: "Olive Oil 500ml", SKU: "GRO-002", Barcode: ptr("8802002"), SellingPrice: dec("7.49"), TaxRate: ptr(dec("10"))},
	{ID: "P007", Name: "Sourdough Loaf", SKU: "BAK-001", Barcode: ptr("8803001"), SellingPrice: dec("4.50")},
	{ID: "P008", Name: "Sparkling Water 6pk", SKU: "BEV-001", Barcode: ptr("8804001"), SellingPrice: dec("5.99"), TaxRate: ptr(dec("12.5"))},
	{ID: "P009", Name: "Free Range Eggs 12", SKU: "DAI-003", Barcode: ptr("8801003"), SellingPrice: dec("4.99")},
	{ID: "P010", Name: "Loose Tomatoes", SKU: "VEG-001", SellingPrice: dec("1.80")},
}

var sampleCustomers = []model.Customer{
	{ID: "C001", FirstName: "Ana", LastName: "Ng", Phone: ptr("555-0101"), Email: ptr("ana.ng@example.com")},
	{ID: "C002", FirstName: "Tomas", LastName: "Berg", Phone: ptr("555-0102")},
	{ID: "C003", FirstName: "Priya", LastName: "Raman", Email: ptr("priya@example.com")},
}

// sampleCoupons returns coupon files keyed by file name. RETIRED is listed in
// both files so the later file's inactive row wins when both are loaded.
func sampleCoupons(now time.Time) map[string][]model.Coupon {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)
	lastYear := monthStart.AddDate(-1, 0, 0)

	return map[string][]model.Coupon{
		"weekly.gz": {
			{Code: "SAVE10", Name: "Ten percent off", DiscountType: model.CouponPercentage, DiscountValue: dec("10"), IsActive: true},
			{Code: "FIVEOFF", Name: "Five off a big shop", DiscountType: model.CouponFixedAmount, DiscountValue: dec("5"), MinimumAmount: ptr(dec("40")), IsActive: true},
			{Code: "MONTHLY", Name: "Monthly special", DiscountType: model.CouponPercentage, DiscountValue: dec("15"), MaximumDiscount: ptr(dec("6")), ValidFrom: monthStart, ValidUntil: &monthEnd, IsActive: true},
			{Code: "RETIRED", Name: "Old promotion", DiscountType: model.CouponFixedAmount, DiscountValue: dec("2"), IsActive: true},
		},
		"loyalty.gz": {
			{Code: "LOYAL20", Name: "Loyalty twenty", DiscountType: model.CouponPercentage, DiscountValue: dec("20"), MaximumDiscount: ptr(dec("10")), IsActive: true},
			{Code: "EXPIRED", Name: "Last year's sale", DiscountType: model.CouponPercentage, DiscountValue: dec("25"), ValidFrom: lastYear, ValidUntil: ptr(lastYear.AddDate(0, 1, 0)), IsActive: true},
			{Code: "RETIRED", Name: "Old promotion", DiscountType: model.CouponFixedAmount, DiscountValue: dec("2"), IsActive: false},
		},
	}
}
