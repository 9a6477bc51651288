package services

import (
	"context"
	"testing"
	"time"

	"github.com/agropure/agropure-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSale(t *testing.T, db *gorm.DB, customer, product string, qty int, amount float64, when time.Time) {
	t.Helper()
	s := models.Sale{
		ProductID:    1,
		OrderNumber:  NewOrderNumber("ORD"),
		CustomerName: customer,
		ProductName:  product,
		Quantity:     qty,
		UnitPrice:    amount / float64(qty),
		TotalAmount:  amount,
		Status:       "Confirmed",
		SaleDate:     when,
	}
	require.NoError(t, db.Create(&s).Error)
}

func TestSalesReportAggregation(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)
	seedSale(t, db, "Acme", "Osmosis", 2, 200, jan)
	seedSale(t, db, "Acme", "Softener", 1, 300, feb)
	seedSale(t, db, "Globex", "Osmosis", 4, 400, feb)

	report, err := svc.Sales(ctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 3, report.TotalSales)
	require.InDelta(t, 900.0, report.TotalRevenue, 0.001)
	require.InDelta(t, 300.0, report.AverageOrderValue, 0.001)

	require.Len(t, report.MonthlySales, 2)
	require.Equal(t, "January", report.MonthlySales[0].Month)
	require.InDelta(t, 200.0, report.MonthlySales[0].Revenue, 0.001)
	require.Equal(t, 2, report.MonthlySales[1].OrdersCount)

	// Osmosis leads products (600), Acme leads customers (500).
	require.Equal(t, "Osmosis", report.TopProducts[0].ProductName)
	require.Equal(t, 6, report.TopProducts[0].UnitsSold)
	require.Equal(t, "Acme", report.TopCustomers[0].CustomerName)
	require.InDelta(t, 500.0, report.TopCustomers[0].TotalSpent, 0.001)

	// Bounded to February only.
	report, err = svc.Sales(ctx, &feb, nil)
	require.NoError(t, err)
	require.Equal(t, 2, report.TotalSales)
}

func TestDashboardStats(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	product := seedProduct(t, db, 100)
	user := seedCustomer(t, db)
	qsvc := NewQuoteService(db, NewPricingService())

	for _, qty := range []int{1, 5, 10} {
		_, err := qsvc.Create(ctx, &user, CreateQuoteInput{ProductID: product.ID, Quantity: qty})
		require.NoError(t, err)
	}
	// Approve one so revenue is non-zero.
	_, err := qsvc.UpdateStatus(ctx, 3, models.QuoteStatusApproved, "")
	require.NoError(t, err)

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalUsers)
	require.EqualValues(t, 1, stats.TotalProducts)
	require.EqualValues(t, 3, stats.TotalQuotes)
	require.Equal(t, 2, stats.PendingQuotes)
	require.Len(t, stats.RecentQuotes, 3)
	require.InDelta(t, 850.0, stats.MonthlyRevenue, 0.001)
	require.Len(t, stats.TopProducts, 1)
	require.Equal(t, 3, stats.TopProducts[0].QuotesCount)
}

func TestInventorySnapshot(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	supplier := models.Supplier{Name: "FiltroMax", IsActive: true}
	require.NoError(t, db.Create(&supplier).Error)
	carbon := models.Material{Name: "Carbón activado", Unit: "kg", UnitCost: 100, SupplierID: supplier.ID, IsActive: true}
	resin := models.Material{Name: "Resina", Unit: "kg", UnitCost: 90, SupplierID: supplier.ID, IsActive: true}
	require.NoError(t, db.Create(&carbon).Error)
	require.NoError(t, db.Create(&resin).Error)

	mkPurchase := func(m models.Material, qty, unitCost float64, when time.Time) {
		p := models.Purchase{
			SupplierID: supplier.ID, MaterialID: m.ID,
			PurchaseNumber: NewOrderNumber("PUR"),
			Quantity:       qty, UnitCost: unitCost, TotalCost: qty * unitCost,
			Status: "Received", PurchaseDate: when,
		}
		require.NoError(t, db.Create(&p).Error)
	}
	early := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	mkPurchase(carbon, 10, 100, early)
	mkPurchase(carbon, 10, 120, late)
	mkPurchase(resin, 5, 90, early)

	rows, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by material name: Carbón before Resina.
	require.Equal(t, carbon.ID, rows[0].MaterialID)
	require.InDelta(t, 20.0, rows[0].TotalQuantity, 0.001)
	require.InDelta(t, 110.0, rows[0].AverageCost, 0.001)
	require.InDelta(t, 2200.0, rows[0].TotalValue, 0.001)
	require.Equal(t, late, rows[0].LastPurchaseDate.UTC())

	require.Equal(t, resin.ID, rows[1].MaterialID)
	require.InDelta(t, 450.0, rows[1].TotalValue, 0.001)
}
