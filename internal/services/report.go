package services

import (
	"context"
	"sort"
	"time"

	"github.com/agropure/agropure-api/internal/models"
	"gorm.io/gorm"
)

// DashboardStats is the admin landing page payload.
type DashboardStats struct {
	TotalUsers     int64          `json:"totalUsers"`
	TotalProducts  int64          `json:"totalProducts"`
	TotalQuotes    int64          `json:"totalQuotes"`
	PendingQuotes  int            `json:"pendingQuotes"`
	RecentQuotes   []models.Quote `json:"recentQuotes"`
	MonthlyRevenue float64        `json:"monthlyRevenue"`
	TopProducts    []ProductStat  `json:"topProducts"`
}

type ProductStat struct {
	ProductName  string  `json:"productName"`
	QuotesCount  int     `json:"quotesCount"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// SalesReport aggregates confirmed sales for the reporting screens.
type SalesReport struct {
	TotalRevenue      float64         `json:"totalRevenue"`
	TotalSales        int             `json:"totalSales"`
	AverageOrderValue float64         `json:"averageOrderValue"`
	MonthlySales      []MonthlySales  `json:"monthlySales"`
	TopProducts       []ProductSales  `json:"topProducts"`
	TopCustomers      []CustomerSales `json:"topCustomers"`
}

type MonthlySales struct {
	Month       string  `json:"month"`
	Year        int     `json:"year"`
	Revenue     float64 `json:"revenue"`
	OrdersCount int     `json:"ordersCount"`
}

type ProductSales struct {
	ProductName string  `json:"productName"`
	UnitsSold   int     `json:"unitsSold"`
	Revenue     float64 `json:"revenue"`
}

type CustomerSales struct {
	CustomerName string  `json:"customerName"`
	OrdersCount  int     `json:"ordersCount"`
	TotalSpent   float64 `json:"totalSpent"`
}

// ReportService computes dashboard and sales aggregates. Collections are
// small (fully fetched, no pagination on the client), so grouping happens
// in memory rather than in SQL.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{DB: db} }

func (s *ReportService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := s.DB.WithContext(ctx)
	db.Model(&models.User{}).Count(&stats.TotalUsers)
	db.Model(&models.Product{}).Count(&stats.TotalProducts)
	db.Model(&models.Quote{}).Count(&stats.TotalQuotes)

	var quotes []models.Quote
	if err := db.Order("id desc").Find(&quotes).Error; err != nil {
		return nil, err
	}
	stats.PendingQuotes = CountByStatus(quotes, models.QuoteStatusPending)
	if len(quotes) > 5 {
		stats.RecentQuotes = quotes[:5]
	} else {
		stats.RecentQuotes = quotes
	}

	monthStart := time.Now().AddDate(0, 0, -30)
	byProduct := map[string]*ProductStat{}
	for _, q := range quotes {
		if st, ok := byProduct[q.ProductName]; ok {
			st.QuotesCount++
		} else {
			byProduct[q.ProductName] = &ProductStat{ProductName: q.ProductName, QuotesCount: 1}
		}
		if q.Status == models.QuoteStatusApproved || q.Status == models.QuoteStatusCompleted {
			byProduct[q.ProductName].TotalRevenue += q.TotalCost
			if q.CreatedAt.After(monthStart) {
				stats.MonthlyRevenue += q.TotalCost
			}
		}
	}
	for _, st := range byProduct {
		stats.TopProducts = append(stats.TopProducts, *st)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		return stats.TopProducts[i].TotalRevenue > stats.TopProducts[j].TotalRevenue
	})
	if len(stats.TopProducts) > 5 {
		stats.TopProducts = stats.TopProducts[:5]
	}
	return stats, nil
}

// Sales builds the sales report, optionally bounded by [start, end].
func (s *ReportService) Sales(ctx context.Context, start, end *time.Time) (*SalesReport, error) {
	q := s.DB.WithContext(ctx).Model(&models.Sale{})
	if start != nil {
		q = q.Where("sale_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("sale_date <= ?", *end)
	}
	var sales []models.Sale
	if err := q.Order("sale_date asc").Find(&sales).Error; err != nil {
		return nil, err
	}

	report := &SalesReport{TotalSales: len(sales)}
	type monthKey struct {
		year  int
		month time.Month
	}
	months := map[monthKey]*MonthlySales{}
	products := map[string]*ProductSales{}
	customers := map[string]*CustomerSales{}
	var monthOrder []monthKey

	for _, sale := range sales {
		report.TotalRevenue += sale.TotalAmount

		mk := monthKey{sale.SaleDate.Year(), sale.SaleDate.Month()}
		if _, ok := months[mk]; !ok {
			months[mk] = &MonthlySales{Month: sale.SaleDate.Month().String(), Year: mk.year}
			monthOrder = append(monthOrder, mk)
		}
		months[mk].Revenue += sale.TotalAmount
		months[mk].OrdersCount++

		if _, ok := products[sale.ProductName]; !ok {
			products[sale.ProductName] = &ProductSales{ProductName: sale.ProductName}
		}
		products[sale.ProductName].UnitsSold += sale.Quantity
		products[sale.ProductName].Revenue += sale.TotalAmount

		if _, ok := customers[sale.CustomerName]; !ok {
			customers[sale.CustomerName] = &CustomerSales{CustomerName: sale.CustomerName}
		}
		customers[sale.CustomerName].OrdersCount++
		customers[sale.CustomerName].TotalSpent += sale.TotalAmount
	}
	if report.TotalSales > 0 {
		report.AverageOrderValue = report.TotalRevenue / float64(report.TotalSales)
	}
	for _, mk := range monthOrder {
		report.MonthlySales = append(report.MonthlySales, *months[mk])
	}
	for _, p := range products {
		report.TopProducts = append(report.TopProducts, *p)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Revenue > report.TopProducts[j].Revenue
	})
	for _, c := range customers {
		report.TopCustomers = append(report.TopCustomers, *c)
	}
	sort.Slice(report.TopCustomers, func(i, j int) bool {
		return report.TopCustomers[i].TotalSpent > report.TopCustomers[j].TotalSpent
	})
	return report, nil
}
