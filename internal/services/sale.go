package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agropure/agropure-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrQuoteNotApproved = errors.New("only approved quotes can be converted to sales")

// SaleService converts approved quotes into sale records and serves sale reads.
type SaleService struct {
	DB *gorm.DB
}

func NewSaleService(db *gorm.DB) *SaleService { return &SaleService{DB: db} }

// CreateFromQuote converts an approved quote into a sale. One transaction
// moves the quote to Completed (guarded on its current status, so the same
// quote can't be converted twice) and inserts the sale referencing it.
// The quote itself is kept.
func (s *SaleService) CreateFromQuote(ctx context.Context, quoteID uint) (*models.Sale, error) {
	var sale models.Sale
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q models.Quote
		if err := tx.First(&q, quoteID).Error; err != nil {
			return err
		}
		if !CanTransition(q.Status, models.QuoteStatusCompleted) {
			return ErrQuoteNotApproved
		}
		res := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", quoteID, models.QuoteStatusApproved).
			Update("status", models.QuoteStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuoteNotApproved
		}
		sale = models.Sale{
			UserID:       q.UserID,
			QuoteID:      &q.ID,
			ProductID:    q.ProductID,
			OrderNumber:  NewOrderNumber("ORD"),
			CustomerName: q.CustomerName,
			ProductName:  q.ProductName,
			Quantity:     q.Quantity,
			UnitPrice:    q.UnitPrice,
			TotalAmount:  q.TotalCost,
			Status:       "Confirmed",
			SaleDate:     time.Now(),
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// NewOrderNumber builds a short human-readable document number,
// e.g. ORD-20260831-1A2B3C.
func NewOrderNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + "-" + time.Now().Format("20060102") + "-" + suffix
}
