package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agropure/agropure-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Quote lifecycle errors.
var (
	ErrInvalidTransition = errors.New("invalid quote state transition")
	ErrNotPublicQuote    = errors.New("quote was not submitted publicly")
	ErrProductInactive   = errors.New("product is not available for quoting")
	ErrEmailTaken        = errors.New("email already registered")
)

// QuoteValidity is how long a freshly created quote stays open.
const QuoteValidity = 30 * 24 * time.Hour

// quoteTransitions is the full transition table. Pending quotes await an admin
// decision; only approved quotes can be converted (Completed, via sale
// conversion). Rejected and Completed are terminal.
var quoteTransitions = map[models.QuoteStatus][]models.QuoteStatus{
	models.QuoteStatusPending:  {models.QuoteStatusApproved, models.QuoteStatusRejected},
	models.QuoteStatusApproved: {models.QuoteStatusCompleted},
}

// CanTransition reports whether a quote may move from one status to another.
func CanTransition(from, to models.QuoteStatus) bool {
	for _, allowed := range quoteTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// QuoteService owns quote creation and the status state machine. Every status
// change goes through a guarded conditional update so concurrent admin
// decisions cannot double-apply; the database is the arbiter.
type QuoteService struct {
	DB      *gorm.DB
	Pricing *PricingService
}

func NewQuoteService(db *gorm.DB, pricing *PricingService) *QuoteService {
	return &QuoteService{DB: db, Pricing: pricing}
}

type CreateQuoteInput struct {
	ProductID uint
	Quantity  int
	Notes     string
}

type CreatePublicQuoteInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerCompany string
	CustomerAddress string
	ProductID       uint
	Quantity        int
	Notes           string
}

// Create submits a quote on behalf of an authenticated customer. Customer
// identity fields are snapshotted from the account.
func (s *QuoteService) Create(ctx context.Context, user *models.User, in CreateQuoteInput) (*models.Quote, error) {
	q, err := s.buildQuote(ctx, in.ProductID, in.Quantity, in.Notes)
	if err != nil {
		return nil, err
	}
	q.UserID = &user.ID
	q.CustomerName = strings.TrimSpace(user.FirstName + " " + user.LastName)
	q.CustomerEmail = user.Email
	if err := s.DB.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// CreatePublic submits a quote for a non-authenticated visitor. The contact
// snapshot comes from the form; IsPublicQuote gates the later
// approve-and-create-user flow.
func (s *QuoteService) CreatePublic(ctx context.Context, in CreatePublicQuoteInput) (*models.Quote, error) {
	q, err := s.buildQuote(ctx, in.ProductID, in.Quantity, in.Notes)
	if err != nil {
		return nil, err
	}
	q.IsPublicQuote = true
	q.CustomerName = in.CustomerName
	q.CustomerEmail = in.CustomerEmail
	q.CustomerPhone = in.CustomerPhone
	q.CustomerCompany = in.CustomerCompany
	q.CustomerAddress = in.CustomerAddress
	if err := s.DB.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// buildQuote loads the product and snapshots name + pricing at submission
// time. Pricing is computed here, never taken from the caller.
func (s *QuoteService) buildQuote(ctx context.Context, productID uint, quantity int, notes string) (*models.Quote, error) {
	var product models.Product
	if err := s.DB.WithContext(ctx).First(&product, productID).Error; err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}
	price, err := s.Pricing.Calculate(product.BasePrice, quantity)
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(QuoteValidity)
	return &models.Quote{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   price.UnitPrice,
		Discount:    price.Discount,
		TotalCost:   price.TotalCost,
		Status:      models.QuoteStatusPending,
		Notes:       notes,
		ExpiryDate:  &expiry,
	}, nil
}

// Get loads one quote.
func (s *QuoteService) Get(ctx context.Context, id uint) (*models.Quote, error) {
	var q models.Quote
	if err := s.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateStatus applies an admin decision (Approved or Rejected) to a pending
// quote. The update is conditional on the current status so a quote can never
// leave a terminal state or be decided twice.
func (s *QuoteService) UpdateStatus(ctx context.Context, id uint, to models.QuoteStatus, adminNotes string) (*models.Quote, error) {
	if to != models.QuoteStatusApproved && to != models.QuoteStatusRejected {
		return nil, ErrInvalidTransition
	}
	var q models.Quote
	if err := s.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	if !CanTransition(q.Status, to) {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	updates := map[string]any{"status": to, "response_date": &now}
	if adminNotes != "" {
		updates["admin_notes"] = adminNotes
	}
	res := s.DB.WithContext(ctx).Model(&models.Quote{}).
		Where("id = ? AND status = ?", id, models.QuoteStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race with another decision.
		return nil, ErrInvalidTransition
	}
	if err := s.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// ApproveAndCreateUser approves a pending public quote and provisions a
// customer account for its contact email, as one transaction: if either half
// fails nothing is persisted, so account creation stays exactly-once.
// The generated password is random; the customer resets it out of band.
func (s *QuoteService) ApproveAndCreateUser(ctx context.Context, id uint) (*models.Quote, *models.User, error) {
	var q models.Quote
	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&q, id).Error; err != nil {
			return err
		}
		if !q.IsPublicQuote {
			return ErrNotPublicQuote
		}
		if !CanTransition(q.Status, models.QuoteStatusApproved) {
			return ErrInvalidTransition
		}
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", q.CustomerEmail).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		first, last := splitName(q.CustomerName)
		user = models.User{
			FirstName: first, LastName: last,
			Email: q.CustomerEmail, Password: string(hash),
			Role: models.RoleCustomer, IsActive: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		now := time.Now()
		res := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", id, models.QuoteStatusPending).
			Updates(map[string]any{"status": models.QuoteStatusApproved, "response_date": &now, "user_id": user.ID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return tx.First(&q, id).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &q, &user, nil
}

// Delete removes a quote outright (admin cleanup, not a lifecycle state).
func (s *QuoteService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Quote{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "Cliente", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
