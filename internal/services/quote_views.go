package services

import (
	"time"

	"github.com/agropure/agropure-api/internal/models"
)

// Read-side projections over a fully fetched quote list. Recomputed on every
// read; the collection is small enough that no caching is warranted.

// CountByStatus returns how many quotes currently hold status.
func CountByStatus(quotes []models.Quote, status models.QuoteStatus) int {
	n := 0
	for _, q := range quotes {
		if q.Status == status {
			n++
		}
	}
	return n
}

// TotalRevenue sums totals over quotes that produced (or will produce) money:
// Approved and Completed.
func TotalRevenue(quotes []models.Quote) float64 {
	var total float64
	for _, q := range quotes {
		if q.Status == models.QuoteStatusApproved || q.Status == models.QuoteStatusCompleted {
			total += q.TotalCost
		}
	}
	return total
}

// ExpiringWithin returns quotes whose expiry date falls within the next
// `days` days (quotes without an expiry are never included).
func ExpiringWithin(quotes []models.Quote, days int) []models.Quote {
	cutoff := time.Now().AddDate(0, 0, days)
	var out []models.Quote
	for _, q := range quotes {
		if q.ExpiryDate != nil && !q.ExpiryDate.After(cutoff) {
			out = append(out, q)
		}
	}
	return out
}

// ForUser filters quotes belonging to an authenticated customer. Public
// quotes carry no user and are never returned here.
func ForUser(quotes []models.Quote, userID uint) []models.Quote {
	var out []models.Quote
	for _, q := range quotes {
		if q.UserID != nil && *q.UserID == userID {
			out = append(out, q)
		}
	}
	return out
}
