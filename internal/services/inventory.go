package services

import (
	"context"
	"sort"
	"time"

	"github.com/agropure/agropure-api/internal/models"
	"gorm.io/gorm"
)

// InventoryRow is the per-material stock projection derived from purchases.
// Nothing is stored: levels are recomputed from the purchase log on each read.
type InventoryRow struct {
	MaterialID       uint      `json:"materialId"`
	MaterialName     string    `json:"materialName"`
	Unit             string    `json:"unit"`
	TotalQuantity    float64   `json:"totalQuantity"`
	AverageCost      float64   `json:"averageCost"`
	TotalValue       float64   `json:"totalValue"`
	LastPurchaseDate time.Time `json:"lastPurchaseDate"`
}

// InventoryService projects purchases into current material stock.
type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService { return &InventoryService{DB: db} }

func (s *InventoryService) Snapshot(ctx context.Context) ([]InventoryRow, error) {
	var purchases []models.Purchase
	if err := s.DB.WithContext(ctx).Preload("Material").Find(&purchases).Error; err != nil {
		return nil, err
	}
	byMaterial := map[uint]*InventoryRow{}
	for _, p := range purchases {
		row, ok := byMaterial[p.MaterialID]
		if !ok {
			row = &InventoryRow{
				MaterialID:   p.MaterialID,
				MaterialName: p.Material.Name,
				Unit:         p.Material.Unit,
			}
			byMaterial[p.MaterialID] = row
		}
		row.TotalQuantity += p.Quantity
		row.TotalValue += p.TotalCost
		if p.PurchaseDate.After(row.LastPurchaseDate) {
			row.LastPurchaseDate = p.PurchaseDate
		}
	}
	rows := make([]InventoryRow, 0, len(byMaterial))
	for _, row := range byMaterial {
		if row.TotalQuantity > 0 {
			row.AverageCost = row.TotalValue / row.TotalQuantity
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MaterialName < rows[j].MaterialName })
	return rows, nil
}
