package inventory

import "github.com/georgemunganga/storefront-backend/internal/modules/catalog"

// LowStockThreshold is the stock level below which an in-stock product is
// flagged for restocking.
const LowStockThreshold = 10

// MaxStockDelta bounds a single stock adjustment in either direction.
const MaxStockDelta = 1_000_000

// maxLowStockListed caps Summary.LowStockProducts.
const maxLowStockListed = 5

// StockAdjustment is the body of PATCH /api/inventory/products/{id}/stock.
type StockAdjustment struct {
	Delta *int `json:"delta"`
}

// Summary is the admin dashboard view of catalog stock.
type Summary struct {
	TotalProducts    int                `json:"totalProducts"`
	ActiveProducts   int                `json:"activeProducts"`
	OutOfStock       int                `json:"outOfStock"`
	LowStock         int                `json:"lowStock"`
	LowStockProducts []*catalog.Product `json:"lowStockProducts"`
}

// StockLevel classifies a stock count for display.
type StockLevel string

const (
	LevelOutOfStock StockLevel = "out_of_stock"
	LevelLow        StockLevel = "low"
	LevelOK         StockLevel = "ok"
)

// LevelOf returns the stock level for a product with the given stock.
func LevelOf(stock int) StockLevel {
	switch {
	case stock <= 0:
		return LevelOutOfStock
	case stock < LowStockThreshold:
		return LevelLow
	default:
		return LevelOK
	}
}
