package models

import "time"

type Product struct {
	ProductID     string    `json:"product_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ImageURL      string    `json:"image_url"`
	StockQuantity int64     `json:"stock_quantity"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductSnapshot is the catalog view used for display and pricing.
type ProductSnapshot struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"image_url"`
	StockQuantity int64   `json:"stock_quantity"`
}

func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Price:         p.Price,
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
	}
}

type ProductLookupRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=200,dive,required"`
}

type ProductLookupResponse struct {
	Products []ProductSnapshot `json:"products"`
}
