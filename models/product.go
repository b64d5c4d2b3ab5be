package models

import (
	"context"

	"github.com/antqd/davveroo/database"
)

type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListActiveProducts returns the products offered on the purchase form.
func ListActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := database.Pool.Query(ctx,
		`SELECT id, name FROM products WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
