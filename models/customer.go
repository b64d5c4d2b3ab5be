package models

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/antqd/davveroo/database"
)

type CustomerSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// SearchCustomers matches name, email or phone, newest first. An empty
// query returns the most recent customers.
func SearchCustomers(ctx context.Context, q string) ([]CustomerSummary, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if q != "" {
		like := "%" + q + "%"
		rows, err = database.Pool.Query(ctx,
			`SELECT id, full_name FROM customers
			 WHERE full_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1
			 ORDER BY created_at DESC LIMIT 50`, like)
	} else {
		rows, err = database.Pool.Query(ctx,
			`SELECT id, full_name FROM customers ORDER BY created_at DESC LIMIT 50`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []CustomerSummary{}
	for rows.Next() {
		var c CustomerSummary
		if err := rows.Scan(&c.ID, &c.FullName); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
