package models

import (
	"context"

	"github.com/antqd/davveroo/database"
)

type Agent struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

func ListAgents(ctx context.Context) ([]Agent, error) {
	rows, err := database.Pool.Query(ctx,
		`SELECT id, display_name FROM agents ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Agent{}
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.DisplayName); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
