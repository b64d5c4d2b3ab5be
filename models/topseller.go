package models

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/antqd/davveroo/database"
)

// TopSellerEntry is one row of the monthly leaderboard snapshot the admin
// page saves wholesale.
type TopSellerEntry struct {
	ID        int64   `json:"id,omitempty"`
	MonthKey  string  `json:"month,omitempty"`
	AgentID   *int64  `json:"agent_id"`
	AgentName string  `json:"label"`
	Value     float64 `json:"value"`
}

// MonthKey formats t as YYYY-MM, the leaderboard's snapshot key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// CleanTopSellerEntries drops entries with a blank name or a non-finite
// value, trimming names as it goes.
func CleanTopSellerEntries(items []TopSellerEntry) []TopSellerEntry {
	cleaned := []TopSellerEntry{}
	for _, it := range items {
		name := strings.TrimSpace(it.AgentName)
		if name == "" || math.IsNaN(it.Value) || math.IsInf(it.Value, 0) {
			continue
		}
		it.AgentName = name
		cleaned = append(cleaned, it)
	}
	return cleaned
}

// ListTopSellers returns the snapshot for one month, highest value first.
func ListTopSellers(ctx context.Context, monthKey string) ([]TopSellerEntry, error) {
	rows, err := database.Pool.Query(ctx,
		`SELECT id, agent_id, agent_name, value, month_key
		 FROM top_sellers WHERE month_key = $1 ORDER BY value DESC`, monthKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []TopSellerEntry{}
	for rows.Next() {
		var e TopSellerEntry
		if err := rows.Scan(&e.ID, &e.AgentID, &e.AgentName, &e.Value, &e.MonthKey); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// ReplaceTopSellers swaps the whole snapshot for a month in one
// transaction: delete-then-insert, matching the admin form's save-all
// semantics.
func ReplaceTopSellers(ctx context.Context, monthKey string, items []TopSellerEntry) error {
	tx, err := database.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM top_sellers WHERE month_key = $1`, monthKey); err != nil {
		return err
	}
	for _, it := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO top_sellers (month_key, agent_id, agent_name, value) VALUES ($1, $2, $3, $4)`,
			monthKey, it.AgentID, it.AgentName, it.Value)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
