package ledger

import "context"

// DashboardRow is one customer line of the seller/admin board: who brought
// them in, the owning agent, the products from active purchases, and the
// unlocked (not netted) credit. Display-only; net credit comes from
// CustomerCredit.
type DashboardRow struct {
	CustomerID     int64   `json:"id"`
	Customer       string  `json:"customer"`
	ReferredBy     *string `json:"referred_by"`
	Agent          *string `json:"agent"`
	ActiveProducts *string `json:"active_products"`
	FriendsAdded   int64   `json:"friends_added"`
	CreditEur      float64 `json:"credit_eur"`
}

// Dashboard aggregates the most recent 200 customers, optionally filtered
// to one agent. Sellers get their own agent forced by the handler; admins
// pass nil for the unfiltered board.
func (l *Ledger) Dashboard(ctx context.Context, agentID *int64) ([]DashboardRow, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT c.id, c.full_name,
		        rb.full_name,
		        a.display_name,
		        (SELECT STRING_AGG(DISTINCT p2.name, ', ' ORDER BY p2.name)
		           FROM purchases pu2
		           JOIN products p2 ON p2.id = pu2.product_id
		          WHERE pu2.customer_id = c.id AND pu2.status = 'active'),
		        (SELECT COUNT(*) FROM referrals r WHERE r.referrer_customer_id = c.id),
		        (SELECT COALESCE(SUM(r.promised_credit_cents), 0)
		           FROM referrals r
		          WHERE r.referrer_customer_id = c.id AND r.status = 'unlocked')
		   FROM customers c
		   LEFT JOIN customers rb ON rb.id = c.registered_by_customer_id
		   LEFT JOIN agents a ON a.id = c.agent_id
		  WHERE $1::BIGINT IS NULL OR c.agent_id = $1
		  ORDER BY c.created_at DESC LIMIT 200`,
		agentID)
	if err != nil {
		return nil, persistence("dashboard", err)
	}
	defer rows.Close()

	items := []DashboardRow{}
	for rows.Next() {
		var (
			row         DashboardRow
			creditCents int64
		)
		if err := rows.Scan(&row.CustomerID, &row.Customer, &row.ReferredBy, &row.Agent,
			&row.ActiveProducts, &row.FriendsAdded, &creditCents); err != nil {
			return nil, persistence("dashboard", err)
		}
		row.CreditEur = Euros(creditCents)
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("dashboard", err)
	}
	return items, nil
}
