// Package ledger holds the referral-credit core: customer and referral
// creation, purchase-driven unlocking, credit computation and redemption.
// Every multi-write operation runs in one database transaction; the ledger
// keeps no state between calls.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antqd/davveroo/monitoring"
)

// PromisedCreditCents is the bonus promised per referral: €100.00.
const PromisedCreditCents int64 = 100_00

type Ledger struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// Euros converts integer cents to currency units with two decimals.
func Euros(cents int64) float64 {
	return float64(cents) / 100
}

type NewCustomer struct {
	FullName     string
	Email        *string
	Phone        *string
	AgentID      *int64
	RegisteredBy *int64
}

// CreateCustomer inserts a customer and, when a referrer is given, a
// pending referral promising the fixed credit. Agent defaults to the
// referrer's agent when not supplied. Everything happens in one
// transaction.
func (l *Ledger) CreateCustomer(ctx context.Context, in NewCustomer) (int64, error) {
	if in.FullName == "" {
		return 0, &ValidationError{Code: "full_name_required"}
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, persistence("begin", err)
	}
	defer tx.Rollback(ctx)

	agentID := in.AgentID
	if agentID != nil {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM agents WHERE id = $1)`, *agentID).Scan(&exists); err != nil {
			return 0, persistence("check agent", err)
		}
		if !exists {
			return 0, &InvalidReferenceError{Entity: "agent", ID: *agentID}
		}
	}

	if in.RegisteredBy != nil {
		var referrerAgent *int64
		err := tx.QueryRow(ctx,
			`SELECT agent_id FROM customers WHERE id = $1`, *in.RegisteredBy).Scan(&referrerAgent)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &InvalidReferenceError{Entity: "registered_by_customer", ID: *in.RegisteredBy}
		}
		if err != nil {
			return 0, persistence("check referrer", err)
		}
		if agentID == nil {
			agentID = referrerAgent
		}
	}

	var customerID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO customers (full_name, email, phone, agent_id, registered_by_customer_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		in.FullName, in.Email, in.Phone, agentID, in.RegisteredBy).Scan(&customerID)
	if err != nil {
		return 0, persistence("insert customer", err)
	}

	if in.RegisteredBy != nil {
		// A freshly inserted customer can't be referred already; checked
		// anyway so a retried request can't double up.
		var already bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM referrals WHERE referred_customer_id = $1)`,
			customerID).Scan(&already); err != nil {
			return 0, persistence("check referral", err)
		}
		if !already {
			_, err := tx.Exec(ctx,
				`INSERT INTO referrals (referrer_customer_id, referred_customer_id, agent_id, promised_credit_cents, status)
				 VALUES ($1, $2, $3, $4, 'pending')`,
				*in.RegisteredBy, customerID, agentID, PromisedCreditCents)
			if err != nil {
				return 0, persistence("insert referral", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, persistence("commit", err)
	}
	return customerID, nil
}

// CreateReferral is the invite-a-friend flow: creates a prospect customer
// for the friend plus a pending referral in one transaction. The agent
// defaults to the referrer's agent.
func (l *Ledger) CreateReferral(ctx context.Context, referrerID int64, friendName string, friendEmail *string, agentID *int64) (referralID, friendID int64, err error) {
	if referrerID == 0 || friendName == "" {
		return 0, 0, &ValidationError{Code: "referrer_customer_id_and_friend_full_name_required"}
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, 0, persistence("begin", err)
	}
	defer tx.Rollback(ctx)

	var referrerAgent *int64
	err = tx.QueryRow(ctx,
		`SELECT agent_id FROM customers WHERE id = $1`, referrerID).Scan(&referrerAgent)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, &InvalidReferenceError{Entity: "referrer_customer", ID: referrerID}
	}
	if err != nil {
		return 0, 0, persistence("check referrer", err)
	}
	if agentID == nil {
		agentID = referrerAgent
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO customers (full_name, email, status, agent_id, registered_by_customer_id)
		 VALUES ($1, $2, 'prospect', $3, $4) RETURNING id`,
		friendName, friendEmail, agentID, referrerID).Scan(&friendID)
	if err != nil {
		return 0, 0, persistence("insert friend", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO referrals (referrer_customer_id, referred_customer_id, agent_id, promised_credit_cents, status)
		 VALUES ($1, $2, $3, $4, 'pending') RETURNING id`,
		referrerID, friendID, agentID, PromisedCreditCents).Scan(&referralID)
	if err != nil {
		return 0, 0, persistence("insert referral", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, persistence("commit", err)
	}
	return referralID, friendID, nil
}

type NewPurchase struct {
	CustomerID  int64
	ProductID   int64
	Status      string
	Amount      *float64
	PurchasedAt *time.Time
}

// RecordPurchase inserts a purchase. When the purchase arrives active it
// unlocks the customer's most recent pending referral and marks the
// customer active. The unlock is a single conditional update checked by
// affected-row count, so two concurrent activations can't both claim the
// same referral.
func (l *Ledger) RecordPurchase(ctx context.Context, in NewPurchase) (int64, error) {
	if in.CustomerID == 0 || in.ProductID == 0 {
		return 0, &ValidationError{Code: "customer_id_and_product_id_required"}
	}
	status := in.Status
	if status == "" {
		status = "pending"
	}
	switch status {
	case "pending", "active", "cancelled":
	default:
		return 0, &ValidationError{Code: "invalid_status"}
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, persistence("begin", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, in.CustomerID).Scan(&exists); err != nil {
		return 0, persistence("check customer", err)
	}
	if !exists {
		return 0, &InvalidReferenceError{Entity: "customer", ID: in.CustomerID}
	}
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, in.ProductID).Scan(&exists); err != nil {
		return 0, persistence("check product", err)
	}
	if !exists {
		return 0, &InvalidReferenceError{Entity: "product", ID: in.ProductID}
	}

	var purchaseID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO purchases (customer_id, product_id, status, amount, purchased_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		in.CustomerID, in.ProductID, status, in.Amount, in.PurchasedAt).Scan(&purchaseID)
	if err != nil {
		return 0, persistence("insert purchase", err)
	}

	if status == "active" {
		// Highest id wins when a data anomaly left several pending
		// referrals for the same customer; the row lock plus the status
		// recheck make the unlock exactly-once under concurrency.
		tag, err := tx.Exec(ctx,
			`UPDATE referrals
			    SET status = 'unlocked', unlock_purchase_id = $1, unlocked_at = NOW()
			  WHERE id = (SELECT id FROM referrals
			               WHERE referred_customer_id = $2 AND status = 'pending'
			               ORDER BY id DESC LIMIT 1
			               FOR UPDATE)
			    AND status = 'pending'`,
			purchaseID, in.CustomerID)
		if err != nil {
			return 0, persistence("unlock referral", err)
		}
		if tag.RowsAffected() > 0 {
			monitoring.ReferralUnlocksTotal.Inc()
		}
		if _, err := tx.Exec(ctx,
			`UPDATE customers SET status = 'active' WHERE id = $1`, in.CustomerID); err != nil {
			return 0, persistence("activate customer", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, persistence("commit", err)
	}
	return purchaseID, nil
}

// CustomerCredit returns the net redeemable credit in currency units:
// promised cents over unlocked and redeemed referrals minus every
// redemption recorded against the customer's referrals.
func (l *Ledger) CustomerCredit(ctx context.Context, customerID int64) (float64, error) {
	var unlocked, redeemed int64
	err := l.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(promised_credit_cents), 0) FROM referrals
		  WHERE referrer_customer_id = $1 AND status IN ('unlocked', 'redeemed')`,
		customerID).Scan(&unlocked)
	if err != nil {
		return 0, persistence("sum unlocked", err)
	}
	err = l.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM redemptions
		  WHERE referral_id IN (SELECT id FROM referrals WHERE referrer_customer_id = $1)`,
		customerID).Scan(&redeemed)
	if err != nil {
		return 0, persistence("sum redeemed", err)
	}
	return Euros(unlocked - redeemed), nil
}

// RedeemCredit records a payout of amountCents against the customer's
// unlocked referrals, oldest first. The amount must not exceed the current
// net credit; a referral whose promised credit is fully consumed moves to
// redeemed. Returns the credit left after the payout.
func (l *Ledger) RedeemCredit(ctx context.Context, customerID, amountCents int64, method string) (float64, error) {
	if amountCents <= 0 {
		return 0, &ValidationError{Code: "invalid_amount"}
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, persistence("begin", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists); err != nil {
		return 0, persistence("check customer", err)
	}
	if !exists {
		return 0, &InvalidReferenceError{Entity: "customer", ID: customerID}
	}

	// Lock the customer's non-pending referrals so concurrent redemptions
	// serialize on the same credit.
	if _, err := tx.Exec(ctx,
		`SELECT id FROM referrals
		  WHERE referrer_customer_id = $1 AND status <> 'pending' FOR UPDATE`,
		customerID); err != nil {
		return 0, persistence("lock referrals", err)
	}

	type slot struct {
		id        int64
		remaining int64
	}
	rows, err := tx.Query(ctx,
		`SELECT r.id, r.promised_credit_cents - COALESCE(SUM(d.amount_cents), 0)
		   FROM referrals r
		   LEFT JOIN redemptions d ON d.referral_id = r.id
		  WHERE r.referrer_customer_id = $1 AND r.status IN ('unlocked', 'redeemed')
		  GROUP BY r.id, r.promised_credit_cents
		  ORDER BY r.id ASC`,
		customerID)
	if err != nil {
		return 0, persistence("load credit", err)
	}
	var slots []slot
	var available int64
	for rows.Next() {
		var s slot
		if err := rows.Scan(&s.id, &s.remaining); err != nil {
			rows.Close()
			return 0, persistence("load credit", err)
		}
		if s.remaining > 0 {
			slots = append(slots, s)
			available += s.remaining
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, persistence("load credit", err)
	}

	if amountCents > available {
		return 0, &ConflictError{Code: "insufficient_credit"}
	}

	left := amountCents
	for _, s := range slots {
		if left == 0 {
			break
		}
		take := s.remaining
		if left < take {
			take = left
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO redemptions (referral_id, amount_cents, method) VALUES ($1, $2, $3)`,
			s.id, take, method); err != nil {
			return 0, persistence("insert redemption", err)
		}
		if take == s.remaining {
			if _, err := tx.Exec(ctx,
				`UPDATE referrals SET status = 'redeemed', redeemed_at = NOW()
				  WHERE id = $1 AND status = 'unlocked'`, s.id); err != nil {
				return 0, persistence("mark redeemed", err)
			}
		}
		left -= take
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, persistence("commit", err)
	}
	monitoring.RedemptionsTotal.Inc()
	return Euros(available - amountCents), nil
}

// ReferralRow is one entry of a customer's referral list, annotated with
// the referred friend's name.
type ReferralRow struct {
	ID                  int64      `json:"id"`
	Status              string     `json:"status"`
	PromisedCreditCents int64      `json:"promised_credit_cents"`
	FriendName          *string    `json:"friend_name"`
	CreatedAt           time.Time  `json:"created_at"`
	UnlockedAt          *time.Time `json:"unlocked_at"`
	RedeemedAt          *time.Time `json:"redeemed_at"`
}

// ListCustomerReferrals returns the customer's referrals, newest first,
// capped at 100.
func (l *Ledger) ListCustomerReferrals(ctx context.Context, customerID int64) ([]ReferralRow, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT r.id, r.status, r.promised_credit_cents, c.full_name,
		        r.created_at, r.unlocked_at, r.redeemed_at
		   FROM referrals r
		   LEFT JOIN customers c ON c.id = r.referred_customer_id
		  WHERE r.referrer_customer_id = $1
		  ORDER BY r.id DESC LIMIT 100`,
		customerID)
	if err != nil {
		return nil, persistence("list referrals", err)
	}
	defer rows.Close()

	items := []ReferralRow{}
	for rows.Next() {
		var r ReferralRow
		if err := rows.Scan(&r.ID, &r.Status, &r.PromisedCreditCents, &r.FriendName,
			&r.CreatedAt, &r.UnlockedAt, &r.RedeemedAt); err != nil {
			return nil, persistence("list referrals", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list referrals", err)
	}
	return items, nil
}
