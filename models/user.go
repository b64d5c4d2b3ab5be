package models

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/antqd/davveroo/database"
)

// AllowedRoles is the closed role set. Anything outside it is dropped at
// registration.
var AllowedRoles = []string{"customer", "seller", "admin"}

type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Roles      []string  `json:"roles"`
	CustomerID *int64    `json:"customer_id"`
	AgentID    *int64    `json:"agent_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NormalizeRoles filters the requested roles down to the allowed set and
// falls back to customer when nothing survives.
func NormalizeRoles(requested []string) []string {
	var roles []string
	for _, r := range requested {
		for _, a := range AllowedRoles {
			if r == a {
				roles = append(roles, r)
				break
			}
		}
	}
	if len(roles) == 0 {
		roles = []string{"customer"}
	}
	return roles
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func CreateUser(ctx context.Context, name, email, password string, roles []string, customerID, agentID *int64) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user User
	query := `INSERT INTO users (name, email, password_hash, roles, customer_id, agent_id)
	  VALUES ($1, $2, $3, $4, $5, $6)
	  RETURNING id, name, email, roles, customer_id, agent_id, created_at, updated_at`
	err = database.Pool.QueryRow(ctx, query, name, email, hash, roles, customerID, agentID).Scan(
		&user.ID, &user.Name, &user.Email, &user.Roles,
		&user.CustomerID, &user.AgentID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, name, email, password_hash, roles, customer_id, agent_id, created_at, updated_at
	  FROM users WHERE email = $1`
	err := database.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Roles,
		&user.CustomerID, &user.AgentID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `SELECT id, name, email, roles, customer_id, agent_id, created_at, updated_at
	  FROM users WHERE id = $1`
	err := database.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Roles,
		&user.CustomerID, &user.AgentID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether a user already registered with the email.
func EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := database.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}
