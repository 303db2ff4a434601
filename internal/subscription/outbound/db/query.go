package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type SubscriptionRow struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Status       string
	SubscribedAt time.Time
}

const getSubscriptionByEmail = `SELECT id, email, name, status, subscribed_at
FROM subscriptions
WHERE email = $1`

func (q *Queries) GetSubscriptionByEmail(ctx context.Context, email valueobject.Email) (SubscriptionRow, error) {
	var row SubscriptionRow
	err := q.db.QueryRow(ctx, getSubscriptionByEmail, email).Scan(
		&row.ID,
		&row.Email,
		&row.Name,
		&row.Status,
		&row.SubscribedAt,
	)
	return row, err
}

const getSubscriberIDByTokenHash = `SELECT subscriber_id
FROM subscription_tokens
WHERE token_hash = $1`

func (q *Queries) GetSubscriberIDByTokenHash(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, getSubscriberIDByTokenHash, tokenHash).Scan(&id)
	return id, err
}

type CreateSubscriptionParams struct {
	ID           uuid.UUID
	Email        valueobject.Email
	Name         string
	Status       string
	SubscribedAt time.Time
}

const createSubscription = `INSERT INTO subscriptions (id, email, name, status, subscribed_at)
VALUES ($1, $2, $3, $4, $5)`

func (q *Queries) CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) error {
	_, err := q.db.Exec(ctx, createSubscription,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.Status,
		arg.SubscribedAt,
	)
	return err
}

type CreateSubscriptionTokenParams struct {
	TokenHash    string
	SubscriberID uuid.UUID
	CreatedAt    time.Time
}

const createSubscriptionToken = `INSERT INTO subscription_tokens (token_hash, subscriber_id, created_at)
VALUES ($1, $2, $3)`

func (q *Queries) CreateSubscriptionToken(ctx context.Context, arg CreateSubscriptionTokenParams) error {
	_, err := q.db.Exec(ctx, createSubscriptionToken, arg.TokenHash, arg.SubscriberID, arg.CreatedAt)
	return err
}

const updateSubscriptionStatus = `UPDATE subscriptions
SET status = $2
WHERE id = $1`

func (q *Queries) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	tag, err := q.db.Exec(ctx, updateSubscriptionStatus, id, status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
