package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

// DefaultFreeQuota is the memory quota granted to newly provisioned users.
const DefaultFreeQuota = 100

type users struct{ s *SQLStore }

func (u *users) EnsureByExternalID(ctx context.Context, externalID, email string) (*model.User, error) {
	if existing, err := u.GetByExternalID(ctx, externalID); err == nil {
		return existing, nil
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	tx, err := u.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	userID := uuid.New().String()
	collectionID := uuid.New().String()

	if _, err := tx.ExecContext(ctx, u.s.q(`
        INSERT INTO users (user_id, external_id, email, plan, quota, default_collection_id, creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `), userID, externalID, email, model.PlanFree, DefaultFreeQuota, collectionID, now, now); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, u.s.q(`
        INSERT INTO collections (collection_id, owner_id, name, details, creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6)
    `), collectionID, userID, "All Memories", nil, now, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.User{
		UserID:              userID,
		ExternalID:          externalID,
		Email:               email,
		Plan:                model.PlanFree,
		Quota:               DefaultFreeQuota,
		DefaultCollectionID: collectionID,
		CreationTime:        now,
		UpdateTime:          now,
	}, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.s.db.QueryRowContext(ctx, u.s.q(`
        SELECT user_id, external_id, email, plan, quota, default_collection_id, creation_time, update_time
        FROM users WHERE user_id=$1
    `), userID)
	return scanUser(row)
}

func (u *users) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	row := u.s.db.QueryRowContext(ctx, u.s.q(`
        SELECT user_id, external_id, email, plan, quota, default_collection_id, creation_time, update_time
        FROM users WHERE external_id=$1
    `), externalID)
	return scanUser(row)
}

func (u *users) SetPlan(ctx context.Context, userID, plan string, quota int) error {
	res, err := u.s.db.ExecContext(ctx, u.s.q(`
        UPDATE users SET plan=$1, quota=$2, update_time=$3 WHERE user_id=$4
    `), plan, quota, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("user", sql.ErrNoRows)
	}
	return nil
}

func (u *users) RecordBillingEvent(ctx context.Context, eventID string) (bool, error) {
	res, err := u.s.db.ExecContext(ctx, u.s.q(`
        INSERT INTO billing_events (event_id, creation_time) VALUES ($1,$2)
        ON CONFLICT DO NOTHING
    `), eventID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.UserID, &out.ExternalID, &out.Email, &out.Plan, &out.Quota,
		&out.DefaultCollectionID, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound("user", err)
	}
	return &out, nil
}
