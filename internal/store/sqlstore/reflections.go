package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type reflections struct{ s *SQLStore }

const reflectionColumns = `reflection_id, owner_id, memory_id, title, content, creation_time, update_time`

// Create inserts a reflection and touches the parent memory in one
// transaction; an unknown memory id fails the whole write.
func (r *reflections) Create(ctx context.Context, in *model.Reflection) (*model.Reflection, error) {
	tx, err := r.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, r.s.q(`SELECT 1 FROM memories WHERE owner_id=$1 AND memory_id=$2`), in.OwnerID, in.MemoryID).Scan(&one); err != nil {
		return nil, notFound("memory", err)
	}

	out := *in
	out.ReflectionID = uuid.New().String()
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now

	if _, err := tx.ExecContext(ctx, r.s.q(`
        INSERT INTO reflections (reflection_id, owner_id, memory_id, title, content, creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `), out.ReflectionID, out.OwnerID, out.MemoryID, out.Title, out.Content, now, now); err != nil {
		return nil, err
	}
	if err := touchMemory(ctx, tx, r.s, out.OwnerID, out.MemoryID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *reflections) Get(ctx context.Context, ownerID, memoryID, reflectionID string) (*model.Reflection, error) {
	row := r.s.db.QueryRowContext(ctx, r.s.q(`
        SELECT `+reflectionColumns+` FROM reflections
        WHERE owner_id=$1 AND memory_id=$2 AND reflection_id=$3
    `), ownerID, memoryID, reflectionID)
	return scanReflection(row)
}

func (r *reflections) ListByMemory(ctx context.Context, ownerID, memoryID string) ([]*model.Reflection, error) {
	rows, err := r.s.db.QueryContext(ctx, r.s.q(`
        SELECT `+reflectionColumns+` FROM reflections
        WHERE owner_id=$1 AND memory_id=$2 ORDER BY creation_time DESC
    `), ownerID, memoryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Reflection
	for rows.Next() {
		m, err := scanReflection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *reflections) Update(ctx context.Context, ownerID, memoryID, reflectionID string, upd model.ReflectionUpdate) (*model.Reflection, error) {
	tx, err := r.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, r.s.q(`
        SELECT `+reflectionColumns+` FROM reflections
        WHERE owner_id=$1 AND memory_id=$2 AND reflection_id=$3
    `), ownerID, memoryID, reflectionID)
	cur, err := scanReflection(row)
	if err != nil {
		return nil, err
	}

	upd.Title.Apply(&cur.Title)
	upd.Content.Apply(&cur.Content)
	cur.UpdateTime = time.Now().UTC()

	if _, err := tx.ExecContext(ctx, r.s.q(`
        UPDATE reflections SET title=$1, content=$2, update_time=$3
        WHERE owner_id=$4 AND memory_id=$5 AND reflection_id=$6
    `), cur.Title, cur.Content, cur.UpdateTime, ownerID, memoryID, reflectionID); err != nil {
		return nil, err
	}
	if err := touchMemory(ctx, tx, r.s, ownerID, memoryID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

func (r *reflections) Delete(ctx context.Context, ownerID, memoryID, reflectionID string) error {
	tx, err := r.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, r.s.q(`
        DELETE FROM reflections WHERE owner_id=$1 AND memory_id=$2 AND reflection_id=$3
    `), ownerID, memoryID, reflectionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("reflection", sql.ErrNoRows)
	}
	if err := touchMemory(ctx, tx, r.s, ownerID, memoryID); err != nil {
		return err
	}
	return tx.Commit()
}

func scanReflection(row rowScanner) (*model.Reflection, error) {
	var out model.Reflection
	if err := row.Scan(&out.ReflectionID, &out.OwnerID, &out.MemoryID, &out.Title, &out.Content,
		&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound("reflection", err)
	}
	return &out, nil
}
