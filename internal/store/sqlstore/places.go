package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type places struct{ s *SQLStore }

const placeColumns = `place_id, owner_id, name, city, country, address, place_type,
       capacity, rating, attributes, creation_time, update_time`

func (p *places) Create(ctx context.Context, in *model.Place) (*model.Place, error) {
	out := *in
	out.PlaceID = uuid.New().String()
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now

	attrs, err := encodeJSON(out.Attributes)
	if err != nil {
		return nil, err
	}
	_, err = p.s.db.ExecContext(ctx, p.s.q(`
        INSERT INTO places (place_id, owner_id, name, city, country, address, place_type,
                            capacity, rating, attributes, creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `), out.PlaceID, out.OwnerID, out.Name, out.City, out.Country, out.Address, out.PlaceType,
		out.Capacity, out.Rating, attrs, now, now)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *places) Get(ctx context.Context, ownerID, placeID string) (*model.Place, error) {
	row := p.s.db.QueryRowContext(ctx, p.s.q(`
        SELECT `+placeColumns+` FROM places WHERE owner_id=$1 AND place_id=$2
    `), ownerID, placeID)
	return scanPlace(row)
}

func (p *places) List(ctx context.Context, ownerID string) ([]*model.Place, error) {
	return p.query(ctx, `
        SELECT `+placeColumns+` FROM places WHERE owner_id=$1 ORDER BY name ASC
    `, ownerID)
}

func (p *places) Search(ctx context.Context, ownerID, query string) ([]*model.Place, error) {
	pattern := likePattern(query)
	return p.query(ctx, `
        SELECT `+placeColumns+` FROM places
        WHERE owner_id=$1 AND (lower(name) LIKE $2 OR lower(city) LIKE $3 OR lower(COALESCE(address,'')) LIKE $4)
        ORDER BY name ASC
    `, ownerID, pattern, pattern, pattern)
}

func (p *places) query(ctx context.Context, q string, args ...interface{}) ([]*model.Place, error) {
	rows, err := p.s.db.QueryContext(ctx, p.s.q(q), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Place
	for rows.Next() {
		m, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *places) Update(ctx context.Context, ownerID, placeID string, upd model.PlaceUpdate) (*model.Place, error) {
	tx, err := p.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, p.s.q(`
        SELECT `+placeColumns+` FROM places WHERE owner_id=$1 AND place_id=$2
    `), ownerID, placeID)
	cur, err := scanPlace(row)
	if err != nil {
		return nil, err
	}

	upd.Name.Apply(&cur.Name)
	upd.City.Apply(&cur.City)
	upd.Country.Apply(&cur.Country)
	upd.Address.ApplyPtr(&cur.Address)
	upd.PlaceType.ApplyPtr(&cur.PlaceType)
	upd.Capacity.ApplyPtr(&cur.Capacity)
	upd.Rating.ApplyPtr(&cur.Rating)
	if v, ok := upd.Attributes.Value(); ok {
		cur.Attributes = v
	} else if upd.Attributes.IsClear() {
		cur.Attributes = nil
	}
	cur.UpdateTime = time.Now().UTC()

	attrs, err := encodeJSON(cur.Attributes)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, p.s.q(`
        UPDATE places SET name=$1, city=$2, country=$3, address=$4, place_type=$5,
               capacity=$6, rating=$7, attributes=$8, update_time=$9
        WHERE owner_id=$10 AND place_id=$11
    `), cur.Name, cur.City, cur.Country, cur.Address, cur.PlaceType, cur.Capacity, cur.Rating,
		attrs, cur.UpdateTime, ownerID, placeID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

// Delete removes the place and, in the same transaction, clears it from every
// event and memory that referenced it so no dangling associations remain.
func (p *places) Delete(ctx context.Context, ownerID, placeID string) error {
	tx, err := p.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, p.s.q(`DELETE FROM places WHERE owner_id=$1 AND place_id=$2`), ownerID, placeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("place", sql.ErrNoRows)
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, p.s.q(`
        UPDATE events SET place_id=NULL, update_time=$1 WHERE owner_id=$2 AND place_id=$3
    `), now, ownerID, placeID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, p.s.q(`
        UPDATE memories SET place_id=NULL, update_time=$1 WHERE owner_id=$2 AND place_id=$3
    `), now, ownerID, placeID); err != nil {
		return err
	}
	return tx.Commit()
}

func scanPlace(row rowScanner) (*model.Place, error) {
	var out model.Place
	var attrs sql.NullString
	if err := row.Scan(&out.PlaceID, &out.OwnerID, &out.Name, &out.City, &out.Country,
		&out.Address, &out.PlaceType, &out.Capacity, &out.Rating, &attrs,
		&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound("place", err)
	}
	out.Attributes = decodePairs(attrs)
	return &out, nil
}
