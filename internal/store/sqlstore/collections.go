package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type collections struct{ s *SQLStore }

const collectionColumns = `collection_id, owner_id, name, details, member_ids, memory_ids,
       event_ids, place_ids, people_ids, creation_time, update_time`

func (c *collections) Create(ctx context.Context, in *model.Collection) (*model.Collection, error) {
	out := *in
	out.CollectionID = uuid.New().String()
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now

	members, err := encodeJSON(out.MemberIDs)
	if err != nil {
		return nil, err
	}
	mems, err := encodeJSON(out.MemoryIDs)
	if err != nil {
		return nil, err
	}
	evs, err := encodeJSON(out.EventIDs)
	if err != nil {
		return nil, err
	}
	pls, err := encodeJSON(out.PlaceIDs)
	if err != nil {
		return nil, err
	}
	ppl, err := encodeJSON(out.PeopleIDs)
	if err != nil {
		return nil, err
	}
	_, err = c.s.db.ExecContext(ctx, c.s.q(`
        INSERT INTO collections (collection_id, owner_id, name, details, member_ids, memory_ids,
                                 event_ids, place_ids, people_ids, creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    `), out.CollectionID, out.OwnerID, out.Name, out.Details, members, mems, evs, pls, ppl, now, now)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *collections) Get(ctx context.Context, ownerID, collectionID string) (*model.Collection, error) {
	row := c.s.db.QueryRowContext(ctx, c.s.q(`
        SELECT `+collectionColumns+` FROM collections WHERE owner_id=$1 AND collection_id=$2
    `), ownerID, collectionID)
	return scanCollection(row)
}

func (c *collections) List(ctx context.Context, ownerID string) ([]*model.Collection, error) {
	rows, err := c.s.db.QueryContext(ctx, c.s.q(`
        SELECT `+collectionColumns+` FROM collections WHERE owner_id=$1 ORDER BY name ASC
    `), ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Collection
	for rows.Next() {
		m, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (c *collections) Update(ctx context.Context, ownerID, collectionID string, upd model.CollectionUpdate) (*model.Collection, error) {
	tx, err := c.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, c.s.q(`
        SELECT `+collectionColumns+` FROM collections WHERE owner_id=$1 AND collection_id=$2
    `), ownerID, collectionID)
	cur, err := scanCollection(row)
	if err != nil {
		return nil, err
	}

	upd.Name.Apply(&cur.Name)
	upd.Details.ApplyPtr(&cur.Details)
	applyStrings(upd.MemberIDs, &cur.MemberIDs)
	applyStrings(upd.MemoryIDs, &cur.MemoryIDs)
	applyStrings(upd.EventIDs, &cur.EventIDs)
	applyStrings(upd.PlaceIDs, &cur.PlaceIDs)
	applyStrings(upd.PeopleIDs, &cur.PeopleIDs)
	cur.UpdateTime = time.Now().UTC()

	members, err := encodeJSON(cur.MemberIDs)
	if err != nil {
		return nil, err
	}
	mems, err := encodeJSON(cur.MemoryIDs)
	if err != nil {
		return nil, err
	}
	evs, err := encodeJSON(cur.EventIDs)
	if err != nil {
		return nil, err
	}
	pls, err := encodeJSON(cur.PlaceIDs)
	if err != nil {
		return nil, err
	}
	ppl, err := encodeJSON(cur.PeopleIDs)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, c.s.q(`
        UPDATE collections SET name=$1, details=$2, member_ids=$3, memory_ids=$4,
               event_ids=$5, place_ids=$6, people_ids=$7, update_time=$8
        WHERE owner_id=$9 AND collection_id=$10
    `), cur.Name, cur.Details, members, mems, evs, pls, ppl, cur.UpdateTime, ownerID, collectionID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

func (c *collections) Delete(ctx context.Context, ownerID, collectionID string) error {
	res, err := c.s.db.ExecContext(ctx, c.s.q(`
        DELETE FROM collections WHERE owner_id=$1 AND collection_id=$2
    `), ownerID, collectionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("collection", sql.ErrNoRows)
	}
	return nil
}

func applyStrings(f model.Field[[]string], dst *[]string) {
	if v, ok := f.Value(); ok {
		*dst = dedupe(v)
	} else if f.IsClear() {
		*dst = nil
	}
}

func scanCollection(row rowScanner) (*model.Collection, error) {
	var out model.Collection
	var members, mems, evs, pls, ppl sql.NullString
	if err := row.Scan(&out.CollectionID, &out.OwnerID, &out.Name, &out.Details,
		&members, &mems, &evs, &pls, &ppl, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound("collection", err)
	}
	out.MemberIDs = decodeStrings(members)
	out.MemoryIDs = decodeStrings(mems)
	out.EventIDs = decodeStrings(evs)
	out.PlaceIDs = decodeStrings(pls)
	out.PeopleIDs = decodeStrings(ppl)
	return &out, nil
}
