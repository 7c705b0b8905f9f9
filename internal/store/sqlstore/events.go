package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type events struct{ s *SQLStore }

const eventColumns = `event_id, owner_id, title, event_date, date_type, place_id, attributes,
       creation_time, update_time`

func (e *events) Create(ctx context.Context, in *model.Event) (*model.Event, error) {
	out := *in
	out.EventID = uuid.New().String()
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now

	if out.PlaceID != nil {
		var one int
		row := e.s.db.QueryRowContext(ctx, e.s.q(`SELECT 1 FROM places WHERE owner_id=$1 AND place_id=$2`), out.OwnerID, *out.PlaceID)
		if err := row.Scan(&one); err != nil {
			return nil, notFound("place", err)
		}
	}

	attrs, err := encodeJSON(out.Attributes)
	if err != nil {
		return nil, err
	}
	_, err = e.s.db.ExecContext(ctx, e.s.q(`
        INSERT INTO events (event_id, owner_id, title, event_date, date_type, place_id, attributes,
                            creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `), out.EventID, out.OwnerID, out.Title, out.Date, out.DateType, out.PlaceID, attrs, now, now)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *events) Get(ctx context.Context, ownerID, eventID string) (*model.Event, error) {
	row := e.s.db.QueryRowContext(ctx, e.s.q(`
        SELECT `+eventColumns+` FROM events WHERE owner_id=$1 AND event_id=$2
    `), ownerID, eventID)
	return scanEvent(row)
}

func (e *events) List(ctx context.Context, ownerID string) ([]*model.Event, error) {
	return e.query(ctx, `
        SELECT `+eventColumns+` FROM events WHERE owner_id=$1 ORDER BY creation_time DESC
    `, ownerID)
}

func (e *events) Search(ctx context.Context, ownerID, query string) ([]*model.Event, error) {
	pattern := likePattern(query)
	return e.query(ctx, `
        SELECT `+eventColumns+` FROM events
        WHERE owner_id=$1 AND lower(title) LIKE $2
        ORDER BY creation_time DESC
    `, ownerID, pattern)
}

func (e *events) query(ctx context.Context, q string, args ...interface{}) ([]*model.Event, error) {
	rows, err := e.s.db.QueryContext(ctx, e.s.q(q), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Event
	for rows.Next() {
		m, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update applies the partial update and, when the event's place changes,
// re-derives the place of every memory attached to the event in the same
// transaction.
func (e *events) Update(ctx context.Context, ownerID, eventID string, upd model.EventUpdate) (*model.Event, error) {
	tx, err := e.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, e.s.q(`
        SELECT `+eventColumns+` FROM events WHERE owner_id=$1 AND event_id=$2
    `), ownerID, eventID)
	cur, err := scanEvent(row)
	if err != nil {
		return nil, err
	}
	oldPlace := cur.PlaceID

	upd.Title.Apply(&cur.Title)
	upd.Date.Apply(&cur.Date)
	upd.DateType.Apply(&cur.DateType)
	upd.PlaceID.ApplyPtr(&cur.PlaceID)
	if v, ok := upd.Attributes.Value(); ok {
		cur.Attributes = v
	} else if upd.Attributes.IsClear() {
		cur.Attributes = nil
	}
	cur.UpdateTime = time.Now().UTC()

	if cur.PlaceID != nil && !strPtrEq(cur.PlaceID, oldPlace) {
		var one int
		if err := tx.QueryRowContext(ctx, e.s.q(`SELECT 1 FROM places WHERE owner_id=$1 AND place_id=$2`), ownerID, *cur.PlaceID).Scan(&one); err != nil {
			return nil, notFound("place", err)
		}
	}

	attrs, err := encodeJSON(cur.Attributes)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, e.s.q(`
        UPDATE events SET title=$1, event_date=$2, date_type=$3, place_id=$4, attributes=$5, update_time=$6
        WHERE owner_id=$7 AND event_id=$8
    `), cur.Title, cur.Date, cur.DateType, cur.PlaceID, attrs, cur.UpdateTime, ownerID, eventID); err != nil {
		return nil, err
	}

	if !strPtrEq(cur.PlaceID, oldPlace) {
		if err := rederiveMemoryPlaces(ctx, tx, e.s, ownerID, eventID, oldPlace, cur.PlaceID, cur.UpdateTime); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

// rederiveMemoryPlaces updates the place of memories attached to an event
// after the event's own place changed. A memory whose place matched the old
// event place follows the event; any memory gets the new place when one is
// set, since an attached event with a place always dictates the memory place.
func rederiveMemoryPlaces(ctx context.Context, tx *sql.Tx, s *SQLStore, ownerID, eventID string, oldPlace, newPlace *string, now time.Time) error {
	rows, err := tx.QueryContext(ctx, s.q(`
        SELECT memory_id, place_id FROM memories WHERE owner_id=$1 AND event_id=$2
    `), ownerID, eventID)
	if err != nil {
		return err
	}
	type memRow struct {
		id    string
		place *string
	}
	var mems []memRow
	for rows.Next() {
		var m memRow
		if err := rows.Scan(&m.id, &m.place); err != nil {
			_ = rows.Close()
			return err
		}
		mems = append(mems, m)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range mems {
		target := m.place
		switch {
		case newPlace != nil:
			target = newPlace
		case oldPlace != nil && m.place != nil && *m.place == *oldPlace:
			target = nil
		}
		if strPtrEq(target, m.place) {
			continue
		}
		if _, err := tx.ExecContext(ctx, s.q(`
            UPDATE memories SET place_id=$1, update_time=$2 WHERE owner_id=$3 AND memory_id=$4
        `), target, now, ownerID, m.id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the event and detaches it from memories; a memory place that
// was derived from the event is cleared, an independent place is preserved.
func (e *events) Delete(ctx context.Context, ownerID, eventID string) error {
	tx, err := e.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var place *string
	if err := tx.QueryRowContext(ctx, e.s.q(`
        SELECT place_id FROM events WHERE owner_id=$1 AND event_id=$2
    `), ownerID, eventID).Scan(&place); err != nil {
		return notFound("event", err)
	}
	if _, err := tx.ExecContext(ctx, e.s.q(`DELETE FROM events WHERE owner_id=$1 AND event_id=$2`), ownerID, eventID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := rederiveMemoryPlaces(ctx, tx, e.s, ownerID, eventID, place, nil, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, e.s.q(`
        UPDATE memories SET event_id=NULL, update_time=$1 WHERE owner_id=$2 AND event_id=$3
    `), now, ownerID, eventID); err != nil {
		return err
	}
	return tx.Commit()
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var out model.Event
	var attrs sql.NullString
	if err := row.Scan(&out.EventID, &out.OwnerID, &out.Title, &out.Date, &out.DateType,
		&out.PlaceID, &attrs, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound("event", err)
	}
	out.Attributes = decodePairs(attrs)
	return &out, nil
}
