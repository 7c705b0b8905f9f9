package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type memories struct{ s *SQLStore }

const memoryColumns = `memory_id, owner_id, title, description, media_type, media_url, media_name,
       memory_date, date_type, place_id, event_id, creation_time, update_time`

// Create inserts a memory and its people links. When an event is supplied and
// that event has a place, the memory's place is derived from it regardless of
// what the caller passed, so the invariant holds from the first write.
func (m *memories) Create(ctx context.Context, in *model.Memory) (*model.Memory, error) {
	tx, err := m.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out := *in
	out.MemoryID = uuid.New().String()
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now
	out.PeopleIDs = dedupe(out.PeopleIDs)

	if out.EventID != nil {
		var evPlace *string
		if err := tx.QueryRowContext(ctx, m.s.q(`
            SELECT place_id FROM events WHERE owner_id=$1 AND event_id=$2
        `), out.OwnerID, *out.EventID).Scan(&evPlace); err != nil {
			return nil, notFound("event", err)
		}
		if evPlace != nil {
			out.PlaceID = evPlace
		}
	}
	if out.PlaceID != nil {
		var one int
		if err := tx.QueryRowContext(ctx, m.s.q(`
            SELECT 1 FROM places WHERE owner_id=$1 AND place_id=$2
        `), out.OwnerID, *out.PlaceID).Scan(&one); err != nil {
			return nil, notFound("place", err)
		}
	}

	if _, err := tx.ExecContext(ctx, m.s.q(`
        INSERT INTO memories (memory_id, owner_id, title, description, media_type, media_url, media_name,
                              memory_date, date_type, place_id, event_id, creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `), out.MemoryID, out.OwnerID, out.Title, out.Description, out.MediaType, out.MediaURL,
		out.MediaName, out.Date, out.DateType, out.PlaceID, out.EventID, now, now); err != nil {
		return nil, err
	}
	if err := insertPeople(ctx, tx, m.s, out.OwnerID, out.MemoryID, out.PeopleIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memories) Get(ctx context.Context, ownerID, memoryID string) (*model.Memory, error) {
	row := m.s.db.QueryRowContext(ctx, m.s.q(`
        SELECT `+memoryColumns+` FROM memories WHERE owner_id=$1 AND memory_id=$2
    `), ownerID, memoryID)
	out, err := scanMemory(row)
	if err != nil {
		return nil, err
	}
	people, err := m.loadPeople(ctx, ownerID, memoryID)
	if err != nil {
		return nil, err
	}
	out.PeopleIDs = people
	return out, nil
}

func (m *memories) List(ctx context.Context, ownerID string) ([]*model.Memory, error) {
	return m.query(ctx, `
        SELECT `+memoryColumns+` FROM memories WHERE owner_id=$1 ORDER BY creation_time DESC
    `, ownerID)
}

func (m *memories) Search(ctx context.Context, ownerID, query string) ([]*model.Memory, error) {
	pattern := likePattern(query)
	return m.query(ctx, `
        SELECT `+memoryColumns+` FROM memories
        WHERE owner_id=$1 AND (lower(title) LIKE $2 OR lower(COALESCE(description,'')) LIKE $3)
        ORDER BY creation_time DESC
    `, ownerID, pattern, pattern)
}

func (m *memories) query(ctx context.Context, q string, args ...interface{}) ([]*model.Memory, error) {
	ownerID, _ := args[0].(string)
	rows, err := m.s.db.QueryContext(ctx, m.s.q(q), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Memory
	for rows.Next() {
		mm, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, mm := range out {
		people, err := m.loadPeople(ctx, ownerID, mm.MemoryID)
		if err != nil {
			return nil, err
		}
		mm.PeopleIDs = people
	}
	return out, nil
}

func (m *memories) loadPeople(ctx context.Context, ownerID, memoryID string) ([]string, error) {
	rows, err := m.s.db.QueryContext(ctx, m.s.q(`
        SELECT person_id FROM memory_people WHERE owner_id=$1 AND memory_id=$2 ORDER BY person_id
    `), ownerID, memoryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (m *memories) Delete(ctx context.Context, ownerID, memoryID string) error {
	tx, err := m.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, m.s.q(`DELETE FROM memories WHERE owner_id=$1 AND memory_id=$2`), ownerID, memoryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("memory", sql.ErrNoRows)
	}
	if _, err := tx.ExecContext(ctx, m.s.q(`DELETE FROM memory_people WHERE owner_id=$1 AND memory_id=$2`), ownerID, memoryID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, m.s.q(`DELETE FROM reflections WHERE owner_id=$1 AND memory_id=$2`), ownerID, memoryID); err != nil {
		return err
	}
	return tx.Commit()
}

// SetPeople replaces the full person set in one transaction: delete all links,
// insert the (deduplicated) new set, touch the memory. Calling it twice with
// the same set is a no-op for the final state.
func (m *memories) SetPeople(ctx context.Context, ownerID, memoryID string, personIDs []string) (*model.Memory, error) {
	tx, err := m.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, m.s.q(`SELECT 1 FROM memories WHERE owner_id=$1 AND memory_id=$2`), ownerID, memoryID).Scan(&one); err != nil {
		return nil, notFound("memory", err)
	}

	ids := dedupe(personIDs)
	for _, pid := range ids {
		if err := tx.QueryRowContext(ctx, m.s.q(`SELECT 1 FROM persons WHERE owner_id=$1 AND person_id=$2`), ownerID, pid).Scan(&one); err != nil {
			return nil, notFound("person", err)
		}
	}

	if _, err := tx.ExecContext(ctx, m.s.q(`DELETE FROM memory_people WHERE owner_id=$1 AND memory_id=$2`), ownerID, memoryID); err != nil {
		return nil, err
	}
	if err := insertPeople(ctx, tx, m.s, ownerID, memoryID, ids); err != nil {
		return nil, err
	}
	if err := touchMemory(ctx, tx, m.s, ownerID, memoryID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m.Get(ctx, ownerID, memoryID)
}

// SetEvent attaches or detaches an event in one transaction:
//
//  1. resolve the current event and its place (the old derived place),
//  2. drop the event link,
//  3. drop the place link only when it matches the old derived place, so a
//     place the user set independently survives,
//  4. on attach, link the new event and, when it has a place, derive the
//     memory's place from it (replacing any existing place),
//  5. touch the memory.
func (m *memories) SetEvent(ctx context.Context, ownerID, memoryID string, eventID *string) (*model.Memory, error) {
	tx, err := m.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var curEvent, curPlace *string
	if err := tx.QueryRowContext(ctx, m.s.q(`
        SELECT event_id, place_id FROM memories WHERE owner_id=$1 AND memory_id=$2
    `), ownerID, memoryID).Scan(&curEvent, &curPlace); err != nil {
		return nil, notFound("memory", err)
	}

	var oldDerived *string
	if curEvent != nil {
		if err := tx.QueryRowContext(ctx, m.s.q(`
            SELECT place_id FROM events WHERE owner_id=$1 AND event_id=$2
        `), ownerID, *curEvent).Scan(&oldDerived); err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	}

	newPlace := curPlace
	if oldDerived != nil && curPlace != nil && *curPlace == *oldDerived {
		newPlace = nil
	}
	if eventID != nil {
		var evPlace *string
		if err := tx.QueryRowContext(ctx, m.s.q(`
            SELECT place_id FROM events WHERE owner_id=$1 AND event_id=$2
        `), ownerID, *eventID).Scan(&evPlace); err != nil {
			return nil, notFound("event", err)
		}
		if evPlace != nil {
			newPlace = evPlace
		}
	}

	if _, err := tx.ExecContext(ctx, m.s.q(`
        UPDATE memories SET event_id=$1, place_id=$2, update_time=$3 WHERE owner_id=$4 AND memory_id=$5
    `), eventID, newPlace, time.Now().UTC(), ownerID, memoryID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m.Get(ctx, ownerID, memoryID)
}

// SetPlace replaces the place association. While an event with a place is
// attached the place is locked to it: any differing request fails with
// model.ErrConflict instead of silently producing a memory whose place
// contradicts its event.
func (m *memories) SetPlace(ctx context.Context, ownerID, memoryID string, placeID *string) (*model.Memory, error) {
	tx, err := m.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var curEvent *string
	if err := tx.QueryRowContext(ctx, m.s.q(`
        SELECT event_id FROM memories WHERE owner_id=$1 AND memory_id=$2
    `), ownerID, memoryID).Scan(&curEvent); err != nil {
		return nil, notFound("memory", err)
	}

	if curEvent != nil {
		var evPlace *string
		if err := tx.QueryRowContext(ctx, m.s.q(`
            SELECT place_id FROM events WHERE owner_id=$1 AND event_id=$2
        `), ownerID, *curEvent).Scan(&evPlace); err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if evPlace != nil && !strPtrEq(placeID, evPlace) {
			return nil, fmt.Errorf("place is locked by the associated event; change or remove the event first: %w", model.ErrConflict)
		}
	}
	if placeID != nil {
		var one int
		if err := tx.QueryRowContext(ctx, m.s.q(`SELECT 1 FROM places WHERE owner_id=$1 AND place_id=$2`), ownerID, *placeID).Scan(&one); err != nil {
			return nil, notFound("place", err)
		}
	}

	if _, err := tx.ExecContext(ctx, m.s.q(`
        UPDATE memories SET place_id=$1, update_time=$2 WHERE owner_id=$3 AND memory_id=$4
    `), placeID, time.Now().UTC(), ownerID, memoryID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m.Get(ctx, ownerID, memoryID)
}

// UpdateDetails changes scalar fields only. Associations never move here.
func (m *memories) UpdateDetails(ctx context.Context, ownerID, memoryID string, upd model.MemoryUpdate) (*model.Memory, error) {
	tx, err := m.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, m.s.q(`
        SELECT `+memoryColumns+` FROM memories WHERE owner_id=$1 AND memory_id=$2
    `), ownerID, memoryID)
	cur, err := scanMemory(row)
	if err != nil {
		return nil, err
	}

	upd.Title.Apply(&cur.Title)
	upd.Description.ApplyPtr(&cur.Description)
	upd.Date.Apply(&cur.Date)
	upd.DateType.Apply(&cur.DateType)
	upd.MediaName.Apply(&cur.MediaName)
	cur.UpdateTime = time.Now().UTC()

	if _, err := tx.ExecContext(ctx, m.s.q(`
        UPDATE memories SET title=$1, description=$2, memory_date=$3, date_type=$4, media_name=$5, update_time=$6
        WHERE owner_id=$7 AND memory_id=$8
    `), cur.Title, cur.Description, cur.Date, cur.DateType, cur.MediaName, cur.UpdateTime, ownerID, memoryID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m.Get(ctx, ownerID, memoryID)
}

func insertPeople(ctx context.Context, tx *sql.Tx, s *SQLStore, ownerID, memoryID string, personIDs []string) error {
	for _, pid := range personIDs {
		if _, err := tx.ExecContext(ctx, s.q(`
            INSERT INTO memory_people (owner_id, memory_id, person_id) VALUES ($1,$2,$3)
        `), ownerID, memoryID, pid); err != nil {
			return err
		}
	}
	return nil
}

func touchMemory(ctx context.Context, tx *sql.Tx, s *SQLStore, ownerID, memoryID string) error {
	_, err := tx.ExecContext(ctx, s.q(`
        UPDATE memories SET update_time=$1 WHERE owner_id=$2 AND memory_id=$3
    `), time.Now().UTC(), ownerID, memoryID)
	return err
}

func scanMemory(row rowScanner) (*model.Memory, error) {
	var out model.Memory
	if err := row.Scan(&out.MemoryID, &out.OwnerID, &out.Title, &out.Description, &out.MediaType,
		&out.MediaURL, &out.MediaName, &out.Date, &out.DateType, &out.PlaceID, &out.EventID,
		&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound("memory", err)
	}
	return &out, nil
}
