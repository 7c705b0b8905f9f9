package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type persons struct{ s *SQLStore }

const personColumns = `person_id, owner_id, name, email, role, photo_url, date_of_birth,
       place_of_birth, marital_status, spouse_id, children_ids, attributes,
       creation_time, update_time`

func (p *persons) Create(ctx context.Context, in *model.Person) (*model.Person, error) {
	out := *in
	out.PersonID = uuid.New().String()
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now

	children, err := encodeJSON(out.ChildrenIDs)
	if err != nil {
		return nil, err
	}
	attrs, err := encodeJSON(out.Attributes)
	if err != nil {
		return nil, err
	}
	_, err = p.s.db.ExecContext(ctx, p.s.q(`
        INSERT INTO persons (person_id, owner_id, name, email, role, photo_url, date_of_birth,
                             place_of_birth, marital_status, spouse_id, children_ids, attributes,
                             creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    `), out.PersonID, out.OwnerID, out.Name, out.Email, out.Role, out.PhotoURL, out.DateOfBirth,
		out.PlaceOfBirth, out.MaritalStatus, out.SpouseID, children, attrs, now, now)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *persons) Get(ctx context.Context, ownerID, personID string) (*model.Person, error) {
	row := p.s.db.QueryRowContext(ctx, p.s.q(`
        SELECT `+personColumns+` FROM persons WHERE owner_id=$1 AND person_id=$2
    `), ownerID, personID)
	return scanPerson(row)
}

func (p *persons) List(ctx context.Context, ownerID string) ([]*model.Person, error) {
	return p.query(ctx, `
        SELECT `+personColumns+` FROM persons WHERE owner_id=$1 ORDER BY name ASC
    `, ownerID)
}

func (p *persons) Search(ctx context.Context, ownerID, query string) ([]*model.Person, error) {
	pattern := likePattern(query)
	return p.query(ctx, `
        SELECT `+personColumns+` FROM persons
        WHERE owner_id=$1 AND (lower(name) LIKE $2 OR lower(COALESCE(email,'')) LIKE $3 OR lower(COALESCE(role,'')) LIKE $4)
        ORDER BY name ASC
    `, ownerID, pattern, pattern, pattern)
}

func (p *persons) query(ctx context.Context, q string, args ...interface{}) ([]*model.Person, error) {
	rows, err := p.s.db.QueryContext(ctx, p.s.q(q), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Person
	for rows.Next() {
		m, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *persons) Update(ctx context.Context, ownerID, personID string, upd model.PersonUpdate) (*model.Person, error) {
	tx, err := p.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, p.s.q(`
        SELECT `+personColumns+` FROM persons WHERE owner_id=$1 AND person_id=$2
    `), ownerID, personID)
	cur, err := scanPerson(row)
	if err != nil {
		return nil, err
	}

	upd.Name.Apply(&cur.Name)
	upd.Email.ApplyPtr(&cur.Email)
	upd.Role.ApplyPtr(&cur.Role)
	upd.PhotoURL.ApplyPtr(&cur.PhotoURL)
	upd.DateOfBirth.ApplyPtr(&cur.DateOfBirth)
	upd.PlaceOfBirth.ApplyPtr(&cur.PlaceOfBirth)
	upd.MaritalStatus.ApplyPtr(&cur.MaritalStatus)
	upd.SpouseID.ApplyPtr(&cur.SpouseID)
	if v, ok := upd.ChildrenIDs.Value(); ok {
		cur.ChildrenIDs = dedupe(v)
	} else if upd.ChildrenIDs.IsClear() {
		cur.ChildrenIDs = nil
	}
	if v, ok := upd.Attributes.Value(); ok {
		cur.Attributes = v
	} else if upd.Attributes.IsClear() {
		cur.Attributes = nil
	}
	cur.UpdateTime = time.Now().UTC()

	children, err := encodeJSON(cur.ChildrenIDs)
	if err != nil {
		return nil, err
	}
	attrs, err := encodeJSON(cur.Attributes)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, p.s.q(`
        UPDATE persons SET name=$1, email=$2, role=$3, photo_url=$4, date_of_birth=$5,
               place_of_birth=$6, marital_status=$7, spouse_id=$8, children_ids=$9,
               attributes=$10, update_time=$11
        WHERE owner_id=$12 AND person_id=$13
    `), cur.Name, cur.Email, cur.Role, cur.PhotoURL, cur.DateOfBirth, cur.PlaceOfBirth,
		cur.MaritalStatus, cur.SpouseID, children, attrs, cur.UpdateTime, ownerID, personID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

func (p *persons) Delete(ctx context.Context, ownerID, personID string) error {
	tx, err := p.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, p.s.q(`DELETE FROM persons WHERE owner_id=$1 AND person_id=$2`), ownerID, personID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("person", sql.ErrNoRows)
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, p.s.q(`DELETE FROM memory_people WHERE owner_id=$1 AND person_id=$2`), ownerID, personID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, p.s.q(`
        UPDATE persons SET spouse_id=NULL, update_time=$1 WHERE owner_id=$2 AND spouse_id=$3
    `), now, ownerID, personID); err != nil {
		return err
	}

	// Remove the person from other persons' children lists. The membership
	// test happens in Go since the list is stored as JSON text.
	rows, err := tx.QueryContext(ctx, p.s.q(`
        SELECT person_id, children_ids FROM persons
        WHERE owner_id=$1 AND children_ids LIKE $2
    `), ownerID, `%"`+personID+`"%`)
	if err != nil {
		return err
	}
	type parentRow struct {
		id       string
		children []string
	}
	var parents []parentRow
	for rows.Next() {
		var id string
		var raw sql.NullString
		if err := rows.Scan(&id, &raw); err != nil {
			_ = rows.Close()
			return err
		}
		parents = append(parents, parentRow{id: id, children: decodeStrings(raw)})
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, parent := range parents {
		kept := parent.children[:0]
		for _, c := range parent.children {
			if c != personID {
				kept = append(kept, c)
			}
		}
		encoded, err := encodeJSON(kept)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, p.s.q(`
            UPDATE persons SET children_ids=$1, update_time=$2 WHERE owner_id=$3 AND person_id=$4
        `), encoded, now, ownerID, parent.id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanPerson(row rowScanner) (*model.Person, error) {
	var out model.Person
	var children, attrs sql.NullString
	if err := row.Scan(&out.PersonID, &out.OwnerID, &out.Name, &out.Email, &out.Role,
		&out.PhotoURL, &out.DateOfBirth, &out.PlaceOfBirth, &out.MaritalStatus, &out.SpouseID,
		&children, &attrs, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound("person", err)
	}
	out.ChildrenIDs = decodeStrings(children)
	out.Attributes = decodePairs(attrs)
	return &out, nil
}
