package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type attributes struct{ s *SQLStore }

const attributeColumns = `attribute_id, owner_id, name, category, description, entity_type, creation_time`

// Create is create-if-absent: the unique index on (owner, entity_type,
// lower(name)) absorbs concurrent double-submission, and the existing row is
// returned when the insert was a no-op.
func (a *attributes) Create(ctx context.Context, in *model.Attribute) (*model.Attribute, error) {
	out := *in
	out.AttributeID = uuid.New().String()
	out.Name = strings.TrimSpace(out.Name)
	if out.EntityType == "" {
		out.EntityType = model.EntityAll
	}
	out.CreationTime = time.Now().UTC()

	if _, err := a.s.db.ExecContext(ctx, a.s.q(`
        INSERT INTO attributes (attribute_id, owner_id, name, category, description, entity_type, creation_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT DO NOTHING
    `), out.AttributeID, out.OwnerID, out.Name, out.Category, out.Description, out.EntityType, out.CreationTime); err != nil {
		return nil, err
	}

	// Read back whichever row won the insert race.
	row := a.s.db.QueryRowContext(ctx, a.s.q(`
        SELECT `+attributeColumns+` FROM attributes
        WHERE owner_id=$1 AND entity_type=$2 AND lower(name)=lower($3)
    `), out.OwnerID, out.EntityType, out.Name)
	return scanAttribute(row)
}

func (a *attributes) ListByEntityType(ctx context.Context, ownerID, entityType string) ([]*model.Attribute, error) {
	return a.query(ctx, `
        SELECT `+attributeColumns+` FROM attributes
        WHERE owner_id=$1 AND (entity_type=$2 OR entity_type='all')
        ORDER BY COALESCE(category,''), name
    `, ownerID, entityType)
}

func (a *attributes) Search(ctx context.Context, ownerID, entityType, query string) ([]*model.Attribute, error) {
	pattern := likePattern(query)
	return a.query(ctx, `
        SELECT `+attributeColumns+` FROM attributes
        WHERE owner_id=$1 AND (entity_type=$2 OR entity_type='all') AND lower(name) LIKE $3
        ORDER BY COALESCE(category,''), name
    `, ownerID, entityType, pattern)
}

func (a *attributes) query(ctx context.Context, q string, args ...interface{}) ([]*model.Attribute, error) {
	rows, err := a.s.db.QueryContext(ctx, a.s.q(q), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Attribute
	for rows.Next() {
		m, err := scanAttribute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanAttribute(row rowScanner) (*model.Attribute, error) {
	var out model.Attribute
	if err := row.Scan(&out.AttributeID, &out.OwnerID, &out.Name, &out.Category,
		&out.Description, &out.EntityType, &out.CreationTime); err != nil {
		return nil, notFound("attribute", err)
	}
	return &out, nil
}
