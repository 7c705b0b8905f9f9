package client

import (
	"context"
	"net/url"
)

// CreateAttribute adds a name to the owner's attribute vocabulary. Creation
// is idempotent per owner+entityType: resubmitting an existing name (case
// insensitively) returns the existing entry. An empty entityType means "all".
func (c *Client) CreateAttribute(ctx context.Context, name string, category *string, entityType string) (*Attribute, error) {
	body := struct {
		Name       string  `json:"name"`
		Category   *string `json:"category,omitempty"`
		EntityType string  `json:"entityType,omitempty"`
	}{Name: name, Category: category, EntityType: entityType}
	var out Attribute
	if err := c.post(ctx, "/api/attributes", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAttributes returns the vocabulary for an entity type, including "all"
// entries. An empty entityType returns everything.
func (c *Client) ListAttributes(ctx context.Context, entityType string) ([]*Attribute, error) {
	var out struct {
		Attributes []*Attribute `json:"attributes"`
	}
	if err := c.get(ctx, "/api/attributes?entityType="+url.QueryEscape(entityType), &out); err != nil {
		return nil, err
	}
	return out.Attributes, nil
}

// SearchAttributes filters the vocabulary by a case-insensitive substring,
// for autocomplete.
func (c *Client) SearchAttributes(ctx context.Context, entityType, query string) ([]*Attribute, error) {
	var out struct {
		Attributes []*Attribute `json:"attributes"`
	}
	path := "/api/attributes/search?entityType=" + url.QueryEscape(entityType) + "&q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Attributes, nil
}
