package client

import (
	"context"
	"net/url"
	"time"
)

// CreatePersonRequest carries the fields for a new person. Name is required.
type CreatePersonRequest struct {
	Name          string          `json:"name"`
	Email         *string         `json:"email,omitempty"`
	Role          *string         `json:"role,omitempty"`
	PhotoURL      *string         `json:"photoUrl,omitempty"`
	DateOfBirth   *time.Time      `json:"dateOfBirth,omitempty"`
	PlaceOfBirth  *string         `json:"placeOfBirth,omitempty"`
	MaritalStatus *string         `json:"maritalStatus,omitempty"`
	SpouseID      *string         `json:"spouseId,omitempty"`
	ChildrenIDs   []string        `json:"childrenIds,omitempty"`
	Attributes    []AttributePair `json:"attributes,omitempty"`
}

func (c *Client) CreatePerson(ctx context.Context, req CreatePersonRequest) (*Person, error) {
	var out Person
	if err := c.post(ctx, "/api/persons", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPersons(ctx context.Context) ([]*Person, error) {
	var out struct {
		Persons []*Person `json:"persons"`
	}
	if err := c.get(ctx, "/api/persons", &out); err != nil {
		return nil, err
	}
	return out.Persons, nil
}

// SearchPersons does a case-insensitive substring search over name, email
// and role.
func (c *Client) SearchPersons(ctx context.Context, query string) ([]*Person, error) {
	var out struct {
		Persons []*Person `json:"persons"`
	}
	if err := c.get(ctx, "/api/persons/search?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out.Persons, nil
}

func (c *Client) GetPerson(ctx context.Context, personID string) (*Person, error) {
	var out Person
	if err := c.get(ctx, "/api/persons/"+personID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePerson(ctx context.Context, personID string, fields UpdateFields) (*Person, error) {
	var out Person
	if err := c.patch(ctx, "/api/persons/"+personID, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePerson(ctx context.Context, personID string) error {
	return c.delete(ctx, "/api/persons/"+personID)
}
