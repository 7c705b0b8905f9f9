package client

import "context"

// CreateCollectionRequest carries the fields for a new collection. Name is
// required.
type CreateCollectionRequest struct {
	Name      string   `json:"name"`
	Details   *string  `json:"details,omitempty"`
	MemberIDs []string `json:"memberIds,omitempty"`
	MemoryIDs []string `json:"memoryIds,omitempty"`
	EventIDs  []string `json:"eventIds,omitempty"`
	PlaceIDs  []string `json:"placeIds,omitempty"`
	PeopleIDs []string `json:"peopleIds,omitempty"`
}

func (c *Client) CreateCollection(ctx context.Context, req CreateCollectionRequest) (*Collection, error) {
	var out Collection
	if err := c.post(ctx, "/api/collections", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCollections(ctx context.Context) ([]*Collection, error) {
	var out struct {
		Collections []*Collection `json:"collections"`
	}
	if err := c.get(ctx, "/api/collections", &out); err != nil {
		return nil, err
	}
	return out.Collections, nil
}

func (c *Client) GetCollection(ctx context.Context, collectionID string) (*Collection, error) {
	var out Collection
	if err := c.get(ctx, "/api/collections/"+collectionID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCollection(ctx context.Context, collectionID string, fields UpdateFields) (*Collection, error) {
	var out Collection
	if err := c.patch(ctx, "/api/collections/"+collectionID, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCollection removes a collection. The account's default collection
// cannot be deleted.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) error {
	return c.delete(ctx, "/api/collections/"+collectionID)
}
