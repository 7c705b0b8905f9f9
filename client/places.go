package client

import (
	"context"
	"net/url"
)

// CreatePlaceRequest carries the fields for a new place. Name, city and
// country are required.
type CreatePlaceRequest struct {
	Name       string          `json:"name"`
	City       string          `json:"city"`
	Country    string          `json:"country"`
	Address    *string         `json:"address,omitempty"`
	PlaceType  *string         `json:"placeType,omitempty"`
	Capacity   *int            `json:"capacity,omitempty"`
	Rating     *float64        `json:"rating,omitempty"`
	Attributes []AttributePair `json:"attributes,omitempty"`
}

func (c *Client) CreatePlace(ctx context.Context, req CreatePlaceRequest) (*Place, error) {
	var out Place
	if err := c.post(ctx, "/api/places", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPlaces(ctx context.Context) ([]*Place, error) {
	var out struct {
		Places []*Place `json:"places"`
	}
	if err := c.get(ctx, "/api/places", &out); err != nil {
		return nil, err
	}
	return out.Places, nil
}

func (c *Client) SearchPlaces(ctx context.Context, query string) ([]*Place, error) {
	var out struct {
		Places []*Place `json:"places"`
	}
	if err := c.get(ctx, "/api/places/search?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out.Places, nil
}

func (c *Client) GetPlace(ctx context.Context, placeID string) (*Place, error) {
	var out Place
	if err := c.get(ctx, "/api/places/"+placeID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePlace(ctx context.Context, placeID string, fields UpdateFields) (*Place, error) {
	var out Place
	if err := c.patch(ctx, "/api/places/"+placeID, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePlace(ctx context.Context, placeID string) error {
	return c.delete(ctx, "/api/places/"+placeID)
}
