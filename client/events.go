package client

import (
	"context"
	"net/url"
	"time"
)

// CreateEventRequest carries the fields for a new event. DateType states the
// precision of Date: exact, day, month or year.
type CreateEventRequest struct {
	Title      string          `json:"title"`
	Date       time.Time       `json:"date"`
	DateType   string          `json:"dateType"`
	PlaceID    *string         `json:"placeId,omitempty"`
	Attributes []AttributePair `json:"attributes,omitempty"`
}

func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	var out Event
	if err := c.post(ctx, "/api/events", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]*Event, error) {
	var out struct {
		Events []*Event `json:"events"`
	}
	if err := c.get(ctx, "/api/events", &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) SearchEvents(ctx context.Context, query string) ([]*Event, error) {
	var out struct {
		Events []*Event `json:"events"`
	}
	if err := c.get(ctx, "/api/events/search?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	var out Event
	if err := c.get(ctx, "/api/events/"+eventID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEvent patches event fields. Changing or clearing placeId re-derives
// the place of every memory attached to this event.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, fields UpdateFields) (*Event, error) {
	var out Event
	if err := c.patch(ctx, "/api/events/"+eventID, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.delete(ctx, "/api/events/"+eventID)
}
