package client

import (
	"context"
	"net/url"
	"time"
)

// CreateMemoryRequest carries the fields for a new memory. Title, mediaType,
// mediaUrl and dateType are required. When eventId references an event with
// a place, the server derives placeId from it regardless of what is sent.
type CreateMemoryRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	MediaType   string    `json:"mediaType"`
	MediaURL    string    `json:"mediaUrl"`
	MediaName   string    `json:"mediaName"`
	Date        time.Time `json:"date"`
	DateType    string    `json:"dateType"`
	PeopleIDs   []string  `json:"peopleIds,omitempty"`
	PlaceID     *string   `json:"placeId,omitempty"`
	EventID     *string   `json:"eventId,omitempty"`
}

func (c *Client) CreateMemory(ctx context.Context, req CreateMemoryRequest) (*Memory, error) {
	var out Memory
	if err := c.post(ctx, "/api/memories", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMemories(ctx context.Context) ([]*Memory, error) {
	var out struct {
		Memories []*Memory `json:"memories"`
	}
	if err := c.get(ctx, "/api/memories", &out); err != nil {
		return nil, err
	}
	return out.Memories, nil
}

func (c *Client) SearchMemories(ctx context.Context, query string) ([]*Memory, error) {
	var out struct {
		Memories []*Memory `json:"memories"`
	}
	if err := c.get(ctx, "/api/memories/search?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out.Memories, nil
}

func (c *Client) GetMemory(ctx context.Context, memoryID string) (*Memory, error) {
	var out Memory
	if err := c.get(ctx, "/api/memories/"+memoryID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMemory patches a memory's own fields. Associations go through
// SetMemoryPeople, SetMemoryEvent and SetMemoryPlace.
func (c *Client) UpdateMemory(ctx context.Context, memoryID string, fields UpdateFields) (*Memory, error) {
	var out Memory
	if err := c.patch(ctx, "/api/memories/"+memoryID, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMemory(ctx context.Context, memoryID string) error {
	return c.delete(ctx, "/api/memories/"+memoryID)
}

// SetMemoryPeople replaces the memory's full set of person associations.
func (c *Client) SetMemoryPeople(ctx context.Context, memoryID string, personIDs []string) (*Memory, error) {
	body := struct {
		PersonIDs []string `json:"personIds"`
	}{PersonIDs: personIDs}
	var out Memory
	if err := c.put(ctx, "/api/memories/"+memoryID+"/people", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMemoryEvent attaches the memory to an event, or detaches it when
// eventID is nil. The memory's place follows the event's place.
func (c *Client) SetMemoryEvent(ctx context.Context, memoryID string, eventID *string) (*Memory, error) {
	body := struct {
		EventID *string `json:"eventId"`
	}{EventID: eventID}
	var out Memory
	if err := c.put(ctx, "/api/memories/"+memoryID+"/event", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMemoryPlace sets or clears the memory's place. Fails with ErrConflict
// while an attached event locks the place; change the event instead.
func (c *Client) SetMemoryPlace(ctx context.Context, memoryID string, placeID *string) (*Memory, error) {
	body := struct {
		PlaceID *string `json:"placeId"`
	}{PlaceID: placeID}
	var out Memory
	if err := c.put(ctx, "/api/memories/"+memoryID+"/place", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
