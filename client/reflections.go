package client

import "context"

func (c *Client) CreateReflection(ctx context.Context, memoryID, title, content string) (*Reflection, error) {
	body := struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}{Title: title, Content: content}
	var out Reflection
	if err := c.post(ctx, "/api/memories/"+memoryID+"/reflections", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListReflections(ctx context.Context, memoryID string) ([]*Reflection, error) {
	var out struct {
		Reflections []*Reflection `json:"reflections"`
	}
	if err := c.get(ctx, "/api/memories/"+memoryID+"/reflections", &out); err != nil {
		return nil, err
	}
	return out.Reflections, nil
}

func (c *Client) GetReflection(ctx context.Context, memoryID, reflectionID string) (*Reflection, error) {
	var out Reflection
	if err := c.get(ctx, "/api/memories/"+memoryID+"/reflections/"+reflectionID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReflection(ctx context.Context, memoryID, reflectionID string, fields UpdateFields) (*Reflection, error) {
	var out Reflection
	if err := c.patch(ctx, "/api/memories/"+memoryID+"/reflections/"+reflectionID, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReflection(ctx context.Context, memoryID, reflectionID string) error {
	return c.delete(ctx, "/api/memories/"+memoryID+"/reflections/"+reflectionID)
}
