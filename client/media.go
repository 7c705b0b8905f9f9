package client

import (
	"context"
	"io"
	"net/http"
)

// UploadMedia streams a file to media storage and returns the storage key
// and original filename to record on a memory.
func (c *Client) UploadMedia(ctx context.Context, filename, mimeType string, r io.Reader) (*MediaUpload, error) {
	var out MediaUpload
	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", filename, mimeType, r).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/api/media")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return &out, nil
}

// PresignUpload requests a direct-upload URL for a PUT of the given mime
// type. Only supported against S3-backed deployments; the local-disk backend
// answers 501.
func (c *Client) PresignUpload(ctx context.Context, mimeType string) (uploadURL, mediaURL string, err error) {
	body := struct {
		MimeType string `json:"mimeType"`
	}{MimeType: mimeType}
	var out struct {
		UploadURL string `json:"uploadUrl"`
		MediaURL  string `json:"mediaUrl"`
	}
	if err := c.post(ctx, "/api/media/presign", body, &out); err != nil {
		return "", "", err
	}
	return out.UploadURL, out.MediaURL, nil
}

// DownloadMedia fetches a stored file. The caller must close the reader.
func (c *Client) DownloadMedia(ctx context.Context, key string) (io.ReadCloser, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get("/api/media/" + key)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		defer func() { _ = resp.RawBody().Close() }()
		body, _ := io.ReadAll(resp.RawBody())
		apiErr := &APIError{Status: resp.StatusCode(), Message: string(body)}
		return nil, "", apiErr
	}
	return resp.RawBody(), resp.Header().Get("Content-Type"), nil
}
