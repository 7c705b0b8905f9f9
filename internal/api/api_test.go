package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/mediastore/local"
	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store/memstore"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	media, err := local.NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	router := NewRouter(Deps{
		Store:      memstore.New(),
		Media:      media,
		Authorizer: auth.NewDevAuthorizer(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+auth.LocalDevToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/api/memories")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	BindServiceHealth(func() bool { return true })
	resp, err := srv.Client().Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthSyncReturnsAccount(t *testing.T) {
	srv := newTestServer(t)
	var user model.User
	code := doJSON(t, srv, http.MethodPost, "/api/auth/sync", nil, &user)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "keepsake-dev", user.ExternalID)
	require.NotEmpty(t, user.DefaultCollectionID)
}

func TestMemoryAssociationFlow(t *testing.T) {
	srv := newTestServer(t)

	var place model.Place
	code := doJSON(t, srv, http.MethodPost, "/api/places", map[string]interface{}{
		"name": "Town Hall", "city": "Porto", "country": "PT",
	}, &place)
	require.Equal(t, http.StatusCreated, code)

	var otherPlace model.Place
	code = doJSON(t, srv, http.MethodPost, "/api/places", map[string]interface{}{
		"name": "Cafe", "city": "Porto", "country": "PT",
	}, &otherPlace)
	require.Equal(t, http.StatusCreated, code)

	var event model.Event
	code = doJSON(t, srv, http.MethodPost, "/api/events", map[string]interface{}{
		"title": "Wedding", "date": time.Now().UTC(), "dateType": "day", "placeId": place.PlaceID,
	}, &event)
	require.Equal(t, http.StatusCreated, code)

	// Creating the memory with the event derives the place.
	var memory model.Memory
	code = doJSON(t, srv, http.MethodPost, "/api/memories", map[string]interface{}{
		"title": "First dance", "mediaType": "photo", "mediaUrl": "k.jpg", "mediaName": "k.jpg",
		"date": time.Now().UTC(), "dateType": "day", "eventId": event.EventID,
	}, &memory)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, memory.PlaceID)
	require.Equal(t, place.PlaceID, *memory.PlaceID)

	// The derived place is locked: 409 on a differing request.
	code = doJSON(t, srv, http.MethodPut, "/api/memories/"+memory.MemoryID+"/place", map[string]interface{}{
		"placeId": otherPlace.PlaceID,
	}, nil)
	require.Equal(t, http.StatusConflict, code)

	// Detach the event; derived place goes with it. Reset before decoding:
	// omitted response fields would otherwise leave stale pointers behind.
	memory = model.Memory{MemoryID: memory.MemoryID}
	code = doJSON(t, srv, http.MethodPut, "/api/memories/"+memory.MemoryID+"/event", map[string]interface{}{
		"eventId": nil,
	}, &memory)
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, memory.EventID)
	require.Nil(t, memory.PlaceID)

	// Now the place is free to set.
	memory = model.Memory{MemoryID: memory.MemoryID}
	code = doJSON(t, srv, http.MethodPut, "/api/memories/"+memory.MemoryID+"/place", map[string]interface{}{
		"placeId": otherPlace.PlaceID,
	}, &memory)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, otherPlace.PlaceID, *memory.PlaceID)
}

func TestMemoryPatchAndPeople(t *testing.T) {
	srv := newTestServer(t)

	var person model.Person
	code := doJSON(t, srv, http.MethodPost, "/api/persons", map[string]interface{}{"name": "Rui"}, &person)
	require.Equal(t, http.StatusCreated, code)

	var memory model.Memory
	code = doJSON(t, srv, http.MethodPost, "/api/memories", map[string]interface{}{
		"title": "Lunch", "mediaType": "photo", "mediaUrl": "l.jpg", "mediaName": "l.jpg",
		"date": time.Now().UTC(), "dateType": "exact",
	}, &memory)
	require.Equal(t, http.StatusCreated, code)

	code = doJSON(t, srv, http.MethodPut, "/api/memories/"+memory.MemoryID+"/people", map[string]interface{}{
		"personIds": []string{person.PersonID},
	}, &memory)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []string{person.PersonID}, memory.PeopleIDs)

	// Partial update: set description, clear nothing else.
	code = doJSON(t, srv, http.MethodPatch, "/api/memories/"+memory.MemoryID, map[string]interface{}{
		"description": "with the team",
	}, &memory)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, memory.Description)
	require.Equal(t, "Lunch", memory.Title)

	// Explicit null clears the description. Reset first: the cleared field
	// is omitted from the response and would not overwrite the old pointer.
	memory = model.Memory{MemoryID: memory.MemoryID}
	code = doJSON(t, srv, http.MethodPatch, "/api/memories/"+memory.MemoryID, json.RawMessage(`{"description":null}`), &memory)
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, memory.Description)

	code = doJSON(t, srv, http.MethodGet, "/api/memories/search?q=lun", nil, nil)
	require.Equal(t, http.StatusOK, code)

	code = doJSON(t, srv, http.MethodDelete, "/api/memories/"+memory.MemoryID, nil, nil)
	require.Equal(t, http.StatusNoContent, code)
	code = doJSON(t, srv, http.MethodGet, "/api/memories/"+memory.MemoryID, nil, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestReflectionEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var memory model.Memory
	code := doJSON(t, srv, http.MethodPost, "/api/memories", map[string]interface{}{
		"title": "Hike", "mediaType": "photo", "mediaUrl": "h.jpg", "mediaName": "h.jpg",
		"date": time.Now().UTC(), "dateType": "day",
	}, &memory)
	require.Equal(t, http.StatusCreated, code)

	var refl model.Reflection
	code = doJSON(t, srv, http.MethodPost, "/api/memories/"+memory.MemoryID+"/reflections", map[string]interface{}{
		"title": "Looking back", "content": "That was a long climb.",
	}, &refl)
	require.Equal(t, http.StatusCreated, code)

	code = doJSON(t, srv, http.MethodPatch,
		fmt.Sprintf("/api/memories/%s/reflections/%s", memory.MemoryID, refl.ReflectionID),
		map[string]interface{}{"content": "Worth every step."}, &refl)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Worth every step.", refl.Content)

	code = doJSON(t, srv, http.MethodDelete,
		fmt.Sprintf("/api/memories/%s/reflections/%s", memory.MemoryID, refl.ReflectionID), nil, nil)
	require.Equal(t, http.StatusNoContent, code)
}

func TestAttributeEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var first, second model.Attribute
	code := doJSON(t, srv, http.MethodPost, "/api/attributes", map[string]interface{}{
		"name": "Mood", "entityType": "person",
	}, &first)
	require.Equal(t, http.StatusCreated, code)

	// Re-creating the same name returns the existing entry.
	code = doJSON(t, srv, http.MethodPost, "/api/attributes", map[string]interface{}{
		"name": "mood", "entityType": "person",
	}, &second)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, first.AttributeID, second.AttributeID)

	var listed struct {
		Attributes []model.Attribute `json:"attributes"`
		Count      int               `json:"count"`
	}
	code = doJSON(t, srv, http.MethodGet, "/api/attributes?entityType=person", nil, &listed)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, listed.Count)

	code = doJSON(t, srv, http.MethodGet, "/api/attributes?entityType=animal", nil, nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestMediaUploadAndFetch(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/media", &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+auth.LocalDevToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded struct {
		MediaURL  string `json:"mediaUrl"`
		MediaName string `json:"mediaName"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	require.NotEmpty(t, uploaded.MediaURL)
	require.Equal(t, "photo.jpg", uploaded.MediaName)

	get, err := http.NewRequest(http.MethodGet, srv.URL+"/api/media/"+uploaded.MediaURL, nil)
	require.NoError(t, err)
	get.Header.Set("Authorization", "Bearer "+auth.LocalDevToken)
	getResp, err := srv.Client().Do(get)
	require.NoError(t, err)
	defer func() { _ = getResp.Body.Close() }()
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	body, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg bytes"), body)
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	// Missing title
	code := doJSON(t, srv, http.MethodPost, "/api/memories", map[string]interface{}{
		"mediaType": "photo", "mediaUrl": "x.jpg", "mediaName": "x.jpg",
		"date": time.Now().UTC(), "dateType": "day",
	}, nil)
	require.Equal(t, http.StatusBadRequest, code)

	// Bad media type
	code = doJSON(t, srv, http.MethodPost, "/api/memories", map[string]interface{}{
		"title": "x", "mediaType": "video", "mediaUrl": "x.mp4", "mediaName": "x.mp4",
		"date": time.Now().UTC(), "dateType": "day",
	}, nil)
	require.Equal(t, http.StatusBadRequest, code)

	// Unknown event referenced on create
	code = doJSON(t, srv, http.MethodPost, "/api/memories", map[string]interface{}{
		"title": "x", "mediaType": "photo", "mediaUrl": "x.jpg", "mediaName": "x.jpg",
		"date": time.Now().UTC(), "dateType": "day", "eventId": "missing",
	}, nil)
	require.Equal(t, http.StatusNotFound, code)

	// Person cannot be their own spouse
	var person model.Person
	code = doJSON(t, srv, http.MethodPost, "/api/persons", map[string]interface{}{"name": "Eva"}, &person)
	require.Equal(t, http.StatusCreated, code)
	code = doJSON(t, srv, http.MethodPatch, "/api/persons/"+person.PersonID, map[string]interface{}{
		"spouseId": person.PersonID,
	}, nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestPresignUnsupportedOnLocalBackend(t *testing.T) {
	srv := newTestServer(t)
	code := doJSON(t, srv, http.MethodPost, "/api/media/presign", map[string]string{"mimeType": "image/png"}, nil)
	require.Equal(t, http.StatusNotImplemented, code)
}
