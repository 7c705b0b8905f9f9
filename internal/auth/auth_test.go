package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake/server/internal/store/memstore"
)

func TestExtractBearer(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ExtractBearer(r)
	require.Error(t, err)

	r.Header.Set("Authorization", "Basic abc")
	_, err = ExtractBearer(r)
	require.Error(t, err)

	r.Header.Set("Authorization", "Bearer tok_1")
	tok, err := ExtractBearer(r)
	require.NoError(t, err)
	require.Equal(t, "tok_1", tok)
}

func TestDevAuthorizer(t *testing.T) {
	a := NewDevAuthorizer()

	_, err := a.Authorize(context.Background(), "wrong")
	require.Error(t, err)

	ident, err := a.Authorize(context.Background(), LocalDevToken)
	require.NoError(t, err)
	require.Equal(t, "keepsake-dev", ident.ExternalID)
}

func TestMiddlewareProvisionsUser(t *testing.T) {
	st := memstore.New()
	var seen string
	h := Middleware(NewDevAuthorizer(), st.Users())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFrom(r.Context())
		require.NotNil(t, u)
		seen = u.ExternalID
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/memories", nil)
	r.Header.Set("Authorization", "Bearer "+LocalDevToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "keepsake-dev", seen)

	// Same token maps onto the same account on the next request.
	u, err := st.Users().GetByExternalID(context.Background(), "keepsake-dev")
	require.NoError(t, err)
	require.NotEmpty(t, u.DefaultCollectionID)
}

func TestStaticAuthorizer(t *testing.T) {
	_, err := NewStaticAuthorizer("")
	require.Error(t, err)
	_, err = NewStaticAuthorizer("garbage")
	require.Error(t, err)

	a, err := NewStaticAuthorizer("tok1=alice:alice@example.com, tok2=bob:bob@example.com")
	require.NoError(t, err)

	ident, err := a.Authorize(context.Background(), "tok2")
	require.NoError(t, err)
	require.Equal(t, "bob", ident.ExternalID)

	_, err = a.Authorize(context.Background(), "tok3")
	require.Error(t, err)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	st := memstore.New()
	h := Middleware(NewDevAuthorizer(), st.Users())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
