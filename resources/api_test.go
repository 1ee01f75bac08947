package resources_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-app-core/api"
	"github.com/jrsteele09/go-app-core/resources"
)

type testConfig struct{ url string }

func (c testConfig) GetAPIURL() string            { return c.url }
func (c testConfig) GetAPITimeout() time.Duration { return 5 * time.Second }

func newTestAPI(t *testing.T, handler http.Handler) *resources.API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return resources.NewAPI(api.New(testConfig{url: srv.URL}))
}

func TestListPassesPagination(t *testing.T) {
	resourceAPI := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/resources", r.URL.Path)
		require.Equal(t, "3", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("pageSize"))
		json.NewEncoder(w).Encode(resources.ListResponse{
			Data:  []resources.Resource{{ID: "r1", Name: "first"}},
			Total: 41,
		})
	}))

	resp, err := resourceAPI.List(context.Background(), resources.ListParams{Page: 3, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 41, resp.Total)
	require.Len(t, resp.Data, 1)
	require.Equal(t, "r1", resp.Data[0].ID)
}

func TestListOmitsZeroPagination(t *testing.T) {
	resourceAPI := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(resources.ListResponse{})
	}))

	_, err := resourceAPI.List(context.Background(), resources.ListParams{})
	require.NoError(t, err)
}

func TestCreateUpdateDelete(t *testing.T) {
	resourceAPI := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/resources":
			var req resources.CreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "widget", req.Name)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(resources.Resource{ID: "r9", Name: req.Name})
		case r.Method == http.MethodPut && r.URL.Path == "/resources/r9":
			json.NewEncoder(w).Encode(resources.Resource{ID: "r9", Name: "renamed"})
		case r.Method == http.MethodDelete && r.URL.Path == "/resources/r9":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"NOT_FOUND","message":"not found"}`))
		}
	}))

	ctx := context.Background()

	created, err := resourceAPI.Create(ctx, resources.CreateRequest{Name: "widget"})
	require.NoError(t, err)
	require.Equal(t, "r9", created.ID)

	updated, err := resourceAPI.Update(ctx, "r9", resources.CreateRequest{Name: "renamed"})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Name)

	require.NoError(t, resourceAPI.Delete(ctx, "r9"))
}

func TestGetPropagatesNotFound(t *testing.T) {
	resourceAPI := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"NOT_FOUND","message":"no such resource"}`))
	}))

	_, err := resourceAPI.Get(context.Background(), "missing")
	require.Error(t, err)

	apiErr, ok := err.(*api.Error)
	require.True(t, ok)
	require.Equal(t, "NOT_FOUND", apiErr.Code)
}
