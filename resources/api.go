// Package resources is the generic CRUD endpoint group the app template
// ships as its example data type.
package resources

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/go-app-core/api"
)

// Resource is the example domain record
type Resource struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ListParams controls pagination; zero values are omitted and the server
// applies its defaults
type ListParams struct {
	Page     int
	PageSize int
}

// ListResponse is a page of resources plus the total match count
type ListResponse struct {
	Data  []Resource `json:"data"`
	Total int        `json:"total"`
}

// API is the resource endpoint group
type API struct {
	client *api.Client
}

func NewAPI(client *api.Client) *API {
	return &API{client: client}
}

// List fetches one page of resources
func (a *API) List(ctx context.Context, params ListParams) (*ListResponse, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(params.PageSize))
	}

	var resp ListResponse
	if err := a.client.Get(ctx, "/resources", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get fetches a single resource by ID
func (a *API) Get(ctx context.Context, id string) (*Resource, error) {
	var resource Resource
	if err := a.client.Get(ctx, "/resources/"+url.PathEscape(id), nil, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// CreateRequest carries the fields of a new resource
type CreateRequest struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data,omitempty"`
}

// Create stores a new resource
func (a *API) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	var resource Resource
	if err := a.client.Post(ctx, "/resources", req, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// Update replaces a resource's mutable fields
func (a *API) Update(ctx context.Context, id string, req CreateRequest) (*Resource, error) {
	var resource Resource
	if err := a.client.Put(ctx, "/resources/"+url.PathEscape(id), req, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// Delete removes a resource
func (a *API) Delete(ctx context.Context, id string) error {
	return a.client.Delete(ctx, "/resources/"+url.PathEscape(id), nil)
}
