package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// Resource is a typed view over one backend collection, following the
// backend's URL convention: `/<resource>/` for the collection and
// `/<resource>/<id>/` for members.
type Resource[T any] struct {
	client *Client
	name   string
}

// NewResource binds a resource name ("batches", "courses", ...) to a client.
func NewResource[T any](client *Client, name string) Resource[T] {
	return Resource[T]{client: client, name: name}
}

// List fetches the collection with optional query-string filters.
func (r Resource[T]) List(ctx context.Context, filters url.Values) (List[T], error) {
	raw, _, err := r.client.do(ctx, http.MethodGet, "/"+r.name+"/", filters, nil)
	if err != nil {
		return List[T]{}, err
	}
	return DecodeList[T](raw)
}

// Create posts a draft and returns the server-confirmed entity.
func (r Resource[T]) Create(ctx context.Context, payload interface{}) (T, error) {
	var created T
	err := r.client.Do(ctx, http.MethodPost, "/"+r.name+"/", nil, payload, &created)
	return created, err
}

// Patch partially updates a member, returning the backend's echo.
func (r Resource[T]) Patch(ctx context.Context, id string, payload interface{}) (T, error) {
	var updated T
	err := r.client.Do(ctx, http.MethodPatch, "/"+r.name+"/"+id+"/", nil, payload, &updated)
	return updated, err
}

// Delete removes a member.
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, http.MethodDelete, "/"+r.name+"/"+id+"/", nil, nil, nil)
}
