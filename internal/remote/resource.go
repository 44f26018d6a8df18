package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Routes describes where each verb of a resource lives, relative to the
// resource path. "{id}" is replaced with the record identifier.
type Routes struct {
	List         string
	Get          string
	Create       string
	Update       string
	Delete       string
	DeleteMethod string
}

// RESTRoutes is the conventional GET/POST/PUT/DELETE layout.
func RESTRoutes() Routes {
	return Routes{
		Get:          "{id}",
		Update:       "{id}",
		Delete:       "{id}",
		DeleteMethod: http.MethodDelete,
	}
}

// SoftDeleteRoutes marks records deleted through PUT {id}/delete.
func SoftDeleteRoutes() Routes {
	r := RESTRoutes()
	r.Delete = "{id}/delete"
	r.DeleteMethod = http.MethodPut
	return r
}

// Resource is the accessor for one REST resource. T is the record served by
// the upstream, D the draft sent on create and update.
type Resource[T any, D any] struct {
	client     *Client
	name       string
	path       string
	routes     Routes
	listQuery  url.Values
	updateBody func(id int, d D) any
}

func NewResource[T any, D any](client *Client, name, path string, routes Routes) *Resource[T, D] {
	if routes.DeleteMethod == "" {
		routes.DeleteMethod = http.MethodDelete
	}
	return &Resource[T, D]{
		client: client,
		name:   name,
		path:   path,
		routes: routes,
	}
}

// WithListQuery sets the query sent by List, e.g. includeDeleted=false.
func (r *Resource[T, D]) WithListQuery(q url.Values) *Resource[T, D] {
	r.listQuery = q
	return r
}

// WithUpdateBody replaces the draft sent on update, typically to add the id.
func (r *Resource[T, D]) WithUpdateBody(fn func(id int, d D) any) *Resource[T, D] {
	r.updateBody = fn
	return r
}

func (r *Resource[T, D]) Name() string { return r.name }

func (r *Resource[T, D]) Client() *Client { return r.client }

func (r *Resource[T, D]) List(ctx context.Context) ([]T, error) {
	return r.ListWhere(ctx, r.listQuery)
}

// ListWhere lists with an explicit query instead of the default one.
func (r *Resource[T, D]) ListWhere(ctx context.Context, q url.Values) ([]T, error) {
	var out []T
	target := r.client.URL(q, r.path, r.routes.List)
	if err := r.client.Do(ctx, "list "+r.name, http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r *Resource[T, D]) Get(ctx context.Context, id int) (T, error) {
	var out T
	target := r.client.URL(nil, r.path, withID(r.routes.Get, id))
	err := r.client.Do(ctx, fmt.Sprintf("get %s %d", r.name, id), http.MethodGet, target, nil, &out)
	return out, err
}

func (r *Resource[T, D]) Create(ctx context.Context, d D) (T, error) {
	var out T
	target := r.client.URL(nil, r.path, r.routes.Create)
	err := r.client.Do(ctx, "create "+r.name, http.MethodPost, target, d, &out)
	return out, err
}

func (r *Resource[T, D]) Update(ctx context.Context, id int, d D) (T, error) {
	var out T
	var body any = d
	if r.updateBody != nil {
		body = r.updateBody(id, d)
	}
	target := r.client.URL(nil, r.path, withID(r.routes.Update, id))
	err := r.client.Do(ctx, fmt.Sprintf("update %s %d", r.name, id), http.MethodPut, target, body, &out)
	return out, err
}

func (r *Resource[T, D]) Remove(ctx context.Context, id int) error {
	target := r.client.URL(nil, r.path, withID(r.routes.Delete, id))
	return r.client.Do(ctx, fmt.Sprintf("delete %s %d", r.name, id), r.routes.DeleteMethod, target, nil, nil)
}

func withID(route string, id int) string {
	if route == "" {
		return strconv.Itoa(id)
	}
	return strings.ReplaceAll(route, "{id}", strconv.Itoa(id))
}

// IDField returns an update body builder that sends the draft with the
// identifier added under key, e.g. {"id": 7, ...draft}.
func IDField[D any](key string) func(id int, d D) any {
	return func(id int, d D) any {
		fields := map[string]json.RawMessage{}
		if buf, err := json.Marshal(d); err == nil {
			_ = json.Unmarshal(buf, &fields)
		}
		fields[key] = json.RawMessage(strconv.Itoa(id))
		return fields
	}
}
