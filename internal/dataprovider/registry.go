// Package dataprovider maps resource names onto the backend's simple REST
// collections and performs generic list/get/create/update/delete calls.
package dataprovider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/esm-labs/paddock/internal/errors"
)

// ResourceUsers is the backend user collection.
const ResourceUsers = "users"

// Resource describes one REST collection.
type Resource struct {
	Name string
	// Path is the collection path, e.g. "/users".
	Path string
	// SortFields whitelists list sort fields; empty allows any.
	SortFields []string
	// DefaultSort is used when a list query names no sort field.
	DefaultSort string
	// ReadOnly rejects create/update/delete locally.
	ReadOnly bool
}

func (r Resource) allowsSort(field string) bool {
	if len(r.SortFields) == 0 {
		return true
	}
	for _, f := range r.SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// Registry is a concurrency-safe mapping from resource name to Resource.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewRegistry creates a registry holding resources.
func NewRegistry(resources ...Resource) *Registry {
	r := &Registry{resources: make(map[string]Resource, len(resources))}
	for _, res := range resources {
		r.Register(res)
	}
	return r
}

// DefaultRegistry returns the resources the admin screens use.
func DefaultRegistry() *Registry {
	return NewRegistry(Resource{
		Name:        ResourceUsers,
		Path:        "/users",
		SortFields:  []string{"id", "username", "full_name", "role"},
		DefaultSort: "id",
	})
}

// Register adds or replaces a resource. Path defaults to "/<name>".
func (r *Registry) Register(res Resource) {
	res.Name = strings.TrimSpace(res.Name)
	if res.Path == "" {
		res.Path = "/" + res.Name
	}
	res.Path = "/" + strings.Trim(res.Path, "/")
	r.mu.Lock()
	r.resources[res.Name] = res
	r.mu.Unlock()
}

// Lookup returns the resource registered under name.
func (r *Registry) Lookup(name string) (Resource, error) {
	r.mu.RLock()
	res, ok := r.resources[name]
	r.mu.RUnlock()
	if !ok {
		return Resource{}, apperrors.ValidationField("resource", fmt.Sprintf("unknown resource %q", name))
	}
	return res, nil
}

// Names lists registered resource names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.resources))
	for name := range r.resources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
