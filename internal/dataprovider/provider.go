package dataprovider

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/esm-labs/paddock/internal/apiclient"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/ports"
)

// Doer is the authorized-fetch path; *apiclient.Client implements it.
type Doer interface {
	Do(ctx context.Context, ts ports.TokenSource, req apiclient.Request) (*apiclient.Response, error)
}

// Provider implements ports.ResourceProvider over a Registry.
type Provider struct {
	registry *Registry
	doer     Doer
}

var _ ports.ResourceProvider = (*Provider)(nil)

// New creates a Provider. A nil registry uses DefaultRegistry.
func New(doer Doer, registry *Registry) *Provider {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Provider{registry: registry, doer: doer}
}

// Registry exposes the provider's resource registry.
func (p *Provider) Registry() *Registry { return p.registry }

// List fetches one page into out and returns the total row count.
func (p *Provider) List(ctx context.Context, ts ports.TokenSource, resource string, q model.ListQuery, out any) (int, error) {
	res, err := p.registry.Lookup(resource)
	if err != nil {
		return 0, err
	}
	values, err := listValues(res, q)
	if err != nil {
		return 0, err
	}
	resp, err := p.doer.Do(ctx, ts, apiclient.Request{
		Method:   http.MethodGet,
		Path:     res.Path,
		Query:    values,
		Endpoint: res.Path,
	})
	if err != nil {
		return 0, err
	}

	var rows []json.RawMessage
	if err := resp.Decode(&rows); err != nil {
		return 0, err
	}
	if err := resp.Decode(out); err != nil {
		return 0, err
	}
	total, ok := ParseContentRange(resp.Header.Get("Content-Range"))
	if !ok {
		total = len(rows)
	}
	return total, nil
}

func (p *Provider) Get(ctx context.Context, ts ports.TokenSource, resource, id string, out any) error {
	res, err := p.registry.Lookup(resource)
	if err != nil {
		return err
	}
	resp, err := p.doer.Do(ctx, ts, itemRequest(res, http.MethodGet, id, nil))
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (p *Provider) Create(ctx context.Context, ts ports.TokenSource, resource string, in, out any) error {
	res, err := p.writable(resource)
	if err != nil {
		return err
	}
	resp, err := p.doer.Do(ctx, ts, apiclient.Request{
		Method:   http.MethodPost,
		Path:     res.Path,
		Body:     in,
		Endpoint: res.Path,
	})
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (p *Provider) Update(ctx context.Context, ts ports.TokenSource, resource, id string, in, out any) error {
	res, err := p.writable(resource)
	if err != nil {
		return err
	}
	resp, err := p.doer.Do(ctx, ts, itemRequest(res, http.MethodPut, id, in))
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (p *Provider) Delete(ctx context.Context, ts ports.TokenSource, resource, id string) error {
	res, err := p.writable(resource)
	if err != nil {
		return err
	}
	_, err = p.doer.Do(ctx, ts, itemRequest(res, http.MethodDelete, id, nil))
	return err
}

func (p *Provider) writable(resource string) (Resource, error) {
	res, err := p.registry.Lookup(resource)
	if err != nil {
		return Resource{}, err
	}
	if res.ReadOnly {
		return Resource{}, apperrors.ValidationField("resource", "resource "+res.Name+" is read-only")
	}
	return res, nil
}

func itemRequest(res Resource, method, id string, body any) apiclient.Request {
	return apiclient.Request{
		Method:   method,
		Path:     res.Path + "/" + url.PathEscape(id),
		Body:     body,
		Endpoint: res.Path + "/{id}",
	}
}

// listValues encodes sort, range and filter as JSON the way simple REST backends expect.
func listValues(res Resource, q model.ListQuery) (url.Values, error) {
	field := q.SortField
	if field == "" {
		field = res.DefaultSort
	}
	if field != "" && !res.allowsSort(field) {
		return nil, apperrors.ValidationField("sort", "cannot sort "+res.Name+" by "+field)
	}
	order := model.SortOrder(strings.ToUpper(string(q.Order)))
	if order != model.SortDesc {
		order = model.SortAsc
	}
	if q.Start < 0 || q.End < q.Start {
		return nil, apperrors.ValidationField("range", "invalid list range")
	}

	values := url.Values{}
	if field != "" {
		sortJSON, err := json.Marshal([]string{field, string(order)})
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode sort")
		}
		values.Set("sort", string(sortJSON))
	}
	rangeJSON, err := json.Marshal([]int{q.Start, q.End})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode range")
	}
	values.Set("range", string(rangeJSON))

	filter := q.Filter
	if filter == nil {
		filter = map[string]any{}
	}
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode filter")
	}
	values.Set("filter", string(filterJSON))
	return values, nil
}

// ParseContentRange reads the total from "users 0-9/42". An unknown total ("*") reports false.
func ParseContentRange(header string) (int, bool) {
	header = strings.TrimSpace(header)
	slash := strings.LastIndexByte(header, '/')
	if slash < 0 {
		return 0, false
	}
	total, err := strconv.Atoi(strings.TrimSpace(header[slash+1:]))
	if err != nil || total < 0 {
		return 0, false
	}
	return total, true
}
