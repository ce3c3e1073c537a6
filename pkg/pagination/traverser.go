// Package pagination turns the remote API's bounded "up to N items starting at
// key K" listing into a complete traversal of a collection.
//
// The remote API uses inclusive cursors: a page requested with startKey=K
// starts with the item whose key is K. A full traversal therefore drops the
// first item of every page after the first one.
package pagination

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

const (
	expandParam = "expand"
)

// Transport executes a GET against uri and returns the response body.
// Failures should be reported as *TransportError.
type Transport interface {
	Get(ctx context.Context, uri string) ([]byte, error)
}

// Decoder turns a response body into the ordered items of one page.
// Failures should be reported as *DecodeError.
type Decoder[T any] interface {
	Decode(body []byte) ([]T, error)
}

// Entity is a materialized record with a default unique key.
type Entity interface {
	ID() string
}

// KeyFunc returns the unique key of an entity.
type KeyFunc[E any] func(E) string

// Params are extra query parameters sent with every page request.
type Params map[string]string

// withDefault returns a copy of p with key set to value unless the caller
// already supplied it.
func (p Params) withDefault(key, value string) Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	if _, ok := out[key]; !ok {
		out[key] = value
	}
	return out
}

// Config wires a Traverser to its collaborators.
type Config[E Entity] struct {
	// Endpoint is the collection URI, e.g. .../organizations/acme/developers.
	Endpoint *url.URL
	// Transport performs the GET requests.
	Transport Transport
	// Entities decodes expanded listings, IDs decodes bare id listings.
	Entities Decoder[E]
	IDs      Decoder[string]
	// PageSize is sent as count on the first page of a full traversal; 0
	// leaves the page size to the server. Later pages always use the server
	// default.
	PageSize int
	Logger   *zerolog.Logger
}

// Traverser lists an entire remote collection page by page.
// It holds no per-call state and is safe for concurrent use if its
// collaborators are.
type Traverser[E Entity] struct {
	endpoint  url.URL
	transport Transport
	entities  Decoder[E]
	ids       Decoder[string]
	pageSize  int
	log       zerolog.Logger
}

// New validates cfg and builds a Traverser.
func New[E Entity](cfg Config[E]) (*Traverser[E], error) {
	if cfg.Endpoint == nil {
		return nil, errors.New("pagination: endpoint is required")
	}
	if cfg.Transport == nil {
		return nil, errors.New("pagination: transport is required")
	}
	if cfg.Entities == nil || cfg.IDs == nil {
		return nil, errors.New("pagination: entity and id decoders are required")
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	if cfg.PageSize < 0 {
		cfg.PageSize = 0
	}
	return &Traverser[E]{
		endpoint:  *cfg.Endpoint,
		transport: cfg.Transport,
		entities:  cfg.Entities,
		ids:       cfg.IDs,
		pageSize:  cfg.PageSize,
		log: log.With().
			Str("module", "pagination").
			Str("component", "traverser").
			Str("endpoint", cfg.Endpoint.Path).
			Logger(),
	}, nil
}

// ListEntities lists entities keyed by their ID. See ListEntitiesBy.
func (t *Traverser[E]) ListEntities(ctx context.Context, pager *Pager, params Params) (*Ordered[E], error) {
	return t.ListEntitiesBy(ctx, pager, params, func(e E) string { return e.ID() })
}

// ListEntitiesBy lists entities keyed by key.
//
// With a non-nil pager exactly one page is fetched and returned as is. With a
// nil pager the whole collection is traversed. Any failure aborts the call
// without a partial result.
func (t *Traverser[E]) ListEntitiesBy(ctx context.Context, pager *Pager, params Params, key KeyFunc[E]) (*Ordered[E], error) {
	params = params.withDefault(expandParam, "true")
	fetch := func(ctx context.Context, p Pager) ([]E, error) {
		body, err := t.resultsInRange(ctx, p, params)
		if err != nil {
			return nil, err
		}
		return t.entities.Decode(body)
	}

	if pager != nil {
		page, err := fetch(ctx, *pager)
		if err != nil {
			return nil, err
		}
		out := newOrdered[E](len(page))
		for _, e := range page {
			out.add(key(e), e)
		}
		return out, nil
	}

	out := newOrdered[E](0)
	if err := traverse(ctx, t.log, t.pageSize, fetch, key, out.add); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEntityIDs lists entity ids in remote order, with the same pager
// semantics as ListEntitiesBy.
func (t *Traverser[E]) ListEntityIDs(ctx context.Context, pager *Pager, params Params) ([]string, error) {
	params = params.withDefault(expandParam, "false")
	fetch := func(ctx context.Context, p Pager) ([]string, error) {
		body, err := t.resultsInRange(ctx, p, params)
		if err != nil {
			return nil, err
		}
		return t.ids.Decode(body)
	}

	if pager != nil {
		ids, err := fetch(ctx, *pager)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []string{}
		}
		return ids, nil
	}

	ids := []string{}
	appendID := func(_ string, id string) bool {
		ids = append(ids, id)
		return true
	}
	if err := traverse(ctx, t.log, t.pageSize, fetch, func(id string) string { return id }, appendID); err != nil {
		return nil, err
	}
	return ids, nil
}

// traverse fetches pages until one contributes no new item.
//
// The first page is requested from the start of the collection with count
// set to pageSize. Every later page starts at the key of the last item added,
// leaves the size to the server, and its first item, which repeats that key,
// is dropped. add reports whether the item was new.
func traverse[T any](
	ctx context.Context,
	log zerolog.Logger,
	pageSize int,
	fetch func(context.Context, Pager) ([]T, error),
	key func(T) string,
	add func(string, T) bool,
) error {
	start := time.Now()

	page, err := fetch(ctx, NewPager("", pageSize))
	if err != nil {
		log.Error().Err(err).Msg("first page fetch failed")
		return err
	}
	for _, item := range page {
		add(key(item), item)
	}
	pages, items := 1, len(page)
	log.Debug().Int("items", len(page)).Msg("first page fetched")

	if len(page) > 0 {
		cursor := key(page[len(page)-1])
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err = fetch(ctx, NewPager(cursor, 0))
			if err != nil {
				log.Error().Err(err).Str("start_key", cursor).Int("pages", pages).Msg("page fetch failed")
				return err
			}
			pages++

			raw := len(page)
			if raw > 0 {
				page = page[1:]
			}
			added, last := 0, ""
			for _, item := range page {
				k := key(item)
				if add(k, item) {
					added++
					last = k
				}
			}
			items += added
			log.Debug().Str("start_key", cursor).Int("items", raw).Int("added", added).Msg("page fetched")

			if added == 0 {
				break
			}
			cursor = last
		}
	}

	log.Debug().Int("pages", pages).Int("items", items).Dur("took", time.Since(start)).Msg("traversal finished")
	return nil
}

// resultsInRange fetches the raw body of one page. Collaborator errors are
// returned unchanged.
func (t *Traverser[E]) resultsInRange(ctx context.Context, pager Pager, params Params) ([]byte, error) {
	uri, err := t.requestURI(pager, params)
	if err != nil {
		return nil, err
	}
	return t.transport.Get(ctx, uri)
}

// requestURI merges params with the pager's startKey and count. Pager values
// replace caller values of the same name.
func (t *Traverser[E]) requestURI(pager Pager, params Params) (string, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	pq, err := query.Values(pager.query())
	if err != nil {
		return "", err
	}
	for k := range pq {
		values.Set(k, pq.Get(k))
	}
	u := t.endpoint
	u.RawQuery = values.Encode()
	return u.String(), nil
}
