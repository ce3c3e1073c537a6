package edge

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/maxviazov/edge-client/pkg/pagination"
)

// DeveloperController lists the developers of an organization.
//
// A nil pager traverses the whole collection; a non-nil pager fetches exactly
// that page.
type DeveloperController interface {
	List(ctx context.Context, pager *pagination.Pager) (*pagination.Ordered[Developer], error)
	ListBy(ctx context.Context, pager *pagination.Pager, key pagination.KeyFunc[Developer]) (*pagination.Ordered[Developer], error)
	ListIDs(ctx context.Context, pager *pagination.Pager) ([]string, error)
}

// APIProductController lists the API products of an organization.
type APIProductController interface {
	List(ctx context.Context, pager *pagination.Pager) (*pagination.Ordered[APIProduct], error)
	ListBy(ctx context.Context, pager *pagination.Pager, key pagination.KeyFunc[APIProduct]) (*pagination.Ordered[APIProduct], error)
	ListIDs(ctx context.Context, pager *pagination.Pager) ([]string, error)
	// ListByAttribute traverses the products carrying attribute name=value.
	ListByAttribute(ctx context.Context, name, value string) (*pagination.Ordered[APIProduct], error)
}

// listing is the traverser-backed implementation shared by all controllers.
type listing[E pagination.Entity] struct {
	traverser *pagination.Traverser[E]
	log       zerolog.Logger
}

func newListing[E pagination.Entity](c *Client, collection, envelopeKey string) (*listing[E], error) {
	log := c.log.With().Str("component", collection).Logger()
	t, err := pagination.New(pagination.Config[E]{
		Endpoint:  c.collectionURI(collection),
		Transport: c,
		Entities:  EntityDecoder[E]{Key: envelopeKey},
		IDs:       IDDecoder{},
		PageSize:  c.pageSize,
		Logger:    &log,
	})
	if err != nil {
		return nil, err
	}
	return &listing[E]{traverser: t, log: log}, nil
}

func (l *listing[E]) List(ctx context.Context, pager *pagination.Pager) (*pagination.Ordered[E], error) {
	return l.list(ctx, pager, nil, nil)
}

func (l *listing[E]) ListBy(ctx context.Context, pager *pagination.Pager, key pagination.KeyFunc[E]) (*pagination.Ordered[E], error) {
	return l.list(ctx, pager, nil, key)
}

func (l *listing[E]) ListIDs(ctx context.Context, pager *pagination.Pager) ([]string, error) {
	ids, err := l.traverser.ListEntityIDs(ctx, pager, nil)
	if err != nil {
		// traverser errors already carry their kind, do not wrap.
		l.log.Error().Err(err).Bool("paged", pager != nil).Msg("list ids failed")
		return nil, err
	}
	return ids, nil
}

func (l *listing[E]) list(ctx context.Context, pager *pagination.Pager, params pagination.Params, key pagination.KeyFunc[E]) (*pagination.Ordered[E], error) {
	var (
		out *pagination.Ordered[E]
		err error
	)
	if key == nil {
		out, err = l.traverser.ListEntities(ctx, pager, params)
	} else {
		out, err = l.traverser.ListEntitiesBy(ctx, pager, params, key)
	}
	if err != nil {
		l.log.Error().Err(err).Bool("paged", pager != nil).Msg("list entities failed")
		return nil, err
	}
	return out, nil
}

// NewDeveloperController returns the developer listing of c's organization.
func NewDeveloperController(c *Client) (DeveloperController, error) {
	l, err := newListing[Developer](c, "developers", "developer")
	if err != nil {
		return nil, err
	}
	return l, nil
}

type apiProductController struct {
	*listing[APIProduct]
}

// NewAPIProductController returns the API product listing of c's organization.
func NewAPIProductController(c *Client) (APIProductController, error) {
	l, err := newListing[APIProduct](c, "apiproducts", "apiProduct")
	if err != nil {
		return nil, err
	}
	return &apiProductController{listing: l}, nil
}

func (p *apiProductController) ListByAttribute(ctx context.Context, name, value string) (*pagination.Ordered[APIProduct], error) {
	return p.list(ctx, nil, pagination.Params{
		"attributename":  name,
		"attributevalue": value,
	}, nil)
}
