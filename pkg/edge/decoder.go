package edge

import (
	"encoding/json"

	"github.com/maxviazov/edge-client/pkg/pagination"
)

// EntityDecoder decodes expanded listings. The API wraps the records in an
// object with a single collection-type key, e.g. {"developer": [...]}.
type EntityDecoder[E any] struct {
	// Key is the expected outer key. When empty, any single key is accepted.
	Key string
}

// Decode unwraps the outer key and returns the records in response order.
func (d EntityDecoder[E]) Decode(body []byte) ([]E, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, pagination.NewDecodeError("decode listing envelope: %w", err)
	}
	if len(envelope) == 0 {
		return []E{}, nil
	}

	var raw json.RawMessage
	switch {
	case d.Key != "":
		v, ok := envelope[d.Key]
		if !ok {
			return nil, pagination.NewDecodeError("decode listing envelope: missing %q key", d.Key)
		}
		raw = v
	case len(envelope) == 1:
		for _, v := range envelope {
			raw = v
		}
	default:
		return nil, pagination.NewDecodeError("decode listing envelope: expected one collection key, got %d", len(envelope))
	}

	var items []E
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, pagination.NewDecodeError("decode listing items: %w", err)
	}
	if items == nil {
		items = []E{}
	}
	return items, nil
}

// IDDecoder decodes non-expanded listings: a bare JSON array of ids.
type IDDecoder struct{}

// Decode returns the ids in response order.
func (IDDecoder) Decode(body []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, pagination.NewDecodeError("decode id listing: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
