package pagination_test

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/maxviazov/edge-client/pkg/pagination"
)

// item is a minimal entity keyed by Name; Label is an alternative key the
// fake remote also resolves as a cursor.
type item struct {
	Name  string
	Label string
}

func (i item) ID() string { return i.Name }

// fakeRemote serves an ordered collection of keys with inclusive-cursor
// semantics. Pages are JSON arrays of keys.
type fakeRemote struct {
	mu          sync.Mutex
	keys        []string
	defaultSize int // page size used when count is omitted
	maxSize     int // caps every page when > 0, whatever count asks for
	calls       []url.Values
	failOn      int   // 1-based call number to fail, 0 = never
	failErr     error // returned on failOn
	onCall      func(n int)
}

func newFakeRemote(defaultSize int, keys ...string) *fakeRemote {
	return &fakeRemote{keys: keys, defaultSize: defaultSize}
}

func (f *fakeRemote) Get(_ context.Context, uri string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, err := url.Parse(uri)
	if err != nil {
		return nil, &pagination.TransportError{URI: uri, Err: err}
	}
	q := u.Query()
	f.calls = append(f.calls, q)
	n := len(f.calls)
	if f.onCall != nil {
		f.onCall(n)
	}
	if f.failOn == n {
		return nil, f.failErr
	}

	size := f.defaultSize
	if c := q.Get("count"); c != "" {
		size, _ = strconv.Atoi(c)
	}
	if f.maxSize > 0 {
		size = min(size, f.maxSize)
	}
	start := 0
	if sk := q.Get("startKey"); sk != "" {
		start = len(f.keys)
		for i, k := range f.keys {
			if strings.EqualFold(k, sk) {
				start = i
				break
			}
		}
	}
	end := min(start+size, len(f.keys))
	return json.Marshal(f.keys[start:end])
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRemote) call(n int) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[n]
}

type idDecoder struct{}

func (idDecoder) Decode(body []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, pagination.NewDecodeError("decode ids: %w", err)
	}
	return ids, nil
}

type itemDecoder struct{}

func (itemDecoder) Decode(body []byte) ([]item, error) {
	ids, err := idDecoder{}.Decode(body)
	if err != nil {
		return nil, err
	}
	out := make([]item, 0, len(ids))
	for _, id := range ids {
		out = append(out, item{Name: id, Label: strings.ToUpper(id)})
	}
	return out, nil
}

const testEndpoint = "https://edge.example.com/v1/organizations/acme/items"

func mustEndpoint(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse(testEndpoint)
	if err != nil {
		t.Fatalf("parse endpoint: %v", err)
	}
	return u
}

func newTraverser(remote pagination.Transport, pageSize int) (*pagination.Traverser[item], error) {
	endpoint, _ := url.Parse(testEndpoint)
	return pagination.New(pagination.Config[item]{
		Endpoint:  endpoint,
		Transport: remote,
		Entities:  itemDecoder{},
		IDs:       idDecoder{},
		PageSize:  pageSize,
	})
}
