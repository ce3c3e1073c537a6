// Package edgetest runs an in-process fake of the management API listing
// endpoints. Collections are served with inclusive-cursor pagination: a page
// requested with startKey=K begins with the record whose key is K.
package edgetest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// BasePath is the API version prefix served by the fake.
const BasePath = "/v1"

// Collection is a remote collection served under
// /v1/organizations/:org/<Name>.
type Collection struct {
	Name        string           // path segment, e.g. "developers"
	EnvelopeKey string           // outer key of expanded listings, e.g. "developer"
	KeyField    string           // record field holding the unique key
	PageSize    int              // page size when count is omitted
	MaxPageSize int              // upper bound on any page when > 0
	Records     []map[string]any // in collection order
}

func (c *Collection) key(i int) string {
	s, _ := c.Records[i][c.KeyField].(string)
	return s
}

// filter returns the positions of records carrying attribute name=value, or
// all positions when name is empty.
func (c *Collection) filter(name, value string) []int {
	out := make([]int, 0, len(c.Records))
	for i, rec := range c.Records {
		if name == "" || hasAttribute(rec, name, value) {
			out = append(out, i)
		}
	}
	return out
}

func hasAttribute(rec map[string]any, name, value string) bool {
	attrs, _ := rec["attributes"].([]map[string]string)
	for _, a := range attrs {
		if a["name"] == name && a["value"] == value {
			return true
		}
	}
	return false
}

// Request is a request received by the fake.
type Request struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// Server is the fake API. Embedding httptest.Server exposes URL and Close.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	org         string
	collections map[string]*Collection
	requests    []Request
	faults      map[int]Fault
}

// NewServer starts a fake serving collections for organization org. The
// server is closed when the test ends.
func NewServer(t testing.TB, org string, collections ...Collection) *Server {
	t.Helper()
	s := &Server{
		org:         org,
		collections: make(map[string]*Collection, len(collections)),
		faults:      make(map[int]Fault),
	}
	for i := range collections {
		c := collections[i]
		if c.PageSize <= 0 {
			c.PageSize = 100
		}
		s.collections[c.Name] = &c
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	s.register(r)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Endpoint is the API base URI to hand to clients.
func (s *Server) Endpoint() string { return s.URL + BasePath }

// FailRequest makes the n-th request (1-based, counted across all paths)
// answer with f.
func (s *Server) FailRequest(n int, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[n] = f
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) register(r *gin.Engine) {
	api := r.Group(BasePath)
	{
		api.GET("/organizations/:org/:collection", s.list)
	}
}

func (s *Server) list(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
	})
	if f, ok := s.faults[len(s.requests)]; ok {
		writeFault(c, f)
		return
	}

	if c.Param("org") != s.org {
		writeFault(c, OrganizationNotFound(c.Param("org")))
		return
	}
	coll, ok := s.collections[c.Param("collection")]
	if !ok {
		writeFault(c, Fault{Status: http.StatusNotFound, Code: "messaging.adaptors.http.flow.ApplicationNotFound", Message: "unknown collection"})
		return
	}

	size := coll.PageSize
	if raw, ok := c.GetQuery("count"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeFault(c, Fault{Status: http.StatusBadRequest, Code: "keymanagement.service.InvalidCount", Message: "invalid count " + raw})
			return
		}
		size = n
	}
	if coll.MaxPageSize > 0 {
		size = min(size, coll.MaxPageSize)
	}

	view := coll.filter(c.Query("attributename"), c.Query("attributevalue"))
	start := 0
	if sk := c.Query("startKey"); sk != "" {
		start = len(view)
		for i, idx := range view {
			if coll.key(idx) == sk {
				start = i
				break
			}
		}
	}
	view = view[start:min(start+size, len(view))]

	if c.Query("expand") == "true" {
		page := make([]map[string]any, 0, len(view))
		for _, idx := range view {
			page = append(page, coll.Records[idx])
		}
		c.JSON(http.StatusOK, gin.H{coll.EnvelopeKey: page})
		return
	}
	ids := make([]string, 0, len(view))
	for _, idx := range view {
		ids = append(ids, coll.key(idx))
	}
	c.JSON(http.StatusOK, ids)
}
