package pagination

// Pager describes a single page request: up to Limit items starting at StartKey.
// The zero value asks for the first page with the server's default page size.
type Pager struct {
	startKey string
	limit    int
}

// NewPager returns a Pager for the given cursor and page size.
// A negative limit is treated as 0 (server default).
func NewPager(startKey string, limit int) Pager {
	if limit < 0 {
		limit = 0
	}
	return Pager{startKey: startKey, limit: limit}
}

// StartKey is the cursor of the page; empty means start of the collection.
func (p Pager) StartKey() string { return p.startKey }

// Limit is the requested page size; 0 means server default.
func (p Pager) Limit() int { return p.limit }

// pageQuery is the wire form of a Pager. startKey is always sent, count only
// when a limit was requested so server-side defaults stay in effect.
type pageQuery struct {
	StartKey string `url:"startKey"`
	Count    int    `url:"count,omitempty"`
}

func (p Pager) query() pageQuery {
	return pageQuery{StartKey: p.startKey, Count: p.limit}
}
