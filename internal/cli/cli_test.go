package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/edge-client/internal/edgetest"
	"github.com/maxviazov/edge-client/pkg/edge"
	"github.com/maxviazov/edge-client/pkg/pagination"
)

func execute(t *testing.T, srv *edgetest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--endpoint", srv.Endpoint(), "--org", "acme"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDevelopers_FullListing(t *testing.T) {
	emails := edgetest.Emails(5)
	srv := edgetest.NewServer(t, "acme", edgetest.Developers(2, emails...))

	out, err := execute(t, srv, "developers")
	require.NoError(t, err)

	var devs []edge.Developer
	require.NoError(t, json.Unmarshal([]byte(out), &devs))
	require.Len(t, devs, 5)
	for i, d := range devs {
		assert.Equal(t, emails[i], d.Email)
	}
}

func TestDevelopers_IDsSinglePage(t *testing.T) {
	emails := edgetest.Emails(5)
	srv := edgetest.NewServer(t, "acme", edgetest.Developers(2, emails...))

	out, err := execute(t, srv, "developers", "--ids", "--start-key", emails[1], "--limit", "3")
	require.NoError(t, err)

	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, emails[1:4], ids)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "3", reqs[0].Query.Get("count"))
	assert.Equal(t, "false", reqs[0].Query.Get("expand"))
}

func TestDevelopers_PageSizeFlag(t *testing.T) {
	srv := edgetest.NewServer(t, "acme", edgetest.Developers(100, edgetest.Emails(3)...))

	out, err := execute(t, srv, "--page-size", "2", "developers", "--ids")
	require.NoError(t, err)

	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	assert.Equal(t, edgetest.Emails(3), ids)

	reqs := srv.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "2", reqs[0].Query.Get("count"))
	for _, r := range reqs[1:] {
		assert.False(t, r.Query.Has("count"))
	}
}

func TestAPIProducts_Attribute(t *testing.T) {
	srv := edgetest.NewServer(t, "acme", edgetest.APIProducts(2, "a", "b", "c", "d"))

	out, err := execute(t, srv, "apiproducts", "--attribute", "access", "--attribute-value", "private")
	require.NoError(t, err)

	var products []edge.APIProduct
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "b", products[0].Name)
	assert.Equal(t, "d", products[1].Name)

	_, err = execute(t, srv, "apiproducts", "--attribute", "access", "--ids")
	assert.Error(t, err)
}

func TestDevelopers_TransportError(t *testing.T) {
	srv := edgetest.NewServer(t, "acme", edgetest.Developers(2, edgetest.Emails(3)...))
	srv.FailRequest(1, edgetest.ServiceUnavailable())

	out, err := execute(t, srv, "developers")
	assert.ErrorIs(t, err, pagination.ErrTransport)
	assert.Empty(t, out)
}

func TestRoot_MissingOrganization(t *testing.T) {
	t.Setenv("EDGECTL_EDGE_ORGANIZATION", "")
	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"developers"})

	assert.Error(t, root.ExecuteContext(context.Background()))
}
