package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belalwws/noor-academy-sub008/pkg/config"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) { return string(s), nil }

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(config.UpstreamConfig{
		BaseURL:        server.URL,
		RequestTimeout: 2 * time.Second,
		UserAgent:      "test-agent",
	}, staticTokens("tok-123"), nil, nil)
	return client, server
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth, gotAgent string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`)) //nolint:errcheck
	})

	require.NoError(t, client.Do(context.Background(), http.MethodGet, "/courses/", nil, nil, nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "test-agent", gotAgent)
}

func TestResourceListNormalisesEnvelopeShapes(t *testing.T) {
	bodies := map[string]string{
		"/results/": `{"results":[{"id":"a"},{"id":"b"}],"count":7}`,
		"/data/":    `{"data":[{"id":"a"}]}`,
		"/bare/":    `[{"id":"a"},{"id":"b"},{"id":"c"}]`,
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bodies[r.URL.Path])) //nolint:errcheck
	})

	got, err := NewResource[row](client, "results").List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, got.Results, 2)
	assert.Equal(t, 7, got.Count)

	got, err = NewResource[row](client, "data").List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, got.Results, 1)
	assert.Equal(t, 1, got.Count)

	got, err = NewResource[row](client, "bare").List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, got.Results, 3)
	assert.Equal(t, 3, got.Count)
}

func TestResourceListPassesFilters(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"results":[]}`)) //nolint:errcheck
	})

	filters := url.Values{}
	filters.Set("course", "c1")
	filters.Set("ordering", "-created_at")
	_, err := NewResource[row](client, "batches").List(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, "c1", gotQuery.Get("course"))
	assert.Equal(t, "-created_at", gotQuery.Get("ordering"))
}

func TestResourceMemberPathsKeepTrailingSlash(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"id":"b1"}`)) //nolint:errcheck
	})

	res := NewResource[row](client, "batches")
	_, err := res.Create(context.Background(), map[string]string{"name": "Group A"})
	require.NoError(t, err)
	_, err = res.Patch(context.Background(), "b1", map[string]bool{"is_pinned": true})
	require.NoError(t, err)
	require.NoError(t, res.Delete(context.Background(), "b1"))

	assert.Equal(t, []string{
		"POST /batches/",
		"PATCH /batches/b1/",
		"DELETE /batches/b1/",
	}, paths)
}

func TestClientMapsValidationErrorsWithFields(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":{"name":["this field is required"],"capacity":"must be positive"}}`)) //nolint:errcheck
	})

	err := client.Do(context.Background(), http.MethodPost, "/batches/", nil, map[string]string{}, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, []string{"this field is required"}, appErr.Fields["name"])
	assert.Equal(t, []string{"must be positive"}, appErr.Fields["capacity"])
}

func TestClientPrefersDetailMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"supervisors only","message":"generic"}`)) //nolint:errcheck
	})

	err := client.Do(context.Background(), http.MethodGet, "/reports/", nil, nil, nil)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Equal(t, "supervisors only", appErr.Message)
}

func TestClientMapsStatusTaxonomy(t *testing.T) {
	cases := map[int]string{
		http.StatusUnauthorized:        appErrors.ErrUnauthorized.Code,
		http.StatusNotFound:            appErrors.ErrNotFound.Code,
		http.StatusConflict:            appErrors.ErrConflict.Code,
		http.StatusInternalServerError: appErrors.ErrUpstream.Code,
	}
	for status, wantCode := range cases {
		status, wantCode := status, wantCode
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{}`)) //nolint:errcheck
		})
		err := client.Do(context.Background(), http.MethodGet, "/x/", nil, nil, nil)
		require.Error(t, err)
		assert.Equal(t, wantCode, appErrors.FromError(err).Code, "status %d", status)
	}
}

func TestClientWrapsConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := NewClient(config.UpstreamConfig{BaseURL: server.URL, RequestTimeout: time.Second}, nil, nil, nil)

	err := client.Do(context.Background(), http.MethodGet, "/courses/", nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnreachable.Code, appErrors.FromError(err).Code)
}
