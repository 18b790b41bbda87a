package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub-engine/internal/scrape/types"
	"coursehub-engine/internal/scrape/util"
)

func staticPassword(pw string) PasswordFunc {
	return func(string) (string, error) { return pw, nil }
}

func newTestAdapter(baseURL string, password PasswordFunc) *Adapter {
	cfg := Config{
		BaseURL:        baseURL,
		Username:       "ingest@coursehub.local",
		KeyringAccount: "test-account",
		PageSize:       2,
	}
	return New(cfg, util.NewHostLimiter(time.Millisecond), password)
}

func collect(t *testing.T, a *Adapter) ([]types.Item, error) {
	t.Helper()
	var items []types.Item
	err := a.Fetch(context.Background(), func(it types.Item) { items = append(items, it) })
	return items, err
}

func portalServer(t *testing.T, wantPassword string, pages [][]portalCourse) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != wantPassword {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})

	mux.HandleFunc("/api/courses", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		page := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if page < 1 || page > len(pages) {
			json.NewEncoder(w).Encode(coursePage{})
			return
		}
		json.NewEncoder(w).Encode(coursePage{
			Courses: pages[page-1],
			HasMore: page < len(pages),
		})
	})

	return httptest.NewServer(mux)
}

func TestFetchWalksAllPages(t *testing.T) {
	pages := [][]portalCourse{
		{
			{Ref: "c-1", Title: "Advanced Excel", Provider: "TechSkills Institute",
				Price: "$400 (50% subsidy)", StartDate: "2026-10-01", Mode: "online"},
			{Ref: "c-2", Title: "Project Management", Price: "$900"},
		},
		{
			{Ref: "c-3", Title: "Leadership Essentials", URL: "https://portal.test/x/c-3"},
		},
	}
	srv := portalServer(t, "s3cret", pages)
	defer srv.Close()

	items, err := collect(t, newTestAdapter(srv.URL, staticPassword("s3cret")))
	require.NoError(t, err)
	require.Len(t, items, 3)

	first := items[0].Raw
	assert.Equal(t, "Advanced Excel", first.Title)
	assert.Equal(t, "c-1", first.ProviderRef)
	assert.Equal(t, "$400 (50% subsidy)", first.PriceText)
	require.NotNil(t, first.StartDate)
	assert.Equal(t, 2026, first.StartDate.Year())
	assert.Equal(t, srv.URL+"/courses/c-1", first.SourceURL, "missing URL falls back to a portal link")

	assert.Equal(t, "https://portal.test/x/c-3", items[2].Raw.SourceURL)
}

func TestFetchBadCredentialsFailRun(t *testing.T) {
	srv := portalServer(t, "s3cret", nil)
	defer srv.Close()

	items, err := collect(t, newTestAdapter(srv.URL, staticPassword("wrong")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.Empty(t, items, "no items emitted when the session never opens")
}

func TestFetchMissingPasswordFailsRun(t *testing.T) {
	srv := portalServer(t, "s3cret", nil)
	defer srv.Close()

	noPassword := func(string) (string, error) {
		return "", errors.New("portal password not found")
	}
	_, err := collect(t, newTestAdapter(srv.URL, noPassword))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestFetchEntryWithoutTitleIsItemError(t *testing.T) {
	pages := [][]portalCourse{
		{
			{Ref: "ok", Title: "Valid Course"},
			{Ref: "broken", Title: "   "},
		},
	}
	srv := portalServer(t, "pw", pages)
	defer srv.Close()

	items, err := collect(t, newTestAdapter(srv.URL, staticPassword("pw")))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NoError(t, items[0].Err)
	require.Error(t, items[1].Err)
	assert.Contains(t, items[1].Err.Error(), "missing title")
}
