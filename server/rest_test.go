package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khabarwire/khabar/pkg/cache"
	"github.com/khabarwire/khabar/pkg/domain"
	"github.com/khabarwire/khabar/pkg/feed"
	"github.com/khabarwire/khabar/pkg/notify"
	"github.com/khabarwire/khabar/server/mocks"
)

func TestServer_NewsHandler(t *testing.T) {
	articles := []domain.Article{
		{Source: "Source A", Title: "भूकम्प", Description: "d1", Link: "https://a.example.com/1", Image: "https://a.example.com/1.jpg",
			PubDate: "Mon, 01 Jan 2024 10:00:00 +0000", Category: "disaster", Profile: "https://a.example.com"},
		{Source: "Source B", Title: "second", Link: "https://b.example.com/2", Category: "general"},
	}

	t.Run("fresh then cached", func(t *testing.T) {
		news := testNews(articles, nil)
		notifier := &mocks.NotifierMock{SubmitFunc: func([]domain.Article) bool { return true }}
		srv := New(Params{Config: testConfig(":8080"), News: news, Notifier: notifier, Cache: cache.New(time.Minute)})

		call := func() (map[string]json.RawMessage, int) {
			req := httptest.NewRequest(http.MethodGet, "/news", http.NoBody)
			rec := httptest.NewRecorder()
			srv.newsHandler(rec, req)
			var resp map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			return resp, rec.Code
		}

		first, code := call()
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `"success"`, string(first["status"]))
		assert.JSONEq(t, `false`, string(first["cached"]))
		assert.JSONEq(t, `2`, string(first["total"]))

		second, code := call()
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `true`, string(second["cached"]))
		assert.Equal(t, string(first["articles"]), string(second["articles"]), "cached articles are byte-identical")

		assert.Len(t, news.FetchCalls(), 1)
		require.Len(t, notifier.SubmitCalls(), 1)
		assert.Equal(t, articles, notifier.SubmitCalls()[0].Articles)

		var got []domain.Article
		require.NoError(t, json.Unmarshal(second["articles"], &got))
		assert.Equal(t, articles, got)
	})

	t.Run("expired cache refetched", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		c := cache.New(30*time.Minute, cache.WithClock(func() time.Time { return now }))
		news := testNews(articles, nil)
		srv := New(Params{Config: testConfig(":8080"), News: news, Cache: c})

		rec := httptest.NewRecorder()
		srv.newsHandler(rec, httptest.NewRequest(http.MethodGet, "/news", http.NoBody))
		now = now.Add(30 * time.Minute)
		rec = httptest.NewRecorder()
		srv.newsHandler(rec, httptest.NewRequest(http.MethodGet, "/news", http.NoBody))
		assert.Contains(t, rec.Body.String(), `"cached":false`)
		assert.Len(t, news.FetchCalls(), 2)
	})

	t.Run("empty result", func(t *testing.T) {
		srv := New(Params{Config: testConfig(":8080"), News: testNews(nil, nil)})
		rec := httptest.NewRecorder()
		srv.newsHandler(rec, httptest.NewRequest(http.MethodGet, "/news", http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","cached":false,"total":0,"articles":[]}`, rec.Body.String())
	})

	t.Run("aggregation error", func(t *testing.T) {
		notifier := &mocks.NotifierMock{SubmitFunc: func([]domain.Article) bool { return true }}
		srv := New(Params{Config: testConfig(":8080"), News: testNews(nil, errors.New("boom")), Notifier: notifier})
		rec := httptest.NewRecorder()
		srv.newsHandler(rec, httptest.NewRequest(http.MethodGet, "/news", http.NoBody))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"error","message":"Failed to fetch news"}`, rec.Body.String())
		assert.Empty(t, notifier.SubmitCalls())
		_, ok := srv.cache.Last()
		assert.False(t, ok, "failed fetch not cached")
	})
}

func TestServer_StatusHandler(t *testing.T) {
	t.Run("never notified", func(t *testing.T) {
		status := &mocks.StatusProviderMock{StatusFunc: func() notify.Status { return notify.Status{Notified: 3} }}
		srv := New(Params{Config: testConfig(":8080"), News: testNews(nil, nil), Status: status, Version: "1.0.0"})

		rec := httptest.NewRecorder()
		srv.statusHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp["status"])
		assert.Equal(t, "1.0.0", resp["version"])
		assert.Nil(t, resp["last_notification"])
		assert.InDelta(t, 3, resp["notified_total"], 0)
		assert.InDelta(t, 0, resp["cached_total"], 0)
		assert.Equal(t, "0s", resp["cache_age"])
	})

	t.Run("after notification and fetch", func(t *testing.T) {
		sent := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		status := &mocks.StatusProviderMock{StatusFunc: func() notify.Status {
			return notify.Status{LastSent: sent, Sent: 1, Notified: 4}
		}}
		news := testNews([]domain.Article{{Title: "a"}, {Title: "b"}}, nil)
		srv := New(Params{Config: testConfig(":8080"), News: news, Status: status})
		_, _, err := srv.articles(context.Background())
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		srv.statusHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody))

		var resp statusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.LastNotification)
		assert.True(t, sent.Equal(*resp.LastNotification))
		assert.Equal(t, 2, resp.CachedTotal)
		assert.Equal(t, 4, resp.NotifiedTotal)
		assert.Equal(t, 1, resp.SentSinceStart)
		assert.Len(t, news.FetchCalls(), 1)
		assert.Equal(t, feed.ModeFull, news.FetchCalls()[0].Mode)
	})
}
