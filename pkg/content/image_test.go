package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImageResolver_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		contentType string
		statusCode  int
		want        string // "{base}" is replaced with the test server url
	}{
		{
			name:        "og image",
			htmlContent: `<html><head><meta property="og:image" content="https://cdn.example.com/og.jpg"><meta name="twitter:image" content="https://cdn.example.com/tw.jpg"></head><body></body></html>`,
			statusCode:  http.StatusOK,
			want:        "https://cdn.example.com/og.jpg",
		},
		{
			name:        "twitter image fallback",
			htmlContent: `<html><head><meta property="og:image" content=""><meta name="twitter:image" content=" https://cdn.example.com/tw.jpg "></head></html>`,
			statusCode:  http.StatusOK,
			want:        "https://cdn.example.com/tw.jpg",
		},
		{
			name:        "relative og image",
			htmlContent: `<html><head><meta property="og:image" content="/images/a.jpg"></head></html>`,
			statusCode:  http.StatusOK,
			want:        "{base}/images/a.jpg",
		},
		{
			name:        "no meta",
			htmlContent: `<html><head><title>nothing</title></head><body><img src="/x.jpg"></body></html>`,
			statusCode:  http.StatusOK,
			want:        "",
		},
		{
			name:        "non utf8 page",
			htmlContent: "<html><head><meta property=\"og:image\" content=\"https://cdn.example.com/caf\xe9.jpg\"></head></html>",
			contentType: "text/html; charset=iso-8859-1",
			statusCode:  http.StatusOK,
			want:        "https://cdn.example.com/caf%C3%A9.jpg",
		},
		{
			name:        "server error",
			htmlContent: `<html><head><meta property="og:image" content="https://cdn.example.com/og.jpg"></head></html>`,
			statusCode:  http.StatusInternalServerError,
			want:        "",
		},
		{
			name:        "not found",
			htmlContent: "not found",
			statusCode:  http.StatusNotFound,
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUA string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				ct := tt.contentType
				if ct == "" {
					ct = "text/html; charset=utf-8"
				}
				w.Header().Set("Content-Type", ct)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			resolver := NewImageResolver(ImageResolverParams{Timeout: 5 * time.Second})
			got := resolver.Resolve(context.Background(), server.URL+"/article/1")
			assert.Equal(t, strings.ReplaceAll(tt.want, "{base}", server.URL), got)
			assert.Equal(t, "Mozilla/5.0", gotUA)
		})
	}
}

func TestImageResolver_ResolveFailures(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`<meta property="og:image" content="https://late.jpg">`))
		}))
		defer server.Close()

		resolver := NewImageResolver(ImageResolverParams{Timeout: 50 * time.Millisecond})
		assert.Empty(t, resolver.Resolve(context.Background(), server.URL))
	})

	t.Run("invalid url", func(t *testing.T) {
		resolver := NewImageResolver(ImageResolverParams{})
		assert.Empty(t, resolver.Resolve(context.Background(), "not a url"))
		assert.Empty(t, resolver.Resolve(context.Background(), ""))
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := server.URL
		server.Close()

		resolver := NewImageResolver(ImageResolverParams{Timeout: time.Second})
		assert.Empty(t, resolver.Resolve(context.Background(), addr))
	})

	t.Run("meta beyond body limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><head>" + strings.Repeat("<!-- padding -->", 200)))
			_, _ = w.Write([]byte(`<meta property="og:image" content="https://far.jpg"></head></html>`))
		}))
		defer server.Close()

		resolver := NewImageResolver(ImageResolverParams{Timeout: time.Second, MaxBody: 512})
		assert.Empty(t, resolver.Resolve(context.Background(), server.URL))
	})

	t.Run("custom user agent", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		resolver := NewImageResolver(ImageResolverParams{UserAgent: "khabar-test"})
		resolver.Resolve(context.Background(), server.URL)
		assert.Equal(t, "khabar-test", gotUA)
	})
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		raw, base, want string
	}{
		{raw: "https://a.com/x.jpg", base: "https://b.com/p", want: "https://a.com/x.jpg"},
		{raw: "/x.jpg", base: "https://b.com/news/p", want: "https://b.com/x.jpg"},
		{raw: "x.jpg", base: "https://b.com/news/p", want: "https://b.com/news/x.jpg"},
		{raw: "//cdn.b.com/x.jpg", base: "https://b.com/p", want: "https://cdn.b.com/x.jpg"},
		{raw: "", base: "https://b.com/p", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveURL(tt.raw, tt.base), tt.raw)
	}
}

func TestAddBrowserHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://example.com", http.NoBody)
	addBrowserHeaders(req)
	assert.Contains(t, req.Header.Get("Accept"), "text/html")
	assert.NotEmpty(t, req.Header.Get("Accept-Language"))
	assert.Empty(t, req.Header.Get("Accept-Encoding"))
	assert.Equal(t, "navigate", req.Header.Get("Sec-Fetch-Mode"))
}
