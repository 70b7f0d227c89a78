package report

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLPostsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/forms/chromium/convert/html":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "true", r.FormValue("printBackground"))
			file, header, err := r.FormFile("files")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "index.html", header.Filename)
			body, _ := io.ReadAll(file)
			assert.Equal(t, "<h1>ward</h1>", string(body))
			_, _ = w.Write([]byte("%PDF-1.7"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	require.NoError(t, client.Ping(context.Background()))

	pdf, err := client.RenderHTML(context.Background(), []byte("<h1>ward</h1>"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))
}

func TestRenderHTMLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.RenderHTML(context.Background(), []byte("<p/>"))
	assert.ErrorContains(t, err, "status 503")
	assert.Error(t, client.Ping(context.Background()))

	missing := NewClient("", 0)
	assert.Nil(t, missing)
	_, err = missing.RenderHTML(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, missing.Ping(context.Background()), ErrNotConfigured)
}
