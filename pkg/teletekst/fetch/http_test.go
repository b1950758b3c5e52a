package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLTemplate_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		template URLTemplate
		target   Target
		want     string
	}{
		{"default", constants.DefaultURLTemplate, Target{100, 1}, "http://nos.nl/data/teletekst/gif/P100_01.gif"},
		{"two digit subpage", constants.DefaultURLTemplate, Target{888, 12}, "http://nos.nl/data/teletekst/gif/P888_12.gif"},
		{"custom", "https://example.org/{page}/{subpage}.png", Target{7, 3}, "https://example.org/7/03.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.template.Resolve(tt.target))
		})
	}
}

func TestURLTemplate_Valid(t *testing.T) {
	assert.True(t, URLTemplate(constants.DefaultURLTemplate).Valid())
	assert.False(t, URLTemplate("http://example.org/{page}.gif").Valid())
}

func TestTarget_Next(t *testing.T) {
	assert.Equal(t, Target{Page: 101, Subpage: 1}, Target{Page: 100, Subpage: 5}.Next())
	assert.Equal(t, "100-5", Target{Page: 100, Subpage: 5}.String())
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/P100_01.gif":
			_, _ = w.Write([]byte("GIF89a"))
		case "/empty.gif":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second)
	ctx := context.Background()

	data, err := f.Fetch(ctx, srv.URL+"/P100_01.gif")
	require.NoError(t, err)
	assert.Equal(t, []byte("GIF89a"), data)

	_, err = f.Fetch(ctx, srv.URL+"/P999_01.gif")
	assert.ErrorIs(t, err, ErrStatus)

	_, err = f.Fetch(ctx, srv.URL+"/empty.gif")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestHTTPFetcher_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(time.Second).Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
