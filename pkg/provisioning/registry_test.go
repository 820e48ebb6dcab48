package provisioning_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-provisioning/pkg/provisioning"
)

func contentOf(typeName, url, description string) *provisioning.Content {
	return &provisioning.Content{
		ID:          "c-1",
		Title:       "Title",
		Description: description,
		URL:         url,
		Cover:       "cover.jpg",
		TotalLikes:  7,
		CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		ContentType: &provisioning.ContentType{ID: "t-1", Name: typeName},
	}
}

const signed = "SIGNED"

func TestRegistry_PDF(t *testing.T) {
	registry := provisioning.DefaultRegistry()

	tests := []struct {
		name  string
		bytes int64
		pages int64
	}{
		{name: "zero bytes falls back to one page", bytes: 0, pages: 1},
		{name: "below one page", bytes: 49999, pages: 1},
		{name: "exactly one page", bytes: 50000, pages: 1},
		{name: "floor", bytes: 149999, pages: 2},
		{name: "large", bytes: 5000000, pages: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := registry.Present(contentOf("pdf", "/docs/a.pdf", "d"), signed, tt.bytes)
			require.NoError(t, err)

			assert.Equal(t, "pdf", p.Type)
			assert.Equal(t, signed, provisioning.StringValue(p.URL))
			assert.True(t, p.AllowDownload)
			assert.False(t, p.IsEmbeddable)
			assert.Equal(t, "pdf", provisioning.StringValue(p.Format))
			assert.Equal(t, tt.bytes, p.Bytes)
			assert.Equal(t, map[string]interface{}{
				"author":    "Unknown",
				"pages":     tt.pages,
				"encrypted": false,
			}, p.Metadata)
		})
	}
}

func TestRegistry_Image(t *testing.T) {
	registry := provisioning.DefaultRegistry()

	p, err := registry.Present(contentOf("image", "a/b.PNG", ""), signed, 12345)
	require.NoError(t, err)
	assert.Equal(t, "image", p.Type)
	assert.Equal(t, signed, provisioning.StringValue(p.URL))
	assert.True(t, p.AllowDownload)
	assert.True(t, p.IsEmbeddable)
	assert.Equal(t, "png", provisioning.StringValue(p.Format))
	assert.Equal(t, int64(12345), p.Bytes)
	assert.Equal(t, map[string]interface{}{"resolution": "1920x1080", "aspect_ratio": "16:9"}, p.Metadata)

	for _, url := range []string{"", "uploads/noext", "uploads/trailing.", "uploads/.hidden", "uploads/..", ".png"} {
		p, err := registry.Present(contentOf("image", url, ""), signed, 0)
		require.NoError(t, err)
		assert.Equal(t, "jpg", provisioning.StringValue(p.Format), url)
	}

	// Only leading dots of the base name are skipped
	p, err = registry.Present(contentOf("image", "uploads/.hidden.GIF", ""), signed, 0)
	require.NoError(t, err)
	assert.Equal(t, "gif", provisioning.StringValue(p.Format))
}

func TestRegistry_Video(t *testing.T) {
	registry := provisioning.DefaultRegistry()

	tests := []struct {
		name     string
		url      string
		bytes    int64
		format   string
		duration int64
	}{
		{name: "zero bytes falls back to ten seconds", url: "v.MOV", bytes: 0, format: "mov", duration: 10},
		{name: "below one second", url: "v.webm", bytes: 99999, format: "webm", duration: 10},
		{name: "floor", url: "clips/v.mp4", bytes: 250000, format: "mp4", duration: 2},
		{name: "default format", url: "clips/v", bytes: 5000000, format: "mp4", duration: 50},
		{name: "dot file has no extension", url: "clips/.mov", bytes: 0, format: "mp4", duration: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := registry.Present(contentOf("video", tt.url, ""), signed, tt.bytes)
			require.NoError(t, err)
			assert.Equal(t, "video", p.Type)
			assert.False(t, p.AllowDownload)
			assert.True(t, p.IsEmbeddable)
			assert.Equal(t, tt.format, provisioning.StringValue(p.Format))
			assert.Equal(t, tt.bytes, p.Bytes)
			assert.Equal(t, map[string]interface{}{"duration": tt.duration, "resolution": "1080p"}, p.Metadata)
		})
	}
}

func TestRegistry_Link(t *testing.T) {
	registry := provisioning.DefaultRegistry()

	tests := []struct {
		name    string
		url     string
		wantURL string
		trusted bool
	}{
		{name: "https", url: "https://example.com/post", wantURL: "https://example.com/post", trusted: true},
		{name: "http", url: "http://example.com/post", wantURL: "http://example.com/post", trusted: false},
		{name: "https anywhere in url", url: "http://example.com/?next=https", wantURL: "http://example.com/?next=https", trusted: true},
		{name: "missing url", url: "", wantURL: "http://default.com", trusted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := registry.Present(contentOf("link", tt.url, ""), signed, 4096)
			require.NoError(t, err)
			assert.Equal(t, "link", p.Type)
			assert.Equal(t, tt.wantURL, provisioning.StringValue(p.URL))
			assert.False(t, p.AllowDownload)
			assert.True(t, p.IsEmbeddable)
			assert.Nil(t, p.Format)
			assert.Zero(t, p.Bytes)
			assert.Equal(t, map[string]interface{}{"trusted": tt.trusted}, p.Metadata)
		})
	}
}

func TestRegistry_Text(t *testing.T) {
	registry := provisioning.DefaultRegistry()

	t.Run("description without url", func(t *testing.T) {
		p, err := registry.Present(contentOf("text", "", "two words here"), signed, 999)
		require.NoError(t, err)
		assert.Equal(t, "text", p.Type)
		assert.Nil(t, p.URL)
		assert.False(t, p.AllowDownload)
		assert.False(t, p.IsEmbeddable)
		assert.Equal(t, "plain-text", provisioning.StringValue(p.Format))
		assert.Equal(t, int64(14), p.Bytes)
		assert.Equal(t, map[string]interface{}{"word_count": 3}, p.Metadata)
	})

	t.Run("raw url is kept unsigned", func(t *testing.T) {
		p, err := registry.Present(contentOf("text", "/notes/a.txt", "x"), signed, 0)
		require.NoError(t, err)
		assert.Equal(t, "/notes/a.txt", provisioning.StringValue(p.URL))
	})

	t.Run("multi-byte characters", func(t *testing.T) {
		p, err := registry.Present(contentOf("text", "", "Introdução à Cultura"), signed, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(len("Introdução à Cultura")), p.Bytes)
		assert.Equal(t, int64(23), p.Bytes)
		assert.Equal(t, 3, p.Metadata["word_count"])
	})

	t.Run("empty description", func(t *testing.T) {
		p, err := registry.Present(contentOf("text", "", ""), signed, 0)
		require.NoError(t, err)
		assert.Zero(t, p.Bytes)
		assert.Equal(t, 0, p.Metadata["word_count"])
		assert.Nil(t, p.Description)
	})

	t.Run("whitespace runs", func(t *testing.T) {
		p, err := registry.Present(contentOf("text", "", "a \t\n b"), signed, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Metadata["word_count"])

		p, err = registry.Present(contentOf("text", "", " padded "), signed, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, p.Metadata["word_count"])
	})

	t.Run("unicode whitespace runs", func(t *testing.T) {
		tests := []struct {
			description string
			words       int
		}{
			{"dois\u00a0termos", 2},
			{"a\vb", 2},
			{"um\u2003dois\u3000tres", 3},
			{"x\u2028y\u2029z", 3},
			{"\ufeffinicio fim", 3},
			{"fim\u202f\u00a0 ", 2},
		}

		for _, tt := range tests {
			p, err := registry.Present(contentOf("text", "", tt.description), signed, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.words, p.Metadata["word_count"], "%q", tt.description)
		}
	})
}

func TestRegistry_CommonFields(t *testing.T) {
	registry := provisioning.DefaultRegistry()

	for _, name := range []string{"pdf", "image", "video", "link", "text"} {
		t.Run(name, func(t *testing.T) {
			c := contentOf(name, "/a.bin", "desc")
			p, err := registry.Present(c, signed, 10)
			require.NoError(t, err)
			assert.Equal(t, name, p.Type)
			assert.Equal(t, c.ID, p.ID)
			assert.Equal(t, c.Title, p.Title)
			assert.Equal(t, "cover.jpg", provisioning.StringValue(p.Cover))
			assert.Equal(t, "desc", provisioning.StringValue(p.Description))
			assert.Equal(t, c.CreatedAt, p.CreatedAt)
			assert.Equal(t, 7, p.TotalLikes)
			assert.NotNil(t, p.Metadata)
		})
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	registry := provisioning.DefaultRegistry()

	for _, name := range []string{"audio", "PDF", "Image", "pdf ", " video", "te xt", ""} {
		t.Run(name, func(t *testing.T) {
			p, err := registry.Present(contentOf(name, "/a", ""), signed, 0)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.ErrorIs(t, err, provisioning.ErrUnsupportedContentType)

			var unsupported *provisioning.UnsupportedTypeError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, name, unsupported.Type)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestRegistry_MissingType(t *testing.T) {
	c := contentOf("pdf", "/a.pdf", "")
	c.ContentType = nil

	_, err := provisioning.DefaultRegistry().Present(c, signed, 0)
	assert.ErrorIs(t, err, provisioning.ErrMissingContentType)
}

func TestRegistry_Extensible(t *testing.T) {
	registry := provisioning.DefaultRegistry()
	assert.Equal(t, []string{"image", "link", "pdf", "text", "video"}, registry.Names())
	assert.False(t, registry.Supports("audio"))

	registry.Register("audio", func(c *provisioning.Content, signedURL string, size int64) *provisioning.Presentation {
		return &provisioning.Presentation{ID: c.ID, Type: "audio", URL: &signedURL, Bytes: size}
	})
	assert.True(t, registry.Supports("audio"))

	p, err := registry.Present(contentOf("audio", "/a.mp3", ""), signed, 42)
	require.NoError(t, err)
	assert.Equal(t, "audio", p.Type)
	assert.Equal(t, int64(42), p.Bytes)
}
