package yosoi_test

import (
	"testing"

	"github.com/CascadingLabs/yosoi"
	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain host", "https://example.com/article", "example.com"},
		{"strips www", "https://www.cnn.com/2024/story", "cnn.com"},
		{"keeps subdomain", "https://finance.yahoo.com/news/x", "finance.yahoo.com"},
		{"strips port", "http://example.com:8080/x", "example.com"},
		{"unparseable", "://not a url", "unknown"},
		{"no host", "/relative/path", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, yosoi.Domain(tt.url))
		})
	}
}
