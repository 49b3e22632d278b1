package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned url",
			url:  "https://res.cloudinary.com/demo/image/upload/v1712345678/unimart/products/3/img_abc123.jpg",
			want: "unimart/products/3/img_abc123",
		},
		{
			name: "transformed url",
			url:  "https://res.cloudinary.com/demo/image/upload/q_auto,f_auto,w_800,c_fill/v1712345678/unimart/products/3/img_abc123.webp",
			want: "unimart/products/3/img_abc123",
		},
		{
			name: "no version",
			url:  "https://res.cloudinary.com/demo/image/upload/unimart/products/3/img_abc123.png",
			want: "unimart/products/3/img_abc123",
		},
		{
			name: "not a delivery url",
			url:  "https://example.com/image.jpg",
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PublicIDFromURL(tc.url))
		})
	}
}

func TestBuildOptimizedImageURL(t *testing.T) {
	url := BuildOptimizedImageURL("demo", "unimart/products/3/img_abc123", 200)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/q_auto,f_auto,w_200,c_fill/unimart/products/3/img_abc123", url)

	// Zero width falls back to the default listing width.
	url = BuildOptimizedImageURL("demo", "x", 0)
	assert.Contains(t, url, "w_800")
}
