package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Run("desktop browser", func(t *testing.T) {
		info := Parse("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Equal(t, "Chrome", info.Browser)
		assert.Equal(t, "120.0.0.0", info.Version)
		assert.Contains(t, info.OS, "Windows")
		assert.False(t, info.Mobile)
		assert.False(t, info.Bot)
	})

	t.Run("crawler", func(t *testing.T) {
		info := Parse("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
		assert.True(t, info.Bot)
	})

	t.Run("empty header", func(t *testing.T) {
		assert.Equal(t, Info{}, Parse(""))
	})
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Info{}, FromContext(context.Background()))

	ctx := WithInfo(context.Background(), Info{Browser: "Firefox"})
	assert.Equal(t, "Firefox", FromContext(ctx).Browser)
}
