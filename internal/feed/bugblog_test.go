package feed

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bugBlogHTML = `
<html><body>
<article class="bug" data-bug-blog>
  <a class="card" href="https://example.com/issues/1">Living Lore</a>
  <p class="description">Exiled card is not cast correctly.</p>
  <span class="category">Game Breaking</span>
  <time datetime="2018-01-15 02:33:05">Jan 15</time>
</article>
<article class="bug">
  <a class="card" href="https://example.com/issues/2">Profane Procession</a>
  <p class="description">Transform trigger can be missed.</p>
  <span class="category">Advantageous</span>
  <time datetime="2018-02-01 10:00:00">Feb 1</time>
</article>
<article class="bug">
  <p class="description">条目没有卡名，应被丢弃</p>
</article>
</body></html>`

func TestParseBugBlog(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bugBlogHTML))
	require.NoError(t, err)

	bugs := parseBugBlog(doc)
	require.Len(t, bugs, 2)

	assert.Equal(t, BugRecord{
		Card:        "Living Lore",
		Description: "Exiled card is not cast correctly.",
		Category:    "Game Breaking",
		LastUpdated: "2018-01-15 02:33:05",
		URL:         "https://example.com/issues/1",
		BugBlog:     true,
	}, bugs[0])

	assert.Equal(t, "Profane Procession", bugs[1].Card)
	assert.False(t, bugs[1].BugBlog)
}

func TestParseBugBlogEmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, parseBugBlog(doc))
}
