// ABOUTME: Thumbnail selection picks the best image candidate for a feed item
// ABOUTME: Candidates come from enclosures, media RSS extensions and the item image

package feed

import (
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

// imageCandidate is one possible item image with whatever dimensions
// the document declared. Missing dimensions stay zero.
type imageCandidate struct {
	url    string
	width  int
	height int
}

// maxAspect bounds how elongated a candidate may be before its
// declared area stops being trusted. Banner and spacer shapes
// multiply a tiny short side into a misleading area.
const maxAspect = 3

// score ranks a candidate: full area when both dimensions are known
// and reasonably proportioned, otherwise the largest single declared
// dimension.
func (c imageCandidate) score() int {
	if c.width > 0 && c.height > 0 &&
		c.width <= maxAspect*c.height && c.height <= maxAspect*c.width {
		return c.width * c.height
	}
	if c.width > c.height {
		return c.width
	}
	return c.height
}

// imageCandidates gathers image URLs from an item in discovery order:
// image enclosures, media:content / media:thumbnail extensions, then
// the item-level image.
func imageCandidates(item *gofeed.Item) []imageCandidate {
	var candidates []imageCandidate

	for _, enc := range item.Enclosures {
		if enc.URL != "" && strings.HasPrefix(enc.Type, "image") {
			candidates = append(candidates, imageCandidate{url: enc.URL})
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				u := strings.TrimSpace(ext.Attrs["url"])
				if u == "" {
					continue
				}
				if name == "content" && !mediaContentIsImage(ext.Attrs) {
					continue
				}
				candidates = append(candidates, imageCandidate{
					url:    u,
					width:  atoiOrZero(ext.Attrs["width"]),
					height: atoiOrZero(ext.Attrs["height"]),
				})
			}
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		candidates = append(candidates, imageCandidate{url: item.Image.URL})
	}

	return candidates
}

// mediaContentIsImage accepts media:content entries unless their
// declared medium or MIME type says they are something else.
func mediaContentIsImage(attrs map[string]string) bool {
	if medium := attrs["medium"]; medium != "" {
		return medium == "image"
	}
	if typ := attrs["type"]; typ != "" {
		return strings.HasPrefix(typ, "image")
	}
	return true
}

// bestImage returns the highest-scoring candidate URL; ties keep the
// earliest discovered. Empty when there are no candidates.
func bestImage(candidates []imageCandidate) string {
	var best string
	bestScore := -1

	for _, c := range candidates {
		if s := c.score(); s > bestScore {
			best = c.url
			bestScore = s
		}
	}

	return best
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
