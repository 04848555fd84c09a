package blogservice

import (
	"bytes"
	"encoding/json"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var plainPolicy = bluemonday.StrictPolicy()

func newContentPolicy() *bluemonday.Policy {
	return bluemonday.UGCPolicy()
}

const maxStripPasses = 8

// stripMarkup removes every tag from s and returns the remaining plain text. Entities are
// decoded and stripped again until the text is stable, so encoded tags cannot come back to life.
func stripMarkup(s string) string {
	for i := 0; i < maxStripPasses; i++ {
		next := html.UnescapeString(plainPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(next)
		}
		s = next
	}

	// still changing: keep the escaped form, which holds no live tags
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}

// sanitizeContent strips unsafe markup from every string inside the block data.
// Values under a "url" key are left alone so links and image sources keep their query strings.
func sanitizeContent(p *bluemonday.Policy, c Content) (Content, error) {
	out := c
	out.Blocks = make([]Block, 0, len(c.Blocks))

	for _, b := range c.Blocks {
		if len(b.Data) == 0 {
			out.Blocks = append(out.Blocks, b)
			continue
		}

		var data any
		if err := json.Unmarshal(b.Data, &data); err != nil {
			return Content{}, err
		}

		clean, err := marshalNoEscape(sanitizeValue(p, "", data))
		if err != nil {
			return Content{}, err
		}

		b.Data = clean
		out.Blocks = append(out.Blocks, b)
	}

	return out, nil
}

func sanitizeValue(p *bluemonday.Policy, key string, v any) any {
	switch val := v.(type) {
	case string:
		if key == "url" {
			return val
		}
		return p.Sanitize(val)
	case map[string]any:
		for k, item := range val {
			val[k] = sanitizeValue(p, k, item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = sanitizeValue(p, key, item)
		}
		return val
	default:
		return v
	}
}

func marshalNoEscape(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
