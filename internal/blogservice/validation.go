package blogservice

import (
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

const (
	maxDesLength = 200
	maxTags      = 10

	msgTitleRequired   = "You must provide a title"
	msgDesInvalid      = "You must provide blog description under 200 characters"
	msgBannerRequired  = "You must provide blog banner to publish it"
	msgContentRequired = "There must be some blog content to publish it"
	msgTagsInvalid     = "Provide tags in order to publish the blog, Maximum 10"
)

// validateBlog runs the publish checks in order. A draft only needs a title.
func validateBlog(v *common.Validator, req *PublishRequest) {
	v.Check(strings.TrimSpace(req.Title) != "", "title", msgTitleRequired)

	if req.Draft {
		return
	}

	v.Check(req.Des != "" && v.CheckStringLength(req.Des, 1, maxDesLength), "des", msgDesInvalid)
	v.Check(req.Banner != "", "banner", msgBannerRequired)
	v.Check(len(req.Content.Blocks) > 0, "content", msgContentRequired)
	v.Check(len(req.Tags) > 0 && len(req.Tags) <= maxTags, "tags", msgTagsInvalid)
}

// normalizeTags lowercases tags and drops blanks and duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))

	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}

	return out
}
