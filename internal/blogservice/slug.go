package blogservice

import (
	"regexp"
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

const blogIDTokenLength = 21

var (
	nonAlnumRX = regexp.MustCompile(`[^a-zA-Z0-9]`)
	spaceRunRX = regexp.MustCompile(`\s+`)
)

// newBlogID derives a url safe id from the title and appends a random token,
// so two blogs with the same title never share an id.
func newBlogID(title string) (string, error) {
	slug := nonAlnumRX.ReplaceAllString(title, " ")
	slug = spaceRunRX.ReplaceAllString(slug, "-")
	slug = strings.TrimSpace(slug)

	token, err := common.RandomString(blogIDTokenLength)
	if err != nil {
		return "", err
	}

	return slug + token, nil
}
