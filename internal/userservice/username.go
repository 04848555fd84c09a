package userservice

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/sushihentaime/inkwell/internal/common"
)

const usernameSuffixLength = 5

var avatarCollections = []string{"notionists-neutral", "adventurer-neutral", "fun-emoji"}

// generateUsername derives a handle from the local part of email. A taken handle gets a short
// random suffix without a second probe; the unique constraint on users.username backs this up.
func (s *UserService) generateUsername(ctx context.Context, email string) (string, error) {
	username, _, _ := strings.Cut(email, "@")

	taken, err := s.m.existsByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if taken {
		suffix, err := common.RandomString(usernameSuffixLength)
		if err != nil {
			return "", err
		}
		username += suffix
	}

	return username, nil
}

func defaultProfileImg(fullname string) string {
	collection := avatarCollections[rand.Intn(len(avatarCollections))]
	return fmt.Sprintf("https://api.dicebear.com/6.x/%s/svg?seed=%s", collection, url.QueryEscape(fullname))
}
