package userservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var ErrIdentityVerification = errors.New("failed to authenticate you with google")

// IdentityVerifier turns an identity provider assertion into a verified profile.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*GoogleProfile, error)
}

// GoogleVerifier validates Google ID tokens issued for clientID.
type GoogleVerifier struct {
	validator *idtoken.Validator
	clientID  string
}

func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id must be provided")
	}

	v, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, err
	}

	return &GoogleVerifier{validator: v, clientID: clientID}, nil
}

func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleProfile, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrIdentityVerification)
	}

	payload, err := g.validator.Validate(ctx, token, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityVerification, err)
	}

	return profileFromClaims(payload.Claims)
}

func profileFromClaims(c map[string]interface{}) (*GoogleProfile, error) {
	email, _ := c["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrIdentityVerification)
	}

	if verified, ok := c["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email is not verified", ErrIdentityVerification)
	}

	name, _ := c["name"].(string)
	picture, _ := c["picture"].(string)

	return &GoogleProfile{
		Email:   email,
		Name:    name,
		Picture: normalizeGoogleAvatar(picture),
	}, nil
}

// normalizeGoogleAvatar asks for the 384px variant of a Google profile picture.
func normalizeGoogleAvatar(picture string) string {
	return strings.Replace(picture, "s96-c", "s384-c", 1)
}
