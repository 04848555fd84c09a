package common

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RandomString returns an n character nanoid drawn from the URL safe alphabet [A-Za-z0-9_-].
func RandomString(n int) (string, error) {
	return gonanoid.New(n)
}
