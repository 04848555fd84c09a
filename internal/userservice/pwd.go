package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), passwordCost)
	if err != nil {
		return err
	}

	p.Plain = pwd
	p.hash = hash

	return nil
}

// isSet reports whether a hash is stored. Accounts created through Google have none.
func (p *Password) isSet() bool {
	return len(p.hash) > 0
}

// value is the column value for the hash, NULL for federated accounts.
func (p *Password) value() any {
	if !p.isSet() {
		return nil
	}
	return p.hash
}

func (p *Password) compare(pwd string) (bool, error) {
	if !p.isSet() {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword(p.hash, []byte(pwd))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}
