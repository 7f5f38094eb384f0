package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// hashCost keeps registration deliberately slow without making tests crawl.
const hashCost = bcrypt.DefaultCost

// HashPassword generates a salted bcrypt hash from a plain text password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares a plain text password with a stored hash.
// bcrypt performs the comparison in constant time.
func ComparePassword(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
