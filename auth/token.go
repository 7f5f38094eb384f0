package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtKey is the secret used to sign tokens. The default is overridden at
// startup from the CHAT_SECRET_KEY environment variable.
var jwtKey = []byte("my_strong_and_long_secret_key_2026")

// SetSigningKey replaces the token signing secret. Must be called before the
// first token is issued or validated.
func SetSigningKey(key string) {
	jwtKey = []byte(key)
}

// CustomClaims defines the identity data stored inside the JWT.
// Only the minimal claims needed for authorization are embedded.
type CustomClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed session token for a user. The expiry is
// fixed at issuance and never renewed server-side.
func GenerateToken(username, email string, tokenDuration time.Duration) (string, error) {
	expirationTime := time.Now().Add(tokenDuration)

	claims := &CustomClaims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "dm-lab",
		},
	}

	// HS256: HMAC with SHA256, symmetric key held only by the server.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(jwtKey)
}

// ValidateToken parses and validates the signature and expiration of a JWT
// string. Every authenticated request goes through here.
func ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// DecodeUnverified extracts the claims without checking the signature.
// Used only client-side, where the token was already verified by the server
// that issued it and only the expiry needs to be inspected.
func DecodeUnverified(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
