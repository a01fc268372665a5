package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const issuer = "circle"

// Claims is the credential payload: subject id, subject email and the
// registered time claims.
type Claims struct {
	Email string `json:"email"`
	gojwt.RegisteredClaims
}

// Create signs claims with HS256 under secret.
func Create(claims Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("empty signing secret")
	}
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Validate checks the signature and the expiry of token as of now.
func Validate(token string, secret []byte, now time.Time) (*Claims, error) {
	var claims Claims
	parsed, err := gojwt.ParseWithClaims(
		token,
		&claims,
		func(t *gojwt.Token) (any, error) {
			return secret, nil
		},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuer(issuer),
		gojwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return &claims, nil
}

// Codec issues and verifies credentials with a fixed secret and lifetime.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the codec that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL is the lifetime given to every issued credential.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a credential for subject, returning the token and its expiry.
func (c *Codec) Issue(subject, email string) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)
	token, err := Create(Claims{
		Email: email,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
	}, c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Verify validates token against the codec's secret and clock.
func (c *Codec) Verify(token string) (*Claims, error) {
	return Validate(token, c.secret, c.now())
}
