package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims represents a session transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	LoginTime int64 `json:"login_time"`
}

// TokenCodec signs sessions as HS256 JWTs. Expiry is checked against its own clock.
type TokenCodec struct {
	key    []byte
	issuer string
	clock  Clock
	parser *jwt.Parser
}

func NewTokenCodec(secretKey, issuer string, clock Clock) *TokenCodec {
	if clock == nil {
		clock = SystemClock
	}
	return &TokenCodec{
		key:    []byte(secretKey),
		issuer: issuer,
		clock:  clock,
		parser: &jwt.Parser{
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
			SkipClaimsValidation: true, // validated below with c.clock
		},
	}
}

func (c *TokenCodec) Encode(s Session) (string, error) {
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        s.ID,
			Issuer:    c.issuer,
			Subject:   s.Username,
			IssuedAt:  c.clock.Now().Unix(),
			ExpiresAt: s.ExpiresAt.Unix(),
		},
		LoginTime: s.LoginTime.Unix(),
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Decode returns ErrInvalidToken for malformed, forged or foreign tokens and ErrSessionExpired for expired ones.
func (c *TokenCodec) Decode(token string) (Session, error) {
	claims := new(Claims)
	_, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	})
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	if claims.Id == "" || !claims.VerifyIssuer(c.issuer, true) {
		return Session{}, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(c.clock.Now().Unix(), true) {
		return Session{}, ErrSessionExpired
	}
	return Session{
		ID:        claims.Id,
		Username:  claims.Subject,
		LoginTime: time.Unix(claims.LoginTime, 0).UTC(),
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}
