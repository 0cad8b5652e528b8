// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package roomtoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ctnicholas/livebasket/lib/clock"
	"github.com/ctnicholas/livebasket/lib/ref"
)

// DefaultTTL is the token lifetime used when the issuer is built with
// a zero TTL. Room tokens are short-lived: they gate the join
// handshake, not the session.
const DefaultTTL = 15 * time.Minute

// Identity is the display metadata assigned to a user at token
// issuance: read-only for the rest of the session.
type Identity struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Picture string `json:"picture"`
}

// Claims is the JWT payload of a room token. Subject (from
// RegisteredClaims) carries the user's peer ID.
type Claims struct {
	Room     string   `json:"room"`
	Identity Identity `json:"info"`
	jwt.RegisteredClaims
}

// PeerID parses the token subject into a peer ID.
func (c *Claims) PeerID() (ref.PeerID, error) {
	return ref.ParsePeerID(c.Subject)
}

// Errors returned by Verify.
var (
	// ErrInvalidToken covers malformed tokens, bad signatures, and
	// wrong signing algorithms.
	ErrInvalidToken = errors.New("roomtoken: invalid token")

	// ErrTokenExpired is returned for structurally valid tokens past
	// their expiry.
	ErrTokenExpired = errors.New("roomtoken: token expired")

	// ErrRoomMismatch is returned when a token is presented for a
	// room other than the one it was minted for.
	ErrRoomMismatch = errors.New("roomtoken: token minted for a different room")
)

// Issuer mints and verifies room tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewIssuer builds an Issuer. The secret must be non-empty. A zero
// ttl means DefaultTTL; a nil clk means the real clock.
func NewIssuer(secret []byte, ttl time.Duration, clk clock.Clock) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("roomtoken: empty signing secret")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("roomtoken: negative ttl %v", ttl)
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Issuer{secret: secret, ttl: ttl, clock: clk}, nil
}

// Issue mints a token authorizing user to join room, assigning a
// random display identity. The token carries a unique JTI so issuance
// is never idempotent — two tokens for the same user are distinct.
func (i *Issuer) Issue(user ref.PeerID, room ref.RoomID) (string, error) {
	if user.IsZero() {
		return "", errors.New("roomtoken: zero user ID")
	}
	if room.IsZero() {
		return "", errors.New("roomtoken: zero room ID")
	}

	jti, err := randomJTI()
	if err != nil {
		return "", fmt.Errorf("roomtoken: generating JTI: %w", err)
	}

	now := i.clock.Now()
	claims := Claims{
		Room:     room.String(),
		Identity: randomIdentity(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.String(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("roomtoken: signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token presented for the given room.
// Expiry is evaluated against the issuer's clock.
func (i *Issuer) Verify(tokenString string, room ref.RoomID) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Room != room.String() {
		return nil, fmt.Errorf("%w: token is for room %q", ErrRoomMismatch, claims.Room)
	}
	if _, err := claims.PeerID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// randomJTI creates a random token ID.
func randomJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
