package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Now()
	tok, err := NewSessionToken("secret", "sess-1", time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.UTC().Add(time.Hour), tok.Exp)

	sid, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sid)
}

func TestParseSessionTokenRejects(t *testing.T) {
	expired, err := NewSessionToken("secret", "sess-1", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	noSID, err := NewSessionToken("secret", "", time.Hour, time.Now())
	require.NoError(t, err)
	good, err := NewSessionToken("secret", "sess-1", time.Hour, time.Now())
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "x", "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct{ secret, raw string }{
		"expired":      {"secret", expired.Token},
		"no sid":       {"secret", noSID.Token},
		"wrong secret": {"other", good.Token},
		"garbage":      {"secret", "not.a.jwt"},
		"alg none":     {"secret", unsigned},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSessionToken(tc.secret, tc.raw)
			assert.ErrorIs(t, err, ErrInvalidSessionToken)
		})
	}
}
