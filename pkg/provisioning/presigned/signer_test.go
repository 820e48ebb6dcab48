package presigned

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestSign_Shape(t *testing.T) {
	now := time.Unix(1700000000, 0)
	signer := New(WithClock(fixedClock(now)))

	for _, original := range []string{"/uploads/a.pdf", "https://cdn.example.com/v.mp4", ""} {
		signed := signer.Sign(original)

		assert.True(t, strings.HasPrefix(signed, original+"?expires="), signed)

		u, expires, sig, err := Parse(signed)
		require.NoError(t, err)
		assert.Equal(t, original, u)
		assert.Equal(t, now.Unix()+3600, expires)
		assert.NotEmpty(t, sig)
	}
}

func TestSign_ExistingQueryIsOpaque(t *testing.T) {
	signer := New(WithClock(fixedClock(time.Unix(10, 0))), WithTokenSource(func(string, int64) string { return "tok" }))

	assert.Equal(t, "/a?x=1?expires=3610&signature=tok", signer.Sign("/a?x=1"))
}

func TestSign_Deterministic(t *testing.T) {
	signer := New(
		WithClock(fixedClock(time.Unix(1000, 0))),
		WithTokenSource(func(url string, expiresAt int64) string {
			return "sig-" + strconv.FormatInt(expiresAt, 10)
		}),
	)

	u := signer.SignURL("/x.png")
	assert.Equal(t, "/x.png?expires=4600&signature=sig-4600", u.URL)
	assert.Equal(t, int64(4600), u.ExpiresAt)
	assert.Equal(t, "sig-4600", u.Signature)
	assert.Equal(t, u.URL, u.String())
	assert.Equal(t, u.URL, signer.Sign("/x.png"))
}

func TestSign_CustomTTL(t *testing.T) {
	signer := New(WithClock(fixedClock(time.Unix(0, 0))), WithTTL(time.Minute))

	_, expires, _, err := Parse(signer.Sign("/a"))
	require.NoError(t, err)
	assert.Equal(t, int64(60), expires)
}

func TestRandomToken_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok := RandomToken("", 0)
		assert.NotEmpty(t, tok)
		seen[tok] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestValidate_HMAC(t *testing.T) {
	now := time.Unix(1700000000, 0)
	signer := New(WithSecretKey("0123456789abcdef0123456789abcdef"), WithClock(fixedClock(now)))
	require.True(t, signer.IsEnabled())

	signed := signer.Sign("/uploads/a.pdf")
	assert.NoError(t, signer.ValidateURL(signed))

	// Same inputs, same signature
	assert.Equal(t, signed, signer.Sign("/uploads/a.pdf"))

	u, expires, sig, err := Parse(signed)
	require.NoError(t, err)

	assert.ErrorIs(t, signer.Validate("/uploads/b.pdf", expires, sig), ErrInvalidSignature)
	assert.ErrorIs(t, signer.Validate(u, expires+1, sig), ErrInvalidSignature)

	later := New(WithSecretKey("0123456789abcdef0123456789abcdef"), WithClock(fixedClock(now.Add(2*time.Hour))))
	err = later.Validate(u, expires, sig)
	assert.ErrorIs(t, err, ErrExpired)
	assert.True(t, IsAuthError(err))
}

func TestValidate_NoSecret(t *testing.T) {
	signer := New()
	assert.False(t, signer.IsEnabled())
	assert.ErrorIs(t, signer.ValidateURL(signer.Sign("/a")), ErrNoSecretKey)
}

func TestParse_Malformed(t *testing.T) {
	_, _, _, err := Parse("/a.pdf")
	assert.ErrorIs(t, err, ErrMalformedURL)

	_, _, _, err = Parse("/a.pdf?expires=12")
	assert.ErrorIs(t, err, ErrMalformedURL)

	_, _, _, err = Parse("/a.pdf?expires=abc&signature=x")
	assert.ErrorIs(t, err, ErrInvalidExpiration)
}

func TestSign_Concurrent(t *testing.T) {
	signer := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _, err := Parse(signer.Sign("/a"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
