// Package presigned produces time-limited signed content URLs.
//
// A signed URL is the original URL followed by an expiry timestamp (Unix
// seconds) and an opaque signature token:
//
//	https://cdn.example.com/a.pdf?expires=1696789012&signature=k3x9q2m1z8a
//
// The separator is always "?": the original URL is treated as an opaque string.
//
// # Token Sources
//
// Without a secret key the signature is a random token. It carries no access
// control and only preserves the shape of the URL. With a secret key the
// signature is an HMAC-SHA256 over the URL and expiry, which Validate can check:
//
//	signer := presigned.New(presigned.WithSecretKey(os.Getenv("SIGNING_SECRET")))
//	signed := signer.Sign("https://cdn.example.com/a.pdf")
//	url, expires, sig, _ := presigned.Parse(signed)
//	err := signer.Validate(url, expires, sig)
//
// Time and token generation are injectable through WithClock and
// WithTokenSource so that signed URLs are deterministic in tests.
package presigned
