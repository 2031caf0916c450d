// internal/form/csrf.go
//
// Landing – Forms subsystem: stateless form token.
//
// Context
//   The no-script fallback posts a plain HTML form to /contact.  The page
//   embeds a hidden `csrf_token` input generated at render time, and the
//   server verifies it on POST so only forms it rendered are accepted:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – keyed with security.form_secret.
//
//   Verification checks the signature and that the timestamp is within
//   MaxTokenAge.  No server-side sessions, so any instance can verify.
//
// Workflow
//   •  s := NewSigner(cfg.Security.FormSecret)
//   •  s.Token()      → string for the renderer.
//   •  s.Verify(tok)  → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"time"

	"go.uber.org/zap"
)

const (
	nonceBytes  = 16
	tokenBytes  = nonceBytes + 8 + sha256.Size // nonce + ts + sig
	MaxTokenAge = 2 * time.Hour
	clockSkew   = time.Minute
)

// Signer issues and verifies form tokens.  Safe for concurrent use.
type Signer struct {
	key []byte
	now func() time.Time
}

// NewSigner keys a Signer with secret.  An empty secret yields a random key
// that dies with the process; tokens then fail after a restart.
func NewSigner(secret string) *Signer {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
		zap.S().Warnw("security.form_secret not set, using ephemeral key")
	}
	return &Signer{key: key, now: time.Now}
}

// Token creates a new token.  Call once per form render.
func (s *Signer) Token() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf[:nonceBytes]); err != nil {
		return "", err
	}
	binary.BigEndian.PutUint64(buf[nonceBytes:nonceBytes+8], uint64(s.now().UnixMicro()))
	copy(buf[nonceBytes+8:], s.sign(buf[:nonceBytes+8]))
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok passes HMAC and age checks.
func (s *Signer) Verify(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(raw[nonceBytes : nonceBytes+8])))
	age := s.now().Sub(issued)
	if age > MaxTokenAge || age < -clockSkew {
		return false
	}
	return hmac.Equal(raw[nonceBytes+8:], s.sign(raw[:nonceBytes+8]))
}

func (s *Signer) sign(msg []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(msg)
	return mac.Sum(nil)
}
