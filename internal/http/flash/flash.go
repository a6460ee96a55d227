// Package flash carries one notification across a redirect in a signed
// cookie.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"mondedesparfum.com/admin/pkg/view"
)

var ErrInvalid = errors.New("invalid flash cookie")

// maxMessage keeps the cookie well under the 4KB browser limit even when a
// backend error body is echoed.
const maxMessage = 600

// Codec signs notifications. The signature covers the cookie name, so a
// value minted for one cookie is rejected under another.
type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: cookieName, Secure: secure}
}

// wire is the cookie payload; short keys keep it small.
type wire struct {
	Kind    view.FlashKind `json:"k"`
	Title   string         `json:"t,omitempty"`
	Message string         `json:"m"`
}

// Encode returns base64(json) "." base64(hmac).
func (c *Codec) Encode(f view.Flash) (string, error) {
	b, err := json.Marshal(wire{Kind: f.Kind, Title: f.Title, Message: truncate(f.Message, maxMessage)})
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + c.sign(payload), nil
}

func (c *Codec) Decode(v string) (*view.Flash, error) {
	payload, sig, ok := strings.Cut(v, ".")
	if !ok || strings.Contains(sig, ".") {
		return nil, ErrInvalid
	}
	if !hmac.Equal([]byte(c.sign(payload)), []byte(sig)) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalid
	}
	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, ErrInvalid
	}
	if strings.TrimSpace(w.Message) == "" {
		return nil, ErrInvalid
	}
	return &view.Flash{Kind: knownKind(w.Kind), Title: w.Title, Message: w.Message}, nil
}

func (c *Codec) CookieMaxAge() int {
	// read once after the redirect
	return int((2 * time.Minute).Seconds())
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.Secret)
	mac.Write([]byte(c.CookieName))
	mac.Write([]byte{0})
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func knownKind(k view.FlashKind) view.FlashKind {
	switch k {
	case view.FlashSuccess, view.FlashWarning, view.FlashError:
		return k
	default:
		return view.FlashInfo
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
