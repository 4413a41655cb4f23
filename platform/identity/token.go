// Package identity is the C1 identity oracle: it validates a signed session token and
// resolves a principal, then answers authorize(principal, verb, resource) (spec §4.1).
package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/foodcourt-platform/platform/apierr"
)

// MaxTokenAge is the freshness bound on an Envelope's "issuedAt" field (spec §4.1).
const MaxTokenAge = 24 * time.Hour

// Envelope is the signed name/value token body. "sig" itself is never part of the signed set.
type Envelope map[string]string

// deriveKey computes HMAC-SHA256("SessionAuth", providerSecret) per spec §4.1.
func deriveKey(providerSecret string) []byte {
	mac := hmac.New(sha256.New, []byte(providerSecret))
	mac.Write([]byte("SessionAuth"))
	return mac.Sum(nil)
}

// Sign produces a raw token string: fields in sorted "key=value" order, newline-joined, a
// trailing "sig=<hex hmac>" line, all separated by "&" for transport as a single header value.
func Sign(fields map[string]string, providerSecret string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(fields[k])
	}

	mac := hmac.New(sha256.New, deriveKey(providerSecret))
	mac.Write([]byte(sb.String()))
	sig := fmt.Sprintf("%x", mac.Sum(nil))

	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, k+"="+fields[k])
	}
	parts = append(parts, "sig="+sig)
	return strings.Join(parts, "&")
}

// Parse splits a raw token string into its field envelope and signature.
func Parse(raw string) (Envelope, string, error) {
	env := make(Envelope)
	sig := ""
	for _, part := range strings.Split(raw, "&") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, "", errors.New("identity: malformed token field")
		}
		if kv[0] == "sig" {
			sig = kv[1]
			continue
		}
		env[kv[0]] = kv[1]
	}
	if sig == "" {
		return nil, "", errors.New("identity: missing signature")
	}
	return env, sig, nil
}

// Verify recomputes the HMAC over env's sorted fields and compares it constant-time against
// sig, then checks issuedAt freshness. It does not resolve the subject to a Principal.
func Verify(env Envelope, sig string, providerSecret string) error {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(env[k])
	}

	mac := hmac.New(sha256.New, deriveKey(providerSecret))
	mac.Write([]byte(sb.String()))
	expected := fmt.Sprintf("%x", mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) != 1 {
		return apierr.New(apierr.Unauthenticated, "token signature mismatch")
	}

	issuedAtRaw, ok := env["issuedAt"]
	if !ok {
		return apierr.New(apierr.Unauthenticated, "token missing issuedAt")
	}
	issuedAtUnix, err := strconv.ParseInt(issuedAtRaw, 10, 64)
	if err != nil {
		return apierr.New(apierr.Unauthenticated, "token issuedAt malformed")
	}
	issuedAt := time.Unix(issuedAtUnix, 0)
	if time.Since(issuedAt) > MaxTokenAge {
		return apierr.New(apierr.Unauthenticated, "token expired")
	}
	return nil
}
