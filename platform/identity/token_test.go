package identity

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "shh-provider-secret"

func signedFields(issuedAt time.Time) map[string]string {
	return map[string]string{
		"subject":  "telegram-123",
		"issuedAt": strconv.FormatInt(issuedAt.Unix(), 10),
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	token := Sign(signedFields(time.Now()), testSecret)

	env, sig, err := Parse(token)
	assert.NoError(t, err)
	assert.NoError(t, Verify(env, sig, testSecret))
	assert.Equal(t, "telegram-123", env["subject"])
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	token := Sign(signedFields(time.Now()), testSecret)
	env, _, err := Parse(token)
	assert.NoError(t, err)

	err = Verify(env, "deadbeef", testSecret)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token := Sign(signedFields(time.Now()), testSecret)
	env, sig, _ := Parse(token)

	err := Verify(env, sig, "a-different-secret")
	assert.Error(t, err)
}

func TestVerifyRejectsStaleToken(t *testing.T) {
	stale := time.Now().Add(-25 * time.Hour)
	token := Sign(signedFields(stale), testSecret)
	env, sig, _ := Parse(token)

	err := Verify(env, sig, testSecret)
	assert.Error(t, err)
}

func TestVerifyRejectsMissingIssuedAt(t *testing.T) {
	fields := map[string]string{"subject": "telegram-123"}
	token := Sign(fields, testSecret)
	env, sig, _ := Parse(token)

	err := Verify(env, sig, testSecret)
	assert.Error(t, err)
}

func TestParseRejectsMalformedToken(t *testing.T) {
	_, _, err := Parse("not-a-valid-token")
	assert.Error(t, err)
}
