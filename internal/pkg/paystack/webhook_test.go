package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWebhookVerifier_VerifySignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	v := NewWebhookVerifier(secret)
	assert.True(t, v.VerifySignature(body, signature))
	assert.False(t, v.VerifySignature(body, "tampered"))
	assert.False(t, v.VerifySignature([]byte(`{"event":"charge.success"}`), signature))

	other := NewWebhookVerifier("different-secret")
	assert.False(t, other.VerifySignature(body, signature))
}

func TestMinorUnitConversion(t *testing.T) {
	assert.Equal(t, int64(50000), toMinorUnits(decimal.NewFromInt(500)))
	assert.Equal(t, int64(12345), toMinorUnits(decimal.RequireFromString("123.45")))

	assert.Equal(t, "500", FromMinorUnits(50000).String())
	assert.Equal(t, "123.45", FromMinorUnits(12345).String())
}
