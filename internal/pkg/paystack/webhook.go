package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// WebhookVerifier checks the x-paystack-signature header: an HMAC-SHA512
// of the raw request body keyed with the account's secret key.
type WebhookVerifier struct {
	secretKey string
}

func NewWebhookVerifier(secretKey string) *WebhookVerifier {
	return &WebhookVerifier{secretKey: secretKey}
}

func (v *WebhookVerifier) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(v.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

const (
	EventChargeSuccess   = "charge.success"
	EventTransferSuccess = "transfer.success"
	EventTransferFailed  = "transfer.failed"
)
