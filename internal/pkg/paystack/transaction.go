package paystack

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

type initializeRequest struct {
	Email    string `json:"email"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// InitializeTransaction opens a checkout for a repayment and returns the
// gateway's reference and authorization URL.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal) (InitializeResponse, error) {
	req := initializeRequest{
		Email:    email,
		Amount:   toMinorUnits(amount),
		Currency: "GHS",
	}

	var resp InitializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", req, &resp); err != nil {
		return InitializeResponse{}, err
	}

	return resp, nil
}

type VerifyResponse struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Channel   string `json:"channel"`
	PaidAt    string `json:"paid_at"`
}

// VerifyTransaction fetches the settled state of a transaction by
// reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &resp); err != nil {
		return VerifyResponse{}, err
	}

	return resp, nil
}
