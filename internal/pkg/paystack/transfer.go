package paystack

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// CreateRecipientRequest registers a transfer destination. The workflow
// only disburses to mobile money in Ghana.
type CreateRecipientRequest struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency"`
}

type RecipientResponse struct {
	RecipientCode string `json:"recipient_code"`
	Active        bool   `json:"active"`
}

// CreateRecipient registers a mobile-money recipient and returns its code.
func (c *Client) CreateRecipient(ctx context.Context, name, accountNumber, bankCode string) (RecipientResponse, error) {
	if bankCode == "" {
		bankCode = "MTN"
	}

	req := CreateRecipientRequest{
		Type:          "mobile_money",
		Name:          name,
		AccountNumber: accountNumber,
		BankCode:      bankCode,
		Currency:      "GHS",
	}

	var resp RecipientResponse
	if err := c.do(ctx, http.MethodPost, "/transferrecipient", req, &resp); err != nil {
		return RecipientResponse{}, err
	}

	return resp, nil
}

type transferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
	Reference string `json:"reference"`
	Currency  string `json:"currency"`
}

type TransferResponse struct {
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
	Reference    string `json:"reference"`
}

// Transfer sends amount (major units) to a stored recipient. The
// reference ties the transfer back to the loan it disburses.
func (c *Client) Transfer(ctx context.Context, recipientCode string, amount decimal.Decimal, reference, reason string) (TransferResponse, error) {
	req := transferRequest{
		Source:    "balance",
		Amount:    toMinorUnits(amount),
		Recipient: recipientCode,
		Reason:    reason,
		Reference: reference,
		Currency:  "GHS",
	}

	var resp TransferResponse
	if err := c.do(ctx, http.MethodPost, "/transfer", req, &resp); err != nil {
		return TransferResponse{}, err
	}

	return resp, nil
}

// toMinorUnits converts a GHS amount to pesewas, the unit the gateway
// expects everywhere.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// FromMinorUnits converts a pesewa amount back to GHS.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}
