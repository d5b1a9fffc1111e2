package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("no payment record found")
	ErrNoPaymentsFound  = errors.New("no payment records found")
	ErrGatewayRejected  = errors.New("payment gateway rejected the request")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)
