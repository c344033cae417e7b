package sms

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kavenegar/kavenegar-go"
)

var ErrNotConfigured = errors.New("sms channel not configured")

// DeliveryResult is the provider's verdict for one recipient of a batch.
type DeliveryResult struct {
	Recipient string
	Delivered bool
	Reason    string
}

// Channel sends one message to a batch of recipients and reports a
// per-recipient outcome. A non-nil error means the whole batch failed
// and no per-recipient results are available.
type Channel interface {
	SendBatch(ctx context.Context, sender string, recipients []string, message string) ([]DeliveryResult, error)
}

type kavenegarChannel struct {
	api *kavenegar.Kavenegar
}

// NewKavenegarChannel creates the Kavenegar-backed SMS channel.
func NewKavenegarChannel(apiKey string) Channel {
	if apiKey == "" {
		log.Println("Warning: Kavenegar API key is empty, SMS sending will fail")
		return &noopChannel{}
	}

	return &kavenegarChannel{api: kavenegar.New(apiKey)}
}

func (c *kavenegarChannel) SendBatch(ctx context.Context, sender string, recipients []string, message string) ([]DeliveryResult, error) {
	if len(recipients) == 0 {
		return nil, nil
	}
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	res, err := c.api.Message.Send(sender, recipients, message, nil)
	if err != nil {
		switch err := err.(type) {
		case *kavenegar.APIError:
			return nil, fmt.Errorf("kavenegar API error: %w", err)
		case *kavenegar.HTTPError:
			return nil, fmt.Errorf("kavenegar HTTP error: %w", err)
		default:
			return nil, fmt.Errorf("failed to send SMS batch: %w", err)
		}
	}

	return mapResults(recipients, res), nil
}

// mapResults aligns the provider's response entries with the submitted
// recipients. The provider returns entries in submission order; any
// missing tail entries are treated as failures.
func mapResults(recipients []string, res []kavenegar.Message) []DeliveryResult {
	results := make([]DeliveryResult, 0, len(recipients))
	for i, recipient := range recipients {
		result := DeliveryResult{Recipient: recipient}
		if i >= len(res) {
			result.Reason = "no delivery status returned by provider"
			results = append(results, result)
			continue
		}

		if accepted(res[i].Status) {
			result.Delivered = true
		} else {
			reason := res[i].StatusText
			if reason == "" {
				reason = fmt.Sprintf("provider status %d", res[i].Status)
			}
			result.Reason = reason
		}
		results = append(results, result)
	}
	return results
}

// accepted reports whether a Kavenegar message status counts as a
// successful hand-off: 1 queued, 2 scheduled, 4/5 sent to carrier,
// 10 delivered.
func accepted(status kavenegar.MessageStatusType) bool {
	switch status {
	case 1, 2, 4, 5, 10:
		return true
	}
	return false
}

type noopChannel struct{}

func (n *noopChannel) SendBatch(ctx context.Context, sender string, recipients []string, message string) ([]DeliveryResult, error) {
	return nil, ErrNotConfigured
}
