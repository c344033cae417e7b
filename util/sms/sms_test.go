package sms

import (
	"testing"

	"github.com/kavenegar/kavenegar-go"
	"github.com/stretchr/testify/assert"
)

func TestMapResults(t *testing.T) {
	recipients := []string{"+15551230001", "+15551230002", "+15551230003"}
	res := []kavenegar.Message{
		{Status: 1, Receptor: "+15551230001"},
		{Status: 100, StatusText: "invalid receptor", Receptor: "+15551230002"},
		{Status: 10, Receptor: "+15551230003"},
	}

	results := mapResults(recipients, res)

	assert.Len(t, results, 3)
	assert.True(t, results[0].Delivered)
	assert.False(t, results[1].Delivered)
	assert.Equal(t, "invalid receptor", results[1].Reason)
	assert.True(t, results[2].Delivered)
}

func TestMapResultsShortResponse(t *testing.T) {
	recipients := []string{"+15551230001", "+15551230002"}
	res := []kavenegar.Message{{Status: 1}}

	results := mapResults(recipients, res)

	assert.Len(t, results, 2)
	assert.True(t, results[0].Delivered)
	assert.False(t, results[1].Delivered)
	assert.NotEmpty(t, results[1].Reason)
}

func TestAcceptedStatuses(t *testing.T) {
	for _, status := range []kavenegar.MessageStatusType{1, 2, 4, 5, 10} {
		assert.True(t, accepted(status), "status %d should be accepted", status)
	}
	for _, status := range []kavenegar.MessageStatusType{0, 11, 13, 14, 100} {
		assert.False(t, accepted(status), "status %d should not be accepted", status)
	}
}
