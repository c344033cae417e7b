package rest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/cityline/cityline_api/util"
	"github.com/cityline/cityline_api/util/values"
)

const (
	// The SMS provider caps a single submission at 100 recipients.
	maxRecipientsPerBatch = 100
	subscriberPageSize    = 500
	citizenLookupChunk    = 100
)

// citizenDirectory is the slice of the citizen registry the fan-out
// helpers read. *API implements it with the citizens repo; tests
// substitute a fake.
type citizenDirectory interface {
	ListSubscribedCitizensRepo(ctx context.Context, cursor string, limit int) ([]model.Citizen, string, error)
	GetCitizensByIDsRepo(ctx context.Context, ids []string) ([]model.Citizen, error)
	GetCitizenByPhoneRepo(ctx context.Context, phoneNumber string) (model.Citizen, error)
}

// BroadcastHelper sends a message to every subscribed citizen, paging
// through the registry so the whole list never has to fit in memory.
func (api *API) BroadcastHelper(ctx context.Context, req model.BroadcastRequest) (model.BroadcastResult, string, string, error) {
	result, err := api.broadcastToSubscribers(ctx, api, req.Message, req.SenderID)
	if err != nil {
		return model.BroadcastResult{}, values.Error, "Failed to load subscribed citizens", err
	}
	return result, values.Success, "Broadcast completed", nil
}

func (api *API) broadcastToSubscribers(ctx context.Context, dir citizenDirectory, message, senderID string) (model.BroadcastResult, error) {
	result := model.BroadcastResult{Errors: []string{}}

	cursor := ""
	for {
		citizens, next, err := dir.ListSubscribedCitizensRepo(ctx, cursor, subscriberPageSize)
		if err != nil {
			return model.BroadcastResult{}, err
		}

		page := api.sendToCitizens(ctx, citizens, message, senderID)
		result.TotalCitizens += page.TotalCitizens
		result.SentCount += page.SentCount
		result.FailedCount += page.FailedCount
		result.Errors = append(result.Errors, page.Errors...)

		if next == "" || len(citizens) < subscriberPageSize {
			break
		}
		cursor = next
	}

	return result, nil
}

// TargetedHelper resolves the requested citizen IDs and phone numbers
// to registry entries, dedupes them, and sends to the survivors.
func (api *API) TargetedHelper(ctx context.Context, req model.TargetedRequest) (model.BroadcastResult, string, string, error) {
	return api.targetedSend(ctx, api, req)
}

func (api *API) targetedSend(ctx context.Context, dir citizenDirectory, req model.TargetedRequest) (model.BroadcastResult, string, string, error) {
	citizens, err := resolveTargets(ctx, dir, req)
	if err != nil {
		return model.BroadcastResult{}, values.Error, "Failed to resolve citizens", err
	}

	if len(citizens) == 0 {
		return model.BroadcastResult{}, values.NotFound, "No citizens matched the requested targets", ErrCitizenNotFound
	}

	result := api.sendToCitizens(ctx, citizens, req.Message, req.SenderID)
	return result, values.Success, "Targeted send completed", nil
}

// resolveTargets looks up the requested citizen IDs (in chunks) and
// phone numbers. Unknown IDs and unmatched numbers are skipped; the
// send proceeds with whoever matched. A citizen named by both an ID
// and a phone number resolves once.
func resolveTargets(ctx context.Context, dir citizenDirectory, req model.TargetedRequest) ([]model.Citizen, error) {
	var resolved []model.Citizen

	for _, chunk := range util.ChunkStrings(req.CitizenIDs, citizenLookupChunk) {
		citizens, err := dir.GetCitizensByIDsRepo(ctx, chunk)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, citizens...)
	}

	for _, phone := range req.PhoneNumbers {
		citizen, err := dir.GetCitizenByPhoneRepo(ctx, phone)
		if errors.Is(err, ErrCitizenNotFound) {
			log.Printf("[Messages]: no citizen on file for %s, skipping", util.NormalizePhone(phone))
			continue
		}
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, citizen)
	}

	seen := make(map[string]bool, len(resolved))
	citizens := resolved[:0]
	for _, c := range resolved {
		key := c.ID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		citizens = append(citizens, c)
	}

	return citizens, nil
}

// sendToCitizens fans a message out in provider-sized batches, issued
// sequentially. A failed batch marks all of its members failed and the
// remaining batches still go out.
func (api *API) sendToCitizens(ctx context.Context, citizens []model.Citizen, message, senderID string) model.BroadcastResult {
	result := model.BroadcastResult{
		TotalCitizens: len(citizens),
		Errors:        []string{},
	}
	if len(citizens) == 0 {
		return result
	}

	sender := senderID
	if sender == "" {
		sender = api.Config.SMSSender
	}

	recipients := make([]string, 0, len(citizens))
	for _, c := range citizens {
		recipients = append(recipients, util.NormalizePhone(c.PhoneNumber))
	}

	batches := util.ChunkStrings(recipients, maxRecipientsPerBatch)
	for i, batch := range batches {
		deliveries, err := api.Deps.SMS.SendBatch(ctx, sender, batch, message)
		if err != nil {
			result.FailedCount += len(batch)
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d/%d failed: %v", i+1, len(batches), err))
			continue
		}

		for _, d := range deliveries {
			if d.Delivered {
				result.SentCount++
				continue
			}
			result.FailedCount++
			if d.Reason != "" {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", d.Recipient, d.Reason))
			}
		}
	}

	return result
}
