package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cityline/cityline_api/config"
	deps "github.com/cityline/cityline_api/internal/debs"
	"github.com/cityline/cityline_api/internal/model"
	"github.com/cityline/cityline_api/util"
	"github.com/cityline/cityline_api/util/sms"
	"github.com/cityline/cityline_api/util/tracing"
	"github.com/cityline/cityline_api/util/values"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeDirectory serves subscriber pages by call order and resolves IDs
// and phone numbers from fixed maps, the way the citizens repo does.
type fakeDirectory struct {
	pages       [][]model.Citizen
	pageCursors []string
	byID        map[string]model.Citizen
	byPhone     map[string]model.Citizen
}

func (f *fakeDirectory) ListSubscribedCitizensRepo(_ context.Context, cursor string, limit int) ([]model.Citizen, string, error) {
	f.pageCursors = append(f.pageCursors, cursor)
	call := len(f.pageCursors) - 1
	if call >= len(f.pages) {
		return nil, "", nil
	}

	page := f.pages[call]
	next := ""
	if len(page) == limit {
		next = fmt.Sprintf("cursor-%d", call+1)
	}
	return page, next, nil
}

func (f *fakeDirectory) GetCitizensByIDsRepo(_ context.Context, ids []string) ([]model.Citizen, error) {
	citizens := []model.Citizen{}
	for _, id := range ids {
		if c, ok := f.byID[id]; ok {
			citizens = append(citizens, c)
		}
	}
	return citizens, nil
}

func (f *fakeDirectory) GetCitizenByPhoneRepo(_ context.Context, phoneNumber string) (model.Citizen, error) {
	if c, ok := f.byPhone[util.NormalizePhone(phoneNumber)]; ok {
		return c, nil
	}
	return model.Citizen{}, ErrCitizenNotFound
}

type fakeSMSChannel struct {
	batches    [][]string
	senders    []string
	messages   []string
	failBatch  int
	failErr    error
	perRecip   map[string]string
	callsSoFar int
}

func (f *fakeSMSChannel) SendBatch(_ context.Context, sender string, recipients []string, message string) ([]sms.DeliveryResult, error) {
	f.callsSoFar++
	f.batches = append(f.batches, recipients)
	f.senders = append(f.senders, sender)
	f.messages = append(f.messages, message)

	if f.failBatch == f.callsSoFar {
		return nil, f.failErr
	}

	results := make([]sms.DeliveryResult, 0, len(recipients))
	for _, r := range recipients {
		if reason, ok := f.perRecip[r]; ok {
			results = append(results, sms.DeliveryResult{Recipient: r, Delivered: false, Reason: reason})
			continue
		}
		results = append(results, sms.DeliveryResult{Recipient: r, Delivered: true})
	}
	return results, nil
}

func testAPI(channel sms.Channel) *API {
	return &API{
		Config: &config.Config{SMSSender: "CityLine"},
		Deps:   &deps.Dependencies{SMS: channel},
	}
}

func makeCitizens(n int) []model.Citizen {
	citizens := make([]model.Citizen, 0, n)
	for i := 0; i < n; i++ {
		citizens = append(citizens, model.Citizen{
			ID:          uuid.New(),
			PhoneNumber: fmt.Sprintf("555%07d", i),
		})
	}
	return citizens
}

func TestSendToCitizensBatching(t *testing.T) {
	channel := &fakeSMSChannel{}
	api := testAPI(channel)

	result := api.sendToCitizens(context.Background(), makeCitizens(250), "road closure on Main St", "")

	assert.Len(t, channel.batches, 3)
	assert.Len(t, channel.batches[0], 100)
	assert.Len(t, channel.batches[1], 100)
	assert.Len(t, channel.batches[2], 50)

	assert.Equal(t, 250, result.TotalCitizens)
	assert.Equal(t, 250, result.SentCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Empty(t, result.Errors)

	// sender falls back to the configured default
	assert.Equal(t, "CityLine", channel.senders[0])
}

func TestSendToCitizensBatchFailure(t *testing.T) {
	channel := &fakeSMSChannel{
		failBatch: 2,
		failErr:   errors.New("provider timeout"),
	}
	api := testAPI(channel)

	result := api.sendToCitizens(context.Background(), makeCitizens(250), "water main break", "PublicWorks")

	// batches after the failed one still go out
	assert.Len(t, channel.batches, 3)
	assert.Equal(t, 250, result.TotalCitizens)
	assert.Equal(t, 150, result.SentCount)
	assert.Equal(t, 100, result.FailedCount)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "batch 2/3 failed")
	assert.Contains(t, result.Errors[0], "provider timeout")

	assert.Equal(t, "PublicWorks", channel.senders[0])
}

func TestSendToCitizensPerRecipientFailures(t *testing.T) {
	channel := &fakeSMSChannel{
		perRecip: map[string]string{
			"+15550000001": "invalid number",
			"+15550000003": "blocked",
		},
	}
	api := testAPI(channel)

	result := api.sendToCitizens(context.Background(), makeCitizens(5), "boil water advisory", "")

	assert.Equal(t, 5, result.TotalCitizens)
	assert.Equal(t, 3, result.SentCount)
	assert.Equal(t, 2, result.FailedCount)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "+15550000001: invalid number")
}

func TestSendToCitizensEmpty(t *testing.T) {
	channel := &fakeSMSChannel{}
	api := testAPI(channel)

	result := api.sendToCitizens(context.Background(), nil, "hello", "")

	assert.Zero(t, channel.callsSoFar)
	assert.Equal(t, 0, result.TotalCitizens)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestSendToCitizensNormalizesPhones(t *testing.T) {
	channel := &fakeSMSChannel{}
	api := testAPI(channel)

	citizens := []model.Citizen{
		{ID: uuid.New(), PhoneNumber: "(123) 456-7890"},
		{ID: uuid.New(), PhoneNumber: "+11234567891"},
	}
	api.sendToCitizens(context.Background(), citizens, "test", "")

	assert.Equal(t, []string{"+11234567890", "+11234567891"}, channel.batches[0])
}

func TestBroadcastFollowsCursors(t *testing.T) {
	channel := &fakeSMSChannel{}
	api := testAPI(channel)
	dir := &fakeDirectory{pages: [][]model.Citizen{
		makeCitizens(subscriberPageSize),
		makeCitizens(120),
	}}

	result, err := api.broadcastToSubscribers(context.Background(), dir, "snow emergency", "")

	assert.NoError(t, err)
	// the loop starts unanchored, then follows the returned cursor
	assert.Equal(t, []string{"", "cursor-1"}, dir.pageCursors)
	assert.Equal(t, subscriberPageSize+120, result.TotalCitizens)
	assert.Equal(t, subscriberPageSize+120, result.SentCount)
	assert.Equal(t, 0, result.FailedCount)
}

func TestBroadcastAccumulatesAcrossPages(t *testing.T) {
	// batch 6 is the first batch of the second page
	channel := &fakeSMSChannel{
		failBatch: 6,
		failErr:   errors.New("provider timeout"),
	}
	api := testAPI(channel)
	dir := &fakeDirectory{pages: [][]model.Citizen{
		makeCitizens(subscriberPageSize),
		makeCitizens(120),
	}}

	result, err := api.broadcastToSubscribers(context.Background(), dir, "boil water advisory", "")

	assert.NoError(t, err)
	assert.Equal(t, 620, result.TotalCitizens)
	assert.Equal(t, 520, result.SentCount)
	assert.Equal(t, 100, result.FailedCount)
	assert.Equal(t, result.TotalCitizens, result.SentCount+result.FailedCount)
	assert.Len(t, result.Errors, 1)
}

func TestBroadcastNoSubscribers(t *testing.T) {
	channel := &fakeSMSChannel{}
	api := testAPI(channel)
	dir := &fakeDirectory{}

	result, err := api.broadcastToSubscribers(context.Background(), dir, "hello", "")

	assert.NoError(t, err)
	assert.Zero(t, channel.callsSoFar)
	assert.Equal(t, 0, result.TotalCitizens)
}

func TestResolveTargetsSkipsUnknownIDs(t *testing.T) {
	known := model.Citizen{ID: uuid.New(), PhoneNumber: "5550000001"}
	dir := &fakeDirectory{byID: map[string]model.Citizen{
		known.ID.String(): known,
	}}
	req := model.TargetedRequest{
		Message:    "pothole repair scheduled",
		CitizenIDs: []string{uuid.New().String(), known.ID.String()},
	}

	citizens, err := resolveTargets(context.Background(), dir, req)

	assert.NoError(t, err)
	assert.Equal(t, []model.Citizen{known}, citizens)

	channel := &fakeSMSChannel{}
	api := testAPI(channel)
	result, status, _, err := api.targetedSend(context.Background(), dir, req)
	assert.NoError(t, err)
	assert.Equal(t, values.Success, status)
	assert.Equal(t, 1, result.TotalCitizens)
	assert.Equal(t, 1, result.SentCount)
}

func TestTargetedSendDedupes(t *testing.T) {
	citizen := model.Citizen{ID: uuid.New(), PhoneNumber: "+15550000009"}
	dir := &fakeDirectory{
		byID:    map[string]model.Citizen{citizen.ID.String(): citizen},
		byPhone: map[string]model.Citizen{"+15550000009": citizen},
	}
	req := model.TargetedRequest{
		Message:      "streetlight fixed",
		CitizenIDs:   []string{citizen.ID.String()},
		PhoneNumbers: []string{"(555) 000-0009"},
	}

	channel := &fakeSMSChannel{}
	api := testAPI(channel)
	result, status, _, err := api.targetedSend(context.Background(), dir, req)

	assert.NoError(t, err)
	assert.Equal(t, values.Success, status)
	assert.Equal(t, 1, result.TotalCitizens)
	assert.Equal(t, []string{"+15550000009"}, channel.batches[0])
}

func TestTargetedSendNoMatch(t *testing.T) {
	channel := &fakeSMSChannel{}
	api := testAPI(channel)
	req := model.TargetedRequest{
		Message:      "hello",
		CitizenIDs:   []string{uuid.New().String()},
		PhoneNumbers: []string{"5550009999"},
	}

	_, status, _, err := api.targetedSend(context.Background(), &fakeDirectory{}, req)

	assert.Equal(t, values.NotFound, status)
	assert.ErrorIs(t, err, ErrCitizenNotFound)
	assert.Zero(t, channel.callsSoFar)
}

func TestTargetedMessageRequiresTargets(t *testing.T) {
	api := testAPI(&fakeSMSChannel{})

	r := httptest.NewRequest(http.MethodPost, "/messages/targeted", strings.NewReader(`{"message":"hi"}`))
	ctx := context.WithValue(r.Context(), values.ContextTracingKey, tracing.Context{RequestID: "test"})

	resp := api.TargetedMessage(httptest.NewRecorder(), r.WithContext(ctx))

	assert.Equal(t, values.BadRequestBody, resp.Status)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
