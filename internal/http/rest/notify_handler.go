package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/cityline/cityline_api/util"
	"github.com/cityline/cityline_api/util/email"
	"github.com/cityline/cityline_api/util/tracing"
	"github.com/cityline/cityline_api/util/values"
	"github.com/cityline/cityline_api/util/websockets"
	"github.com/go-chi/chi/v5"
)

const maxAdminDirectoryPage = 50

func (api *API) InternalRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(api.RequireLogin)

	mux.Method(http.MethodPost, "/notify", Handler(api.AdminNotify))

	return mux
}

// AdminNotify publishes a report event to the event bus and optionally
// emails the admin directory. The publish must succeed; emails are best
// effort.
func (api *API) AdminNotify(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.NotifyAdminsRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	reportID, err := util.StringToUUID(req.ReportID)
	if err != nil {
		return respondWithError(err, "invalid report ID", values.BadRequestBody, &tc)
	}

	report, err := api.GetReportByIDRepo(r.Context(), reportID)
	if errors.Is(err, ErrReportNotFound) {
		return respondWithError(err, "Report not found", values.NotFound, &tc)
	}
	if err != nil {
		return respondWithError(err, "Failed to load report", values.Error, &tc)
	}

	if err := api.publishReportEvent(report, req.NotificationType); err != nil {
		return respondWithError(err, "Failed to publish report event", values.Error, &tc)
	}

	emailed := 0
	if req.SenderEmail != "" {
		emailed = api.emailAdmins(r.Context(), report, req.SenderEmail)
	}

	return &ServerResponse{
		Message:    "Admins notified successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"report_id":      report.ID,
			"emailed_admins": emailed,
		},
	}
}

func (api *API) publishReportEvent(report model.Report, eventType string) error {
	event := model.ReportEvent{
		Type:         eventType,
		ReportID:     report.ID,
		IssueType:    report.IssueType,
		IssueAddress: report.IssueAddress,
		Status:       report.Status,
		CreatedAt:    report.CreatedAt,
		Timestamp:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling report event: %w", err)
	}
	return api.Deps.Events.Publish([]byte(report.ID.String()), payload)
}

// emailAdmins sends a report alert to every admin on file, capped at
// the directory page size. Individual failures are logged and skipped.
func (api *API) emailAdmins(ctx context.Context, report model.Report, senderEmail string) int {
	addresses, err := api.ListAdminEmailsRepo(ctx, maxAdminDirectoryPage)
	if err != nil {
		log.Printf("[Notify]: failed to list admin emails: %v", err)
		return 0
	}

	alert := email.ReportAlert{
		Title:        fmt.Sprintf("Report %s: %s", report.Status, report.IssueType),
		ReportID:     report.ID.String(),
		IssueType:    report.IssueType,
		IssueAddress: report.IssueAddress,
		Status:       report.Status,
		CreatedAt:    report.CreatedAt.Format(time.RFC1123),
	}

	sent := 0
	for _, address := range addresses {
		subject := fmt.Sprintf("[CityLine] Report update: %s", report.IssueType)
		if err := api.Mailer.SendReportAlert(senderEmail, address, subject, alert); err != nil {
			log.Printf("[Notify]: failed to email %s: %v", address, err)
			continue
		}
		sent++
	}
	return sent
}

// notifyReportEvent fans a report change out to the event bus and any
// connected dashboard sessions. Both paths are best effort so a broker
// outage never fails the originating request.
func (api *API) notifyReportEvent(_ context.Context, report model.Report, eventType string) {
	if err := api.publishReportEvent(report, eventType); err != nil {
		log.Printf("[Notify]: failed to publish %s event for report %s: %v", eventType, report.ID, err)
	}

	msgType := websockets.MsgTypeReportCreated
	if eventType == model.EventStatusUpdate {
		msgType = websockets.MsgTypeReportStatus
	}
	api.Deps.WebSocket.BroadcastEvent(msgType, report)
}
