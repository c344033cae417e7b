package rest

import (
	"context"
	"errors"
	"log"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/cityline/cityline_api/util"
	"github.com/cityline/cityline_api/util/values"
	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid status transition")

func (api *API) CreateReportHelper(ctx context.Context, req model.CreateReportRequest) (model.Report, string, string, error) {
	report := model.Report{
		ID:           util.GenerateUUID(),
		PhoneNumber:  req.PhoneNumber,
		CitizenName:  req.CitizenName,
		IssueAddress: req.IssueAddress,
		IssueType:    req.IssueType,
		Description:  req.Description,
		PhotoURLs:    api.verifyPhotoKeys(ctx, req.PhotoKeys),
		Status:       model.StatusNew,
	}

	created, err := api.CreateReportRepo(ctx, report)
	if err != nil {
		return model.Report{}, values.Error, "Failed to create report", err
	}

	api.notifyReportEvent(ctx, created, model.EventNewReport)
	return created, values.Created, "Report created successfully", nil
}

func (api *API) GetReportByIDHelper(ctx context.Context, id uuid.UUID) (model.Report, string, string, error) {
	report, err := api.GetReportByIDRepo(ctx, id)
	if errors.Is(err, ErrReportNotFound) {
		return model.Report{}, values.NotFound, "Report not found", err
	}
	if err != nil {
		return model.Report{}, values.Error, "Failed to fetch report", err
	}
	return report, values.Success, "Report fetched successfully", nil
}

func (api *API) ListReportsHelper(ctx context.Context, params model.ListReportsParams) (model.ReportListPage, string, string, error) {
	page, err := api.ListReportsRepo(ctx, params)
	if err != nil {
		return model.ReportListPage{}, values.Error, "Failed to fetch reports", err
	}
	return page, values.Success, "Reports fetched successfully", nil
}

// UpdateReportStatusHelper runs the status workflow: confirm the report
// exists, check the transition table, verify any new photo references,
// then apply the partial update.
func (api *API) UpdateReportStatusHelper(ctx context.Context, id uuid.UUID, req model.UpdateReportStatusRequest) (model.Report, string, string, error) {
	current, err := api.GetReportByIDRepo(ctx, id)
	if errors.Is(err, ErrReportNotFound) {
		return model.Report{}, values.NotFound, "Report not found", err
	}
	if err != nil {
		return model.Report{}, values.Error, "Failed to load report", err
	}

	if req.Status != nil && !model.IsValidStatusTransition(current.Status, *req.Status) {
		return model.Report{}, values.BadRequestBody, "Invalid status transition", ErrInvalidTransition
	}

	verified := api.verifyPhotoKeys(ctx, req.PhotoKeys)

	updated, err := api.UpdateReportStatusRepo(ctx, id, req, verified)
	if errors.Is(err, ErrStaleUpdate) {
		return model.Report{}, values.Conflict, "Report was changed by another update", err
	}
	if errors.Is(err, ErrReportNotFound) {
		return model.Report{}, values.NotFound, "Report not found", err
	}
	if err != nil {
		return model.Report{}, values.Error, "Failed to update report", err
	}

	api.notifyReportEvent(ctx, updated, model.EventStatusUpdate)
	return updated, values.Success, "Report updated successfully", nil
}

// verifyPhotoKeys checks each submitted photo reference against the
// photo store and returns the public URLs of the ones that exist.
// Unverified references are dropped and logged, never stored.
func (api *API) verifyPhotoKeys(ctx context.Context, keys []string) []string {
	var urls []string
	for _, key := range keys {
		if !util.NotBlank(key) {
			continue
		}
		url, err := api.Deps.Photos.VerifyImage(ctx, key)
		if err != nil {
			log.Printf("[Reports]: dropping unverified photo %q: %v", key, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
