package rest

import (
	"errors"
	"net/http"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/cityline/cityline_api/util"
	"github.com/cityline/cityline_api/util/tracing"
	"github.com/cityline/cityline_api/util/values"
	"github.com/go-chi/chi/v5"
)

var errNoTargets = errors.New("no targets supplied")

func (api *API) MessageRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(api.RequireLogin)

	mux.Method(http.MethodPost, "/broadcast", Handler(api.BroadcastMessage))
	mux.Method(http.MethodPost, "/targeted", Handler(api.TargetedMessage))

	return mux
}

func (api *API) BroadcastMessage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.BroadcastRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	result, status, message, err := api.BroadcastHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       result,
	}
}

func (api *API) TargetedMessage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.TargetedRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	if len(req.CitizenIDs) == 0 && len(req.PhoneNumbers) == 0 {
		return respondWithError(errNoTargets, "at least one citizen ID or phone number is required", values.BadRequestBody, &tc)
	}

	result, status, message, err := api.TargetedHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       result,
	}
}
