package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/cityline/cityline_api/util"
	"github.com/cityline/cityline_api/util/tracing"
	"github.com/cityline/cityline_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) CitizenRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(api.RequireLogin)

	mux.Method(http.MethodPost, "/", Handler(api.AddCitizen))
	mux.Method(http.MethodDelete, "/{citizenID}", Handler(api.RemoveCitizen))
	mux.Method(http.MethodGet, "/", Handler(api.ListCitizens))

	return mux
}

func (api *API) AddCitizen(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.AddCitizenRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	citizen, err := api.AddCitizenRepo(r.Context(), req.PhoneNumber)
	if err != nil {
		return respondWithError(err, "Failed to subscribe citizen", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Citizen subscribed successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       citizen,
	}
}

func (api *API) RemoveCitizen(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	citizenID, err := util.StringToUUID(chi.URLParam(r, "citizenID"))
	if err != nil {
		return respondWithError(err, "invalid citizen ID", values.BadRequestBody, &tc)
	}

	if err := api.RemoveCitizenRepo(r.Context(), citizenID.String()); err != nil {
		if errors.Is(err, ErrCitizenNotFound) {
			return respondWithError(err, "Citizen not found", values.NotFound, &tc)
		}
		return respondWithError(err, "Failed to unsubscribe citizen", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Citizen unsubscribed successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) ListCitizens(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	params := model.ListCitizensParams{
		PhoneNumber: r.URL.Query().Get("phoneNumber"),
		Cursor:      r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("subscribed"); raw != "" {
		subscribed, err := strconv.ParseBool(raw)
		if err != nil {
			return respondWithError(err, "invalid subscribed filter", values.BadRequestBody, &tc)
		}
		params.Subscribed = &subscribed
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return respondWithError(err, "invalid limit", values.BadRequestBody, &tc)
		}
		params.Limit = limit
	}

	page, err := api.ListCitizensRepo(r.Context(), params)
	if err != nil {
		return respondWithError(err, "Failed to fetch citizens", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Citizens fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       page,
	}
}
