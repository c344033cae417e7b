package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/cityline/cityline_api/util"
	"github.com/cityline/cityline_api/util/cache"
	"github.com/cityline/cityline_api/util/tracing"
	"github.com/cityline/cityline_api/util/values"
	"github.com/go-chi/chi/v5"
)

const statsCacheKey = "cityline:stats:reports"

func (api *API) StatsRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(api.RequireLogin)

	mux.Method(http.MethodGet, "/", Handler(api.GetReportStats))

	return mux
}

// GetReportStats serves the dashboard aggregates, short-cached in Redis
// so repeated dashboard refreshes don't hammer the database. Cache
// failures fall through to a live query.
func (api *API) GetReportStats(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	if api.Deps.Cache != nil {
		cached, err := api.Deps.Cache.Get(r.Context(), statsCacheKey)
		if err == nil {
			var stats model.ReportStats
			if uErr := json.Unmarshal([]byte(cached), &stats); uErr == nil {
				return &ServerResponse{
					Message:    "Statistics fetched successfully",
					Status:     values.Success,
					StatusCode: util.StatusCode(values.Success),
					Data:       stats,
				}
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("[Stats]: cache read failed: %v", err)
		}
	}

	stats, err := api.GetReportStatsRepo(r.Context())
	if err != nil {
		return respondWithError(err, "Failed to compute statistics", values.Error, &tc)
	}

	if api.Deps.Cache != nil {
		if payload, mErr := json.Marshal(stats); mErr == nil {
			if cErr := api.Deps.Cache.Set(r.Context(), statsCacheKey, string(payload), api.Config.StatsCacheTTL); cErr != nil {
				log.Printf("[Stats]: cache write failed: %v", cErr)
			}
		}
	}

	return &ServerResponse{
		Message:    "Statistics fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       stats,
	}
}
