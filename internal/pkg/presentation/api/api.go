package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/CTU-SematX/LegoCity/internal/pkg/application/transcode"
	"github.com/CTU-SematX/LegoCity/internal/pkg/infrastructure/storage"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/errors"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("legocity/api")

// RegisterHandlers mounts the export endpoints that serve the stored
// entities as NGSI-LD documents or GeoJSON feature collections.
func RegisterHandlers(ctx context.Context, r *chi.Mux, store storage.EntityStore) error {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/entities", NewQueryEntitiesHandler(store))
		r.Get("/entities/types", NewRetrieveEntityTypesHandler(store))
		r.Get("/geojson/{entityType}", NewRetrieveGeoJSONHandler(store))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return nil
}

// NewQueryEntitiesHandler serves all stored entities of the requested
// type as a JSON array of NGSI-LD documents.
func NewQueryEntitiesHandler(store storage.EntityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "query-entities")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		entityType := r.URL.Query().Get("type")
		if entityType == "" {
			errors.ReportNewBadRequestData(w, "a type parameter must be present in a request for entities", traceID)
			return
		}

		records, err := store.GetByType(ctx, entityType)
		if err != nil {
			log.Error("failed to query entities", "err", err.Error())
			errors.ReportNewInternalError(w, err.Error(), traceID)
			return
		}

		documents := make([]json.RawMessage, 0, len(records))
		for _, record := range records {
			documents = append(documents, json.RawMessage(record.Data))
		}

		body, err := json.Marshal(documents)
		if err != nil {
			errors.ReportNewInternalError(w, err.Error(), traceID)
			return
		}

		w.Header().Add("Content-Type", "application/ld+json")
		w.Write(body)
	}
}

// NewRetrieveEntityTypesHandler serves the distinct entity types held
// in the store.
func NewRetrieveEntityTypesHandler(store storage.EntityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-entity-types")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		entityTypes, err := store.Types(ctx)
		if err != nil {
			log.Error("failed to retrieve entity types", "err", err.Error())
			errors.ReportNewInternalError(w, err.Error(), traceID)
			return
		}

		body, err := json.Marshal(struct {
			Types []string `json:"types"`
		}{Types: entityTypes})
		if err != nil {
			errors.ReportNewInternalError(w, err.Error(), traceID)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.Write(body)
	}
}

// NewRetrieveGeoJSONHandler serves the stored entities of one type as a
// GeoJSON feature collection. Entities without a geometry are left out.
func NewRetrieveGeoJSONHandler(store storage.EntityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-geojson")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		entityType := chi.URLParam(r, "entityType")

		records, err := store.GetByType(ctx, entityType)
		if err != nil {
			log.Error("failed to query entities", "err", err.Error())
			errors.ReportNewInternalError(w, err.Error(), traceID)
			return
		}

		if len(records) == 0 {
			errors.ReportNotFoundError(w, "no entities of type "+entityType+" found", traceID)
			return
		}

		entitySet := make([]types.Entity, 0, len(records))
		for _, record := range records {
			e, parseErr := transcode.FromStoreRecord(record.Data)
			if parseErr != nil {
				log.Warn("failed to parse stored entity", "entity_id", record.ID, "err", parseErr.Error())
				continue
			}
			entitySet = append(entitySet, e)
		}

		collection := transcode.EntitiesToFeatureCollection(entitySet)

		body, err := json.Marshal(collection)
		if err != nil {
			errors.ReportNewInternalError(w, err.Error(), traceID)
			return
		}

		w.Header().Add("Content-Type", "application/geo+json")
		w.Write(body)
	}
}
