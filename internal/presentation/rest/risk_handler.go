package rest

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/xeipuuv/gojsonschema"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/application/usecase"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/auth"
)

const maxBodyBytes = 1 << 20

//go:embed schema/*.json
var schemaFS embed.FS

// RiskHandler serves the risk evaluation endpoints.
type RiskHandler struct {
	evaluateRisk         *usecase.EvaluateRisk
	classifyProfile      *usecase.ClassifyProfile
	listRiskTiers        *usecase.ListRiskTiers
	evaluationSchema     *gojsonschema.Schema
	classificationSchema *gojsonschema.Schema
	logger               *slog.Logger
}

// NewRiskHandler compiles the embedded request schemas and returns the handler.
func NewRiskHandler(
	evaluateRisk *usecase.EvaluateRisk,
	classifyProfile *usecase.ClassifyProfile,
	listRiskTiers *usecase.ListRiskTiers,
	logger *slog.Logger,
) (*RiskHandler, error) {
	evaluation, err := loadSchema("schema/evaluation.schema.json")
	if err != nil {
		return nil, err
	}
	classification, err := loadSchema("schema/classification.schema.json")
	if err != nil {
		return nil, err
	}
	return &RiskHandler{
		evaluateRisk:         evaluateRisk,
		classifyProfile:      classifyProfile,
		listRiskTiers:        listRiskTiers,
		evaluationSchema:     evaluation,
		classificationSchema: classification,
		logger:               logger,
	}, nil
}

func loadSchema(name string) (*gojsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

// RegisterRoutes attaches the risk routes to the given mux.
func (h *RiskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/risk/evaluations", h.Evaluate)
	mux.HandleFunc("POST /api/v1/risk/classifications", h.Classify)
	mux.HandleFunc("GET /api/v1/risk/tiers", h.Tiers)
}

// Evaluate scores a full application with an optional co-buyer.
func (h *RiskHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateRiskRequest
	if !h.decode(w, r, h.evaluationSchema, &req) {
		return
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.DealershipID != "" {
		req.DealershipID = claims.DealershipID
	}

	resp, err := h.evaluateRisk.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Classify scores an already aggregated profile.
func (h *RiskHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req dto.ClassifyProfileRequest
	if !h.decode(w, r, h.classificationSchema, &req) {
		return
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.DealershipID != "" {
		req.DealershipID = claims.DealershipID
	}

	resp, err := h.classifyProfile.Execute(r.Context(), req)
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Tiers returns the tier table.
func (h *RiskHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.listRiskTiers.Execute(r.Context()))
}

// decode validates the body against schema and unmarshals it into v. It
// writes the error response itself and reports whether decoding succeeded.
func (h *RiskHandler) decode(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		writeError(w, http.StatusBadRequest, "request does not match schema", details...)
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body", err.Error())
		return false
	}
	return true
}

func (h *RiskHandler) writeUseCaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, usecase.ErrInvalidApplication) {
		writeError(w, http.StatusBadRequest, "invalid application", err.Error())
		return
	}
	h.logger.Error("risk evaluation failed", slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal error")
}
