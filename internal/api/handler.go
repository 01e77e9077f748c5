package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/services"
)

const (
	userIDHeader    = "X-User-Id"
	maxBodyBytes    = 1 << 20
	defaultDispatch = 25
)

// Ingester is implemented by services.IngestionService
type Ingester interface {
	Ingest(ctx context.Context, req services.IngestRequest) (*services.IngestResponse, error)
}

// Enricher is implemented by services.EnrichmentService
type Enricher interface {
	EnrichLead(ctx context.Context, userID string, req services.EnrichRequest) (*services.EnrichResponse, error)
}

// PendingDispatcher is implemented by services.Dispatcher
type PendingDispatcher interface {
	DispatchPending(ctx context.Context, userID string, limit int) (*services.DispatchSummary, error)
}

// ErrorBody is returned for every failed request
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type dispatchRequest struct {
	Limit int `json:"limit"`
}

// Handler serves the lead pipeline routes for both API Gateway and net/http
type Handler struct {
	ingestion  Ingester
	enrichment Enricher
	dispatcher PendingDispatcher
	logger     *zap.Logger
}

func NewHandler(ingestion Ingester, enrichment Enricher, dispatcher PendingDispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		ingestion:  ingestion,
		enrichment: enrichment,
		dispatcher: dispatcher,
		logger:     logging.OrNop(logger),
	}
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-User-Id",
	"Access-Control-Allow-Methods": "POST,OPTIONS",
	"Content-Type":                 "application/json",
}

// HandleAPIGateway is the Lambda entrypoint for API Gateway proxy events
func (h *Handler) HandleAPIGateway(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: corsHeaders}, nil
	}

	userID := authorizerUserID(request.RequestContext.Authorizer)
	if userID == "" {
		userID = headerValue(request.Headers, userIDHeader)
	}

	status, body := h.route(ctx, request.HTTPMethod, request.Path, userID, []byte(request.Body))
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Headers: corsHeaders}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(payload),
	}, nil
}

// ServeHTTP serves the same routes over plain HTTP
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "failed to read body"})
		return
	}

	status, resp := h.route(r.Context(), r.Method, r.URL.Path, r.Header.Get(userIDHeader), body)
	writeJSON(w, status, resp)
}

func (h *Handler) route(ctx context.Context, method, path, userID string, body []byte) (int, interface{}) {
	path = strings.TrimSuffix(path, "/")
	h.logger.Info("API request",
		zap.String("method", method),
		zap.String("path", path))

	switch {
	case method == http.MethodPost && path == "/api/events/ingest":
		return h.handleIngest(ctx, userID, body)
	case method == http.MethodPost && path == "/api/leads/enrich":
		return h.handleEnrich(ctx, userID, body)
	case method == http.MethodPost && path == "/api/leads/enrich-pending":
		return h.handleEnrichPending(ctx, userID, body)
	default:
		return http.StatusNotFound, ErrorBody{Error: "endpoint not found"}
	}
}

func (h *Handler) handleIngest(ctx context.Context, userID string, body []byte) (int, interface{}) {
	var req services.IngestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return http.StatusBadRequest, ErrorBody{Error: "invalid JSON: " + err.Error()}
	}

	// An authenticated caller may only ingest for itself
	if userID != "" {
		if req.UserID == "" {
			req.UserID = userID
		} else if req.UserID != userID {
			return http.StatusForbidden, ErrorBody{Error: services.ErrOwnershipMismatch.Error()}
		}
	}

	resp, err := h.ingestion.Ingest(ctx, req)
	if err != nil {
		return h.errorStatus(err), ErrorBody{Error: err.Error()}
	}
	return http.StatusOK, resp
}

func (h *Handler) handleEnrich(ctx context.Context, userID string, body []byte) (int, interface{}) {
	if userID == "" {
		return http.StatusUnauthorized, ErrorBody{Error: "missing user identity"}
	}

	var req services.EnrichRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return http.StatusBadRequest, ErrorBody{Error: "invalid JSON: " + err.Error()}
	}

	resp, err := h.enrichment.EnrichLead(ctx, userID, req)
	if err != nil {
		return h.errorStatus(err), ErrorBody{Error: err.Error()}
	}
	return http.StatusOK, resp
}

func (h *Handler) handleEnrichPending(ctx context.Context, userID string, body []byte) (int, interface{}) {
	if userID == "" {
		return http.StatusUnauthorized, ErrorBody{Error: "missing user identity"}
	}

	req := dispatchRequest{Limit: defaultDispatch}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return http.StatusBadRequest, ErrorBody{Error: "invalid JSON: " + err.Error()}
		}
	}
	if req.Limit <= 0 {
		req.Limit = defaultDispatch
	}

	summary, err := h.dispatcher.DispatchPending(ctx, userID, req.Limit)
	if err != nil {
		return h.errorStatus(err), ErrorBody{Error: err.Error()}
	}
	return http.StatusOK, summary
}

func (h *Handler) errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrOwnershipMismatch):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	default:
		h.logger.Error("Request failed", zap.Error(err))
		return http.StatusInternalServerError
	}
}

// authorizerUserID reads the caller from a Cognito or custom Lambda authorizer context
func authorizerUserID(authorizer map[string]interface{}) string {
	if authorizer == nil {
		return ""
	}
	if claims, ok := authorizer["claims"].(map[string]interface{}); ok {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub
		}
	}
	if sub, ok := authorizer["sub"].(string); ok {
		return sub
	}
	if principal, ok := authorizer["principalId"].(string); ok {
		return principal
	}
	return ""
}

func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
