package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/models"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/services"
)

type fakeIngester struct {
	got services.IngestRequest
	err error
}

func (f *fakeIngester) Ingest(_ context.Context, req services.IngestRequest) (*services.IngestResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.IngestResponse{
		Success:   true,
		Processed: 1,
		Results:   []models.EventRecord{{Title: "X", LeadID: "l1"}},
		Errors:    []string{"URL não suportada: https://x.com"},
	}, nil
}

type fakeEnricher struct {
	userID string
	got    services.EnrichRequest
	err    error
}

func (f *fakeEnricher) EnrichLead(_ context.Context, userID string, req services.EnrichRequest) (*services.EnrichResponse, error) {
	f.userID, f.got = userID, req
	if f.err != nil {
		return nil, f.err
	}
	return &services.EnrichResponse{LeadID: req.LeadID, Success: true, Status: models.LeadStatusFound}, nil
}

type fakeDispatcher struct {
	userID string
	limit  int
}

func (f *fakeDispatcher) DispatchPending(_ context.Context, userID string, limit int) (*services.DispatchSummary, error) {
	f.userID, f.limit = userID, limit
	return &services.DispatchSummary{Pending: 2, Dispatched: 2, LeadIDs: []string{"a", "b"}}, nil
}

func newTestHandler() (*Handler, *fakeIngester, *fakeEnricher, *fakeDispatcher) {
	ing, enr, dis := &fakeIngester{}, &fakeEnricher{}, &fakeDispatcher{}
	return NewHandler(ing, enr, dis, nil), ing, enr, dis
}

func serve(h http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIngestRoute(t *testing.T) {
	h, ing, _, _ := newTestHandler()

	rec := serve(h, http.MethodPost, "/api/events/ingest", "", `{"links":["https://www.sympla.com.br/evento/x/1"],"userId":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", ing.got.UserID)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp services.IngestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Processed)
	assert.Len(t, resp.Errors, 1)
}

func TestIngestRouteUsesAuthenticatedUser(t *testing.T) {
	h, ing, _, _ := newTestHandler()

	rec := serve(h, http.MethodPost, "/api/events/ingest", "u1", `{"links":["a"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", ing.got.UserID)

	rec = serve(h, http.MethodPost, "/api/events/ingest", "u1", `{"links":["a"],"userId":"u2"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIngestRouteErrors(t *testing.T) {
	h, ing, _, _ := newTestHandler()

	rec := serve(h, http.MethodPost, "/api/events/ingest", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ing.err = fmt.Errorf("%w: links are required", services.ErrInvalidRequest)
	rec = serve(h, http.MethodPost, "/api/events/ingest", "", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "links are required")
}

func TestEnrichRoute(t *testing.T) {
	h, _, enr, _ := newTestHandler()

	rec := serve(h, http.MethodPost, "/api/leads/enrich", "", `{"leadId":"l1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodPost, "/api/leads/enrich/", "u1", `{"leadId":"l1","companyName":"ACME"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", enr.userID)
	assert.Equal(t, services.EnrichRequest{LeadID: "l1", CompanyName: "ACME"}, enr.got)
}

func TestEnrichRouteStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: lead l1", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: lead l1", services.ErrOwnershipMismatch), http.StatusForbidden},
		{fmt.Errorf("%w: found -> searching", models.ErrInvalidTransition), http.StatusConflict},
		{fmt.Errorf("%w: lead id", services.ErrInvalidRequest), http.StatusBadRequest},
		{errors.New("dynamodb unavailable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h, _, enr, _ := newTestHandler()
			enr.err = tt.err
			rec := serve(h, http.MethodPost, "/api/leads/enrich", "u1", `{"leadId":"l1"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestEnrichPendingRoute(t *testing.T) {
	h, _, _, dis := newTestHandler()

	rec := serve(h, http.MethodPost, "/api/leads/enrich-pending", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultDispatch, dis.limit)

	rec = serve(h, http.MethodPost, "/api/leads/enrich-pending", "u1", `{"limit":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, dis.limit)
	assert.Equal(t, "u1", dis.userID)
}

func TestUnknownRouteAndPreflight(t *testing.T) {
	h, _, _, _ := newTestHandler()

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/events/ingest", "", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodPost, "/api/nothing", "", "{}").Code)

	rec := serve(h, http.MethodOptions, "/api/leads/enrich", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestHandleAPIGateway(t *testing.T) {
	h, _, enr, _ := newTestHandler()

	resp, err := h.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/leads/enrich",
		Body:       `{"leadId":"l1"}`,
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]interface{}{
				"claims": map[string]interface{}{"sub": "cognito-user"},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cognito-user", enr.userID)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	resp, err = h.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/leads/enrich",
		Headers:    map[string]string{"x-user-id": "header-user"},
		Body:       `{"leadId":"l1"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "header-user", enr.userID)
}

func TestAuthorizerUserID(t *testing.T) {
	assert.Equal(t, "", authorizerUserID(nil))
	assert.Equal(t, "a", authorizerUserID(map[string]interface{}{"claims": map[string]interface{}{"sub": "a"}}))
	assert.Equal(t, "b", authorizerUserID(map[string]interface{}{"sub": "b"}))
	assert.Equal(t, "c", authorizerUserID(map[string]interface{}{"principalId": "c"}))
}
