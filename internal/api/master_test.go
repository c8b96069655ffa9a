package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/usecase"
	"github.com/upseller/upseller/internal/data"
)

type stubMessenger struct {
	draft domain.DraftReply
}

func (s *stubMessenger) Classify(ctx context.Context, msg domain.BuyerMessage) (domain.Classification, error) {
	return domain.Classification{Intent: domain.IntentAvailabilityCheck}, nil
}

func (s *stubMessenger) Negotiate(ctx context.Context, msg domain.BuyerMessage, c domain.Classification, seller domain.SellerContext, history []domain.BuyerMessage) (domain.DraftReply, error) {
	return s.draft, nil
}

func (s *stubMessenger) SendDraft(ctx context.Context, msg domain.BuyerMessage, draft domain.DraftReply, mode domain.Mode) (bool, error) {
	return mode == domain.ModeMock, nil
}

type stubScheduler struct{}

func (s *stubScheduler) SuggestSlots(ctx context.Context, listing *domain.Listing, windowCount, durationMin int) ([]string, error) {
	return []string{"2025-08-16T10:00:00Z"}, nil
}

func (s *stubScheduler) CreateAppointment(ctx context.Context, listing *domain.Listing, buyerID, startIso, spot string, durationMin int, buyerEmail string) (*domain.Appointment, error) {
	return nil, nil
}

func newMasterRouter(t *testing.T, draft domain.DraftReply) *mux.Router {
	t.Helper()

	state := data.NewAppState(domain.ModeMock)
	conversations := data.NewConversationRepo()
	orchestrator := usecase.NewOrchestratorUsecase(
		conversations,
		state.Listings(),
		&stubMessenger{draft: draft},
		&stubScheduler{},
		func() time.Time { return time.Date(2025, 8, 16, 18, 0, 0, 0, time.UTC) },
		zerolog.Nop(),
		nil,
	)

	r := mux.NewRouter()
	NewMasterHandler(state, orchestrator, conversations, zerolog.Nop()).Register(r)
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIngestListingAndList(t *testing.T) {
	router := newMasterRouter(t, domain.DraftReply{Text: "hi"})

	listing := domain.Listing{ID: "l1", Title: "Standing Desk", ListPrice: 75, MinPrice: 60}
	rec := doJSON(t, router, http.MethodPost, "/ingest/listing", listing)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/listings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Listings []domain.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Listings, 1)
	assert.Equal(t, "Standing Desk", out.Listings[0].Title)
}

func TestIngestListingValidation(t *testing.T) {
	router := newMasterRouter(t, domain.DraftReply{})

	rec := doJSON(t, router, http.MethodPost, "/ingest/listing", domain.Listing{Title: "no id"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/ingest/listing", domain.Listing{ID: "l1", Title: "x", ListPrice: 50, MinPrice: 60})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestMessageReturnsDraft(t *testing.T) {
	router := newMasterRouter(t, domain.DraftReply{Text: "Yes, still available!"})

	rec := doJSON(t, router, http.MethodPost, "/ingest/message", map[string]string{
		"listingId": "l1",
		"buyerId":   "b1",
		"text":      "Is this still available?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		MessageID string            `json:"messageId"`
		Draft     domain.DraftReply `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.MessageID)
	assert.Equal(t, "Yes, still available!", out.Draft.Text)
}

func TestIngestMessageRecordsThread(t *testing.T) {
	router := newMasterRouter(t, domain.DraftReply{Text: "ok"})

	rec := doJSON(t, router, http.MethodPost, "/ingest/message", map[string]string{
		"listingId": "l1",
		"buyerId":   "b1",
		"text":      "hello",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/threads?listingId=l1&buyerId=b1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Messages []domain.BuyerMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "hello", out.Messages[0].Text)
}

func TestIngestMessageValidation(t *testing.T) {
	router := newMasterRouter(t, domain.DraftReply{})

	rec := doJSON(t, router, http.MethodPost, "/ingest/message", map[string]string{"listingId": "l1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModeSwitching(t *testing.T) {
	router := newMasterRouter(t, domain.DraftReply{})

	rec := doJSON(t, router, http.MethodGet, "/mode", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mode":"mock"}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/mode", map[string]string{"mode": "shadow"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/mode", nil)
	assert.JSONEq(t, `{"mode":"shadow"}`, rec.Body.String())
}

func TestModeRejectsUnknown(t *testing.T) {
	router := newMasterRouter(t, domain.DraftReply{})

	rec := doJSON(t, router, http.MethodPost, "/mode", map[string]string{"mode": "live"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newMasterRouter(t, domain.DraftReply{})

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
