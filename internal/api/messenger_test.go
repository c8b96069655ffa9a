package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/usecase"
)

type stubOutbound struct {
	sent   []string
	staged []string
	err    error
}

func (s *stubOutbound) SendReply(ctx context.Context, listingID, buyerID, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

func (s *stubOutbound) StageDraft(ctx context.Context, listingID, buyerID, text string) error {
	if s.err != nil {
		return s.err
	}
	s.staged = append(s.staged, text)
	return nil
}

func newMessengerRouter(t *testing.T, outbound *stubOutbound) *mux.Router {
	t.Helper()

	now := func() time.Time { return time.Date(2025, 8, 16, 18, 0, 0, 0, time.UTC) }
	classifier := usecase.NewClassifierUsecase()
	negotiation := usecase.NewNegotiationUsecase(nil, now, zerolog.Nop(), nil)

	r := mux.NewRouter()
	NewMessengerHandler(classifier, negotiation, outbound, zerolog.Nop()).Register(r)
	return r
}

func TestClassifyEndpoint(t *testing.T) {
	router := newMessengerRouter(t, &stubOutbound{})

	rec := doJSON(t, router, http.MethodPost, "/classify", domain.BuyerMessage{
		ID: "m1", ListingID: "l1", BuyerID: "b1", Text: "Would you take $50?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out domain.Classification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, domain.IntentOffer, out.Intent)
	assert.Equal(t, 50, out.OfferPrice)
}

func TestClassifyRequiresText(t *testing.T) {
	router := newMessengerRouter(t, &stubOutbound{})

	rec := doJSON(t, router, http.MethodPost, "/classify", domain.BuyerMessage{ID: "m1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNegotiateEndpointCounters(t *testing.T) {
	router := newMessengerRouter(t, &stubOutbound{})

	rec := doJSON(t, router, http.MethodPost, "/negotiate", map[string]interface{}{
		"message":        domain.BuyerMessage{ID: "m1", ListingID: "l1", BuyerID: "b1", Text: "Would you take $50?"},
		"classification": domain.Classification{Intent: domain.IntentOffer, OfferPrice: 50},
		"sellerContext": domain.SellerContext{
			TargetPrice:   75,
			LowestPrice:   60,
			SellTimeFrame: domain.SellOneWeek,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var draft domain.DraftReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	assert.Equal(t, domain.ActionCounter, draft.Action)
	assert.Equal(t, 68, draft.CounterPrice)
}

func TestNegotiateRequiresIntent(t *testing.T) {
	router := newMessengerRouter(t, &stubOutbound{})

	rec := doJSON(t, router, http.MethodPost, "/negotiate", map[string]interface{}{
		"message": domain.BuyerMessage{Text: "hi"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendDraftMockSends(t *testing.T) {
	outbound := &stubOutbound{}
	router := newMessengerRouter(t, outbound)

	rec := doJSON(t, router, http.MethodPost, "/send-draft", map[string]interface{}{
		"message": domain.BuyerMessage{ID: "m1", ListingID: "l1", BuyerID: "b1"},
		"draft":   domain.DraftReply{Text: "deal"},
		"mode":    domain.ModeMock,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out sendDraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Sent)
	assert.False(t, out.Drafted)
	assert.Equal(t, []string{"deal"}, outbound.sent)
	assert.Empty(t, outbound.staged)
}

func TestSendDraftShadowStages(t *testing.T) {
	outbound := &stubOutbound{}
	router := newMessengerRouter(t, outbound)

	rec := doJSON(t, router, http.MethodPost, "/send-draft", map[string]interface{}{
		"message": domain.BuyerMessage{ID: "m1", ListingID: "l1", BuyerID: "b1"},
		"draft":   domain.DraftReply{Text: "deal"},
		"mode":    domain.ModeShadow,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out sendDraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Sent)
	assert.True(t, out.Drafted)
	assert.Empty(t, outbound.sent)
	assert.Equal(t, []string{"deal"}, outbound.staged)
}

func TestSendDraftRejectsUnknownMode(t *testing.T) {
	router := newMessengerRouter(t, &stubOutbound{})

	rec := doJSON(t, router, http.MethodPost, "/send-draft", map[string]interface{}{
		"message": domain.BuyerMessage{ID: "m1", ListingID: "l1", BuyerID: "b1"},
		"draft":   domain.DraftReply{Text: "deal"},
		"mode":    "live",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
