package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/upseller/upseller/internal/api/respond"
	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/internal/biz/usecase"
)

// MessengerHandler serves the messenger service's HTTP surface
type MessengerHandler struct {
	classifier  *usecase.ClassifierUsecase
	negotiation *usecase.NegotiationUsecase
	outbound    repo.OutboundRepo
	log         zerolog.Logger
}

// NewMessengerHandler creates the messenger service handler
func NewMessengerHandler(classifier *usecase.ClassifierUsecase, negotiation *usecase.NegotiationUsecase, outbound repo.OutboundRepo, log zerolog.Logger) *MessengerHandler {
	return &MessengerHandler{
		classifier:  classifier,
		negotiation: negotiation,
		outbound:    outbound,
		log:         log,
	}
}

// Register mounts the messenger routes on the router
func (h *MessengerHandler) Register(r *mux.Router) {
	r.HandleFunc("/classify", h.Classify).Methods(http.MethodPost)
	r.HandleFunc("/negotiate", h.Negotiate).Methods(http.MethodPost)
	r.HandleFunc("/send-draft", h.SendDraft).Methods(http.MethodPost)
	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Classify maps a buyer message to an intent classification
func (h *MessengerHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var msg domain.BuyerMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respond.WriteBadRequest(w, "invalid message payload: "+err.Error())
		return
	}
	if msg.Text == "" {
		respond.WriteBadRequest(w, "text is required")
		return
	}

	respond.WriteJSON(w, http.StatusOK, h.classifier.Classify(msg.Text))
}

type negotiateRequest struct {
	Message        domain.BuyerMessage   `json:"message"`
	Classification domain.Classification `json:"classification"`
	SellerContext  domain.SellerContext  `json:"sellerContext"`
	History        []domain.BuyerMessage `json:"history"`
}

// Negotiate produces a draft reply for a classified message
func (h *MessengerHandler) Negotiate(w http.ResponseWriter, r *http.Request) {
	var req negotiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid negotiate payload: "+err.Error())
		return
	}
	if req.Classification.Intent == "" {
		respond.WriteBadRequest(w, "classification.intent is required")
		return
	}

	draft := h.negotiation.Negotiate(r.Context(), req.Message, req.Classification, req.SellerContext, req.History)
	respond.WriteJSON(w, http.StatusOK, draft)
}

type sendDraftRequest struct {
	Message domain.BuyerMessage `json:"message"`
	Draft   domain.DraftReply   `json:"draft"`
	Mode    domain.Mode         `json:"mode"`
}

type sendDraftResponse struct {
	Sent    bool `json:"sent"`
	Drafted bool `json:"drafted"`
}

// SendDraft dispatches or stages a draft according to mode. Mock mode
// sends into the thread; shadow mode types the draft and waits for the
// human send click.
func (h *MessengerHandler) SendDraft(w http.ResponseWriter, r *http.Request) {
	var req sendDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid send-draft payload: "+err.Error())
		return
	}
	if req.Message.ListingID == "" || req.Message.BuyerID == "" {
		respond.WriteBadRequest(w, "message.listingId and message.buyerId are required")
		return
	}
	if !domain.ValidMode(string(req.Mode)) {
		respond.WriteBadRequest(w, "mode must be \"mock\" or \"shadow\"")
		return
	}

	ctx := r.Context()
	switch req.Mode {
	case domain.ModeMock:
		if err := h.outbound.SendReply(ctx, req.Message.ListingID, req.Message.BuyerID, req.Draft.Text); err != nil {
			respond.WriteInternalError(w, err.Error())
			return
		}
		respond.WriteJSON(w, http.StatusOK, sendDraftResponse{Sent: true})
	case domain.ModeShadow:
		if err := h.outbound.StageDraft(ctx, req.Message.ListingID, req.Message.BuyerID, req.Draft.Text); err != nil {
			respond.WriteInternalError(w, err.Error())
			return
		}
		respond.WriteJSON(w, http.StatusOK, sendDraftResponse{Drafted: true})
	}
}
