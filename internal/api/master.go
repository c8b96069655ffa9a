// Package api provides the HTTP handlers for the three services.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/upseller/upseller/internal/api/respond"
	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/internal/biz/usecase"
	"github.com/upseller/upseller/internal/data"
)

// MasterHandler serves the master orchestrator's HTTP surface
type MasterHandler struct {
	state         *data.AppState
	orchestrator  *usecase.OrchestratorUsecase
	conversations repo.ConversationRepo
	log           zerolog.Logger
}

// NewMasterHandler creates the master service handler
func NewMasterHandler(state *data.AppState, orchestrator *usecase.OrchestratorUsecase, conversations repo.ConversationRepo, log zerolog.Logger) *MasterHandler {
	return &MasterHandler{
		state:         state,
		orchestrator:  orchestrator,
		conversations: conversations,
		log:           log,
	}
}

// Register mounts the master routes on the router
func (h *MasterHandler) Register(r *mux.Router) {
	r.HandleFunc("/ingest/listing", h.IngestListing).Methods(http.MethodPost)
	r.HandleFunc("/ingest/message", h.IngestMessage).Methods(http.MethodPost)
	r.HandleFunc("/listings", h.ListListings).Methods(http.MethodGet)
	r.HandleFunc("/threads", h.GetThread).Methods(http.MethodGet)
	r.HandleFunc("/mode", h.GetMode).Methods(http.MethodGet)
	r.HandleFunc("/mode", h.SetMode).Methods(http.MethodPost)
	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// IngestListing registers or replaces a listing
func (h *MasterHandler) IngestListing(w http.ResponseWriter, r *http.Request) {
	var listing domain.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		respond.WriteBadRequest(w, "invalid listing payload: "+err.Error())
		return
	}
	if listing.ID == "" || listing.Title == "" {
		respond.WriteBadRequest(w, "listing id and title are required")
		return
	}
	if listing.MinPrice > listing.ListPrice {
		respond.WriteBadRequest(w, "minPrice cannot exceed listPrice")
		return
	}

	if err := h.state.Listings().Save(r.Context(), &listing); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}

	h.log.Info().Str("listing_id", listing.ID).Msg("listing ingested")
	respond.WriteJSON(w, http.StatusCreated, listing)
}

// ListListings returns all registered listings
func (h *MasterHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.state.Listings().List(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"listings": listings})
}

// IngestMessage runs the inbound pipeline for one buyer message and
// returns the draft reply. This endpoint never fails with a buyer-facing
// error; pipeline problems yield the safe fallback draft.
func (h *MasterHandler) IngestMessage(w http.ResponseWriter, r *http.Request) {
	var msg domain.BuyerMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respond.WriteBadRequest(w, "invalid message payload: "+err.Error())
		return
	}
	if msg.ListingID == "" || msg.BuyerID == "" || msg.Text == "" {
		respond.WriteBadRequest(w, "listingId, buyerId and text are required")
		return
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Ts.IsZero() {
		msg.Ts = time.Now().UTC()
	}
	if msg.Source == "" {
		msg.Source = domain.SourceMock
	}

	draft := h.orchestrator.HandleInboundMessage(r.Context(), msg, h.state.Mode())
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"messageId": msg.ID,
		"draft":     draft,
	})
}

// GetThread returns the bounded conversation history for a listing/buyer pair
func (h *MasterHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	listingID := r.URL.Query().Get("listingId")
	buyerID := r.URL.Query().Get("buyerId")
	if listingID == "" || buyerID == "" {
		respond.WriteBadRequest(w, "listingId and buyerId query parameters are required")
		return
	}

	messages, err := h.conversations.Get(r.Context(), listingID, buyerID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// GetMode returns the current dispatch mode
func (h *MasterHandler) GetMode(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"mode": string(h.state.Mode())})
}

// SetMode switches the dispatch mode. Takes effect for subsequent
// messages only; in-flight pipelines keep the mode they started with.
func (h *MasterHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid mode payload: "+err.Error())
		return
	}
	if !domain.ValidMode(req.Mode) {
		respond.WriteBadRequest(w, "mode must be \"mock\" or \"shadow\"")
		return
	}

	h.state.SetMode(domain.Mode(req.Mode))
	h.log.Info().Str("mode", req.Mode).Msg("dispatch mode changed")
	respond.WriteJSON(w, http.StatusOK, map[string]string{"mode": req.Mode})
}

// Health is the liveness endpoint shared by all services
func Health(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
