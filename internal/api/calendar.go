package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/upseller/upseller/gcal"
	"github.com/upseller/upseller/internal/api/respond"
	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/internal/biz/usecase"
)

// CalendarHandler serves the calendar service's HTTP surface
type CalendarHandler struct {
	slots        *usecase.SlotSuggesterUsecase
	confirmer    *usecase.ConfirmerUsecase
	calendar     repo.CalendarRepo
	appointments repo.AppointmentRepo
	tokens       repo.TokenRepo
	exchanger    *gcal.Exchanger
	icsDir       string
	log          zerolog.Logger
}

// NewCalendarHandler creates the calendar service handler
func NewCalendarHandler(
	slots *usecase.SlotSuggesterUsecase,
	confirmer *usecase.ConfirmerUsecase,
	calendar repo.CalendarRepo,
	appointments repo.AppointmentRepo,
	tokens repo.TokenRepo,
	exchanger *gcal.Exchanger,
	icsDir string,
	log zerolog.Logger,
) *CalendarHandler {
	return &CalendarHandler{
		slots:        slots,
		confirmer:    confirmer,
		calendar:     calendar,
		appointments: appointments,
		tokens:       tokens,
		exchanger:    exchanger,
		icsDir:       icsDir,
		log:          log,
	}
}

// Register mounts the calendar routes on the router
func (h *CalendarHandler) Register(r *mux.Router) {
	r.HandleFunc("/suggest-slots", h.SuggestSlots).Methods(http.MethodPost)
	r.HandleFunc("/create-appointment", h.CreateAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments", h.ListAppointments).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.GetAppointment).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.UpdateAppointment).Methods(http.MethodPatch)
	r.HandleFunc("/oauth2/callback", h.OAuthCallback).Methods(http.MethodGet)
	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if h.icsDir != "" {
		r.PathPrefix("/ics/").Handler(http.StripPrefix("/ics/", http.FileServer(http.Dir(h.icsDir))))
	}
}

type suggestSlotsRequest struct {
	Listing     *domain.Listing `json:"listing"`
	WindowCount int             `json:"windowCount"`
	DurationMin int             `json:"durationMin"`
}

type suggestSlotsResponse struct {
	Suggested []string `json:"suggested"`
	NeedsAuth bool     `json:"needsAuth,omitempty"`
	AuthURL   string   `json:"authUrl,omitempty"`
}

// SuggestSlots computes conflict-free meetup slots for a listing.
// A missing calendar authorization is a structured response variant, not
// an HTTP error, so callers can relay the consent URL.
func (h *CalendarHandler) SuggestSlots(w http.ResponseWriter, r *http.Request) {
	var req suggestSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid suggest-slots payload: "+err.Error())
		return
	}
	if req.Listing == nil {
		respond.WriteBadRequest(w, "listing is required")
		return
	}

	windows := req.Listing.AvailabilityWindows()
	if len(windows) == 0 {
		respond.WriteJSON(w, http.StatusOK, suggestSlotsResponse{Suggested: []string{}})
		return
	}

	from, to := windowSpan(windows)
	busy, err := h.calendar.FreeBusy(r.Context(), from, to)
	if err != nil {
		if authErr, ok := repo.AsAuthRequired(err); ok {
			respond.WriteJSON(w, http.StatusOK, suggestSlotsResponse{NeedsAuth: true, AuthURL: authErr.AuthURL})
			return
		}
		respond.WriteInternalError(w, "freebusy lookup failed: "+err.Error())
		return
	}

	duration := time.Duration(req.DurationMin) * time.Minute
	starts := h.slots.SuggestSlots(windows, busy, req.WindowCount, duration)

	suggested := make([]string, 0, len(starts))
	for _, s := range starts {
		suggested = append(suggested, s.UTC().Format(time.RFC3339))
	}
	respond.WriteJSON(w, http.StatusOK, suggestSlotsResponse{Suggested: suggested})
}

// windowSpan returns the time range covering all windows
func windowSpan(windows []domain.Window) (time.Time, time.Time) {
	from, to := windows[0].Start, windows[0].End
	for _, w := range windows[1:] {
		if w.Start.Before(from) {
			from = w.Start
		}
		if w.End.After(to) {
			to = w.End
		}
	}
	return from, to
}

type createAppointmentRequest struct {
	Listing     *domain.Listing `json:"listing"`
	BuyerID     string          `json:"buyerId"`
	StartIso    string          `json:"startIso"`
	Spot        string          `json:"spot"`
	DurationMin int             `json:"durationMin"`
	BuyerEmail  string          `json:"buyerEmail"`
}

type needsAuthResponse struct {
	NeedsAuth bool   `json:"needsAuth"`
	AuthURL   string `json:"authUrl"`
}

// CreateAppointment confirms a chosen slot against the calendar
func (h *CalendarHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid create-appointment payload: "+err.Error())
		return
	}
	if req.Listing == nil || req.BuyerID == "" || req.StartIso == "" {
		respond.WriteBadRequest(w, "listing, buyerId and startIso are required")
		return
	}
	if req.Spot == "" {
		req.Spot = req.Listing.FirstMeetSpot()
	}

	appt, err := h.confirmer.ConfirmAppointment(r.Context(), req.Listing, req.BuyerID, req.StartIso, req.Spot, req.DurationMin, req.BuyerEmail)
	if err != nil {
		if authErr, ok := repo.AsAuthRequired(err); ok {
			respond.WriteJSON(w, http.StatusOK, needsAuthResponse{NeedsAuth: true, AuthURL: authErr.AuthURL})
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}

	h.log.Info().
		Str("appointment_id", appt.ID).
		Str("listing_id", appt.ListingID).
		Str("start", appt.StartIso).
		Msg("appointment created")
	respond.WriteJSON(w, http.StatusCreated, appt)
}

// ListAppointments returns all stored appointments
func (h *CalendarHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.appointments.List(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"appointments": appts})
}

// GetAppointment returns one appointment by ID
func (h *CalendarHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	appt, err := h.appointments.Get(r.Context(), id)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if appt == nil {
		respond.WriteNotFound(w, "appointment not found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, appt)
}

// UpdateAppointment applies a status transition (confirm or cancel)
func (h *CalendarHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid status payload: "+err.Error())
		return
	}
	if req.Status == "" {
		respond.WriteBadRequest(w, "status is required")
		return
	}

	id := mux.Vars(r)["id"]
	appt, err := h.confirmer.UpdateStatus(r.Context(), id, domain.AppointmentStatus(req.Status))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if appt == nil {
		respond.WriteNotFound(w, "appointment not found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, appt)
}

// OAuthCallback completes the authorization flow by exchanging the code
// and storing the resulting token
func (h *CalendarHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respond.WriteBadRequest(w, "code query parameter is required")
		return
	}

	blob, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		respond.WriteInternalError(w, "token exchange failed: "+err.Error())
		return
	}
	if err := h.tokens.Save(r.Context(), blob); err != nil {
		respond.WriteInternalError(w, "token save failed: "+err.Error())
		return
	}

	h.log.Info().Msg("calendar authorization stored")
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"authorized": true})
}
