package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"mobispa/internal/auth"
	"mobispa/internal/availability"
	"mobispa/internal/civil"
	"mobispa/internal/db"
	"mobispa/internal/entities"
	"mobispa/internal/errors"
)

// AvailabilityProvider is the slice of the availability service this handler
// needs; tests substitute a stub.
type AvailabilityProvider interface {
	ResolveSlots(ctx context.Context, providerID, date string, spec availability.DurationSpec, clientLocation availability.Location, opts availability.Options) ([]availability.Slot, error)
	CreateBlock(providerID, date, startTime, endTime, blockType string) (*db.AvailabilityBlock, error)
	ListBlocks(providerID, date string) ([]db.AvailabilityBlock, error)
	DeleteBlock(id, providerID string) error
}

type AvailabilityHandler struct {
	Service AvailabilityProvider
}

func NewAvailabilityHandler(svc AvailabilityProvider) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// GetAvailableSlots answers GET /api/availability/available/{date}. The
// query carries either duration=N or sessionDurations=[N,...], the client
// coordinates, and optionally groupId, extraDepartureBuffer and providerId.
func (h *AvailabilityHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if _, err := time.Parse(civil.DateLayout, date); err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	spec, ok := parseDurationSpec(w, query.Get("duration"), query.Get("sessionDurations"))
	if !ok {
		return
	}

	lat, _ := strconv.ParseFloat(query.Get("lat"), 64)
	lng, _ := strconv.ParseFloat(query.Get("lng"), 64)
	clientLocation := availability.Location{
		Address: query.Get("address"),
		Lat:     lat,
		Lng:     lng,
	}

	extraBuffer, _ := strconv.Atoi(query.Get("extraDepartureBuffer"))
	providerID := query.Get("providerId")
	opts := availability.Options{
		GroupID:              query.Get("groupId"),
		ExtraDepartureBuffer: extraBuffer,
		ProviderID:           providerID,
	}

	slots, err := h.Service.ResolveSlots(r.Context(), providerID, date, spec, clientLocation, opts)
	if err != nil {
		errors.Write(w, err)
		return
	}

	responses := make([]entities.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = entities.SlotResponse{
			LocalStart: slot.LocalStart,
			LocalEnd:   slot.LocalEnd,
			StartUTC:   slot.Start,
			EndUTC:     slot.End,
			DST:        slot.DST,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// parseDurationSpec reads the single-or-chain duration query. Writes the
// error response itself and reports ok=false on bad input.
func parseDurationSpec(w http.ResponseWriter, durationParam, sessionsParam string) (availability.DurationSpec, bool) {
	if sessionsParam != "" {
		var durations []int
		if err := json.Unmarshal([]byte(sessionsParam), &durations); err != nil || len(durations) == 0 {
			http.Error(w, "Invalid sessionDurations, expected a JSON array of minutes", http.StatusBadRequest)
			return availability.DurationSpec{}, false
		}
		for _, d := range durations {
			if d < 30 || d > 180 {
				http.Error(w, "Invalid session durations. Each must be between 30 and 180 minutes.", http.StatusBadRequest)
				return availability.DurationSpec{}, false
			}
		}
		return availability.Chain(durations), true
	}

	duration := 60
	if durationParam != "" {
		var err error
		duration, err = strconv.Atoi(durationParam)
		if err != nil {
			http.Error(w, "Invalid duration", http.StatusBadRequest)
			return availability.DurationSpec{}, false
		}
	}
	if duration < 30 || duration > 180 {
		http.Error(w, "Duration must be between 30 and 180 minutes", http.StatusBadRequest)
		return availability.DurationSpec{}, false
	}
	return availability.Single(duration), true
}

func (h *AvailabilityHandler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	block, err := h.Service.CreateBlock(auth.UserID(r.Context()), req.Date, req.Start, req.End, req.Type)
	if err != nil {
		errors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toBlockResponse(block))
}

func (h *AvailabilityHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	blocks, err := h.Service.ListBlocks(auth.UserID(r.Context()), date)
	if err != nil {
		http.Error(w, "Error fetching availability", http.StatusInternalServerError)
		return
	}
	responses := make([]entities.AvailabilityBlockResponse, len(blocks))
	for i := range blocks {
		responses[i] = toBlockResponse(&blocks[i])
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

func (h *AvailabilityHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Service.DeleteBlock(id, auth.UserID(r.Context())); err != nil {
		errors.Write(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Availability removed"})
}

func toBlockResponse(block *db.AvailabilityBlock) entities.AvailabilityBlockResponse {
	return entities.AvailabilityBlockResponse{
		ID:    block.ID,
		Date:  block.Date,
		Start: block.StartTime,
		End:   block.EndTime,
		Type:  block.Type,
	}
}
