package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"mobispa/internal/auth"
	"mobispa/internal/entities"
	"mobispa/internal/errors"
	"mobispa/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	bookings, err := h.Service.CreateBooking(r.Context(), auth.UserID(r.Context()), &req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"bookings": bookings,
		"message":  "Booking confirmed.",
	})
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Service.ListClientBookings(auth.UserID(r.Context()))
	if err != nil {
		http.Error(w, "Error listing bookings", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	booking, err := h.Service.GetBooking(code)
	if err != nil {
		errors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req entities.CancelBookingRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if err := h.Service.CancelBooking(code, req.Reason); err != nil {
		errors.Write(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Booking cancelled"})
}
