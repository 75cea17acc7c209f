package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"reservation_ingest/internal/app"
	"reservation_ingest/internal/domain"
)

type Handlers struct {
	Ingest *app.ReservationService
	Q      *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type errorList struct {
	Errors []string `json:"errors"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.status)
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/reservations", h.createReservation)
	s.mux.Get("/v1/reservations/{code}", h.getReservation)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "online"})
}

// createReservation upserts a reservation and its guest from any supported
// payload format: 201 when the reservation is new, 200 when it was updated,
// 422 with the error list when the payload is rejected.
func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	raw, err := readPayload(w, r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "request body exceeds limit")
			return
		}
		writeProblem(w, http.StatusBadRequest, "Bad Request", "request body must be a JSON object or form")
		return
	}

	res, err := h.Ingest.Ingest(r.Context(), "http", raw)
	if err != nil {
		if msgs, ok := app.Messages(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, errorList{Errors: msgs})
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "reservation could not be stored")
		return
	}

	status := http.StatusOK
	if res.ReservationCreated {
		status = http.StatusCreated
	}
	writeJSON(w, status, domain.ReservationView{Reservation: res.Reservation, Guest: res.Guest})
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	resp, err := h.Q.GetReservation(r.Context(), code)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "reservation not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("get reservation failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "reservation lookup failed")
		return
	}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getReservation body")
	}
}
