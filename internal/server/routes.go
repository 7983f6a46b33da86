package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gym-booking/internal/bookings"
	"gym-booking/internal/models"
	"gym-booking/internal/wizard"
)

const msgSaveNotReady = "Complete the booking steps before saving."

// RegisterRoutes sets up the router with all endpoints.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)

		r.Get("/catalog", s.catalogHandler)

		r.Route("/wizard", func(r chi.Router) {
			r.Get("/", s.wizardHandler)
			r.Post("/slot", s.selectHandler((*wizard.Wizard).SelectSlot))
			r.Post("/membership", s.selectHandler((*wizard.Wizard).SelectMembership))
			r.Post("/trainer", s.selectHandler((*wizard.Wizard).SelectTrainer))
			r.Post("/next", s.nextHandler)
			r.Post("/back", s.backHandler)
			r.Post("/student", s.studentHandler)
			r.Post("/reset", s.resetHandler)
		})

		r.Post("/bookings", s.SaveBookingHandler)
		r.Get("/bookings", s.ListBookingsHandler)
		r.Get("/bookings/last", s.LastBookingHandler)
	})

	return r
}

// healthHandler provides health information about the storage backend.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.Health())
}

func (s *Server) catalogHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.wizard.Catalog())
}

// wizardView is the JSON snapshot returned after every wizard operation.
type wizardView struct {
	Step     models.Step       `json:"step"`
	StepName string            `json:"stepName"`
	Selected wizard.Selections `json:"selected"`
	Draft    models.Draft      `json:"draft"`
	Summary  wizard.Summary    `json:"summary"`
}

// view must be called with s.mu held.
func (s *Server) view() wizardView {
	return wizardView{
		Step:     s.wizard.Step(),
		StepName: s.wizard.Step().String(),
		Selected: s.wizard.Selections(),
		Draft:    s.wizard.Draft(),
		Summary:  s.wizard.Summary(),
	}
}

func (s *Server) wizardHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.view())
}

type optionRequest struct {
	ID string `json:"id"`
}

// selectHandler adapts one of the wizard's Select methods to a handler.
func (s *Server) selectHandler(pick func(*wizard.Wizard, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req optionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := pick(s.wizard, req.ID); err != nil {
			s.writeWizardError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.view())
	}
}

func (s *Server) nextHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wizard.Next(); err != nil {
		s.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

type backRequest struct {
	Step models.Step `json:"step"`
}

func (s *Server) backHandler(w http.ResponseWriter, r *http.Request) {
	var req backRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wizard.Back(req.Step); err != nil {
		s.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) studentHandler(w http.ResponseWriter, r *http.Request) {
	var form wizard.StudentForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wizard.SubmitStudentInfo(form); err != nil {
		s.writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Reset()
	writeJSON(w, http.StatusOK, s.view())
}

type saveResponse struct {
	Message string              `json:"message"`
	Last    bookings.LoadResult `json:"last"`
}

// SaveBookingHandler appends the finished draft to the stored booking list.
func (s *Server) SaveBookingHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wizard.Step() != models.StepSummary {
		writeError(w, http.StatusConflict, msgSaveNotReady)
		return
	}

	last, err := s.store.Save(r.Context(), s.wizard.Draft())
	if err != nil {
		s.logger.Error("saving booking", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, saveResponse{Message: bookings.MsgSaved, Last: last})
}

// LastBookingHandler describes the most recently saved booking.
func (s *Server) LastBookingHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.Load(r.Context())
	if err != nil {
		s.logger.Error("loading bookings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListBookingsHandler retrieves all saved bookings.
func (s *Server) ListBookingsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if errors.Is(err, bookings.ErrUnreadable) {
		writeError(w, http.StatusUnprocessableEntity, bookings.MsgUnreadable)
		return
	}
	if err != nil {
		s.logger.Error("listing bookings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type incompleteResponse struct {
	Error   string      `json:"error"`
	Step    models.Step `json:"step"`
	Missing []string    `json:"missing"`
}

func (s *Server) writeWizardError(w http.ResponseWriter, err error) {
	var incomplete *wizard.IncompleteStepError
	switch {
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusUnprocessableEntity, incompleteResponse{
			Error:   incomplete.Message,
			Step:    incomplete.Step,
			Missing: incomplete.Missing,
		})
	case errors.Is(err, wizard.ErrUnknownOption), errors.Is(err, wizard.ErrUnknownStep):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrStepInactive),
		errors.Is(err, wizard.ErrNoForwardStep),
		errors.Is(err, wizard.ErrNotBackward):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("wizard operation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
