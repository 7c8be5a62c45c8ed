package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/services"
	"github.com/rafaelv/memoflash/internal/session"
)

func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "sessionID")
	if id == "" {
		return nil, errors.NewBadRequestError("invalid session id")
	}
	return s.StudyService.GetSession(id)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var input services.StartSessionInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	sess, err := s.StudyService.StartSession(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, sess.State())
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.State())
}

func (s *Server) handleSessionQuestion(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	q, err := sess.CurrentQuestion(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, q)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var body struct {
		Response string `json:"response"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	fb, err := sess.SubmitAnswer(r.Context(), body.Response)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fb)
}

func (s *Server) handleSelfRate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var body struct {
		Rating session.SelfRating `json:"rating"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	fb, err := sess.SelfRate(r.Context(), body.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fb)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	back, err := sess.Reveal()
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"back": back})
}

func (s *Server) handleMatchBoard(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	board, err := sess.MatchBoard()
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, board)
}

func (s *Server) handleSelectTile(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	tileID, err := strconv.Atoi(chi.URLParam(r, "tileID"))
	if err != nil || tileID <= 0 {
		handleError(w, r, errors.NewBadRequestError("invalid tile id"))
		return
	}

	fb, err := sess.SelectMatchTile(tileID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fb)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess.Reset()
	logger.FromContext(r.Context()).Info("session reset: id=%s", sess.ID())
	writeJSON(w, r, http.StatusOK, sess.State())
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.StudyService.EndSession(id); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
