package api

import (
	"net/http"

	"github.com/rafaelv/memoflash/internal/logger"
)

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.CreateDeck(r.Context(), body.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.ListDecks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.GetDeck(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DeckService.DeleteDeck(r.Context(), deckID); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("deck deleted via api: id=%d", deckID)
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	stats, err := s.DeckService.DeckStats(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleDeckHistory(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	summaries, err := s.StudyService.History(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"sessions": summaries})
}
