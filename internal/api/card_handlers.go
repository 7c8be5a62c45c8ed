package api

import (
	"net/http"
	"strconv"

	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/services"
)

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var input services.CardInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), deckID, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := models.CardFilter{
		DeckID:     deckID,
		Difficulty: models.Difficulty(q.Get("difficulty")),
		DueOnly:    q.Get("due") == "true",
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	cards, err := s.CardService.ListCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cardID, err := urlID(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.GetCard(r.Context(), deckID, cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}
