package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/decks", func(r chi.Router) {
		r.Post("/", s.handleCreateDeck)
		r.Get("/", s.handleListDecks)

		r.Route("/{deckID}", func(r chi.Router) {
			r.Get("/", s.handleGetDeck)
			r.Delete("/", s.handleDeleteDeck)
			r.Get("/stats", s.handleDeckStats)
			r.Get("/sessions", s.handleDeckHistory)

			r.Post("/cards", s.handleCreateCard)
			r.Get("/cards", s.handleListCards)
			r.Get("/cards/{cardID}", s.handleGetCard)
		})
	})

	r.Route("/study/sessions", func(r chi.Router) {
		r.Post("/", s.handleStartSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Delete("/", s.handleEndSession)
			r.Get("/question", s.handleSessionQuestion)
			r.Post("/answer", s.handleSubmitAnswer)
			r.Post("/rate", s.handleSelfRate)
			r.Get("/reveal", s.handleReveal)
			r.Post("/reset", s.handleResetSession)
			r.Get("/board", s.handleMatchBoard)
			r.Post("/tiles/{tileID}", s.handleSelectTile)
		})
	})

	return r
}
