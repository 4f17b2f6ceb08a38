package routes

import (
	"github.com/debatehub/debate-arena/handlers"
	"github.com/debatehub/debate-arena/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes wires every HTTP and websocket endpoint onto the router.
func SetupRoutes(
	router *chi.Mux,
	sessions *middleware.SessionManager,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	roomHandler *handlers.RoomHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(sessions.EnsureGuestSession)

	router.Route("/tournament", func(r chi.Router) {
		r.Post("/create", tournamentHandler.CreateHandler)
		r.Get("/data", tournamentHandler.DataHandler)
		r.Post("/join", tournamentHandler.JoinHandler)
		r.Get("/leaderboard", leaderboardHandler.GetHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Post("/start", tournamentHandler.StartHandler)
			r.Get("/bracket", tournamentHandler.BracketHandler)
			r.Post("/match/{matchID}/result", matchHandler.RecordResultHandler)
		})
	})

	router.Route("/api/rooms", func(r chi.Router) {
		r.Get("/list", roomHandler.ListHandler)
		r.Post("/create", roomHandler.CreateHandler)
		r.Post("/join", roomHandler.JoinHandler)

		r.Route("/{roomCode}", func(r chi.Router) {
			r.Get("/status", roomHandler.StatusHandler)
			r.Post("/chat", roomHandler.PostChatHandler)
			r.Get("/chat", roomHandler.GetChatHandler)
			r.Post("/notes", roomHandler.UpdateNotesHandler)
			r.Get("/notes", roomHandler.GetNotesHandler)
			r.Post("/debate/start", roomHandler.StartDebateHandler)
			r.Post("/timer", roomHandler.TimerHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeTournament)
	router.Get("/ws/rooms/{roomCode}", webSocketHandler.ServeRoom)
}
