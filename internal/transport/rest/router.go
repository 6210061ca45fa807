package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"doodlechain/internal/service"
	"doodlechain/internal/transport/rest/handler"
	"doodlechain/internal/transport/rest/middleware"
	"doodlechain/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	RoomService       *service.RoomService
	PlayerService     *service.PlayerService
	SubmissionService *service.SubmissionService
	VoteService       *service.VoteService
	ResultsService    *service.ResultsService
	ChatService       *service.ChatService
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	roomHandler := handler.NewRoomHandler(c.RoomService, c.PlayerService)
	playerHandler := handler.NewPlayerHandler(c.PlayerService)
	gameHandler := handler.NewGameHandler(c.SubmissionService, c.VoteService, c.ResultsService)
	chatHandler := handler.NewChatHandler(c.ChatService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/join", playerHandler.Join).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/rooms/{code}", wsHandler.RoomWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/rooms/{code}/settings", roomHandler.UpdateSettings).Methods("PATCH", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/start", roomHandler.Start).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/again", roomHandler.PlayAgain).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/finish", roomHandler.Finish).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/ready", playerHandler.SetReady).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/leave", playerHandler.Leave).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/assignment", gameHandler.Assignment).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/submissions", gameHandler.Submit).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/votes", gameHandler.Vote).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/results", gameHandler.Results).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/chat", chatHandler.Post).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/chat", chatHandler.History).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PATCH, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
