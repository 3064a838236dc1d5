package main

import (
	"html/template"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"yrss/internal/assemble"
	"yrss/internal/config"
	"yrss/internal/db"
	"yrss/internal/filter"
	"yrss/internal/handlers"
	"yrss/internal/middleware"
	"yrss/internal/syncer"
	"yrss/internal/youtube"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	cfg := config.Load()
	db.InitDB()
	middleware.InitSessionStore(cfg.SessionSecret)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	yt := youtube.NewClient(cfg.APIKey)
	sy := syncer.New(yt, cfg.RefreshInterval, cfg.VideosPerFetch)
	engine := filter.NewEngine(cfg.FilterCacheTTL)
	assembler := assemble.New(engine, cfg.VideosPerPage)

	templates := template.Must(template.ParseGlob(filepath.Join("web", "templates", "*.html")))
	h := handlers.New(templates, asynqClient, sy, assembler, yt, cfg)

	r := mux.NewRouter()
	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.Logout).Methods(http.MethodGet, http.MethodPost)

	// Feeds are addressed by token or channel id, not by session.
	r.HandleFunc("/feed/{token}.xml", h.GetPersonalFeed).Methods(http.MethodGet)
	r.HandleFunc("/channels/{youtubeID}.xml", h.GetChannelFeed).Methods(http.MethodGet)

	rl := middleware.NewRateLimiterMiddleware(rate.Limit(5), 10)

	subscriptions := r.PathPrefix("/subscriptions").Subrouter()
	subscriptions.Use(mux.MiddlewareFunc(middleware.AuthMiddleware), rl.Middleware)
	subscriptions.HandleFunc("", h.GetSubscriptions).Methods(http.MethodGet)
	subscriptions.HandleFunc("", h.PostSubscription).Methods(http.MethodPost)
	subscriptions.HandleFunc("/{channelID}", h.DeleteSubscription).Methods(http.MethodDelete)

	filters := r.PathPrefix("/filters").Subrouter()
	filters.Use(mux.MiddlewareFunc(middleware.AuthMiddleware), rl.Middleware)
	filters.HandleFunc("", h.GetFilters).Methods(http.MethodGet)
	filters.HandleFunc("", h.PostFilter).Methods(http.MethodPost)
	filters.HandleFunc("/{id}", h.DeleteFilter).Methods(http.MethodDelete)

	videos := r.PathPrefix("/videos").Subrouter()
	videos.Use(mux.MiddlewareFunc(middleware.AuthMiddleware), rl.Middleware)
	videos.HandleFunc("", h.GetVideos).Methods(http.MethodGet)
	videos.HandleFunc("/{youtubeID}", h.GetChannelVideos).Methods(http.MethodGet)

	log.Printf("Starting server on :%s (commit: %s)", cfg.Port, CommitSHA)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
