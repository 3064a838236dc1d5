package handlers

import (
	"context"
	"html/template"
	"log"
	"net/http"

	"yrss/internal/assemble"
	"yrss/internal/config"
	"yrss/internal/db"
	"yrss/internal/middleware"
	"yrss/internal/models"
	"yrss/internal/syncer"
	"yrss/pkg/tasks"
)

// ChannelResolver turns a subscribe-form value (channel id or legacy
// username) into a channel id. Implemented by *youtube.Client.
type ChannelResolver interface {
	ResolveChannelID(ctx context.Context, idOrUsername string) (string, error)
}

type Handlers struct {
	templates   *template.Template
	asynqClient tasks.TaskEnqueuer
	syncer      *syncer.Syncer
	assembler   *assemble.Assembler
	resolver    ChannelResolver
	cfg         *config.Config
}

func New(templates *template.Template, asynqClient tasks.TaskEnqueuer, s *syncer.Syncer, a *assemble.Assembler, resolver ChannelResolver, cfg *config.Config) *Handlers {
	return &Handlers{
		templates:   templates,
		asynqClient: asynqClient,
		syncer:      s,
		assembler:   a,
		resolver:    resolver,
		cfg:         cfg,
	}
}

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error executing template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func subscriberFrom(r *http.Request) *models.Subscriber {
	subscriber, _ := r.Context().Value(middleware.SubscriberContextKey).(*models.Subscriber)
	return subscriber
}

// Home renders the signed-in landing page, or the login page otherwise.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.SessionEmail(r)
	if !ok {
		h.render(w, "login.html", nil)
		return
	}

	subscriber, err := db.GetSubscriberByEmail(email)
	if err != nil {
		h.render(w, "login.html", nil)
		return
	}

	h.render(w, "home.html", &subscriber)
}
