package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
	"yrss/internal/db"
)

type contextKey string

// SubscriberContextKey is the key for the subscriber in the context.
const SubscriberContextKey = contextKey("subscriber")

const sessionName = "yrss_session"

var store *sessions.CookieStore

// InitSessionStore must be called once at startup before any session is
// read or written.
func InitSessionStore(secret string) {
	if secret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	store = sessions.NewCookieStore([]byte(secret))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
}

// SignIn records the subscriber's email in the session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, email string) error {
	session, _ := store.Get(r, sessionName)
	session.Values["email"] = email
	return session.Save(r, w)
}

// SignOut expires the session cookie.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := store.Get(r, sessionName)
	delete(session.Values, "email")
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// SessionEmail returns the signed-in email, if any.
func SessionEmail(r *http.Request) (string, bool) {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	email, ok := session.Values["email"].(string)
	return email, ok && email != ""
}

// AuthMiddleware resolves the session cookie to a subscriber and stores it
// in the request context. Requests without a valid session are redirected
// to the login page.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := SessionEmail(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		subscriber, err := db.GetSubscriberByEmail(email)
		if err != nil {
			// Stale cookie for a deleted account.
			if err := SignOut(w, r); err != nil {
				log.Printf("Error expiring session for %s: %v", email, err)
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), SubscriberContextKey, &subscriber)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
