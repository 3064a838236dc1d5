package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"yrss/internal/db"
	"yrss/internal/middleware"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "register.html", nil)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	if _, err := db.GetSubscriberByEmail(email); err == nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("Error looking up subscriber %s: %v", email, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := db.CreateSubscriber(email, string(hash)); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := middleware.SignIn(w, r, email); err != nil {
		log.Printf("Error creating session for %s: %v", email, err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	subscriber, err := db.GetSubscriberByEmail(email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(subscriber.PasswordHash), []byte(password)) != nil {
		// Same answer for unknown email and wrong password.
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := middleware.SignIn(w, r, email); err != nil {
		log.Printf("Error creating session for %s: %v", email, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := middleware.SignOut(w, r); err != nil {
		log.Printf("Error expiring session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
