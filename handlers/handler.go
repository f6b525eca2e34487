package handlers

import (
	"github.com/platewise/platewise/checkout"
	"github.com/platewise/platewise/events"
	"github.com/platewise/platewise/session"
)

// Handler carries the injected collaborators for the HTTP surface. Session
// state is always passed in explicitly rather than read from globals.
type Handler struct {
	Sessions  *session.Service
	Checkouts *checkout.Registry
	Events    *events.Publisher
}

func New(sessions *session.Service, checkouts *checkout.Registry, publisher *events.Publisher) *Handler {
	return &Handler{
		Sessions:  sessions,
		Checkouts: checkouts,
		Events:    publisher,
	}
}
