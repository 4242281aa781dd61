// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountChi mounts the ceremony routes on a chi router.
//
// Example:
//
//	handler := ceremonyhttp.NewHandler(svc)
//	r.Route("/api", func(r chi.Router) {
//	    ceremonyhttp.MountChi(r, handler)
//	})
func MountChi(r chi.Router, h *Handler) {
	r.Post("/register/begin", h.RegisterBegin)
	r.Post("/register/complete", h.RegisterComplete)
	r.Post("/authenticate/begin", h.AuthenticateBegin)
	r.Post("/authenticate/complete", h.AuthenticateComplete)
	r.Post("/sign/begin", h.SignBegin)
	r.Post("/sign/complete", h.SignComplete)
}

// RouteEntry represents a single route with its method, path, and handler.
type RouteEntry struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Routes returns a slice of route entries for manual mounting on
// routers without chi support.
func (h *Handler) Routes() []RouteEntry {
	return []RouteEntry{
		{Method: http.MethodPost, Path: "/register/begin", Handler: h.RegisterBegin},
		{Method: http.MethodPost, Path: "/register/complete", Handler: h.RegisterComplete},
		{Method: http.MethodPost, Path: "/authenticate/begin", Handler: h.AuthenticateBegin},
		{Method: http.MethodPost, Path: "/authenticate/complete", Handler: h.AuthenticateComplete},
		{Method: http.MethodPost, Path: "/sign/begin", Handler: h.SignBegin},
		{Method: http.MethodPost, Path: "/sign/complete", Handler: h.SignComplete},
	}
}
