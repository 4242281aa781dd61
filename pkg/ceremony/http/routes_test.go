// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	h, _ := newTestHandler(t)

	routes := h.Routes()
	require.Len(t, routes, 6)

	paths := make([]string, 0, len(routes))
	for _, route := range routes {
		assert.Equal(t, http.MethodPost, route.Method)
		assert.NotNil(t, route.Handler)
		paths = append(paths, route.Path)
	}

	assert.ElementsMatch(t, []string{
		"/register/begin",
		"/register/complete",
		"/authenticate/begin",
		"/authenticate/complete",
		"/sign/begin",
		"/sign/complete",
	}, paths)
}

func TestMountChi(t *testing.T) {
	h, _ := newTestHandler(t)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		MountChi(r, h)
	})

	// Begin registration through the mounted router.
	req := httptest.NewRequest(http.MethodPost, "/api/register/begin", strings.NewReader(`{"username":"alice"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Only POST is routed.
	req = httptest.NewRequest(http.MethodGet, "/api/register/begin", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	// All ceremony endpoints are mounted.
	for _, path := range []string{
		"/api/register/complete",
		"/api/authenticate/begin",
		"/api/authenticate/complete",
		"/api/sign/begin",
		"/api/sign/complete",
	} {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.NotEqual(t, http.StatusNotFound, w.Code, "route %s not mounted", path)
	}
}
