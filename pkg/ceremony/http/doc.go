// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

// Package http provides HTTP handlers for the passkey ceremonies.
//
// The handlers validate and decode request bodies at the boundary, hand
// the ceremony service fully parsed inputs, and map service errors to
// stable error codes. They can be mounted on a chi router:
//
//	handler := ceremonyhttp.NewHandler(svc)
//	r.Route("/api", func(r chi.Router) {
//	    ceremonyhttp.MountChi(r, handler)
//	})
//
// Every error response has the shape {"error": code, "message": text}.
// Ceremony-level failures (stale identifiers, failed verification,
// counter regression) are client errors; only begin-registration
// failures and verifier timeouts surface as 5xx.
package http
