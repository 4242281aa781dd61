// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/mujtabaidrees94/fido-signer/pkg/ceremony"
)

// Handler provides HTTP handlers for the three passkey ceremonies.
// The handlers can be mounted on any HTTP router.
type Handler struct {
	service *ceremony.Service
	logger  *slog.Logger
}

// NewHandler creates a new ceremony HTTP handler.
func NewHandler(service *ceremony.Service) *Handler {
	return &Handler{
		service: service,
		logger:  slog.Default(),
	}
}

// WithLogger sets a custom logger for the handler.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.logger = logger
	return h
}

// RegisterBegin handles POST /register/begin
//
// Request body:
//
//	{"username": "alice"} // optional
//
// Response: {"options": <credential creation options>, "userId": "..."}
func (h *Handler) RegisterBegin(w http.ResponseWriter, r *http.Request) {
	var req RegisterBeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An empty body is allowed; the username is optional.
		req = RegisterBeginRequest{}
	}

	options, userID, err := h.service.BeginRegistration(r.Context(), req.Username)
	if err != nil {
		h.logger.Error("begin registration failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "failed to generate registration options")
		return
	}

	h.writeJSON(w, http.StatusOK, RegisterBeginResponse{
		Options: options,
		UserID:  userID,
	})
}

// RegisterComplete handles POST /register/complete
//
// Request body:
//
//	{"userId": "...", "attestationResponse": <authenticator response>}
//
// Response: {"verified": true, "authenticator": {"credentialId": "...", "userId": "..."}}
func (h *Handler) RegisterComplete(w http.ResponseWriter, r *http.Request) {
	var req RegisterCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "userId is required")
		return
	}
	if len(req.AttestationResponse) == 0 {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "attestationResponse is required")
		return
	}

	response, err := protocol.ParseCredentialCreationResponseBytes(req.AttestationResponse)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid attestation response")
		return
	}

	result, err := h.service.FinishRegistration(r.Context(), req.UserID, response)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, RegisterCompleteResponse{
		Verified: true,
		Authenticator: AuthenticatorInfo{
			CredentialID: base64.RawURLEncoding.EncodeToString(result.CredentialID),
			UserID:       result.UserID,
		},
	})
}

// AuthenticateBegin handles POST /authenticate/begin
//
// Request body:
//
//	{"userId": "..."}
//
// Response: {"options": <credential request options>}
func (h *Handler) AuthenticateBegin(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateBeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "userId is required")
		return
	}

	options, err := h.service.BeginAuthentication(r.Context(), req.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, AssertionOptionsResponse{Options: options})
}

// AuthenticateComplete handles POST /authenticate/complete
//
// Request body:
//
//	{"userId": "...", "assertionResponse": <authenticator response>}
//
// Response: {"verified": true, "userId": "...", "token": "..."}
func (h *Handler) AuthenticateComplete(w http.ResponseWriter, r *http.Request) {
	req, response, ok := h.decodeAssertionRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.FinishAuthentication(r.Context(), req.UserID, response)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, AuthenticateCompleteResponse{
		Verified: true,
		UserID:   result.UserID,
		Token:    result.Token,
	})
}

// SignBegin handles POST /sign/begin
//
// Request body:
//
//	{"userId": "...", "data": "payload to sign"}
//
// Response: {"options": <credential request options>}
//
// The challenge inside the options is the SHA-256 hash of the payload.
func (h *Handler) SignBegin(w http.ResponseWriter, r *http.Request) {
	var req SignBeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "userId is required")
		return
	}
	if req.Data == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "no data provided to sign")
		return
	}

	options, err := h.service.BeginSigning(r.Context(), req.UserID, []byte(req.Data))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, AssertionOptionsResponse{Options: options})
}

// SignComplete handles POST /sign/complete
//
// Request body:
//
//	{"userId": "...", "assertionResponse": <authenticator response>}
//
// Response: {"verified": true, "data": "...", "signature": "...", "authenticatorData": "..."}
func (h *Handler) SignComplete(w http.ResponseWriter, r *http.Request) {
	req, response, ok := h.decodeAssertionRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.FinishSigning(r.Context(), req.UserID, response)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, SignCompleteResponse{
		Verified:          true,
		Data:              string(result.Data),
		Signature:         base64.RawURLEncoding.EncodeToString(result.Signature),
		AuthenticatorData: base64.RawURLEncoding.EncodeToString(result.AuthenticatorData),
	})
}

// decodeAssertionRequest decodes and validates the shared request shape
// of the authentication and signing complete endpoints. On failure it
// writes the error response and returns ok=false.
func (h *Handler) decodeAssertionRequest(w http.ResponseWriter, r *http.Request) (AuthenticateCompleteRequest, *protocol.ParsedCredentialAssertionData, bool) {
	var req AuthenticateCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return req, nil, false
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "userId is required")
		return req, nil, false
	}
	if len(req.AssertionResponse) == 0 {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "assertionResponse is required")
		return req, nil, false
	}

	response, err := protocol.ParseCredentialRequestResponseBytes(req.AssertionResponse)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid assertion response")
		return req, nil, false
	}
	return req, response, true
}

// handleServiceError maps ceremony errors to HTTP responses. Every
// ceremony-level failure carries a stable code; only verifier timeouts
// and unknown errors are 5xx.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ceremony.ErrUserNotFound):
		h.writeError(w, http.StatusBadRequest, ErrorCodeUserNotFound, "user not found")
	case errors.Is(err, ceremony.ErrChallengeNotFound):
		h.writeError(w, http.StatusBadRequest, ErrorCodeChallengeNotFound, "challenge not found")
	case errors.Is(err, ceremony.ErrNoCredentials):
		h.writeError(w, http.StatusBadRequest, ErrorCodeNoCredentials, "no credentials registered for user")
	case errors.Is(err, ceremony.ErrCredentialNotFound):
		h.writeError(w, http.StatusBadRequest, ErrorCodeCredentialNotFound, "credential not found")
	case errors.Is(err, ceremony.ErrCounterRegressed):
		h.writeError(w, http.StatusBadRequest, ErrorCodeCounterRegressed, "signature counter regressed, possible cloned authenticator")
	case errors.Is(err, ceremony.ErrVerificationFailed):
		h.writeError(w, http.StatusBadRequest, ErrorCodeVerificationFailed, "verification failed")
	case errors.Is(err, ceremony.ErrVerificationTimeout):
		h.writeError(w, http.StatusInternalServerError, ErrorCodeVerificationTimeout, "verification timed out")
	case errors.Is(err, ceremony.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
	default:
		h.logger.Error("unhandled ceremony error", "error", err)
		h.writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal server error")
	}
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response headers already written, can only log the error
		h.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status)
	}
}

// writeError writes an error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
