// Copyright (c) 2026 Mujtaba Idrees
//
// This file is part of fido-signer.
//
// SPDX-License-Identifier: MIT

// Command fido-signer runs the passkey ceremony server: registration,
// authentication, and payload signing over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mujtabaidrees94/fido-signer/internal/config"
	"github.com/mujtabaidrees94/fido-signer/internal/metrics"
	"github.com/mujtabaidrees94/fido-signer/pkg/ceremony"
	ceremonyhttp "github.com/mujtabaidrees94/fido-signer/pkg/ceremony/http"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	svc, err := buildService(cfg)
	if err != nil {
		logger.Error("failed to build ceremony service", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister()

	handler := ceremonyhttp.NewHandler(svc).WithLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Route("/api", func(r chi.Router) {
		ceremonyhttp.MountChi(r, handler)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "rp_id", cfg.RPID)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

// buildService wires the in-memory stores and optional token issuer
// into a ceremony service from the loaded configuration.
func buildService(cfg config.Config) (*ceremony.Service, error) {
	var issuer ceremony.TokenIssuer
	if cfg.SigningKey != "" {
		ti, err := ceremony.NewHMACTokenIssuer(ceremony.TokenConfig{
			SigningKey: []byte(cfg.SigningKey),
			Issuer:     cfg.Issuer,
			TTL:        cfg.TokenTTL,
		})
		if err != nil {
			return nil, err
		}
		issuer = ti
	}

	return ceremony.NewService(ceremony.ServiceParams{
		Config: &ceremony.Config{
			RPID:           cfg.RPID,
			RPDisplayName:  cfg.RPName,
			RPOrigins:      cfg.RPOrigins,
			Timeout:        cfg.CeremonyTTL,
			AdapterTimeout: cfg.VerifyTimeout,
		},
		UserStore:       ceremony.NewMemoryUserStore(),
		CredentialStore: ceremony.NewMemoryCredentialStore(),
		ChallengeStore:  ceremony.NewMemoryChallengeStore(),
		TokenIssuer:     issuer,
	})
}
