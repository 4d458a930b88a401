package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/dgnsrekt/har_scout/internal/har"
	"github.com/dgnsrekt/har_scout/internal/match"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is the pipeline surface the API exposes. Parse and match are
// separable on purpose: parse once, match many times.
type Service interface {
	ParseHar(ctx context.Context, log har.Log) ([]har.CandidateRequest, error)
	MatchRequest(ctx context.Context, description string, entries []har.CandidateRequest) (match.Result, error)
}

func NewServer(svc Service) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("HAR Scout API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})

	registerHarHandlers(api, svc)
	registerMiscHandlers(api)

	return router
}

// mapErr translates pipeline errors to HTTP statuses. Invalid input, an
// unavailable matching service, and "nothing matched" must never be
// conflated; the last one is not an error at all.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *match.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case match.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case match.CodeOracleUnavailable:
			return huma.Error503ServiceUnavailable(coded.Message)
		case match.CodeOracleCall:
			return huma.Error502BadGateway(coded.Message + " (try again)")
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
