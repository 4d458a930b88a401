package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/dgnsrekt/har_scout/internal/har"
	"github.com/dgnsrekt/har_scout/internal/match"
)

func registerHarHandlers(api huma.API, svc Service) {
	type parseInput struct {
		Body struct {
			Har har.File `json:"har" doc:"Browser-exported HAR document"`
		}
	}
	type parseOutput struct {
		Body struct {
			Count   int                    `json:"count"`
			Entries []har.CandidateRequest `json:"entries"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "parse-har", Method: http.MethodPost, Path: "/api/v1/har/parse", Summary: "Reduce a HAR capture to candidate API requests", Tags: []string{"Har"}},
		func(ctx context.Context, input *parseInput) (*parseOutput, error) {
			entries, err := svc.ParseHar(ctx, input.Body.Har.Log)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &parseOutput{}
			out.Body.Count = len(entries)
			out.Body.Entries = entries
			return out, nil
		})

	type matchInput struct {
		Body struct {
			Description string                 `json:"description" doc:"Natural-language description of the feature to locate"`
			Entries     []har.CandidateRequest `json:"entries" doc:"Candidate list from a previous parse call"`
		}
	}
	type matchOutput struct {
		Body match.Result
	}
	huma.Register(api, huma.Operation{OperationID: "match-har", Method: http.MethodPost, Path: "/api/v1/har/match", Summary: "Find the request implementing a described feature", Tags: []string{"Har"}},
		func(ctx context.Context, input *matchInput) (*matchOutput, error) {
			result, err := svc.MatchRequest(ctx, input.Body.Description, input.Body.Entries)
			if err != nil {
				return nil, mapErr(err)
			}
			return &matchOutput{Body: result}, nil
		})
}

func registerMiscHandlers(api huma.API) {
	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})
}
