// Package llm provides the classifier oracle used by the matching
// pipeline. The oracle returns free text expected to contain JSON; callers
// must parse it defensively.
package llm

import "errors"

// ErrNoCredential indicates no API key is configured. Fatal, reported
// once, never retried.
var ErrNoCredential = errors.New("no classifier credential configured (set GEMINI_API_KEY)")

// ErrEmptyResponse indicates the model returned no usable content.
var ErrEmptyResponse = errors.New("empty response from model")
