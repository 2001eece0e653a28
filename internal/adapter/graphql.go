// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// CachePolicy controls how Fetch uses the response cache.
type CachePolicy int

const (
	// FetchIgnoringCacheData always goes to the network and stores the result.
	FetchIgnoringCacheData CachePolicy = iota
	// ReturnCacheDataElseFetch answers from the cache when possible.
	ReturnCacheDataElseFetch
	// ReturnCacheDataDontFetch only answers from the cache.
	ReturnCacheDataDontFetch
)

func (p CachePolicy) String() string {
	switch p {
	case FetchIgnoringCacheData:
		return "fetch-ignoring-cache-data"
	case ReturnCacheDataElseFetch:
		return "return-cache-data-else-fetch"
	case ReturnCacheDataDontFetch:
		return "return-cache-data-dont-fetch"
	default:
		return fmt.Sprintf("cache-policy(%d)", int(p))
	}
}

// Request is a GraphQL document with its variables.
type Request struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Query is a read-only request.
type Query Request

// Mutation is a state-changing request.
type Mutation Request

// Result is a decoded GraphQL response body.
type Result struct {
	Data   map[string]any `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError is one entry of the response "errors" array. The service puts
// a machine-readable errorType on each entry.
type GraphQLError struct {
	Message   string `json:"message"`
	ErrorType string `json:"errorType,omitempty"`
	Path      []any  `json:"path,omitempty"`
}

func (e GraphQLError) Error() string {
	if e.ErrorType == "" {
		return e.Message
	}
	return e.ErrorType + ": " + e.Message
}

// Decode decodes Data[field] into out. It reports false when the field is
// absent or null.
func (r *Result) Decode(field string, out any) (bool, error) {
	if r == nil || r.Data == nil {
		return false, nil
	}
	raw, ok := r.Data[field]
	if !ok || raw == nil {
		return false, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return false, fmt.Errorf("create decoder for %s: %w", field, err)
	}
	if err = decoder.Decode(raw); err != nil {
		return false, fmt.Errorf("decode %s: %w", field, err)
	}

	return true, nil
}
