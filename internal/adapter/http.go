// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-secure-vault/internal/config"
	"github.com/MKhiriev/go-secure-vault/internal/logger"
	"github.com/MKhiriev/go-secure-vault/internal/utils"
)

type graphQLClient struct {
	client   *utils.HTTPClient
	endpoint string
	tokens   TokenSource
	cache    ResponseCache

	logger *logger.Logger
}

// NewGraphQLClient constructs the HTTP implementation of [GraphQLClient]
// posting to serviceCfg.APIURL. Every request carries the current ID token
// from tokens in the Authorization header. A nil cache disables caching.
//
// Returns an error if the API URL is empty or not a valid absolute URL.
func NewGraphQLClient(serviceCfg config.ClientService, tokens TokenSource, cache ResponseCache, log *logger.Logger) (GraphQLClient, error) {
	endpoint, err := normalizeEndpoint(serviceCfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if cache == nil {
		cache = NewNoopCache()
	}

	client := utils.NewHTTPClient(serviceCfg.RequestTimeout)

	return &graphQLClient{
		client:   client,
		endpoint: endpoint,
		tokens:   tokens,
		cache:    cache,
		logger:   logger.OrNop(log).Named("graphql"),
	}, nil
}

func normalizeEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return u.String(), nil
}

// Perform implements [GraphQLClient].
func (g *graphQLClient) Perform(ctx context.Context, mutation Mutation) (*Result, error) {
	result, _, err := g.send(ctx, Request(mutation))
	return result, err
}

// Fetch implements [GraphQLClient]. Only error-free results are cached.
func (g *graphQLClient) Fetch(ctx context.Context, query Query, policy CachePolicy) (*Result, error) {
	key := cacheKey(query)

	if policy != FetchIgnoringCacheData {
		if result, ok := g.cached(ctx, key); ok {
			return result, nil
		}
		if policy == ReturnCacheDataDontFetch {
			return nil, ErrCacheMiss
		}
	}

	result, raw, err := g.send(ctx, Request(query))
	if err != nil {
		return nil, err
	}

	if len(result.Errors) == 0 {
		if err = g.cache.Set(ctx, key, raw); err != nil {
			g.logger.Warn().Err(err).Str("func", "graphQLClient.Fetch").
				Str("operation", query.OperationName).Msg("failed to cache response")
		}
	}

	return result, nil
}

// ClearCaches implements [GraphQLClient].
func (g *graphQLClient) ClearCaches(ctx context.Context) error {
	if err := g.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear response cache: %w", err)
	}
	return nil
}

func (g *graphQLClient) cached(ctx context.Context, key string) (*Result, bool) {
	raw, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.Warn().Err(err).Str("func", "graphQLClient.cached").Msg("failed to read response cache")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result Result
	if err = json.Unmarshal(raw, &result); err != nil {
		g.logger.Warn().Err(err).Str("func", "graphQLClient.cached").Msg("dropping undecodable cache entry")
		return nil, false
	}
	return &result, true
}

// send posts req and returns the decoded result with its raw body. A non-2xx
// response that still carries GraphQL errors is returned as a result.
func (g *graphQLClient) send(ctx context.Context, req Request) (*Result, []byte, error) {
	token, err := g.tokens.GetIDToken()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrAuthTokenMissing, err)
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", token).
		SetBody(req).
		Post(g.endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrRequestFailed, req.OperationName, err)
	}

	var result Result
	decodeErr := json.Unmarshal(resp.Body(), &result)

	if httpErr := mapHTTPError(resp); httpErr != nil {
		if decodeErr == nil && len(result.Errors) > 0 {
			return &result, resp.Body(), nil
		}
		return nil, nil, httpErr
	}
	if decodeErr != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedResponse, decodeErr)
	}

	event := g.logger.Debug().Str("func", "graphQLClient.send").
		Str("operation", req.OperationName).
		Int("errors", len(result.Errors))
	if opID, ok := utils.GetOperationIDFromContext(ctx); ok {
		event = event.Str("operation_id", opID)
	}
	event.Msg("graphql request completed")

	return &result, resp.Body(), nil
}
