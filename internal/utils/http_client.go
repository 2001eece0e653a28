// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient(30 * time.Second)
//	resp, err := client.R().SetBody(req).Post(endpoint)
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent HTTPClient whose requests time out
// after timeout. A zero timeout leaves requests bounded only by their
// context.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPClient{Client: client}
}
