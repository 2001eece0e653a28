// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	httpErr := &HTTPError{
		StatusCode: resp.StatusCode(),
		Body:       strings.TrimSpace(string(resp.Body())),
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		httpErr.Err = ErrBadRequest
	case http.StatusUnauthorized:
		httpErr.Err = ErrUnauthorized
	case http.StatusForbidden:
		httpErr.Err = ErrForbidden
	case http.StatusNotFound:
		httpErr.Err = ErrNotFound
	case http.StatusTooManyRequests:
		httpErr.Err = ErrTooManyRequests
	case http.StatusInternalServerError:
		httpErr.Err = ErrInternalServerError
	case http.StatusBadGateway:
		httpErr.Err = ErrBadGateway
	case http.StatusServiceUnavailable:
		httpErr.Err = ErrServiceUnavailable
	default:
		httpErr.Err = ErrUnexpectedStatus
	}

	return httpErr
}
