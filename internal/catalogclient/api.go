// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package catalogclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/models"
)

// ErrNoToken is returned when a login response carries no access token.
var ErrNoToken = errors.New("login response has no access_token")

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{
		Username: username,
		Password: password,
	}, "")
	if err != nil {
		return "", fmt.Errorf("login as %s: %w", username, err)
	}

	var tok models.Token
	if err := decodeObject(body, &tok); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", ErrNoToken
	}
	return tok.AccessToken, nil
}

// ListSeries fetches the whole catalog with every field.
func (c *Client) ListSeries(ctx context.Context, token string) ([]models.Series, error) {
	return listAll(ctx, c, token, func(s models.Series) string {
		if s.ID == 0 {
			return ""
		}
		return strconv.FormatInt(s.ID, 10)
	})
}

// CreateReport files a report as the owner of token.
func (c *Client) CreateReport(ctx context.Context, token string, in models.ReportCreate) (models.Report, error) {
	body, err := c.do(ctx, http.MethodPost, "/reports", in, token)
	if err != nil {
		return models.Report{}, err
	}

	var report models.Report
	if err := decodeObject(body, &report); err != nil {
		return models.Report{}, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}
