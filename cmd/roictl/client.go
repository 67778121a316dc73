package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	httpserver "github.com/fyrsmithlabs/collegeroi/internal/http"
	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

// viewPaths maps view kinds to their collegeroid endpoints.
var viewPaths = map[views.Kind]string{
	views.KindInstance:    "explanation",
	views.KindScatter:     "scatter",
	views.KindImportance:  "importance",
	views.KindPredictions: "predictions",
}

// StatusError is a non-200 response from collegeroid.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// remoteBackend queries a running collegeroid over HTTP.
type remoteBackend struct {
	baseURL  string
	client   *http.Client
	horizons []int
}

// newRemoteBackend connects to baseURL and fetches the horizon list, failing
// fast when the server is unreachable.
func newRemoteBackend(ctx context.Context, baseURL string) (*remoteBackend, error) {
	b := &remoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	var resp httpserver.HorizonsResponse
	if err := b.get(ctx, "/api/v1/horizons", nil, &resp); err != nil {
		return nil, err
	}
	b.horizons = resp.Horizons
	return b, nil
}

func (b *remoteBackend) ListHorizons() []int { return b.horizons }

func (b *remoteBackend) ListSchools(ctx context.Context, horizon int) ([]string, error) {
	var resp httpserver.SchoolsResponse
	if err := b.get(ctx, fmt.Sprintf("/api/v1/horizons/%d/schools", horizon), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Schools, nil
}

func (b *remoteBackend) ListFeatures(ctx context.Context, horizon int) ([]string, error) {
	var resp httpserver.FeaturesResponse
	if err := b.get(ctx, fmt.Sprintf("/api/v1/horizons/%d/features", horizon), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Features, nil
}

func (b *remoteBackend) Resolve(ctx context.Context, kind views.Kind, horizon int, params selection.Params) (*views.Result, error) {
	path, ok := viewPaths[kind]
	if !ok {
		return nil, &selection.UnknownViewError{Kind: kind}
	}

	query := url.Values{}
	if params.School != "" {
		query.Set("school", params.School)
	}
	if params.Feature != "" {
		query.Set("feature", params.Feature)
	}
	if params.MaxDisplay > 0 {
		query.Set("max_display", strconv.Itoa(params.MaxDisplay))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	res := &views.Result{Kind: kind}
	var out any
	switch kind {
	case views.KindInstance:
		res.Instance = &views.InstanceExplanation{}
		out = res.Instance
	case views.KindScatter:
		res.Scatter = &views.FeatureScatter{}
		out = res.Scatter
	case views.KindImportance:
		res.Importance = &views.GlobalImportance{}
		out = res.Importance
	case views.KindPredictions:
		res.Predictions = &views.PredictionRanking{}
		out = res.Predictions
	}

	if err := b.get(ctx, fmt.Sprintf("/api/v1/horizons/%d/%s", horizon, path), query, out); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *remoteBackend) Health(ctx context.Context) (*httpserver.HealthResponse, error) {
	var resp httpserver.HealthResponse
	if err := b.get(ctx, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *remoteBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// get issues a GET and decodes a 200 response into out. Other statuses
// become a *StatusError carrying the server's message.
func (b *remoteBackend) get(ctx context.Context, path string, query url.Values, out any) error {
	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		var e httpserver.ErrorResponse
		if json.Unmarshal(body, &e) != nil || e.Message == "" {
			e.Message = strings.TrimSpace(string(body))
		}
		return &StatusError{Status: resp.StatusCode, Message: e.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
