package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/pkg/textutil"
)

const maxBodyBytes = 1 << 20

// JSONClient issues GET requests against JSON APIs and maps failures onto
// provider errors.
type JSONClient struct {
	HTTPClient *http.Client
	Headers    map[string]string
}

// Get fetches endpoint with query and decodes the body into out.
func (c JSONClient) Get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	target := endpoint
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		target = endpoint + sep + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return InvalidResponse("build request: %v", err)
	}
	httpReq.Header.Set("accept", "application/json")
	for key, value := range c.Headers {
		httpReq.Header.Set(key, value)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return Transport(err)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return Transport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return HTTPStatus(resp.StatusCode, errorMessage(resp.StatusCode, body.Bytes()))
	}

	if err := json.Unmarshal(body.Bytes(), out); err != nil {
		return InvalidResponse("decode body: %v", err)
	}
	return nil
}

// errorMessage pulls a human message out of common JSON error shapes.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case strings.TrimSpace(payload.Message) != "":
			return textutil.NormalizeSubtitle(payload.Message, 200)
		case len(payload.Errors) > 0 && strings.TrimSpace(payload.Errors[0].Message) != "":
			return textutil.NormalizeSubtitle(payload.Errors[0].Message, 200)
		case strings.TrimSpace(payload.Error) != "":
			return textutil.NormalizeSubtitle(payload.Error, 200)
		}
	}
	return http.StatusText(status)
}
