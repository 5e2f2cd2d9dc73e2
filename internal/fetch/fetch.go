// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package fetch sends JSON requests.
//
// It does not retry, time out or interpret response status codes: network
// errors are returned as they are, and responses are returned to the caller
// whatever their status.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.astrophena.name/base/request"
)

// Method is an HTTP method that carries a request body.
type Method string

// Supported methods.
const (
	Post   Method = http.MethodPost
	Put    Method = http.MethodPut
	Patch  Method = http.MethodPatch
	Delete Method = http.MethodDelete
)

const contentType = "application/json"

// Client sends JSON requests with HTTPClient.
type Client struct {
	// HTTPClient is used to make requests. If nil, request.DefaultClient is
	// used.
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c == nil || c.HTTPClient == nil {
		return request.DefaultClient
	}
	return c.HTTPClient
}

// Do sends a request to url with body encoded as JSON. A nil body sends an
// empty body. The caller must close the response body.
func (c *Client) Do(ctx context.Context, method Method, url string, body any) (*http.Response, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), url, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	return c.httpClient().Do(req)
}

// Do is like [Client.Do], but uses the default client.
func Do(ctx context.Context, method Method, url string, body any) (*http.Response, error) {
	return (*Client)(nil).Do(ctx, method, url, body)
}

// JSON sends body like [Do] and decodes the JSON response into Response. Unlike
// Do, it fails when the response status is not successful.
func JSON[Response any](ctx context.Context, c *Client, method Method, url string, body any) (Response, error) {
	return request.Make[Response](ctx, request.Params{
		Method: string(method),
		URL:    url,
		Body:   body,
		Headers: map[string]string{
			"Content-Type": contentType,
		},
		HTTPClient: c.httpClient(),
	})
}
