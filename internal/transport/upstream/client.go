package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// maxBody bounds how much of a response body is read.
const maxBody = 16 << 20

// Request describes one JSON round trip.
type Request struct {
	Op      string
	Method  string
	URL     string
	Header  http.Header
	Body    any // marshalled as JSON when non-nil
	Result  any // decoded from JSON when non-nil
	RawBody *[]byte
}

// Do performs r with client. Non-2xx responses become *Error,
// transport failures wrap domain.ErrUpstream, undecodable bodies wrap domain.ErrDecode.
func Do(ctx context.Context, client *http.Client, r Request) error {
	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", r.Op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", r.Op, err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w: %w", r.Op, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s: read response: %w: %w", r.Op, domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return wrapError(newError(resp.StatusCode, data), r.Op)
	}

	if r.RawBody != nil {
		*r.RawBody = data
	}
	if r.Result != nil {
		if err := json.Unmarshal(data, r.Result); err != nil {
			return fmt.Errorf("%s: decode response: %w: %w", r.Op, domain.ErrDecode, err)
		}
	}
	return nil
}
