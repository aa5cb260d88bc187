package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

type exchange struct {
	received bool
	status   int
	body     []byte
}

// recorder keeps the status and raw body of the last response so failures
// can be reported verbatim, whatever the SDK made of them. The client is
// used from a single goroutine, so no locking is needed.
type recorder struct {
	next http.RoundTripper
	log  zerolog.Logger
	last exchange
}

func (r *recorder) reset() {
	r.last = exchange{}
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil {
		r.log.Debug().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("request failed")
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	r.last = exchange{received: true, status: resp.StatusCode, body: body}
	r.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("cloudflare api")

	return resp, nil
}
