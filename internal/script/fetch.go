// Package script downloads worker source code from arbitrary URLs.
package script

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"cfworkers/internal/api"
	"cfworkers/internal/ui"
)

const opFetch = "fetch worker script"

// Fetcher retrieves scripts with a plain GET.
type Fetcher struct {
	client *http.Client
	out    *ui.Printer
	log    zerolog.Logger
}

// NewFetcher creates a Fetcher. A nil client uses a fresh go-cleanhttp
// client and a nil printer writes to stdout.
func NewFetcher(client *http.Client, out *ui.Printer, log zerolog.Logger) *Fetcher {
	if client == nil {
		client = cleanhttp.DefaultClient()
	}
	if out == nil {
		out = ui.NewPrinter(os.Stdout)
	}
	return &Fetcher{client: client, out: out, log: log}
}

// Fetch returns the body of url. Any status other than 200 is reported as
// an *api.RemoteCallError and unreachable URLs as an *api.TransportError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var source string
	err := f.out.Progress("Fetching worker script", func() error {
		var err error
		source, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		f.out.Error("Failed to %v", err)
		return "", err
	}
	return source, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &api.TransportError{Op: opFetch, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &api.TransportError{Op: opFetch, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &api.TransportError{Op: opFetch, Err: fmt.Errorf("error reading response: %w", err)}
	}

	f.log.Debug().Str("url", url).Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("script fetch")

	if resp.StatusCode != http.StatusOK {
		return "", &api.RemoteCallError{Op: opFetch, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}
