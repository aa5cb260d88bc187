package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/cloudflare/cloudflare-go"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"cfworkers/internal/ui"
)

// DefaultBaseURL is the Cloudflare v4 API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// Credentials identify the account every operation acts on. They are
// collected once per session and never modified afterwards.
type Credentials struct {
	APIToken  string
	AccountID string
}

// Validate checks that both credential fields are present.
func (c Credentials) Validate() error {
	if c.APIToken == "" {
		return errors.New("Cloudflare API Token is required")
	}
	if c.AccountID == "" {
		return errors.New("Cloudflare Account ID is required for this operation")
	}
	return nil
}

// Client issues Workers and KV requests for a single account and reports
// every outcome through a ui.Printer.
type Client struct {
	creds    Credentials
	cf       *cloudflare.API
	recorder *recorder
	out      *ui.Printer
	log      zerolog.Logger
}

type options struct {
	baseURL    string
	httpClient *http.Client
	printer    *ui.Printer
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at a different API root.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithPrinter sets where success and failure messages are written.
func WithPrinter(p *ui.Printer) Option {
	return func(o *options) { o.printer = p }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewClient creates a Cloudflare API client authenticated with an API token.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	o := options{
		baseURL:    DefaultBaseURL,
		httpClient: cleanhttp.DefaultClient(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.printer == nil {
		o.printer = ui.NewPrinter(os.Stdout)
	}

	next := o.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	rec := &recorder{next: next, log: o.logger}
	hc := *o.httpClient
	hc.Transport = rec

	api, err := cloudflare.NewWithAPIToken(
		creds.APIToken,
		cloudflare.BaseURL(o.baseURL),
		cloudflare.HTTPClient(&hc),
		cloudflare.UsingRetryPolicy(0, 0, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating Cloudflare client: %w", err)
	}

	return &Client{
		creds:    creds,
		cf:       api,
		recorder: rec,
		out:      o.printer,
		log:      o.logger,
	}, nil
}

// AccountID returns the account the client operates on.
func (c *Client) AccountID() string {
	return c.creds.AccountID
}

// Printer returns the printer the client reports through.
func (c *Client) Printer() *ui.Printer {
	return c.out
}

func (c *Client) account() *cloudflare.ResourceContainer {
	return cloudflare.AccountIdentifier(c.creds.AccountID)
}

// call runs fn behind a progress spinner and classifies its outcome using
// the exchange recorded while it ran. Only an HTTP 200 counts as success.
func (c *Client) call(op, progress string, fn func() error) error {
	c.recorder.reset()
	err := c.out.Progress(progress, fn)
	return classify(op, c.recorder.last, err)
}
