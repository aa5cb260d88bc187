// Package menu implements the interactive session: credentials are asked for
// once, then actions are read and dispatched until the user types exit.
package menu

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"cfworkers/internal/api"
	"cfworkers/internal/ui"
	"cfworkers/internal/workflow"
)

// Backend is everything a session needs from the Cloudflare API.
type Backend interface {
	workflow.Workers
	ListWorkers(ctx context.Context) ([]api.Worker, error)
	DeleteWorker(ctx context.Context, name string) error
}

// Connector builds a Backend once the session credentials are known.
type Connector func(creds api.Credentials) (Backend, error)

// Session is one interactive run.
type Session struct {
	prompt  *ui.Prompter
	out     *ui.Printer
	creds   api.Credentials
	connect Connector
	scripts workflow.Scripts
	log     zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithCredentials pre-fills credentials; only missing fields are prompted.
func WithCredentials(creds api.Credentials) Option {
	return func(s *Session) { s.creds = creds }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New creates a session reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, connect Connector, scripts workflow.Scripts, opts ...Option) *Session {
	s := &Session{
		prompt:  ui.NewPrompter(in, out),
		out:     ui.NewPrinter(out),
		connect: connect,
		scripts: scripts,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Printer returns the session's output printer so collaborators can share it.
func (s *Session) Printer() *ui.Printer {
	return s.out
}

// Run collects credentials and loops over the menu. It returns nil when the
// user exits or the input ends; remote failures never end the loop.
func (s *Session) Run(ctx context.Context) error {
	err := s.run(ctx)
	if errors.Is(err, io.EOF) {
		s.out.Println("")
		return nil
	}
	return err
}

func (s *Session) run(ctx context.Context) error {
	creds, err := s.collectCredentials()
	if err != nil {
		return err
	}

	backend, err := s.connect(creds)
	if err != nil {
		return err
	}
	creator := workflow.NewCreator(backend, s.scripts, s.out)

	for {
		s.showMenu()

		action, err := s.prompt.Ask("Enter the number of the action you want to perform or 'exit': ")
		if err != nil {
			return err
		}
		action = strings.ToLower(action)
		s.log.Debug().Str("action", action).Msg("menu selection")

		switch action {
		case "1":
			// Failures were already reported by the client.
			if _, err := backend.ListWorkers(ctx); err != nil {
				s.logFailure("list workers", err)
			}
		case "2":
			if err := s.create(ctx, creator); err != nil {
				return err
			}
		case "3":
			name, err := s.prompt.Ask("Enter the name of the worker to delete: ")
			if err != nil {
				return err
			}
			if err := backend.DeleteWorker(ctx, name); err != nil {
				s.logFailure("delete worker", err)
			}
		case "exit":
			s.out.Println("Exiting the program.")
			return nil
		default:
			s.out.Warning("Invalid action selected.")
		}
	}
}

func (s *Session) collectCredentials() (api.Credentials, error) {
	creds := s.creds

	for creds.APIToken == "" {
		token, err := s.prompt.AskSecret("Enter your Cloudflare API token: ")
		if err != nil {
			return creds, err
		}
		if token == "" {
			s.out.Warning("The API token must not be empty.")
		}
		creds.APIToken = token
	}

	for creds.AccountID == "" {
		account, err := s.prompt.Ask("Enter your Cloudflare account ID: ")
		if err != nil {
			return creds, err
		}
		if account == "" {
			s.out.Warning("The account ID must not be empty.")
		}
		creds.AccountID = account
	}

	return creds, nil
}

func (s *Session) logFailure(op string, err error) {
	s.log.Debug().Err(err).Str("op", op).Int("status", api.StatusCode(err)).Msg("action failed")
}

func (s *Session) showMenu() {
	s.out.Println("")
	s.out.Println("%s", ui.Title.Sprint("Cloudflare Workers"))
	s.out.Println("\nChoose an action:")
	s.out.Println("1: List Workers")
	s.out.Println("2: Create Worker")
	s.out.Println("3: Delete Worker")
	s.out.Println("Type 'exit' to quit the program.")
}

// create asks the create questions in order and runs the flow. Only input
// errors are returned; a failed flow leaves the loop running.
func (s *Session) create(ctx context.Context, creator *workflow.Creator) error {
	name, err := s.prompt.Ask("Enter the desired worker name: ")
	if err != nil {
		return err
	}

	req := workflow.Request{WorkerName: name}

	withKV, err := s.prompt.Confirm("Do you want to create a KV namespace? (yes/no): ")
	if err != nil {
		return err
	}
	if withKV {
		title, err := s.prompt.Ask("Enter the desired KV namespace name: ")
		if err != nil {
			return err
		}
		variable, err := s.prompt.Ask("Enter the desired variable name for the KV namespace binding: ")
		if err != nil {
			return err
		}
		req.KV = &workflow.KVRequest{Title: title, VariableName: variable}
	}

	req.ScriptURL = func() (string, error) {
		return s.prompt.Ask("Enter the URL to fetch the worker script: ")
	}

	_, err = creator.Run(ctx, req)
	var stepErr *workflow.StepError
	if errors.As(err, &stepErr) {
		s.log.Debug().Err(stepErr.Err).Str("step", string(stepErr.Step)).
			Int("status", api.StatusCode(stepErr.Err)).Msg("create flow aborted")
		return nil
	}
	return err
}
