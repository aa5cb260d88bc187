// Package workflow runs the multi-step worker provisioning flow.
//
// The flow is an ordered list of steps. Each step runs only when every
// previous step succeeded; the first failure ends the run with a
// step-specific message. Nothing is rolled back and nothing is retried.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"cfworkers/internal/api"
	"cfworkers/internal/ui"
)

// Step names one stage of the create flow.
type Step string

const (
	StepCreateNamespace Step = "create-namespace"
	StepFetchScript     Step = "fetch-script"
	StepGetSubdomain    Step = "get-subdomain"
	StepUploadWorker    Step = "upload-worker"
	StepPublish         Step = "publish"
)

// Workers is the part of the Cloudflare API the flow drives.
type Workers interface {
	CreateNamespace(ctx context.Context, title string) (string, error)
	GetSubdomain(ctx context.Context) (string, error)
	UploadWorker(ctx context.Context, def api.WorkerDefinition) error
	PublishOnSubdomain(ctx context.Context, name string) error
}

// Scripts fetches worker source code.
type Scripts interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// KVRequest asks for a new namespace bound to the worker as VariableName.
type KVRequest struct {
	Title        string
	VariableName string
}

// Request describes one create run.
type Request struct {
	WorkerName string
	// KV is nil when no namespace should be created or bound.
	KV *KVRequest
	// ScriptURL is resolved when the fetch step starts, after the namespace
	// exists, so interactive callers can ask for it at that point.
	ScriptURL func() (string, error)
}

// StaticURL returns a ScriptURL resolver for a known URL.
func StaticURL(url string) func() (string, error) {
	return func() (string, error) { return url, nil }
}

// Result is what a successful run produced.
type Result struct {
	NamespaceID string
	Subdomain   string
	URL         string
}

// StepError reports the step that ended a run.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ErrEmptyResult is the cause of a step that succeeded remotely but produced
// nothing usable: an empty namespace ID, script body or subdomain.
var ErrEmptyResult = errors.New("empty result")

// abort carries errors that end a run without being a step failure, such as
// running out of input while resolving the script URL.
type abort struct {
	err error
}

func (a *abort) Error() string { return a.err.Error() }

type run struct {
	req         Request
	namespaceID string
	script      string
	subdomain   string
}

type step struct {
	name    Step
	failure string
	exec    func(ctx context.Context, r *run) error
}

// Creator runs the create flow.
type Creator struct {
	workers Workers
	scripts Scripts
	out     *ui.Printer
}

// NewCreator returns a Creator using the given collaborators.
func NewCreator(workers Workers, scripts Scripts, out *ui.Printer) *Creator {
	return &Creator{workers: workers, scripts: scripts, out: out}
}

// Plan returns the steps a request will go through, in order.
func Plan(req Request) []Step {
	var steps []Step
	for _, s := range (&Creator{}).steps(req) {
		steps = append(steps, s.name)
	}
	return steps
}

func (c *Creator) steps(req Request) []step {
	var steps []step
	if req.KV != nil {
		steps = append(steps, step{StepCreateNamespace, "Failed to create KV namespace.", c.createNamespace})
	}
	return append(steps,
		step{StepFetchScript, "Failed to fetch the worker script.", c.fetchScript},
		step{StepGetSubdomain, "Failed to retrieve workers.dev subdomain.", c.getSubdomain},
		step{StepUploadWorker, "Failed to create the worker.", c.uploadWorker},
		step{StepPublish, "Failed to publish the worker on workers.dev subdomain.", c.publish},
	)
}

// Run executes the flow for req. On success the worker's public URL is
// printed and returned; otherwise the error is a *StepError naming the step
// that failed.
func (c *Creator) Run(ctx context.Context, req Request) (*Result, error) {
	r := &run{req: req}

	for _, s := range c.steps(req) {
		if err := s.exec(ctx, r); err != nil {
			var a *abort
			if errors.As(err, &a) {
				return nil, a.err
			}
			c.out.Error("%s", s.failure)
			return nil, &StepError{Step: s.name, Err: err}
		}
	}

	url := WorkerURL(req.WorkerName, r.subdomain)
	c.out.Success("You can visit your worker at: %s", url)

	return &Result{NamespaceID: r.namespaceID, Subdomain: r.subdomain, URL: url}, nil
}

func (c *Creator) createNamespace(ctx context.Context, r *run) error {
	id, err := c.workers.CreateNamespace(ctx, r.req.KV.Title)
	if err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyResult
	}
	r.namespaceID = id
	return nil
}

func (c *Creator) fetchScript(ctx context.Context, r *run) error {
	resolve := r.req.ScriptURL
	if resolve == nil {
		resolve = StaticURL("")
	}
	url, err := resolve()
	if err != nil {
		return &abort{err: err}
	}

	script, err := c.scripts.Fetch(ctx, url)
	if err != nil {
		return err
	}
	if script == "" {
		return ErrEmptyResult
	}
	r.script = script
	return nil
}

func (c *Creator) getSubdomain(ctx context.Context, r *run) error {
	subdomain, err := c.workers.GetSubdomain(ctx)
	if err != nil {
		return err
	}
	if subdomain == "" {
		return ErrEmptyResult
	}
	r.subdomain = subdomain
	return nil
}

func (c *Creator) uploadWorker(ctx context.Context, r *run) error {
	def := api.WorkerDefinition{Name: r.req.WorkerName, Script: r.script}
	if r.req.KV != nil {
		binding, err := api.NewKVBinding(r.namespaceID, r.req.KV.VariableName)
		if errors.Is(err, api.ErrHalfBinding) {
			c.out.Warning("KV namespace and variable name are both needed for a binding; uploading without one")
		}
		def.Binding = binding
	}
	return c.workers.UploadWorker(ctx, def)
}

func (c *Creator) publish(ctx context.Context, r *run) error {
	return c.workers.PublishOnSubdomain(ctx, r.req.WorkerName)
}

// WorkerURL is the public workers.dev address of a published worker.
func WorkerURL(workerName, subdomain string) string {
	return fmt.Sprintf("https://%s.%s.workers.dev", workerName, subdomain)
}
