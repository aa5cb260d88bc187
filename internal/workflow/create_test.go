package workflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfworkers/internal/api"
	"cfworkers/internal/ui"
)

type fakeBackend struct {
	calls []string

	namespaceID  string
	namespaceErr error
	script       string
	fetchErr     error
	subdomain    string
	subdomainErr error
	uploadErr    error
	publishErr   error

	uploaded []api.WorkerDefinition
}

func (f *fakeBackend) CreateNamespace(ctx context.Context, title string) (string, error) {
	f.calls = append(f.calls, "CreateNamespace")
	return f.namespaceID, f.namespaceErr
}

func (f *fakeBackend) Fetch(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, "FetchScript")
	return f.script, f.fetchErr
}

func (f *fakeBackend) GetSubdomain(ctx context.Context) (string, error) {
	f.calls = append(f.calls, "GetSubdomain")
	return f.subdomain, f.subdomainErr
}

func (f *fakeBackend) UploadWorker(ctx context.Context, def api.WorkerDefinition) error {
	f.calls = append(f.calls, "UploadWorker")
	f.uploaded = append(f.uploaded, def)
	return f.uploadErr
}

func (f *fakeBackend) PublishOnSubdomain(ctx context.Context, name string) error {
	f.calls = append(f.calls, "PublishOnSubdomain")
	return f.publishErr
}

func newTestCreator(t *testing.T, backend *fakeBackend) (*Creator, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	out := &bytes.Buffer{}
	return NewCreator(backend, backend, ui.NewPrinter(out)), out
}

func remoteErr(op string, status int) error {
	return &api.RemoteCallError{Op: op, StatusCode: status, Body: "{}"}
}

func TestWorkerURL(t *testing.T) {
	assert.Equal(t, "https://demo.acme.workers.dev", WorkerURL("demo", "acme"))
}

func TestPlan(t *testing.T) {
	assert.Equal(t,
		[]Step{StepFetchScript, StepGetSubdomain, StepUploadWorker, StepPublish},
		Plan(Request{WorkerName: "hello"}))

	assert.Equal(t,
		[]Step{StepCreateNamespace, StepFetchScript, StepGetSubdomain, StepUploadWorker, StepPublish},
		Plan(Request{WorkerName: "hello", KV: &KVRequest{Title: "ns", VariableName: "CACHE"}}))
}

func TestRun_SuccessWithoutKV(t *testing.T) {
	backend := &fakeBackend{script: "export default {}", subdomain: "acme"}
	c, out := newTestCreator(t, backend)

	res, err := c.Run(context.Background(), Request{WorkerName: "hello", ScriptURL: StaticURL("https://example.com/w.js")})

	require.NoError(t, err)
	assert.Equal(t, "https://hello.acme.workers.dev", res.URL)
	assert.Equal(t, []string{"FetchScript", "GetSubdomain", "UploadWorker", "PublishOnSubdomain"}, backend.calls)
	require.Len(t, backend.uploaded, 1)
	assert.Nil(t, backend.uploaded[0].Binding)
	assert.Equal(t, "export default {}", backend.uploaded[0].Script)
	assert.Contains(t, out.String(), "You can visit your worker at: https://hello.acme.workers.dev")
}

func TestRun_SuccessWithKVBindsNamespace(t *testing.T) {
	backend := &fakeBackend{namespaceID: "ns-1", script: "export default {}", subdomain: "acme"}
	c, _ := newTestCreator(t, backend)

	res, err := c.Run(context.Background(), Request{
		WorkerName: "demo",
		KV:         &KVRequest{Title: "sessions", VariableName: "CACHE"},
		ScriptURL:  StaticURL("https://example.com/w.js"),
	})

	require.NoError(t, err)
	assert.Equal(t, "ns-1", res.NamespaceID)
	assert.Equal(t, "https://demo.acme.workers.dev", res.URL)
	require.Len(t, backend.uploaded, 1)
	assert.Equal(t, &api.KVBinding{NamespaceID: "ns-1", VariableName: "CACHE"}, backend.uploaded[0].Binding)
}

func TestRun_NamespaceFailureStopsEverything(t *testing.T) {
	backend := &fakeBackend{namespaceErr: remoteErr("create KV namespace", 400)}
	c, out := newTestCreator(t, backend)

	urlAsked := false
	res, err := c.Run(context.Background(), Request{
		WorkerName: "demo",
		KV:         &KVRequest{Title: "sessions", VariableName: "CACHE"},
		ScriptURL: func() (string, error) {
			urlAsked = true
			return "https://example.com/w.js", nil
		},
	})

	assert.Nil(t, res)
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepCreateNamespace, stepErr.Step)
	assert.Equal(t, 400, api.StatusCode(err))

	assert.Equal(t, []string{"CreateNamespace"}, backend.calls)
	assert.False(t, urlAsked)
	assert.Contains(t, out.String(), "Failed to create KV namespace.")
	assert.NotContains(t, out.String(), "workers.dev")
}

func TestRun_UploadFailureSkipsPublish(t *testing.T) {
	backend := &fakeBackend{script: "x", subdomain: "acme", uploadErr: remoteErr("create/update worker", 400)}
	c, out := newTestCreator(t, backend)

	_, err := c.Run(context.Background(), Request{WorkerName: "hello", ScriptURL: StaticURL("u")})

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepUploadWorker, stepErr.Step)
	assert.NotContains(t, backend.calls, "PublishOnSubdomain")
	assert.Contains(t, out.String(), "Failed to create the worker.")
	assert.NotContains(t, out.String(), "You can visit your worker")
}

func TestRun_StepFailureMessages(t *testing.T) {
	tests := []struct {
		name     string
		backend  *fakeBackend
		step     Step
		message  string
		lastCall string
	}{
		{
			name:     "fetch",
			backend:  &fakeBackend{fetchErr: remoteErr("fetch worker script", 404)},
			step:     StepFetchScript,
			message:  "Failed to fetch the worker script.",
			lastCall: "FetchScript",
		},
		{
			name:     "subdomain",
			backend:  &fakeBackend{script: "x", subdomainErr: remoteErr("retrieve workers.dev subdomain", 403)},
			step:     StepGetSubdomain,
			message:  "Failed to retrieve workers.dev subdomain.",
			lastCall: "GetSubdomain",
		},
		{
			name:     "publish",
			backend:  &fakeBackend{script: "x", subdomain: "acme", publishErr: remoteErr("publish worker on workers.dev subdomain", 500)},
			step:     StepPublish,
			message:  "Failed to publish the worker on workers.dev subdomain.",
			lastCall: "PublishOnSubdomain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCreator(t, tt.backend)

			res, err := c.Run(context.Background(), Request{WorkerName: "hello", ScriptURL: StaticURL("u")})

			assert.Nil(t, res)
			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, tt.step, stepErr.Step)
			assert.Equal(t, tt.lastCall, tt.backend.calls[len(tt.backend.calls)-1])
			assert.Contains(t, out.String(), tt.message)
			assert.NotContains(t, out.String(), "You can visit your worker")
		})
	}
}

func TestRun_EmptyResultFailsStep(t *testing.T) {
	tests := []struct {
		name     string
		backend  *fakeBackend
		step     Step
		message  string
		lastCall string
	}{
		{
			name:     "namespace id",
			backend:  &fakeBackend{script: "x", subdomain: "acme"},
			step:     StepCreateNamespace,
			message:  "Failed to create KV namespace.",
			lastCall: "CreateNamespace",
		},
		{
			name:     "script body",
			backend:  &fakeBackend{namespaceID: "ns-1", subdomain: "acme"},
			step:     StepFetchScript,
			message:  "Failed to fetch the worker script.",
			lastCall: "FetchScript",
		},
		{
			name:     "subdomain",
			backend:  &fakeBackend{namespaceID: "ns-1", script: "x"},
			step:     StepGetSubdomain,
			message:  "Failed to retrieve workers.dev subdomain.",
			lastCall: "GetSubdomain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCreator(t, tt.backend)

			res, err := c.Run(context.Background(), Request{
				WorkerName: "hello",
				KV:         &KVRequest{Title: "sessions", VariableName: "CACHE"},
				ScriptURL:  StaticURL("u"),
			})

			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrEmptyResult)
			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, tt.step, stepErr.Step)
			assert.Equal(t, tt.lastCall, tt.backend.calls[len(tt.backend.calls)-1])
			assert.NotContains(t, tt.backend.calls, "UploadWorker")
			assert.Contains(t, out.String(), "❌ "+tt.message+"\n")
			assert.NotContains(t, out.String(), "You can visit your worker")
		})
	}
}

func TestRun_ScriptURLInputEndsRunQuietly(t *testing.T) {
	backend := &fakeBackend{namespaceID: "ns-1"}
	c, out := newTestCreator(t, backend)

	_, err := c.Run(context.Background(), Request{
		WorkerName: "hello",
		KV:         &KVRequest{Title: "sessions", VariableName: "CACHE"},
		ScriptURL:  func() (string, error) { return "", io.EOF },
	})

	assert.ErrorIs(t, err, io.EOF)
	var stepErr *StepError
	assert.False(t, errors.As(err, &stepErr))
	assert.Equal(t, []string{"CreateNamespace"}, backend.calls)
	assert.NotContains(t, out.String(), "Failed to fetch the worker script.")
}

func TestRun_EmptyVariableNameUploadsWithoutBinding(t *testing.T) {
	backend := &fakeBackend{namespaceID: "ns-1", script: "x", subdomain: "acme"}
	c, out := newTestCreator(t, backend)

	_, err := c.Run(context.Background(), Request{
		WorkerName: "hello",
		KV:         &KVRequest{Title: "sessions"},
		ScriptURL:  StaticURL("u"),
	})

	require.NoError(t, err)
	require.Len(t, backend.uploaded, 1)
	assert.Nil(t, backend.uploaded[0].Binding)
	assert.Contains(t, out.String(), "uploading without one")
}
