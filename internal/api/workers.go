package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudflare/cloudflare-go"
)

const (
	opUploadWorker = "create/update worker"
	opGetSubdomain = "retrieve workers.dev subdomain"
	opPublish      = "publish worker on workers.dev subdomain"
	opListWorkers  = "list workers"
	opDeleteWorker = "delete worker"
)

// Worker describes a deployed worker script.
type Worker struct {
	ID         string
	CreatedOn  time.Time
	ModifiedOn time.Time
}

func (c *Client) scriptPath(name string) string {
	return fmt.Sprintf("/accounts/%s/workers/scripts/%s", c.creds.AccountID, name)
}

// UploadWorker creates the worker or replaces its script. The script is
// uploaded as an ES module and bound to def.Binding when one is given.
func (c *Client) UploadWorker(ctx context.Context, def WorkerDefinition) error {
	body, contentType, err := encodeUpload(def)
	if err != nil {
		c.out.Error("Failed to %s: %v", opUploadWorker, err)
		return fmt.Errorf("%s: %w", opUploadWorker, err)
	}

	headers := make(http.Header)
	headers.Set("Content-Type", contentType)

	err = c.call(opUploadWorker, "Uploading worker "+def.Name, func() error {
		_, err := c.cf.Raw(ctx, http.MethodPut, c.scriptPath(def.Name), body, headers)
		return err
	})
	if err != nil {
		c.out.Error("Failed to %v", err)
		return err
	}

	if def.Binding != nil {
		c.out.Success("Worker %s created/updated successfully and bound to KV namespace with variable name %q.", def.Name, def.Binding.VariableName)
	} else {
		c.out.Success("Worker %s created/updated successfully without KV namespace binding.", def.Name)
	}
	return nil
}

// GetSubdomain returns the account's workers.dev subdomain label.
func (c *Client) GetSubdomain(ctx context.Context) (string, error) {
	var result struct {
		Subdomain string `json:"subdomain"`
	}

	err := c.call(opGetSubdomain, "Looking up workers.dev subdomain", func() error {
		res, err := c.cf.Raw(ctx, http.MethodGet, fmt.Sprintf("/accounts/%s/workers/subdomain", c.creds.AccountID), nil, nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(res.Result, &result)
	})
	if err != nil {
		c.out.Error("Failed to %v", err)
		return "", err
	}

	c.out.Success("Workers.dev subdomain retrieved: %s", result.Subdomain)
	return result.Subdomain, nil
}

// PublishOnSubdomain enables the worker on the workers.dev subdomain.
// Publishing an already published worker is harmless.
func (c *Client) PublishOnSubdomain(ctx context.Context, name string) error {
	err := c.call(opPublish, "Publishing worker "+name, func() error {
		_, err := c.cf.Raw(ctx, http.MethodPost, c.scriptPath(name)+"/subdomain", map[string]bool{"enabled": true}, nil)
		return err
	})
	if err != nil {
		c.out.Error("Failed to %v", err)
		return err
	}

	c.out.Success("Worker %q published on workers.dev subdomain successfully.", name)
	return nil
}

// ListWorkers returns the account's workers in the order the API lists
// them. An account without workers yields an empty, non-nil slice.
func (c *Client) ListWorkers(ctx context.Context) ([]Worker, error) {
	var res cloudflare.WorkerListResponse
	err := c.call(opListWorkers, "Listing workers", func() error {
		var err error
		res, _, err = c.cf.ListWorkers(ctx, c.account(), cloudflare.ListWorkersParams{})
		return err
	})
	if err != nil {
		c.out.Error("Failed to %v", err)
		return nil, err
	}

	workers := make([]Worker, 0, len(res.WorkerList))
	for _, w := range res.WorkerList {
		workers = append(workers, Worker{ID: w.ID, CreatedOn: w.CreatedOn, ModifiedOn: w.ModifiedOn})
	}

	if len(workers) == 0 {
		c.out.Info("No workers found.")
		return workers, nil
	}

	c.out.Println("List of workers:")
	for _, w := range workers {
		c.out.Println("- %s", w.ID)
	}
	return workers, nil
}

// DeleteWorker removes the worker script. Deleting a worker that does not
// exist fails with the remote 404.
func (c *Client) DeleteWorker(ctx context.Context, name string) error {
	err := c.call(opDeleteWorker, "Deleting worker "+name, func() error {
		return c.cf.DeleteWorker(ctx, c.account(), cloudflare.DeleteWorkerParams{ScriptName: name})
	})
	if err != nil {
		c.out.Error("Failed to %v", err)
		return err
	}

	c.out.Success("Worker %q deleted successfully.", name)
	return nil
}
