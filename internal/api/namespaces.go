package api

import (
	"context"

	"github.com/cloudflare/cloudflare-go"
)

const (
	opCreateNamespace = "create KV namespace"
	opListNamespaces  = "list KV namespaces"
)

// Namespace is a Workers KV namespace.
type Namespace struct {
	ID    string
	Title string
}

// CreateNamespace creates a KV namespace and returns its ID. Titles are not
// unique: calling it twice with the same title creates two namespaces.
func (c *Client) CreateNamespace(ctx context.Context, title string) (string, error) {
	var res cloudflare.WorkersKVNamespaceResponse
	err := c.call(opCreateNamespace, "Creating KV namespace", func() error {
		var err error
		res, err = c.cf.CreateWorkersKVNamespace(ctx, c.account(), cloudflare.CreateWorkersKVNamespaceParams{
			Title: title,
		})
		return err
	})
	if err != nil {
		c.out.Error("Failed to %v", err)
		return "", err
	}

	c.out.Success("KV namespace %q created successfully with ID: %s", title, res.Result.ID)
	return res.Result.ID, nil
}

// ListNamespaces returns every KV namespace in the account.
func (c *Client) ListNamespaces(ctx context.Context) ([]Namespace, error) {
	var found []cloudflare.WorkersKVNamespace
	err := c.call(opListNamespaces, "Listing KV namespaces", func() error {
		var err error
		found, _, err = c.cf.ListWorkersKVNamespaces(ctx, c.account(), cloudflare.ListWorkersKVNamespacesParams{})
		return err
	})
	if err != nil {
		c.out.Error("Failed to %v", err)
		return nil, err
	}

	namespaces := make([]Namespace, 0, len(found))
	for _, ns := range found {
		namespaces = append(namespaces, Namespace{ID: ns.ID, Title: ns.Title})
	}
	return namespaces, nil
}
