package engine

import (
	"context"

	"buildbridge/internal/params"
)

// Job is the normalized view of a CI job. ID is the server-local job name
// used in URLs; Name and Description stay empty when the server response
// omits them.
type Job struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Building    bool   `json:"building"`
}

// SubscriptionStatus reports job-level health for one subscription.
type SubscriptionStatus struct {
	Up  bool `json:"up"`
	Job *Job `json:"job,omitempty"`
}

// BuildEngine is the contract between the API layer and a CI engine.
type BuildEngine interface {
	// ValidateAdminAccess checks reachability, credentials and administrative
	// rights in order, returning the server version on success.
	ValidateAdminAccess(ctx context.Context, src params.Source) (string, error)

	// ValidateJob resolves the configured job's current status.
	ValidateJob(ctx context.Context, src params.Source) (*Job, error)

	// FindAllByName lists jobs whose id matches the criteria.
	FindAllByName(ctx context.Context, src params.Source, criteria string) ([]Job, error)

	// FindAllTemplateByName lists template jobs whose id matches the criteria.
	FindAllTemplateByName(ctx context.Context, src params.Source, criteria string) ([]Job, error)

	// FindByID resolves one job by its exact id.
	FindByID(ctx context.Context, src params.Source, id string) (*Job, error)

	// Build triggers a build of the configured job.
	Build(ctx context.Context, src params.Source) error

	// Create clones the configured template job into a new job.
	Create(ctx context.Context, src params.Source) error

	// Delete removes the remote job when deleteRemote is set; otherwise it is
	// a local-only unlink and performs no network call.
	Delete(ctx context.Context, src params.Source, deleteRemote bool) error

	// Version fetches the server version.
	Version(ctx context.Context, src params.Source) (string, error)

	// LastVersion fetches the latest released server version from the update
	// center.
	LastVersion(ctx context.Context) (string, error)

	// CheckStatus reports node-level health.
	CheckStatus(ctx context.Context, src params.Source) (bool, error)

	// CheckSubscriptionStatus reports job-level health with the resolved job.
	CheckSubscriptionStatus(ctx context.Context, src params.Source) (*SubscriptionStatus, error)
}
