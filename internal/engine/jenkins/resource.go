// Package jenkins implements the Jenkins-side protocol of the build bridge:
// credential and access validation, job status resolution, listing, build
// triggering, template-based creation and deletion.
package jenkins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"buildbridge/internal/apperrors"
	"buildbridge/internal/config"
	"buildbridge/internal/engine"
	"buildbridge/internal/logger"
	"buildbridge/internal/params"
)

// Reason codes attached to validation errors.
const (
	ReasonConnection = "jenkins-connection"
	ReasonLogin      = "jenkins-login"
	ReasonRights     = "jenkins-rights"
	ReasonJob        = "jenkins-job"
)

// versionHeader carries the Jenkins core version on API responses.
const versionHeader = "x-jenkins"

// Resource exposes the Jenkins operations. Each call extracts its connection
// parameters, runs a short sequence of HTTP round trips and returns a typed
// result or a classified error; no state is held across calls.
type Resource struct {
	timeout         time.Duration
	updateCenterURL string
	plain           *http.Client
}

// NewResource creates a Resource from the node configuration.
func NewResource(cfg config.JenkinsConfig) *Resource {
	timeout := time.Duration(cfg.Timeout) * time.Second
	return &Resource{
		timeout:         timeout,
		updateCenterURL: cfg.UpdateCenterURL,
		plain:           &http.Client{Timeout: timeout},
	}
}

var _ engine.BuildEngine = (*Resource)(nil)

// client extracts the connection parameters and builds a transport for them.
func (r *Resource) client(src params.Source) (*Client, *params.Connection, error) {
	conn, err := params.Extract(src)
	if err != nil {
		return nil, nil, err
	}
	return NewClient(conn, r.timeout), conn, nil
}

// probe is one rung of the admin validation ladder: the request path, the
// parameter the failure is attached to and its reason code.
type probe struct {
	path      string
	parameter string
	reason    string
}

// adminProbes is evaluated in order; each rung checks a strictly narrower
// capability (reachability, credentials, administrative rights), so the
// first failure pinpoints the offending input.
var adminProbes = []probe{
	{"/login", params.KeyURL, ReasonConnection},
	{"/api/xml", params.KeyUser, ReasonLogin},
	{"/computer/(master)/config.xml", params.KeyUser, ReasonRights},
}

// ValidateAdminAccess runs the probe ladder and returns the server version.
// The first failing rung short-circuits with a validation error tagged to
// the parameter that caused it; no further probes are attempted.
func (r *Resource) ValidateAdminAccess(ctx context.Context, src params.Source) (string, error) {
	c, _, err := r.client(src)
	if err != nil {
		return "", err
	}

	for _, p := range adminProbes {
		resp, err := c.get(ctx, p.path)
		if err != nil || !resp.success() {
			logger.Info("Jenkins access probe failed", "path", p.path, "parameter", p.parameter, "reason", p.reason)
			return "", apperrors.Validation(p.parameter, p.reason)
		}
	}

	return r.version(ctx, c)
}

// Version fetches the server version from the executor count API, taken
// verbatim from the response header.
func (r *Resource) Version(ctx context.Context, src params.Source) (string, error) {
	c, _, err := r.client(src)
	if err != nil {
		return "", err
	}
	return r.version(ctx, c)
}

func (r *Resource) version(ctx context.Context, c *Client) (string, error) {
	resp, err := c.get(ctx, "/api/json?tree=numExecutors")
	if err != nil || !resp.success() {
		return "", apperrors.Validation(params.KeyURL, ReasonConnection)
	}
	return resp.header.Get(versionHeader), nil
}

// updateCenter is the subset of the update-center document carrying the
// latest released core version.
type updateCenter struct {
	Core struct {
		Version string `json:"version"`
	} `json:"core"`
}

// LastVersion fetches the latest released Jenkins version from the update
// center. Failures yield an empty version; callers treat it as unknown.
func (r *Resource) LastVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.updateCenterURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.plain.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("update center answered %d", resp.StatusCode)
	}

	var uc updateCenter
	if err := json.NewDecoder(resp.Body).Decode(&uc); err != nil {
		return "", err
	}
	return uc.Core.Version, nil
}

// jobStatusPath builds the filtered single-job query: depth=1 limits the
// tree walk, the xpath selects the one job and wrapper=hudson keeps the
// response a well-formed document when the filter matches nothing.
func jobStatusPath(id string) string {
	return fmt.Sprintf("/api/xml?depth=1&tree=jobs[displayName,name,color]&xpath=hudson/job[name='%s']&wrapper=hudson", id)
}

// jobStatus resolves one job by id. A 404, a transport failure, an
// unparseable body and an empty <hudson/> all classify as job-not-found.
func (r *Resource) jobStatus(ctx context.Context, c *Client, id string) (*engine.Job, error) {
	resp, err := c.get(ctx, jobStatusPath(id))
	if err != nil || !resp.success() {
		return nil, apperrors.Validation(params.KeyJob, ReasonJob)
	}

	feed, err := parseJobFeed(resp.body)
	if err != nil || len(feed.Jobs) == 0 {
		return nil, apperrors.Validation(params.KeyJob, ReasonJob)
	}

	job := feed.Jobs[0].toJob()
	if job.ID == "" {
		job.ID = id
	}
	return &job, nil
}

// ValidateJob resolves the configured job's status, raising job-not-found on
// the job parameter when the server does not know it.
func (r *Resource) ValidateJob(ctx context.Context, src params.Source) (*engine.Job, error) {
	c, conn, err := r.client(src)
	if err != nil {
		return nil, err
	}
	return r.jobStatus(ctx, c, conn.Job)
}

// FindByID resolves one job by its exact id, ignoring the configured job.
func (r *Resource) FindByID(ctx context.Context, src params.Source, id string) (*engine.Job, error) {
	c, _, err := r.client(src)
	if err != nil {
		return nil, err
	}
	return r.jobStatus(ctx, c, id)
}

// FindAllByName lists jobs whose id contains the criteria.
func (r *Resource) FindAllByName(ctx context.Context, src params.Source, criteria string) ([]engine.Job, error) {
	return r.findAll(ctx, src, "", criteria)
}

// FindAllTemplateByName lists jobs of the Templates view whose id contains
// the criteria.
func (r *Resource) FindAllTemplateByName(ctx context.Context, src params.Source, criteria string) ([]engine.Job, error) {
	return r.findAll(ctx, src, "/view/Templates", criteria)
}

// findAll lists and filters jobs under the given view. Request failures,
// including rejected credentials, degrade to an empty result: discovery must
// not block on permission issues. Matching is case-insensitive on the job id
// and server order is preserved.
func (r *Resource) findAll(ctx context.Context, src params.Source, view, criteria string) ([]engine.Job, error) {
	c, _, err := r.client(src)
	if err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, view+"/api/xml?tree=jobs[name,displayName,description,color]")
	if err != nil || !resp.success() {
		logger.Info("Jenkins job listing unavailable", "view", view)
		return []engine.Job{}, nil
	}

	feed, err := parseJobFeed(resp.body)
	if err != nil {
		return []engine.Job{}, nil
	}

	lower := strings.ToLower(criteria)
	jobs := make([]engine.Job, 0, len(feed.Jobs))
	for _, e := range feed.Jobs {
		if strings.Contains(strings.ToLower(e.Name), lower) {
			jobs = append(jobs, e.toJob())
		}
	}
	return jobs, nil
}

// Build triggers a build of the configured job. A 5xx answer means the job
// requires parameters; the trigger is retried once against
// buildWithParameters. Any other failure is fatal.
func (r *Resource) Build(ctx context.Context, src params.Source) error {
	c, conn, err := r.client(src)
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, "/job/"+conn.Job+"/build", "", nil)
	if err != nil {
		return apperrors.Business("trigger build", err)
	}
	if resp.success() {
		return nil
	}

	if resp.status >= 500 {
		fallback, err := c.post(ctx, "/job/"+conn.Job+"/buildWithParameters", "", nil)
		if err == nil && fallback.success() {
			return nil
		}
		if err != nil {
			return apperrors.Business("trigger parameterized build", err)
		}
		return apperrors.Business("trigger parameterized build", fmt.Errorf("unexpected status %d", fallback.status))
	}

	return apperrors.Business("trigger build", fmt.Errorf("unexpected status %d", resp.status))
}

// Create clones the configured template job into a new job: fetch the
// template's config.xml, enable the copy, post it under the new name. A
// failed createItem is fatal and not retried; the caller remediates (e.g. a
// name collision) and resubmits. Nothing is registered server-side until the
// POST succeeds, so a partial failure leaves no residue.
func (r *Resource) Create(ctx context.Context, src params.Source) error {
	c, conn, err := r.client(src)
	if err != nil {
		return err
	}

	resp, err := c.get(ctx, "/job/"+conn.TemplateJob+"/config.xml")
	if err != nil {
		return apperrors.Business("fetch template configuration", err)
	}
	if !resp.success() {
		return apperrors.Business("fetch template configuration", fmt.Errorf("unexpected status %d", resp.status))
	}

	// Templates are kept disabled; the clone starts enabled.
	cfgXML := strings.ReplaceAll(string(resp.body), "<disabled>true</disabled>", "<disabled>false</disabled>")

	resp, err = c.post(ctx, "/createItem?name="+conn.Job, "application/xml", strings.NewReader(cfgXML))
	if err != nil {
		return apperrors.Business("create job", err)
	}
	if !resp.success() {
		return apperrors.Business("create job", fmt.Errorf("unexpected status %d", resp.status))
	}

	logger.Info("Jenkins job created", "job", conn.Job, "template", conn.TemplateJob)
	return nil
}

// Delete removes the remote job when deleteRemote is set. A local-only
// unlink performs no network call. doDelete answers with a redirect on
// success; accepted statuses are 2xx and the enumerated 3xx codes, anything
// else is fatal and left to the caller to retry.
func (r *Resource) Delete(ctx context.Context, src params.Source, deleteRemote bool) error {
	if !deleteRemote {
		return nil
	}

	c, conn, err := r.client(src)
	if err != nil {
		return err
	}

	resp, err := c.postNoRedirect(ctx, "/job/"+conn.Job+"/doDelete")
	if err != nil {
		return apperrors.Business("delete job", err)
	}
	if !resp.success() && !resp.redirect() {
		return apperrors.Business("delete job", fmt.Errorf("unexpected status %d", resp.status))
	}

	logger.Info("Jenkins job deleted", "job", conn.Job)
	return nil
}

// CheckStatus reports node-level health: whether the admin validation ladder
// passes for the configured node.
func (r *Resource) CheckStatus(ctx context.Context, src params.Source) (bool, error) {
	if _, err := r.ValidateAdminAccess(ctx, src); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CheckSubscriptionStatus reports job-level health with the resolved job.
func (r *Resource) CheckSubscriptionStatus(ctx context.Context, src params.Source) (*engine.SubscriptionStatus, error) {
	job, err := r.ValidateJob(ctx, src)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return &engine.SubscriptionStatus{Up: false}, nil
		}
		return nil, err
	}
	return &engine.SubscriptionStatus{Up: true, Job: job}, nil
}
