// Package params extracts per-call Jenkins connection parameters from the
// flat key-value mapping supplied by the management platform's parameter
// storage. Extraction validates once at the boundary and returns a typed
// Connection, so the engine never touches raw keys.
package params

import (
	"net/url"
	"strings"

	"buildbridge/internal/apperrors"
)

// Parameter keys as stored by the management platform. Their names and
// required presence are part of the integration contract.
const (
	KeyURL         = "service:build:jenkins:url"
	KeyUser        = "service:build:jenkins:user"
	KeyToken       = "service:build:jenkins:api-token"
	KeyJob         = "service:build:jenkins:job"
	KeyTemplateJob = "service:build:jenkins:template-job"
)

// ReasonBadURL is the reason code attached to a missing or malformed URL.
const ReasonBadURL = "jenkins-url"

// Source is the parameter storage accessor. Errors returned by Value
// propagate to the engine caller unchanged.
type Source interface {
	Value(key string) (string, error)
}

// Map is the plain in-memory Source. Absent keys yield empty strings.
type Map map[string]string

// Value implements Source. It never fails.
func (m Map) Value(key string) (string, error) {
	return m[key], nil
}

// Connection holds the validated per-call connection parameters.
type Connection struct {
	URL         string
	User        string
	Token       string
	Job         string
	TemplateJob string
}

// Extract builds a Connection from src. Accessor failures are returned as-is;
// a missing or non-absolute URL yields a validation error on the URL key.
func Extract(src Source) (*Connection, error) {
	conn := &Connection{}

	raw, err := src.Value(KeyURL)
	if err != nil {
		return nil, err
	}
	u, perr := url.Parse(raw)
	if raw == "" || perr != nil || !u.IsAbs() || u.Host == "" {
		return nil, apperrors.Validation(KeyURL, ReasonBadURL)
	}
	// Trailing slash would double up when paths are appended.
	conn.URL = strings.TrimSuffix(raw, "/")

	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyUser, &conn.User},
		{KeyToken, &conn.Token},
		{KeyJob, &conn.Job},
		{KeyTemplateJob, &conn.TemplateJob},
	} {
		v, err := src.Value(f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	return conn, nil
}
