package jenkins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		token    string
		status   string
		building bool
	}{
		{"blue", "blue", false},
		{"blue_anime", "blue", true},
		{"yellow", "yellow", false},
		{"yellow_anime", "yellow", true},
		{"red_anime", "red", true},
		{"disabled", "disabled", false},
		{"notbuilt", "notbuilt", false},
		{"", "", false},
	}
	for _, tt := range tests {
		status, building := parseColor(tt.token)
		assert.Equal(t, tt.status, status, "token %q", tt.token)
		assert.Equal(t, tt.building, building, "token %q", tt.token)
	}
}

func TestParseJobFeedMinimal(t *testing.T) {
	feed, err := parseJobFeed([]byte(`<hudson><job><name>ligoj-bootstrap</name><color>disabled</color></job></hudson>`))
	require.NoError(t, err)
	require.Len(t, feed.Jobs, 1)

	job := feed.Jobs[0].toJob()
	assert.Equal(t, "ligoj-bootstrap", job.ID)
	assert.Empty(t, job.Name)
	assert.Empty(t, job.Description)
	assert.Equal(t, "disabled", job.Status)
	assert.False(t, job.Building)
}

func TestParseJobFeedEmpty(t *testing.T) {
	feed, err := parseJobFeed([]byte(`<hudson/>`))
	require.NoError(t, err)
	assert.Empty(t, feed.Jobs)
}

func TestParseJobFeedInvalid(t *testing.T) {
	_, err := parseJobFeed([]byte(`<html>FORBIDDEN`))
	require.Error(t, err)
}
