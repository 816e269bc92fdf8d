package jenkins

import (
	"encoding/xml"
	"strings"

	"buildbridge/internal/engine"
)

// buildingSuffix marks a color token as currently building, e.g.
// "blue_anime" is a passing job with a build in progress.
const buildingSuffix = "_anime"

// hudsonFeed is the root element of the XML job listings. Both the filtered
// single-job query (wrapper=hudson) and the tree listing use this shape.
type hudsonFeed struct {
	XMLName xml.Name
	Jobs    []jobEntry `xml:"job"`
}

// jobEntry is one <job> element. DisplayName and Description are absent in
// the minimal listing mode.
type jobEntry struct {
	Name        string `xml:"name"`
	DisplayName string `xml:"displayName"`
	Description string `xml:"description"`
	Color       string `xml:"color"`
}

// parseJobFeed decodes a hudson XML body.
func parseJobFeed(body []byte) (*hudsonFeed, error) {
	feed := &hudsonFeed{}
	if err := xml.Unmarshal(body, feed); err != nil {
		return nil, err
	}
	return feed, nil
}

// toJob normalizes a parsed entry into an engine.Job.
func (e jobEntry) toJob() engine.Job {
	status, building := parseColor(e.Color)
	return engine.Job{
		ID:          e.Name,
		Name:        e.DisplayName,
		Description: e.Description,
		Status:      status,
		Building:    building,
	}
}

// parseColor derives the normalized status and the building flag from a raw
// color token. Pure function over the token, independent of transport.
func parseColor(token string) (status string, building bool) {
	status = strings.TrimSuffix(token, buildingSuffix)
	return status, status != token
}
