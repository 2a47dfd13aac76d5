package cmd

import (
	"fmt"
	"strings"

	"redsync/config"
	"redsync/internal/exitcode"
)

// remoteParams are the values every server-touching command needs. Each one
// can come from a flag or from the config file; flags win.
type remoteParams struct {
	URL       string
	APIKey    string
	Input     string
	ProjectID int64
	UserID    int64
}

func resolveRemoteParams(cfg *config.Config, url, apiKey, input string, projectID, userID int64) (*remoteParams, error) {
	params := &remoteParams{
		URL:       firstNonEmpty(url, cfg.Redmine.URL),
		APIKey:    firstNonEmpty(apiKey, cfg.Redmine.APIKey),
		Input:     firstNonEmpty(input, cfg.Sync.Input),
		ProjectID: projectID,
		UserID:    userID,
	}
	if params.ProjectID <= 0 {
		params.ProjectID = cfg.Sync.ProjectID
	}
	if params.UserID <= 0 {
		params.UserID = cfg.Sync.UserID
	}

	missing := make([]string, 0, 5)
	if params.URL == "" {
		missing = append(missing, "url")
	}
	if params.APIKey == "" {
		missing = append(missing, "api-key")
	}
	if params.Input == "" {
		missing = append(missing, "input")
	}
	if params.ProjectID <= 0 {
		missing = append(missing, "project")
	}
	if params.UserID <= 0 {
		missing = append(missing, "user")
	}
	if len(missing) > 0 {
		return nil, exitcode.Wrap(exitcode.Usage,
			fmt.Errorf("missing required parameters: %s (set flags or config values)", strings.Join(missing, ", ")))
	}

	return params, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
