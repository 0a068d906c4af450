// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"github.com/diffeo/go-adaptavist/restdata"
)

const projectsURL = "rest/tests/1.0/project"

// Projects returns all projects known to the test management
// service, with the numeric id alongside each key.
func (c *Client) Projects() ([]restdata.Project, error) {
	c.log.Debug("Asking for project list")
	var projects []restdata.Project
	err := c.get(projectsURL, map[string]interface{}{}, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// projectID resolves a project key to the numeric id used by parts
// of the service that do not accept keys.
func (c *Client) projectID(projectKey string) (int, error) {
	projects, err := c.Projects()
	if err != nil {
		return 0, err
	}
	for _, project := range projects {
		if project.Key == projectKey {
			return project.ID, nil
		}
	}
	return 0, ErrNoSuchProject{Key: projectKey}
}
