// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"github.com/diffeo/go-adaptavist/restdata"
)

const environmentsURL = "rest/atm/1.0/environments{?projectKey}"

// Environments returns the environments defined in a project.
func (c *Client) Environments(projectKey string) ([]restdata.Environment, error) {
	c.log.Debugf("Asking for environments in project %v", projectKey)
	var environments []restdata.Environment
	err := c.get(environmentsURL, map[string]interface{}{
		"projectKey": projectKey,
	}, &environments)
	if err != nil {
		return nil, err
	}
	return environments, nil
}

// CreateEnvironmentOptions holds the optional parameters of
// Client.CreateEnvironment().
type CreateEnvironmentOptions struct {
	// Description is a free-text description of the environment.
	Description string
}

// CreateEnvironment creates a new environment in a project and
// returns its id.
func (c *Client) CreateEnvironment(projectKey, name string, opts CreateEnvironmentOptions) (int, error) {
	c.log.Debugf("Creating environment %v in project %v", name, projectKey)
	data := restdata.NewEnvironment{
		ProjectKey:  projectKey,
		Name:        name,
		Description: opts.Description,
	}
	var created restdata.Created
	if err := c.post(environmentsURL, map[string]interface{}{}, data, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}
