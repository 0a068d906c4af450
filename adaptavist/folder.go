// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"strconv"

	"github.com/diffeo/go-adaptavist/restdata"
)

const (
	folderTreeURL = "rest/tests/1.0/project/{project}/foldertree/{type}{?startAt,maxResults}"
	newFolderURL  = "rest/atm/1.0/folder"
)

// Folders returns every folder path of one type in a project, from
// the root "/" down, in the service's depth-first order.
func (c *Client) Folders(projectKey string, folderType FolderType) ([]restdata.FolderPath, error) {
	projectID, err := c.projectID(projectKey)
	if err != nil {
		return nil, err
	}
	c.log.Debugf("Getting %v folders in project %v", folderType, projectKey)
	var tree restdata.FolderTree
	err = c.get(folderTreeURL, map[string]interface{}{
		"project":    strconv.Itoa(projectID),
		"type":       folderType.treeSegment(),
		"startAt":    "0",
		"maxResults": "200",
	}, &tree)
	if err != nil {
		return nil, err
	}
	return tree.Paths(), nil
}

// CreateFolder creates a folder in a project, unless it exists
// already.  The name goes through the usual path normalization.
// Returns the id of the created folder, or zero if the folder was
// already there; the root folder always is.
func (c *Client) CreateFolder(projectKey string, folderType FolderType, name string) (int, error) {
	path := restdata.NormalizeFolderPath(name)
	if path.IsRoot() {
		return 0, nil
	}
	existing, err := c.Folders(projectKey, folderType)
	if err != nil {
		return 0, err
	}
	for _, folder := range existing {
		if folder == path {
			return 0, nil
		}
	}
	c.log.Debugf("Creating folder %v (%v) in project %v", path, folderType, projectKey)
	data := restdata.NewFolder{
		ProjectKey: projectKey,
		Name:       string(path),
		Type:       string(folderType),
	}
	var created restdata.Created
	if err := c.post(newFolderURL, map[string]interface{}{}, data, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}
