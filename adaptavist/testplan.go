// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"strconv"

	"github.com/diffeo/go-adaptavist/restdata"
)

const (
	testPlanURL       = "rest/atm/1.0/testplan/{key}"
	newTestPlanURL    = "rest/atm/1.0/testplan"
	testPlanSearchURL = "rest/atm/1.0/testplan/search{?query,startAt}"
)

// TestPlan returns one test plan by key.
func (c *Client) TestPlan(key string) (restdata.TestPlan, error) {
	c.log.Debugf("Getting test plan %v", key)
	var testPlan restdata.TestPlan
	err := c.get(testPlanURL, map[string]interface{}{"key": key}, &testPlan)
	if notFound(err) {
		err = ErrNoSuchTestPlan{Key: key}
	}
	return testPlan, err
}

// TestPlans returns the test plans matching a search query.  An
// empty query matches every test plan.  The listing is best effort:
// a failed page ends it with what was collected so far.
func (c *Client) TestPlans(query string) []restdata.TestPlan {
	if query == "" {
		// The search endpoint rejects an empty query; this
		// filter matches everything.
		query = `folder <= "/"`
	}
	return collectPages(func(startAt int) ([]restdata.TestPlan, error) {
		c.log.Debugf("Asking for test plans matching %v starting at %v", query, startAt)
		var page []restdata.TestPlan
		err := c.get(testPlanSearchURL, map[string]interface{}{
			"query":   query,
			"startAt": strconv.Itoa(startAt),
		}, &page)
		return page, err
	})
}

// CreateTestPlanOptions holds the optional parameters of
// Client.CreateTestPlan().
type CreateTestPlanOptions struct {
	// Folder is the path of the folder to hold the test plan,
	// created first if it does not exist yet.  Empty means the
	// root folder.
	Folder string

	// Objective describes the purpose of the test plan.
	Objective string

	// Status of the test plan.  If unset, uses StatusApproved.
	Status string

	// Labels to attach to the test plan.
	Labels []string

	// IssueLinks names Jira issues to link the test plan to.
	IssueLinks []string

	// TestRuns names test runs to link into the test plan.
	TestRuns []string
}

// CreateTestPlan creates a new test plan and returns its key.
func (c *Client) CreateTestPlan(projectKey, name string, opts CreateTestPlanOptions) (string, error) {
	if _, err := c.CreateFolder(projectKey, FolderTestPlan, opts.Folder); err != nil {
		return "", err
	}
	data := restdata.NewTestPlan{
		ProjectKey:  projectKey,
		Name:        name,
		Folder:      restdata.NormalizeFolderPath(opts.Folder),
		Status:      opts.Status,
		Objective:   opts.Objective,
		Labels:      opts.Labels,
		IssueLinks:  opts.IssueLinks,
		TestRunKeys: opts.TestRuns,
	}
	if data.Status == "" {
		data.Status = StatusApproved
	}
	if data.Labels == nil {
		data.Labels = []string{}
	}
	if data.IssueLinks == nil {
		data.IssueLinks = []string{}
	}
	if data.TestRunKeys == nil {
		data.TestRunKeys = []string{}
	}
	c.log.Debugf("Creating test plan %v in project %v", name, projectKey)
	var created restdata.Created
	if err := c.post(newTestPlanURL, map[string]interface{}{}, data, &created); err != nil {
		return "", err
	}
	return created.Key, nil
}

// EditTestPlanOptions holds the changes for Client.EditTestPlan().
// The zero value changes nothing.
type EditTestPlanOptions struct {
	// Name replaces the test plan name if non-empty.
	Name string

	// Objective replaces the objective if non-empty.
	Objective string

	// Status replaces the workflow status if non-empty.
	Status string

	// Folder moves the test plan: nil leaves it where it is, a
	// pointer to "" or "/" moves it to the root folder, and
	// anything else moves it to that path, creating the folder
	// first if needed.
	Folder *string

	// Labels merges into or replaces the label list.
	Labels Delta

	// IssueLinks merges into or replaces the linked issues.
	IssueLinks Delta

	// TestRuns merges into or replaces the keys of the linked
	// test runs.
	TestRuns Delta
}

// EditTestPlan updates a test plan.  Only fields that actually
// change are written back; if nothing changes, nothing is written at
// all.
func (c *Client) EditTestPlan(key string, opts EditTestPlanOptions) error {
	current, err := c.TestPlan(key)
	if err != nil {
		return err
	}

	patch := restdata.Patch{}
	patchString(patch, "name", opts.Name, current.Name)
	patchString(patch, "objective", opts.Objective, current.Objective)
	patchString(patch, "status", opts.Status, current.Status)

	if opts.Folder != nil {
		folder := restdata.NormalizeFolderPath(*opts.Folder)
		if folder != restdata.NormalizeFolderPath(string(current.Folder)) {
			if _, err := c.CreateFolder(current.ProjectKey, FolderTestPlan, *opts.Folder); err != nil {
				return err
			}
			patch["folder"] = folder
		}
	}

	if next, changed := opts.Labels.Apply(current.Labels); changed {
		patch["labels"] = next
	}
	if next, changed := opts.IssueLinks.Apply(current.IssueLinks); changed {
		patch["issueLinks"] = next
	}
	runKeys := make([]string, len(current.TestRuns))
	for i, run := range current.TestRuns {
		runKeys[i] = run.Key
	}
	if next, changed := opts.TestRuns.Apply(runKeys); changed {
		patch["testRuns"] = next
	}

	if len(patch) == 0 {
		return nil
	}
	c.log.Debugf("Updating test plan %v", key)
	return c.put(testPlanURL, map[string]interface{}{"key": key}, patch, nil)
}
