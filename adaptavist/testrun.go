// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diffeo/go-adaptavist/restdata"
)

const (
	testRunURL           = "rest/atm/1.0/testrun/{key}"
	newTestRunURL        = "rest/atm/1.0/testrun"
	testRunSearchURL     = "rest/atm/1.0/testrun/search{?query,startAt,maxResults,fields}"
	testRunNameSearchURL = "rest/tests/1.0/testrun/search{?startAt,maxResults,query,fields}"
)

// TestRun returns one test run by key, including its items.
func (c *Client) TestRun(key string) (restdata.TestRun, error) {
	c.log.Debugf("Getting test run %v", key)
	var testRun restdata.TestRun
	err := c.get(testRunURL, map[string]interface{}{"key": key}, &testRun)
	if notFound(err) {
		err = ErrNoSuchTestRun{Key: key}
	}
	return testRun, err
}

// TestRunByName looks up a test run by its name, returning the last
// one of that name and whether there was one at all.  Only the key
// and name fields of the result are filled in.  The lookup runs
// through the Jira-side search index, which is much faster than
// scanning test runs through the test management API.
func (c *Client) TestRunByName(name string) (restdata.TestRun, bool) {
	query := fmt.Sprintf("testRun.name = %q", name)
	runs := collectPages(func(startAt int) ([]restdata.TestRun, error) {
		c.log.Debugf("Asking for 10000 test runs starting at %v", startAt)
		var page restdata.SearchResults
		err := c.get(testRunNameSearchURL, map[string]interface{}{
			"startAt":    strconv.Itoa(startAt),
			"maxResults": "10000",
			"query":      query,
			"fields":     "id,key,name",
		}, &page)
		return page.Results, err
	})
	if len(runs) == 0 {
		return restdata.TestRun{}, false
	}
	last := runs[len(runs)-1]
	return restdata.TestRun{Key: last.Key, Name: last.Name}, true
}

// TestRuns returns the test runs matching a search query.  An empty
// query matches every test run.  If no fields are named, the service
// returns complete test runs, including all of their result items,
// which can be slow; naming fields such as "key", "name", "items"
// trims the results to those.  The listing is best effort: a failed
// page ends it with what was collected so far.
func (c *Client) TestRuns(query string, fields ...string) []restdata.TestRun {
	if query == "" {
		// The search endpoint rejects an empty query; this
		// filter matches everything.
		query = `folder = "/"`
	}
	fieldList := strings.Join(fields, ",")
	return collectPages(func(startAt int) ([]restdata.TestRun, error) {
		c.log.Debugf("Asking for 1000 test runs matching %v starting at %v", query, startAt)
		var page []restdata.TestRun
		err := c.get(testRunSearchURL, map[string]interface{}{
			"query":      query,
			"startAt":    strconv.Itoa(startAt),
			"maxResults": "1000",
			"fields":     fieldList,
		}, &page)
		return page, err
	})
}

// TestRunLinks returns the test runs linked to a Jira issue.  The
// listing is best effort in the same way as Client.TestRuns().
func (c *Client) TestRunLinks(issueKey string) []restdata.TestRun {
	c.log.Debugf("Looking for test runs linked to %v", issueKey)
	var linked []restdata.TestRun
	for _, run := range c.TestRuns("") {
		if run.IssueKey == issueKey {
			linked = append(linked, run)
		}
	}
	return linked
}

// CreateTestRunOptions holds the optional parameters of
// Client.CreateTestRun().
type CreateTestRunOptions struct {
	// Folder is the path of the folder to hold the test run,
	// created first if it does not exist yet.  Empty means the
	// root folder.
	Folder string

	// IssueKey names a Jira issue to link the test run to.
	IssueKey string

	// TestPlanKey names a test plan to link the test run to.
	TestPlanKey string

	// TestCases names the test cases to execute; the run gets
	// one item per key, in order.
	TestCases []string

	// Environment to distinguish multiple executions, recorded
	// on every item.
	Environment string
}

// CreateTestRun creates a new test run and returns its key.
func (c *Client) CreateTestRun(projectKey, name string, opts CreateTestRunOptions) (string, error) {
	if _, err := c.CreateFolder(projectKey, FolderTestRun, opts.Folder); err != nil {
		return "", err
	}
	items := make([]restdata.NewTestRunItem, len(opts.TestCases))
	for i, testCaseKey := range opts.TestCases {
		items[i] = restdata.NewTestRunItem{
			TestCaseKey: testCaseKey,
			Environment: optionalString(opts.Environment),
		}
	}
	data := restdata.NewTestRun{
		ProjectKey:  projectKey,
		TestPlanKey: optionalString(opts.TestPlanKey),
		Name:        name,
		Folder:      restdata.NormalizeFolderPath(opts.Folder),
		IssueKey:    optionalString(opts.IssueKey),
		Items:       items,
	}
	c.log.Debugf("Creating new test run %v in project %v", name, projectKey)
	var created restdata.Created
	if err := c.post(newTestRunURL, map[string]interface{}{}, data, &created); err != nil {
		return "", err
	}
	return created.Key, nil
}

// CloneTestRunOptions holds the optional parameters of
// Client.CloneTestRun().
type CloneTestRunOptions struct {
	// Name of the clone.  If unset, the clone is named after the
	// original, with a "(cloned from ...)" suffix.
	Name string

	// Folder is the path of the folder to hold the clone.  If
	// unset, uses the original's folder.
	Folder string

	// TestPlanKey names a test plan to link the clone to.  If
	// unset, the clone is instead linked into every test plan
	// that holds the original.
	TestPlanKey string

	// ProjectKey is the project to clone into.  If unset, uses
	// the original's project.
	ProjectKey string

	// Environment to record on the clone's items.  If unset,
	// uses the environment of the original's first item.
	Environment string
}

// CloneTestRun creates a copy of an existing test run, with one
// fresh item per item of the original, and returns the clone's key.
func (c *Client) CloneTestRun(key string, opts CloneTestRunOptions) (string, error) {
	original, err := c.TestRun(key)
	if err != nil {
		return "", err
	}

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%v (cloned from %v)", original.Name, original.Key)
	}
	projectKey := opts.ProjectKey
	if projectKey == "" {
		projectKey = original.ProjectKey
	}
	folder := opts.Folder
	if folder == "" {
		folder = string(original.Folder)
	}
	environment := opts.Environment
	if environment == "" && len(original.Items) > 0 {
		environment = original.Items[0].Environment
	}
	testCases := make([]string, len(original.Items))
	for i, item := range original.Items {
		testCases[i] = item.TestCaseKey
	}

	cloneKey, err := c.CreateTestRun(projectKey, name, CreateTestRunOptions{
		Folder:      folder,
		IssueKey:    original.IssueKey,
		TestPlanKey: opts.TestPlanKey,
		TestCases:   testCases,
		Environment: environment,
	})
	if err != nil || opts.TestPlanKey != "" {
		return cloneKey, err
	}

	// Link the clone into every test plan holding the original.
	// These links are best effort; the clone itself already
	// exists.
	for _, plan := range c.TestPlans("") {
		for _, run := range plan.TestRuns {
			if run.Key != original.Key {
				continue
			}
			err := c.EditTestPlan(plan.Key, EditTestPlanOptions{TestRuns: Merge(cloneKey)})
			if err != nil {
				c.log.WithError(err).Warnf("Could not link clone %v into test plan %v", cloneKey, plan.Key)
			}
			break
		}
	}
	return cloneKey, nil
}
