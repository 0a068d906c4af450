// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"strconv"
	"time"

	"github.com/diffeo/go-adaptavist/restdata"
)

const (
	testCaseURL       = "rest/atm/1.0/testcase/{key}"
	newTestCaseURL    = "rest/atm/1.0/testcase"
	testCaseSearchURL = "rest/atm/1.0/testcase/search{?query,startAt}"
	issueLinkURL      = "rest/atm/1.0/issuelink/{issue}/testcases"
)

// TestCase returns one test case by key.
func (c *Client) TestCase(key string) (restdata.TestCase, error) {
	c.log.Debugf("Getting test case %v", key)
	var testCase restdata.TestCase
	err := c.get(testCaseURL, map[string]interface{}{"key": key}, &testCase)
	if notFound(err) {
		err = ErrNoSuchTestCase{Key: key}
	}
	return testCase, err
}

// TestCases returns the test cases matching a search query, such as
// `projectKey = "TEST"`.  An empty query matches every test case.
// The listing is best effort: a failed page ends it with what was
// collected so far.
func (c *Client) TestCases(query string) []restdata.TestCase {
	if query == "" {
		// The search endpoint rejects an empty query; this
		// filter matches everything.
		query = `folder <= "/"`
	}
	return collectPages(func(startAt int) ([]restdata.TestCase, error) {
		c.log.Debugf("Asking for test cases matching %v starting at %v", query, startAt)
		var page []restdata.TestCase
		err := c.get(testCaseSearchURL, map[string]interface{}{
			"query":   query,
			"startAt": strconv.Itoa(startAt),
		}, &page)
		return page, err
	})
}

// CreateTestCaseOptions holds the optional parameters of
// Client.CreateTestCase().
type CreateTestCaseOptions struct {
	// Folder is the path of the folder to hold the test case,
	// created first if it does not exist yet.  Empty means the
	// root folder.
	Folder string

	// Objective describes the overall purpose of the test case.
	Objective string

	// Precondition describes what must hold before the test case
	// can be run.
	Precondition string

	// Priority of the test case.  If unset, uses PriorityNormal.
	Priority string

	// EstimatedTime is the expected execution time.  The wire
	// format has millisecond resolution.
	EstimatedTime time.Duration

	// Status of the test case.  If unset, uses StatusApproved.
	Status string

	// Labels to attach to the test case.
	Labels []string

	// IssueLinks names Jira issues to link the test case to.
	IssueLinks []string

	// Steps of the test case's step-by-step script.
	Steps []restdata.TestScriptStep
}

// CreateTestCase creates a new test case and returns its key.
func (c *Client) CreateTestCase(projectKey, name string, opts CreateTestCaseOptions) (string, error) {
	if _, err := c.CreateFolder(projectKey, FolderTestCase, opts.Folder); err != nil {
		return "", err
	}
	data := restdata.NewTestCase{
		ProjectKey:   projectKey,
		Name:         name,
		Folder:       restdata.NormalizeFolderPath(opts.Folder),
		Status:       opts.Status,
		Objective:    opts.Objective,
		Precondition: opts.Precondition,
		Priority:     opts.Priority,
		Labels:       opts.Labels,
		IssueLinks:   opts.IssueLinks,
		TestScript: &restdata.TestScript{
			Type:  StepTypeByStep,
			Steps: opts.Steps,
		},
	}
	if data.Status == "" {
		data.Status = StatusApproved
	}
	if data.Priority == "" {
		data.Priority = PriorityNormal
	}
	if opts.EstimatedTime != 0 {
		ms := int(opts.EstimatedTime.Milliseconds())
		data.EstimatedTime = &ms
	}
	if data.Labels == nil {
		data.Labels = []string{}
	}
	if data.IssueLinks == nil {
		data.IssueLinks = []string{}
	}
	if data.TestScript.Steps == nil {
		data.TestScript.Steps = []restdata.TestScriptStep{}
	}
	c.log.Debugf("Creating test case %v in project %v", name, projectKey)
	var created restdata.Created
	if err := c.post(newTestCaseURL, map[string]interface{}{}, data, &created); err != nil {
		return "", err
	}
	return created.Key, nil
}

// EditTestCaseOptions holds the changes for Client.EditTestCase().
// The zero value changes nothing.
type EditTestCaseOptions struct {
	// Name replaces the test case name if non-empty.
	Name string

	// Objective replaces the objective if non-empty.
	Objective string

	// Precondition replaces the precondition if non-empty.
	Precondition string

	// Priority replaces the priority if non-empty.
	Priority string

	// Status replaces the workflow status if non-empty.
	Status string

	// EstimatedTime replaces the expected execution time if
	// nonzero.
	EstimatedTime time.Duration

	// Folder moves the test case: nil leaves it where it is, a
	// pointer to "" or "/" moves it to the root folder, and
	// anything else moves it to that path, creating the folder
	// first if needed.
	Folder *string

	// Labels merges into or replaces the label list.
	Labels Delta

	// IssueLinks merges into or replaces the linked issues.
	IssueLinks Delta

	// BuildURLs merges into or replaces the ci_server_url custom
	// field, which holds one build URL per line.
	BuildURLs Delta

	// CodeBases merges into or replaces the code_base_url custom
	// field, which holds one repository URL per line.
	CodeBases Delta
}

// EditTestCase updates a test case.  Only fields that actually
// change are written back; if nothing changes, nothing is written at
// all.
func (c *Client) EditTestCase(key string, opts EditTestCaseOptions) error {
	current, err := c.TestCase(key)
	if err != nil {
		return err
	}

	patch := restdata.Patch{}
	patchString(patch, "name", opts.Name, current.Name)
	patchString(patch, "objective", opts.Objective, current.Objective)
	patchString(patch, "precondition", opts.Precondition, current.Precondition)
	patchString(patch, "priority", opts.Priority, current.Priority)
	patchString(patch, "status", opts.Status, current.Status)
	if ms := int(opts.EstimatedTime.Milliseconds()); ms != 0 && ms != current.EstimatedTime {
		patch["estimatedTime"] = ms
	}

	if opts.Folder != nil {
		folder := restdata.NormalizeFolderPath(*opts.Folder)
		if folder != restdata.NormalizeFolderPath(string(current.Folder)) {
			if _, err := c.CreateFolder(current.ProjectKey, FolderTestCase, *opts.Folder); err != nil {
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
	if next, changed := opts.BuildURLs.ApplyMultiline(current.CustomFields.String("ci_server_url")); changed {
		patch.SetCustomField("ci_server_url", next)
	}
	if next, changed := opts.CodeBases.ApplyMultiline(current.CustomFields.String("code_base_url")); changed {
		patch.SetCustomField("code_base_url", next)
	}

	if len(patch) == 0 {
		return nil
	}
	c.log.Debugf("Updating test case %v", key)
	return c.put(testCaseURL, map[string]interface{}{"key": key}, patch, nil)
}

// DeleteTestCase deletes a test case outright.
func (c *Client) DeleteTestCase(key string) error {
	c.log.Debugf("Deleting test case %v", key)
	err := c.delete(testCaseURL, map[string]interface{}{"key": key})
	if notFound(err) {
		err = ErrNoSuchTestCase{Key: key}
	}
	return err
}

// TestCaseLinks returns the test cases linked to a Jira issue.
func (c *Client) TestCaseLinks(issueKey string) ([]restdata.TestCase, error) {
	c.log.Debugf("Getting test cases linked to %v", issueKey)
	var testCases []restdata.TestCase
	err := c.get(issueLinkURL, map[string]interface{}{"issue": issueKey}, &testCases)
	if err != nil {
		return nil, err
	}
	return testCases, nil
}

// LinkTestCases links a Jira issue to each of a list of test cases.
// Test cases that cannot be fetched are skipped with a warning, and
// ones already linked to the issue are left alone.  The first
// failing write ends the loop, leaving the links already made in
// place.
func (c *Client) LinkTestCases(issueKey string, testCaseKeys []string) error {
	for _, key := range testCaseKeys {
		testCase, err := c.TestCase(key)
		if err != nil {
			c.log.Warnf("Test case %v was not found", key)
			continue
		}
		links, changed := Merge(issueKey).Apply(testCase.IssueLinks)
		if !changed {
			continue
		}
		c.log.Debugf("Linking %v to test case %v", issueKey, key)
		patch := restdata.Patch{"issueLinks": links}
		if err := c.put(testCaseURL, map[string]interface{}{"key": key}, patch, nil); err != nil {
			return err
		}
	}
	return nil
}

// UnlinkTestCases removes the link to a Jira issue from each of a
// list of test cases.  Test cases that cannot be fetched are skipped
// with a warning, and ones not linked to the issue are left alone.
// The first failing write ends the loop, leaving the earlier
// removals in place.
func (c *Client) UnlinkTestCases(issueKey string, testCaseKeys []string) error {
	for _, key := range testCaseKeys {
		testCase, err := c.TestCase(key)
		if err != nil {
			c.log.Warnf("Test case %v was not found", key)
			continue
		}
		links := make([]string, 0, len(testCase.IssueLinks))
		for _, link := range testCase.IssueLinks {
			if link != issueKey {
				links = append(links, link)
			}
		}
		if len(links) == len(testCase.IssueLinks) {
			continue
		}
		c.log.Debugf("Unlinking %v from test case %v", issueKey, key)
		patch := restdata.Patch{"issueLinks": links}
		if err := c.put(testCaseURL, map[string]interface{}{"key": key}, patch, nil); err != nil {
			return err
		}
	}
	return nil
}

// patchString records a scalar field in a patch if the option is set
// and differs from the current value.
func patchString(patch restdata.Patch, name, option, current string) {
	if option != "" && option != current {
		patch[name] = option
	}
}
