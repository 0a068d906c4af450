// Copyright 2021-2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"sort"
	"strconv"
	"time"

	"github.com/diffeo/go-adaptavist/restdata"
)

const (
	testResultsURL   = "rest/atm/1.0/testrun/{run}/testresults"
	testResultURL    = "rest/atm/1.0/testrun/{run}/testcase/{case}/testresult"
	reportResultsURL = "rest/tests/1.0/reports/testresults{?startAt,maxResults}"
)

// TestExecutionResults returns the test results of every test run at
// once, through the Jira-side reports endpoint, which is much faster
// than asking run by run.  With lastResultOnly set, results that
// have since been overwritten by a newer execution are left out.
// The listing is best effort: a failed page ends it with what was
// collected so far, and rows the report endpoint returns in an
// unexpected shape are skipped with a warning.
func (c *Client) TestExecutionResults(lastResultOnly bool) []restdata.ExecutionResult {
	rows := collectPages(func(startAt int) ([]map[string]interface{}, error) {
		c.log.Debugf("Asking for 10000 test results starting at %v", startAt)
		var page restdata.ReportResults
		err := c.get(reportResultsURL, map[string]interface{}{
			"startAt":    strconv.Itoa(startAt),
			"maxResults": "10000",
		}, &page)
		return page.Results, err
	})
	var results []restdata.ExecutionResult
	for _, row := range rows {
		result, err := restdata.ExtractExecutionResult(row)
		if err != nil {
			c.log.WithError(err).Warn("Skipping malformed test result row")
			continue
		}
		if lastResultOnly && !result.LastResult {
			continue
		}
		results = append(results, result)
	}
	return results
}

// TestResults returns all test results of a test run, one per item,
// each with its script results in step order.
func (c *Client) TestResults(runKey string) ([]restdata.TestResult, error) {
	c.log.Debugf("Getting all test results for run %v", runKey)
	var results []restdata.TestResult
	err := c.get(testResultsURL, map[string]interface{}{"run": runKey}, &results)
	if err != nil {
		if notFound(err) {
			err = ErrNoSuchTestRun{Key: runKey}
		}
		return nil, err
	}
	for i := range results {
		scripts := results[i].ScriptResults
		sort.Slice(scripts, func(a, b int) bool {
			return scripts[a].Index < scripts[b].Index
		})
	}
	return results, nil
}

// TestResult returns the latest result of one test case in a test
// run.
func (c *Client) TestResult(runKey, caseKey string) (restdata.TestResult, error) {
	results, err := c.TestResults(runKey)
	if err != nil {
		return restdata.TestResult{}, err
	}
	for _, result := range results {
		if result.TestCaseKey == caseKey {
			return result, nil
		}
	}
	return restdata.TestResult{}, ErrNoSuchTestResult{TestRun: runKey, TestCase: caseKey}
}

// CreateTestResultsOptions holds the optional parameters of
// Client.CreateTestResults().
type CreateTestResultsOptions struct {
	// Environment to distinguish multiple executions, recorded
	// on every result.
	Environment string

	// ExcludeExistingTestCases drops results whose test case the
	// run already holds an item for, so that only results for
	// new test cases are created.  This is how test cases are
	// added to an existing run.
	ExcludeExistingTestCases bool

	// Assignee is recorded on every result: nil lets the
	// configured executor resolver decide, a pointer to ""
	// records the results as unassigned.
	Assignee *string

	// Executor works like Assignee for the executedBy record.
	Executor *string
}

// CreateTestResults creates test results in bulk for a test run and
// returns the ids of the results created.  If every result was
// dropped as excluded, or none were given, nothing is written at
// all.
func (c *Client) CreateTestResults(runKey string, results []restdata.NewTestResult, opts CreateTestResultsOptions) ([]int, error) {
	run, err := c.TestRun(runKey)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(run.Items))
	for _, item := range run.Items {
		existing[item.TestCaseKey] = true
	}

	assignee := c.resolveIdentity(opts.Assignee)
	executor := c.resolveIdentity(opts.Executor)
	environment := optionalString(opts.Environment)

	var data []restdata.NewTestResult
	for _, result := range results {
		if opts.ExcludeExistingTestCases && existing[result.TestCaseKey] {
			continue
		}
		result.AssignedTo = assignee
		result.ExecutedBy = executor
		result.Environment = environment
		data = append(data, result)
	}
	if len(data) == 0 {
		return nil, nil
	}

	c.log.Debugf("Creating test results for run %v", runKey)
	var created []restdata.Created
	if err := c.post(testResultsURL, map[string]interface{}{"run": runKey}, data, &created); err != nil {
		return nil, err
	}
	ids := make([]int, len(created))
	for i, entry := range created {
		ids[i] = entry.ID
	}
	return ids, nil
}

// CreateTestResultOptions holds the optional parameters of
// Client.CreateTestResult().
type CreateTestResultOptions struct {
	// Comment to record alongside the status.
	Comment string

	// ExecuteTime is how long the execution took.  The wire
	// format has millisecond resolution.  Zero is not recorded.
	ExecuteTime time.Duration

	// Environment to distinguish multiple executions.
	Environment string

	// Assignee is recorded on the result: nil lets the
	// configured executor resolver decide, a pointer to ""
	// records the result as unassigned.
	Assignee *string

	// Executor works like Assignee for the executedBy record.
	Executor *string

	// IssueLinks names Jira issues to link the result to.
	IssueLinks []string
}

// CreateTestResult creates a new result for one test case in a test
// run and returns its id.  An empty status is recorded as
// StatusNotExecuted.
func (c *Client) CreateTestResult(runKey, caseKey, status string, opts CreateTestResultOptions) (int, error) {
	if status == "" {
		status = StatusNotExecuted
	}
	data := restdata.NewTestResult{
		Status:      status,
		Comment:     opts.Comment,
		Environment: optionalString(opts.Environment),
		AssignedTo:  c.resolveIdentity(opts.Assignee),
		ExecutedBy:  c.resolveIdentity(opts.Executor),
		IssueLinks:  opts.IssueLinks,
	}
	if opts.ExecuteTime != 0 {
		data.ExecutionTime = int(opts.ExecuteTime.Milliseconds())
	}
	c.log.Debugf("Creating test result for %v in %v", caseKey, runKey)
	var created restdata.Created
	err := c.post(testResultURL, map[string]interface{}{
		"run":  runKey,
		"case": caseKey,
	}, data, &created)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// EditTestResultOptions holds the changes for
// Client.EditTestResultStatus().  The zero value changes nothing
// beyond the status.
type EditTestResultOptions struct {
	// Comment replaces the result comment: nil leaves it alone,
	// a pointer to "" clears it.
	Comment *string

	// ExecuteTime replaces how long the execution took; nil
	// leaves it alone.
	ExecuteTime *time.Duration

	// Environment replaces the environment record; nil leaves it
	// alone.
	Environment *string

	// Assignee replaces the assignedTo record: nil leaves it
	// alone, a pointer to "" makes the result unassigned.
	Assignee *string

	// Executor works like Assignee for the executedBy record.
	Executor *string

	// IssueLinks merges into or replaces the linked issues.
	IssueLinks Delta
}

// EditTestResultStatus updates the latest result of one test case in
// a test run to carry the given status, plus whatever options are
// set.  An empty status keeps the current one.  Only fields that
// actually change are written, though any write must carry a status;
// if nothing changes, nothing is written at all.
func (c *Client) EditTestResultStatus(runKey, caseKey, status string, opts EditTestResultOptions) error {
	current, err := c.TestResult(runKey, caseKey)
	if err != nil {
		return err
	}

	if status == "" {
		status = current.Status
	}
	patch := restdata.Patch{}
	if status != current.Status {
		patch["status"] = status
	}
	if opts.Comment != nil && *opts.Comment != current.Comment {
		patch["comment"] = *opts.Comment
	}
	if opts.ExecuteTime != nil {
		if ms := int(opts.ExecuteTime.Milliseconds()); ms != current.ExecutionTime {
			patch["executionTime"] = ms
		}
	}
	if opts.Environment != nil && *opts.Environment != current.Environment {
		patch["environment"] = *opts.Environment
	}
	if opts.Assignee != nil && *opts.Assignee != current.AssignedTo {
		patch["assignedTo"] = optionalString(*opts.Assignee)
	}
	if opts.Executor != nil && *opts.Executor != current.ExecutedBy {
		patch["executedBy"] = optionalString(*opts.Executor)
	}
	if next, changed := opts.IssueLinks.Apply(current.IssueLinks); changed {
		patch["issueLinks"] = next
	}

	if len(patch) == 0 {
		return nil
	}
	// The endpoint insists on a status with every write.
	patch["status"] = status
	c.log.Debugf("Updating test result for %v in %v", caseKey, runKey)
	return c.put(testResultURL, map[string]interface{}{
		"run":  runKey,
		"case": caseKey,
	}, patch, nil)
}

// resolveIdentity turns an assignee or executor option into its wire
// value: nil asks the configured resolver, and an empty name means
// unassigned, which the API spells as null.
func (c *Client) resolveIdentity(option *string) *string {
	name := ""
	if option == nil {
		name = c.executor()
	} else {
		name = *option
	}
	return optionalString(name)
}

// optionalString returns a pointer to s, or nil if s is empty, for
// wire fields that spell "none" as null.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
