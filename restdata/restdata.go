// Copyright 2021-2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines the wire-format data structures for the
// Adaptavist Test Management for Jira Server REST API.  JSON encodings
// of these are passed across the wire as plain application/json.
//
// API Layout
//
// The service exposes three URL roots under the Jira base URL.  The
// documented test-management API lives under rest/atm/1.0 and carries
// the entity types in this package: environments, folders, test
// cases, test plans, test runs, and test results.  Two further roots
// are Jira internals that the documented API has no equivalent for:
// rest/tests/1.0 serves the project list, folder trees, a faster
// test-run search, and bulk test-result reports, and rest/api/2
// serves the Jira user search.
//
// Pagination
//
// List endpoints page with a startAt query parameter counting items,
// not pages.  The documented API returns a bare JSON array per page
// and signals the end of the collection with an empty array.  The
// rest/tests/1.0 search and report endpoints instead wrap each page
// in an envelope object whose "results" field holds the array; see
// SearchResults and ReportResults.
//
// Encoding Considerations
//
// The root folder is represented asymmetrically: requests must send
// JSON null (or omit the field), while responses carry "/", a
// "/"-prefixed path, or no field at all.  The FolderPath type maps
// between the two forms; see its documentation.
//
// Durations, where they appear (estimatedTime, executionTime), are
// numbers of milliseconds.  Timestamps are strings in an RFC
// 3339-like format chosen by the server; they are passed through
// undecoded except in report rows, where ExtractExecutionResult
// parses them.
//
// A test result's scriptResults rows arrive with one entry per
// script step, in no particular order, carrying more fields than the
// service will accept back.  On writes only the index, status, and
// comment fields may be sent; the ScriptResult type carries exactly
// those, so re-encoding a fetched row produces an acceptable one.
//
// Some list-valued fields use different names on different verbs:
// a test plan is created with "testRunKeys" but read and updated
// through "testRuns", and the read form holds objects rather than
// keys.
//
// Errors
//
// Failing requests usually carry an ErrorResponse body with either a
// single message or a list of them, alongside a failing HTTP status.
// Some endpoints return plain text instead; callers should fall back
// to the raw body when decoding fails.
package restdata

// JSONMediaType is the MIME type for request and response bodies.
// The service speaks plain JSON; there is no vendor type.
const JSONMediaType = "application/json"

// Project identifies a single Jira project.
type Project struct {
	// ID is the numeric project id, used in rest/tests/1.0 URLs.
	ID int `json:"id"`

	// Key is the short uppercase project key, e.g. "TEST".
	Key string `json:"key"`

	// Name is the human-readable project name.
	Name string `json:"name"`
}

// User is one row of the Jira user search.  Only Key is meaningful to
// the test management service; the other fields are informational.
type User struct {
	Key          string `json:"key"`
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Environment describes an execution environment within a project,
// used to distinguish multiple executions of the same test case.
type Environment struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewEnvironment is the request body for creating an environment.
type NewEnvironment struct {
	ProjectKey  string `json:"projectKey"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewFolder is the request body for creating a folder.  Name carries
// the normalized "/"-prefixed path; the root folder is never posted.
type NewFolder struct {
	ProjectKey string `json:"projectKey"`
	Name       string `json:"name"`
	Type       string `json:"type"`
}

// TestScript holds the scripted steps of a test case.
type TestScript struct {
	// Type is a step type constant, "STEP_BY_STEP" or "PLAIN_TEXT".
	Type string `json:"type"`

	// Steps holds the individual steps, for step-by-step scripts.
	Steps []TestScriptStep `json:"steps"`
}

// TestScriptStep is a single step of a step-by-step test script.
// Index is assigned by the server and does not need to be provided
// when posting data.
type TestScriptStep struct {
	Index          int    `json:"index,omitempty"`
	Description    string `json:"description,omitempty"`
	TestData       string `json:"testData,omitempty"`
	ExpectedResult string `json:"expectedResult,omitempty"`
}

// CustomFields is the open-ended bag of per-project custom field
// values on a test case.  Values are usually strings but the service
// does not promise that.
type CustomFields map[string]interface{}

// String returns the named custom field as a string, or "" if the
// field is absent or not a string.
func (f CustomFields) String(name string) string {
	if value, ok := f[name].(string); ok {
		return value
	}
	return ""
}

// TestCase contains all of the details of a single test case.
type TestCase struct {
	// Key is the test case key, e.g. "TEST-T123".  Assigned by the
	// server on creation and immutable afterwards.
	Key string `json:"key"`

	// ProjectKey names the project owning this test case.
	ProjectKey string `json:"projectKey"`

	Name string `json:"name"`

	// Folder holds the folder path of the test case.  Responses may
	// omit the field entirely for the root folder.
	Folder FolderPath `json:"folder"`

	// Status is a workflow status name, e.g. "Draft" or "Approved".
	Status string `json:"status"`

	// Priority is a priority name, e.g. "Low", "Normal", "High".
	Priority string `json:"priority,omitempty"`

	// Objective is the overall description of the test case's purpose.
	Objective string `json:"objective,omitempty"`

	// Precondition describes what must hold before executing.
	Precondition string `json:"precondition,omitempty"`

	// EstimatedTime is the expected execution time in milliseconds.
	EstimatedTime int `json:"estimatedTime,omitempty"`

	// Owner is the Jira user key of the owner, if any.
	Owner string `json:"owner,omitempty"`

	Labels     []string `json:"labels,omitempty"`
	IssueLinks []string `json:"issueLinks,omitempty"`

	CustomFields CustomFields `json:"customFields,omitempty"`

	TestScript *TestScript `json:"testScript,omitempty"`
}

// NewTestCase is the request body for creating a test case.
type NewTestCase struct {
	ProjectKey string `json:"projectKey"`
	Name       string `json:"name"`

	// Folder marshals as null for the root folder.
	Folder FolderPath `json:"folder"`

	Status       string `json:"status"`
	Objective    string `json:"objective,omitempty"`
	Precondition string `json:"precondition,omitempty"`
	Priority     string `json:"priority"`

	// EstimatedTime is in milliseconds; nil sends an explicit null.
	EstimatedTime *int `json:"estimatedTime"`

	Labels     []string `json:"labels"`
	IssueLinks []string `json:"issueLinks"`

	TestScript *TestScript `json:"testScript,omitempty"`
}

// TestPlan contains all of the details of a single test plan.
type TestPlan struct {
	Key        string     `json:"key"`
	ProjectKey string     `json:"projectKey"`
	Name       string     `json:"name"`
	Folder     FolderPath `json:"folder"`
	Status     string     `json:"status"`
	Objective  string     `json:"objective,omitempty"`

	Labels     []string `json:"labels,omitempty"`
	IssueLinks []string `json:"issueLinks,omitempty"`

	// TestRuns holds the linked test runs as objects; only their
	// keys are needed to update the link list, which is written
	// back as a plain list of keys under the same field name.
	TestRuns []TestRun `json:"testRuns,omitempty"`
}

// NewTestPlan is the request body for creating a test plan.  Note
// that linked test runs are given as "testRunKeys" here but come
// back as "testRuns" objects on reads.
type NewTestPlan struct {
	ProjectKey  string     `json:"projectKey"`
	Name        string     `json:"name"`
	Folder      FolderPath `json:"folder"`
	Status      string     `json:"status"`
	Objective   string     `json:"objective,omitempty"`
	Labels      []string   `json:"labels"`
	IssueLinks  []string   `json:"issueLinks"`
	TestRunKeys []string   `json:"testRunKeys"`
}

// TestRun contains the details of a single test run.  Search
// endpoints return the same shape with most fields absent when a
// field selection is given.
type TestRun struct {
	ID         int        `json:"id,omitempty"`
	Key        string     `json:"key"`
	ProjectKey string     `json:"projectKey,omitempty"`
	Name       string     `json:"name"`
	Folder     FolderPath `json:"folder"`
	Status     string     `json:"status,omitempty"`

	// IssueKey links the run to a Jira issue, if any.
	IssueKey string `json:"issueKey,omitempty"`

	TestPlanKey string `json:"testPlanKey,omitempty"`

	// Items holds one entry per test case included in the run.
	Items []TestRunItem `json:"items,omitempty"`
}

// TestRunItem is one test case's slot within a test run.
type TestRunItem struct {
	ID          int    `json:"id,omitempty"`
	TestCaseKey string `json:"testCaseKey"`
	Environment string `json:"environment,omitempty"`
	Status      string `json:"status,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	ExecutedBy  string `json:"executedBy,omitempty"`
}

// NewTestRun is the request body for creating a test run.  The
// pointer fields send an explicit null when unset, which the service
// treats as "none".
type NewTestRun struct {
	ProjectKey  string           `json:"projectKey"`
	TestPlanKey *string          `json:"testPlanKey"`
	Name        string           `json:"name"`
	Folder      FolderPath       `json:"folder"`
	IssueKey    *string          `json:"issueKey"`
	Items       []NewTestRunItem `json:"items"`
}

// NewTestRunItem adds one test case to a created test run.
type NewTestRunItem struct {
	TestCaseKey string `json:"testCaseKey"`

	// Environment is null for "no environment".
	Environment *string `json:"environment"`
}

// SearchResults is the page envelope returned by the rest/tests/1.0
// test run search.
type SearchResults struct {
	Results []TestRun `json:"results"`
}

// ScriptResult is the per-step outcome within a test result.  On
// writes the service accepts exactly these fields and rejects
// anything further, so fetched rows re-encode safely.
type ScriptResult struct {
	// Index is the zero-based step index.
	Index int `json:"index"`

	Status  string `json:"status,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// TestResult is one execution outcome of a test case within a test
// run.
type TestResult struct {
	ID          int    `json:"id"`
	TestCaseKey string `json:"testCaseKey,omitempty"`

	// Status is a result status name, e.g. "Pass" or "Fail".
	Status string `json:"status"`

	Environment string `json:"environment,omitempty"`
	Comment     string `json:"comment,omitempty"`

	// ExecutedBy and AssignedTo are Jira user keys; empty means
	// unassigned.
	ExecutedBy string `json:"executedBy,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`

	// ExecutionTime is in milliseconds.
	ExecutionTime int `json:"executionTime,omitempty"`

	// ExecutionDate is a server-formatted timestamp, passed through
	// undecoded.
	ExecutionDate string `json:"executionDate,omitempty"`

	Automated  bool     `json:"automated,omitempty"`
	IssueLinks []string `json:"issueLinks,omitempty"`

	ScriptResults []ScriptResult `json:"scriptResults,omitempty"`
}

// NewTestResult is the request body for creating a test result,
// either singly (where the test case is named by the URL and
// TestCaseKey stays empty) or as one element of a bulk create.  The
// pointer fields send an explicit null, which the service reads as
// "unassigned" or "no environment".
type NewTestResult struct {
	TestCaseKey string `json:"testCaseKey,omitempty"`
	Status      string `json:"status"`

	Environment *string `json:"environment"`
	AssignedTo  *string `json:"assignedTo"`
	ExecutedBy  *string `json:"executedBy"`

	Comment string `json:"comment,omitempty"`

	// ExecutionTime is in milliseconds.
	ExecutionTime int `json:"executionTime,omitempty"`

	IssueLinks    []string       `json:"issueLinks,omitempty"`
	ScriptResults []ScriptResult `json:"scriptResults,omitempty"`
}

// Attachment describes one file attached to a test result or script
// step.
type Attachment struct {
	ID       int    `json:"id,omitempty"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename"`
	FileSize int64  `json:"filesize,omitempty"`
}

// Created is the minimal response to creation requests; which field
// is filled in depends on the entity kind.
type Created struct {
	ID  int    `json:"id,omitempty"`
	Key string `json:"key,omitempty"`
}

// Patch is a partial-update request body.  The service's PUT
// endpoints touch only the fields present, so a patch carries
// exactly the fields that should change.
type Patch map[string]interface{}

// SetCustomField records a custom field value in the patch, creating
// the nested customFields object on first use.
func (p Patch) SetCustomField(name string, value interface{}) {
	fields, ok := p["customFields"].(CustomFields)
	if !ok {
		fields = CustomFields{}
		p["customFields"] = fields
	}
	fields[name] = value
}
