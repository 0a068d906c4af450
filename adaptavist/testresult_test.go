// Copyright 2021-2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffeo/go-adaptavist/restdata"
)

const testResultsBody = `[
	{"id": 201, "testCaseKey": "TEST-T1", "status": "Pass",
	 "comment": "All good", "assignedTo": "alice", "executedBy": "alice",
	 "executionTime": 30000, "issueLinks": ["TEST-1"],
	 "scriptResults": [{"index": 2, "status": "Pass"},
			   {"index": 0, "status": "Pass", "comment": "ok"},
			   {"index": 1, "status": "Fail"}]},
	{"id": 202, "testCaseKey": "TEST-T2", "status": "Fail"}
]`

func TestTestResults(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	c := newTestClient(t, s)

	results, err := c.TestResults("TEST-R1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "TEST-T1", results[0].TestCaseKey)

	// Script results come back in step order regardless of the
	// order on the wire.
	scripts := results[0].ScriptResults
	require.Len(t, scripts, 3)
	assert.Equal(t, []restdata.ScriptResult{
		{Index: 0, Status: "Pass", Comment: "ok"},
		{Index: 1, Status: "Fail"},
		{Index: 2, Status: "Pass"},
	}, scripts)
}

func TestTestResultsMissingRun(t *testing.T) {
	s := newTestServer(t)
	s.ServeError("GET", "/rest/atm/1.0/testrun/TEST-R9/testresults",
		http.StatusNotFound, "Test run does not exist")
	c := newTestClient(t, s)

	_, err := c.TestResults("TEST-R9")
	assert.Equal(t, ErrNoSuchTestRun{Key: "TEST-R9"}, err)
}

func TestTestResult(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	c := newTestClient(t, s)

	result, err := c.TestResult("TEST-R1", "TEST-T2")
	require.NoError(t, err)
	assert.Equal(t, 202, result.ID)

	_, err = c.TestResult("TEST-R1", "TEST-T9")
	assert.Equal(t, ErrNoSuchTestResult{TestRun: "TEST-R1", TestCase: "TEST-T9"}, err)
	assert.EqualError(t, err, "No test result for TEST-T9 in TEST-R1")
}

func TestCreateTestResult(t *testing.T) {
	s := newTestServer(t)
	s.RecordJSON("POST", "/rest/atm/1.0/testrun/TEST-R1/testcase/TEST-T1/testresult",
		`{"id": 301}`)
	c := newTestClient(t, s)

	id, err := c.CreateTestResult("TEST-R1", "TEST-T1", StatusFail, CreateTestResultOptions{
		Comment:     "Login button missing",
		ExecuteTime: 90 * time.Second,
		IssueLinks:  []string{"TEST-9"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 301, id)
	require.Len(t, s.Writes, 1)
	assert.Equal(t, map[string]interface{}{
		"status":        "Fail",
		"comment":       "Login button missing",
		"environment":   nil,
		"assignedTo":    "robot",
		"executedBy":    "robot",
		"executionTime": 90000.0,
		"issueLinks":    []interface{}{"TEST-9"},
	}, s.Writes[0].Body)
}

func TestCreateTestResultDefaults(t *testing.T) {
	s := newTestServer(t)
	s.RecordJSON("POST", "/rest/atm/1.0/testrun/TEST-R1/testcase/TEST-T1/testresult",
		`{"id": 301}`)
	c := newTestClient(t, s)

	// An empty status records the case as not executed, and the
	// configured resolver fills in both identities.
	_, err := c.CreateTestResult("TEST-R1", "TEST-T1", "", CreateTestResultOptions{})
	assert.NoError(t, err)
	require.Len(t, s.Writes, 1)
	assert.Equal(t, map[string]interface{}{
		"status":      "Not Executed",
		"environment": nil,
		"assignedTo":  "robot",
		"executedBy":  "robot",
	}, s.Writes[0].Body)
}

func TestCreateTestResultUnassigned(t *testing.T) {
	s := newTestServer(t)
	s.RecordJSON("POST", "/rest/atm/1.0/testrun/TEST-R1/testcase/TEST-T1/testresult",
		`{"id": 301}`)
	c := newTestClient(t, s)

	unassigned := ""
	executor := "bob"
	_, err := c.CreateTestResult("TEST-R1", "TEST-T1", StatusPass, CreateTestResultOptions{
		Assignee: &unassigned,
		Executor: &executor,
	})
	assert.NoError(t, err)
	require.Len(t, s.Writes, 1)
	assert.Equal(t, map[string]interface{}{
		"status":      "Pass",
		"environment": nil,
		"assignedTo":  nil,
		"executedBy":  "bob",
	}, s.Writes[0].Body)
}

func TestCreateTestResults(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1", testRunBody)
	s.RecordJSON("POST", "/rest/atm/1.0/testrun/TEST-R1/testresults",
		`[{"id": 301}]`)
	c := newTestClient(t, s)

	// The run already holds TEST-T1 and TEST-T2, so excluding
	// existing test cases leaves only TEST-T3 to create.
	ids, err := c.CreateTestResults("TEST-R1", []restdata.NewTestResult{
		{TestCaseKey: "TEST-T1", Status: StatusPass},
		{TestCaseKey: "TEST-T2", Status: StatusPass},
		{TestCaseKey: "TEST-T3", Status: StatusFail},
	}, CreateTestResultsOptions{
		Environment:              "staging",
		ExcludeExistingTestCases: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{301}, ids)
	require.Len(t, s.Writes, 1)
	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"testCaseKey": "TEST-T3",
			"status":      "Fail",
			"environment": "staging",
			"assignedTo":  "robot",
			"executedBy":  "robot",
		},
	}, s.Writes[0].Body)
}

func TestCreateTestResultsAllExcluded(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1", testRunBody)
	c := newTestClient(t, s)

	// With every test case already in the run, nothing is written.
	ids, err := c.CreateTestResults("TEST-R1", []restdata.NewTestResult{
		{TestCaseKey: "TEST-T1", Status: StatusPass},
	}, CreateTestResultsOptions{ExcludeExistingTestCases: true})
	assert.NoError(t, err)
	assert.Nil(t, ids)
	assert.Empty(t, s.Writes)
}

func TestCreateTestResultsOverwrite(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1", testRunBody)
	s.RecordJSON("POST", "/rest/atm/1.0/testrun/TEST-R1/testresults",
		`[{"id": 301}, {"id": 302}]`)
	c := newTestClient(t, s)

	ids, err := c.CreateTestResults("TEST-R1", []restdata.NewTestResult{
		{TestCaseKey: "TEST-T1", Status: StatusPass},
		{TestCaseKey: "TEST-T2", Status: StatusBlocked},
	}, CreateTestResultsOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []int{301, 302}, ids)
	require.Len(t, s.Writes, 1)
	body, ok := s.Writes[0].Body.([]interface{})
	require.True(t, ok)
	assert.Len(t, body, 2)
}

func TestEditTestResultStatusNoChange(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	c := newTestClient(t, s)

	// The status and comment already have these values; an empty
	// status means "keep the current one".
	comment := "All good"
	err := c.EditTestResultStatus("TEST-R1", "TEST-T1", "", EditTestResultOptions{
		Comment: &comment,
	})
	assert.NoError(t, err)
	assert.Empty(t, s.Writes)
}

func TestEditTestResultStatus(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	s.RecordJSON("PUT", "/rest/atm/1.0/testrun/TEST-R1/testcase/TEST-T1/testresult", "{}")
	c := newTestClient(t, s)

	comment := "Broke on retry"
	executeTime := 60 * time.Second
	err := c.EditTestResultStatus("TEST-R1", "TEST-T1", StatusFail, EditTestResultOptions{
		Comment:     &comment,
		ExecuteTime: &executeTime,
	})
	assert.NoError(t, err)
	require.Len(t, s.Writes, 1)
	assert.Equal(t, map[string]interface{}{
		"status":        "Fail",
		"comment":       "Broke on retry",
		"executionTime": 60000.0,
	}, s.Writes[0].Body)
}

func TestEditTestResultStatusCarried(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	s.RecordJSON("PUT", "/rest/atm/1.0/testrun/TEST-R1/testcase/TEST-T1/testresult", "{}")
	c := newTestClient(t, s)

	// Only the environment changes, but the write still has to
	// carry a status.
	environment := "staging"
	err := c.EditTestResultStatus("TEST-R1", "TEST-T1", "", EditTestResultOptions{
		Environment: &environment,
	})
	assert.NoError(t, err)
	require.Len(t, s.Writes, 1)
	assert.Equal(t, map[string]interface{}{
		"status":      "Pass",
		"environment": "staging",
	}, s.Writes[0].Body)
}

func TestEditTestResultUnassign(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	s.RecordJSON("PUT", "/rest/atm/1.0/testrun/TEST-R1/testcase/TEST-T1/testresult", "{}")
	c := newTestClient(t, s)

	unassigned := ""
	err := c.EditTestResultStatus("TEST-R1", "TEST-T1", "", EditTestResultOptions{
		Assignee: &unassigned,
	})
	assert.NoError(t, err)
	require.Len(t, s.Writes, 1)
	assert.Equal(t, map[string]interface{}{
		"status":     "Pass",
		"assignedTo": nil,
	}, s.Writes[0].Body)
}

func TestTestExecutionResults(t *testing.T) {
	s := newTestServer(t)
	s.HandleFunc("/rest/tests/1.0/reports/testresults", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "10000", query.Get("maxResults"))
		w.Header().Set("Content-Type", "application/json")
		if query.Get("startAt") == "0" {
			io.WriteString(w, `{"results": [
				{"key": "TEST-E1",
				 "testCase": {"key": "TEST-T1", "name": "One"},
				 "testRun": {"key": "TEST-R1", "name": "Smoke"},
				 "user": {"key": "alice"},
				 "status": {"name": "Pass"},
				 "environment": {"name": "staging"},
				 "executionTime": 30000,
				 "executionDate": "2022-03-07T11:22:33Z",
				 "issues": ["TEST-1"],
				 "lastTestResult": true},
				{"key": "TEST-E2",
				 "testCase": {"key": "TEST-T1", "name": "One"},
				 "testRun": {"key": "TEST-R1", "name": "Smoke"},
				 "status": {"name": "Fail"},
				 "lastTestResult": false}]}`)
		} else {
			io.WriteString(w, `{"results": []}`)
		}
	}).Methods("GET")
	c := newTestClient(t, s)

	all := c.TestExecutionResults(false)
	assert.Len(t, all, 2)

	last := c.TestExecutionResults(true)
	require.Len(t, last, 1)
	result := last[0]
	assert.Equal(t, "TEST-E1", result.Key)
	assert.Equal(t, "TEST-T1", result.TestCaseKey)
	assert.Equal(t, "Smoke", result.TestRunName)
	assert.Equal(t, "alice", result.ExecutedBy)
	assert.Equal(t, "Pass", result.Status)
	assert.Equal(t, "staging", result.Environment)
	assert.Equal(t, 30000, result.ExecutionTime)
	assert.Equal(t, []string{"TEST-1"}, result.IssueLinks)
	assert.WithinDuration(t,
		time.Date(2022, 3, 7, 11, 22, 33, 0, time.UTC),
		result.ExecutionDate, 0)
}
