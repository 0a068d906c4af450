// Copyright 2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
)

// ReportResults is the page envelope returned by the rest/tests/1.0
// bulk test-result report.  The rows are open-ended mappings; pass
// them through ExtractExecutionResult to get typed records.
type ReportResults struct {
	Results []map[string]interface{} `json:"results"`
}

// ExecutionResult is one typed row of the bulk test-result report.
// This is much cheaper to obtain for a whole instance than fetching
// the results of every test run one by one.
type ExecutionResult struct {
	// Key identifies the result itself, e.g. "TEST-E123".
	Key string

	TestCaseKey  string
	TestCaseName string
	TestRunKey   string
	TestRunName  string

	// ExecutedBy and AssignedTo are Jira user keys; empty means
	// unassigned.
	ExecutedBy string
	AssignedTo string

	// ExecutionDate is the parsed execution timestamp; the zero
	// time if the row carried none or it could not be parsed.
	ExecutionDate time.Time

	// EstimatedTime and ExecutionTime are in milliseconds.
	EstimatedTime int
	ExecutionTime int

	Environment string
	Automated   bool
	Status      string
	IssueLinks  []string

	// LastResult is false if this result has been superseded by a
	// newer execution of the same test run item.  Rows that do not
	// carry the flag count as current.
	LastResult bool
}

// executionRow mirrors the wire shape of a report row closely enough
// for mapstructure to pick out the fields we keep.
type executionRow struct {
	Key      string
	TestCase struct {
		Key  string
		Name string
	}
	TestRun struct {
		Key  string
		Name string
	}
	User struct {
		Key string
	}
	Status struct {
		Name string
	}
	Environment struct {
		Name string
	}
	AssignedTo     string
	EstimatedTime  int
	ExecutionTime  int
	ExecutionDate  string
	Automated      bool
	Issues         []string
	LastTestResult bool
}

// ExtractExecutionResult converts one loose report row into a typed
// ExecutionResult.
func ExtractExecutionResult(row map[string]interface{}) (result ExecutionResult, err error) {
	// Absent lastTestResult means the row has never been superseded.
	data := executionRow{LastTestResult: true}
	config := mapstructure.DecoderConfig{Result: &data}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return
	}
	err = decoder.Decode(row)
	if err != nil {
		return
	}

	result.Key = data.Key
	result.TestCaseKey = data.TestCase.Key
	result.TestCaseName = data.TestCase.Name
	result.TestRunKey = data.TestRun.Key
	result.TestRunName = data.TestRun.Name
	result.ExecutedBy = data.User.Key
	result.AssignedTo = data.AssignedTo
	result.EstimatedTime = data.EstimatedTime
	result.ExecutionTime = data.ExecutionTime
	result.Environment = data.Environment.Name
	result.Automated = data.Automated
	result.Status = data.Status.Name
	result.IssueLinks = data.Issues
	result.LastResult = data.LastTestResult
	if data.ExecutionDate != "" {
		// Best effort; a bad timestamp leaves the zero time rather
		// than discarding the row.
		if when, err := dateparse.ParseAny(data.ExecutionDate); err == nil {
			result.ExecutionDate = when
		}
	}
	return
}
