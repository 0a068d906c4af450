// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import "strings"

// FolderType identifies which entity kind a folder tree holds.
type FolderType string

// The three folder trees every project carries.
const (
	FolderTestCase FolderType = "TEST_CASE"
	FolderTestPlan FolderType = "TEST_PLAN"
	FolderTestRun  FolderType = "TEST_RUN"
)

// treeSegment returns the URL path segment naming this folder type in
// the rest/tests/1.0 foldertree endpoint, e.g. "testcase".
func (ft FolderType) treeSegment() string {
	return strings.ToLower(strings.ReplaceAll(string(ft), "_", ""))
}

// Workflow statuses of test cases and test plans.
const (
	StatusApproved   = "Approved"
	StatusDraft      = "Draft"
	StatusDeprecated = "Deprecated"
)

// Execution statuses of test results and script steps.
const (
	StatusPass        = "Pass"
	StatusFail        = "Fail"
	StatusBlocked     = "Blocked"
	StatusInProgress  = "In Progress"
	StatusNotExecuted = "Not Executed"
)

// Test case priorities.
const (
	PriorityHigh   = "High"
	PriorityNormal = "Normal"
	PriorityLow    = "Low"
)

// Test script types.
const (
	StepTypeByStep = "STEP_BY_STEP"
	StepTypePlain  = "PLAIN_TEXT"
)
