// Copyright 2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"testing"
	"time"
)

func TestExtractExecutionResult(t *testing.T) {
	row := map[string]interface{}{
		"key":            "TEST-E1",
		"testCase":       map[string]interface{}{"key": "TEST-T1", "name": "login works"},
		"testRun":        map[string]interface{}{"key": "TEST-R1", "name": "nightly"},
		"user":           map[string]interface{}{"key": "jenkins"},
		"status":         map[string]interface{}{"name": "Pass"},
		"environment":    map[string]interface{}{"name": "staging"},
		"assignedTo":     "testuser",
		"estimatedTime":  30000,
		"executionTime":  12000,
		"executionDate":  "2022-03-04T05:06:07.000Z",
		"automated":      true,
		"issues":         []interface{}{"TEST-140"},
		"lastTestResult": false,
	}
	result, err := ExtractExecutionResult(row)
	if err != nil {
		t.Fatalf("ExtractExecutionResult() => error %v", err)
	}
	if result.Key != "TEST-E1" {
		t.Errorf("key %q, want %q", result.Key, "TEST-E1")
	}
	if result.TestCaseKey != "TEST-T1" || result.TestCaseName != "login works" {
		t.Errorf("test case %q %q, want TEST-T1 / login works",
			result.TestCaseKey, result.TestCaseName)
	}
	if result.TestRunKey != "TEST-R1" {
		t.Errorf("test run %q, want TEST-R1", result.TestRunKey)
	}
	if result.ExecutedBy != "jenkins" {
		t.Errorf("executedBy %q, want jenkins", result.ExecutedBy)
	}
	if result.Status != "Pass" {
		t.Errorf("status %q, want Pass", result.Status)
	}
	if result.Environment != "staging" {
		t.Errorf("environment %q, want staging", result.Environment)
	}
	if result.ExecutionTime != 12000 {
		t.Errorf("executionTime %v, want 12000", result.ExecutionTime)
	}
	want := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	if !result.ExecutionDate.Equal(want) {
		t.Errorf("executionDate %v, want %v", result.ExecutionDate, want)
	}
	if len(result.IssueLinks) != 1 || result.IssueLinks[0] != "TEST-140" {
		t.Errorf("issueLinks %v, want [TEST-140]", result.IssueLinks)
	}
	if result.LastResult {
		t.Errorf("lastResult true, want false")
	}
	if !result.Automated {
		t.Errorf("automated false, want true")
	}
}

func TestExtractExecutionResultDefaults(t *testing.T) {
	row := map[string]interface{}{
		"key":    "TEST-E2",
		"user":   map[string]interface{}{"key": "testuser"},
		"status": map[string]interface{}{"name": "Fail"},
	}
	result, err := ExtractExecutionResult(row)
	if err != nil {
		t.Fatalf("ExtractExecutionResult() => error %v", err)
	}
	if !result.LastResult {
		t.Errorf("lastResult false, want true when the flag is absent")
	}
	if !result.ExecutionDate.IsZero() {
		t.Errorf("executionDate %v, want zero", result.ExecutionDate)
	}
	if result.Environment != "" || result.AssignedTo != "" {
		t.Errorf("environment %q assignedTo %q, want empty",
			result.Environment, result.AssignedTo)
	}
}
