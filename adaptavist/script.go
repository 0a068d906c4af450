// Copyright 2021-2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"github.com/diffeo/go-adaptavist/restdata"
)

// EditTestScriptOptions holds the optional parameters of
// Client.EditTestScriptStatus().
type EditTestScriptOptions struct {
	// Comment replaces the step comment: nil leaves it alone, a
	// pointer to "" clears it.
	Comment *string

	// Environment replaces the result's environment record; nil
	// leaves it alone.
	Environment *string

	// Assignee replaces the result's assignedTo record: nil
	// leaves it alone, a pointer to "" makes it unassigned.
	Assignee *string

	// Executor works like Assignee for the executedBy record.
	Executor *string
}

// EditTestScriptStatus updates the status of a single script step,
// counting from 1, of the latest result of one test case in a test
// run.  The other steps and the overall result status are left as
// they are.  A result whose script has no such step gets
// ErrNoSuchScriptStep, and nothing is written.
func (c *Client) EditTestScriptStatus(runKey, caseKey string, step int, status string, opts EditTestScriptOptions) error {
	current, err := c.TestResult(runKey, caseKey)
	if err != nil {
		return err
	}

	// The endpoint rejects script results carrying any fields
	// beyond these three.
	scripts := make([]restdata.ScriptResult, len(current.ScriptResults))
	found := false
	for i, script := range current.ScriptResults {
		scripts[i] = restdata.ScriptResult{
			Index:   script.Index,
			Status:  script.Status,
			Comment: script.Comment,
		}
		if script.Index == step-1 {
			found = true
			scripts[i].Status = status
			if opts.Comment != nil {
				scripts[i].Comment = *opts.Comment
			}
		}
	}
	if !found {
		return ErrNoSuchScriptStep{TestRun: runKey, TestCase: caseKey, Step: step}
	}

	patch := restdata.Patch{
		// Mandatory; carrying the current value keeps the
		// overall result status unchanged.
		"status":        current.Status,
		"scriptResults": scripts,
	}
	if opts.Environment != nil {
		patch["environment"] = *opts.Environment
	}
	if opts.Assignee != nil {
		patch["assignedTo"] = optionalString(*opts.Assignee)
	}
	if opts.Executor != nil {
		patch["executedBy"] = optionalString(*opts.Executor)
	}

	c.log.Debugf("Updating test script for %v in %v", caseKey, runKey)
	return c.put(testResultURL, map[string]interface{}{
		"run":  runKey,
		"case": caseKey,
	}, patch, nil)
}
