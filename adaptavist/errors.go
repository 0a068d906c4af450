package adaptavist

import (
	"errors"
	"fmt"
)

// ErrNoFilename is returned from attachment uploads that are given a
// raw reader but no filename to present to the service.
var ErrNoFilename = errors.New("No filename given")

// ErrNoSuchProject is returned by functions that resolve a project
// key, but cannot find it.
type ErrNoSuchProject struct {
	Key string
}

func (err ErrNoSuchProject) Error() string {
	return fmt.Sprintf("No such project %v", err.Key)
}

// ErrNoSuchTestCase is returned by Client.TestCase() and similar
// functions that want to look up a test case, but cannot find it.
type ErrNoSuchTestCase struct {
	Key string
}

func (err ErrNoSuchTestCase) Error() string {
	return fmt.Sprintf("No such test case %v", err.Key)
}

// ErrNoSuchTestPlan is returned by Client.TestPlan() and similar
// functions that want to look up a test plan, but cannot find it.
type ErrNoSuchTestPlan struct {
	Key string
}

func (err ErrNoSuchTestPlan) Error() string {
	return fmt.Sprintf("No such test plan %v", err.Key)
}

// ErrNoSuchTestRun is returned by Client.TestRun() and similar
// functions that want to look up a test run, but cannot find it.
type ErrNoSuchTestRun struct {
	Key string
}

func (err ErrNoSuchTestRun) Error() string {
	return fmt.Sprintf("No such test run %v", err.Key)
}

// ErrNoSuchTestResult is returned by functions that want to look up
// the test result for a specific test case within a test run, but
// find that the run holds no result for that case.
type ErrNoSuchTestResult struct {
	TestRun  string
	TestCase string
}

func (err ErrNoSuchTestResult) Error() string {
	return fmt.Sprintf("No test result for %v in %v", err.TestCase, err.TestRun)
}

// ErrNoSuchScriptStep is returned by Client.EditTestScriptStatus() if
// the test result has no script step with the requested number.
type ErrNoSuchScriptStep struct {
	TestRun  string
	TestCase string
	Step     int
}

func (err ErrNoSuchScriptStep) Error() string {
	return fmt.Sprintf("No script step %v for %v in %v", err.Step, err.TestCase, err.TestRun)
}
