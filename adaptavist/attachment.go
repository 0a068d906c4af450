// Copyright 2021-2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/diffeo/go-adaptavist/restdata"
)

const (
	resultAttachmentsURL = "rest/atm/1.0/testresult/{result}/attachments"
	scriptAttachmentsURL = "rest/atm/1.0/testresult/{result}/step/{step}/attachments"
)

// TestResultAttachments returns the attachments of the latest result
// of one test case in a test run.
func (c *Client) TestResultAttachments(runKey, caseKey string) ([]restdata.Attachment, error) {
	result, err := c.TestResult(runKey, caseKey)
	if err != nil {
		return nil, err
	}
	var attachments []restdata.Attachment
	err = c.get(resultAttachmentsURL, map[string]interface{}{
		"result": strconv.Itoa(result.ID),
	}, &attachments)
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// AddTestResultAttachment attaches the contents of a reader to the
// latest result of one test case in a test run.  A filename for the
// attachment is required; without one this returns ErrNoFilename
// before performing any I/O at all.
func (c *Client) AddTestResultAttachment(runKey, caseKey string, content io.Reader, filename string) error {
	if filename == "" {
		return ErrNoFilename
	}
	result, err := c.TestResult(runKey, caseKey)
	if err != nil {
		return err
	}
	c.log.Debugf("Attaching %v to result for %v in %v", filename, caseKey, runKey)
	return c.upload(resultAttachmentsURL, map[string]interface{}{
		"result": strconv.Itoa(result.ID),
	}, content, filename)
}

// AddTestResultAttachmentFile attaches a file to the latest result
// of one test case in a test run, named after the file itself.
func (c *Client) AddTestResultAttachmentFile(runKey, caseKey, path string) error {
	return c.attachFile(path, func(content io.Reader, filename string) error {
		return c.AddTestResultAttachment(runKey, caseKey, content, filename)
	})
}

// TestScriptAttachments returns the attachments of one script step,
// counting from 1, of the latest result of a test case in a test
// run.
func (c *Client) TestScriptAttachments(runKey, caseKey string, step int) ([]restdata.Attachment, error) {
	result, err := c.TestResult(runKey, caseKey)
	if err != nil {
		return nil, err
	}
	var attachments []restdata.Attachment
	err = c.get(scriptAttachmentsURL, map[string]interface{}{
		"result": strconv.Itoa(result.ID),
		// The attachment endpoints number steps from 0.
		"step": strconv.Itoa(step - 1),
	}, &attachments)
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// AddTestScriptAttachment attaches the contents of a reader to one
// script step, counting from 1, of the latest result of a test case
// in a test run.  A filename for the attachment is required; without
// one this returns ErrNoFilename before performing any I/O at all.
func (c *Client) AddTestScriptAttachment(runKey, caseKey string, step int, content io.Reader, filename string) error {
	if filename == "" {
		return ErrNoFilename
	}
	result, err := c.TestResult(runKey, caseKey)
	if err != nil {
		return err
	}
	c.log.Debugf("Attaching %v to step %v of result for %v in %v", filename, step, caseKey, runKey)
	return c.upload(scriptAttachmentsURL, map[string]interface{}{
		"result": strconv.Itoa(result.ID),
		"step":   strconv.Itoa(step - 1),
	}, content, filename)
}

// AddTestScriptAttachmentFile attaches a file to one script step,
// counting from 1, of the latest result of a test case in a test
// run, named after the file itself.
func (c *Client) AddTestScriptAttachmentFile(runKey, caseKey string, step int, path string) error {
	return c.attachFile(path, func(content io.Reader, filename string) error {
		return c.AddTestScriptAttachment(runKey, caseKey, step, content, filename)
	})
}

// attachFile opens a file on the configured filesystem and hands it
// to an attachment upload, naming the attachment after the file.
func (c *Client) attachFile(path string, attach func(io.Reader, string) error) (err error) {
	file, err := c.fs.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = firstError(err, file.Close())
	}()
	return attach(file, filepath.Base(path))
}
