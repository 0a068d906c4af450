// Copyright 2021-2022 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffeo/go-adaptavist/restdata"
)

func TestTestResultAttachments(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	s.ServeJSON("GET", "/rest/atm/1.0/testresult/201/attachments",
		`[{"id": 41, "filename": "report.html", "filesize": 2048}]`)
	c := newTestClient(t, s)

	attachments, err := c.TestResultAttachments("TEST-R1", "TEST-T1")
	assert.NoError(t, err)
	assert.Equal(t, []restdata.Attachment{
		{ID: 41, Filename: "report.html", FileSize: 2048},
	}, attachments)
}

func TestAddTestResultAttachment(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	s.AcceptUpload("/rest/atm/1.0/testresult/201/attachments")
	c := newTestClient(t, s)

	err := c.AddTestResultAttachment("TEST-R1", "TEST-T1",
		strings.NewReader("<html>report</html>"), "report.html")
	assert.NoError(t, err)
	require.Len(t, s.Uploads, 1)
	upload := s.Uploads[0]
	assert.Equal(t, "nocheck", upload.Token)
	assert.Equal(t, "report.html", upload.Filename)
	assert.Equal(t, "<html>report</html>", upload.Content)
}

func TestAddTestResultAttachmentNoFilename(t *testing.T) {
	// The filename check happens before anything goes over the
	// wire, so no routes are needed at all.
	s := newTestServer(t)
	c := newTestClient(t, s)

	err := c.AddTestResultAttachment("TEST-R1", "TEST-T1",
		strings.NewReader("data"), "")
	assert.Equal(t, ErrNoFilename, err)
	assert.Empty(t, s.Uploads)
}

func TestAddTestResultAttachmentFile(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	s.AcceptUpload("/rest/atm/1.0/testresult/201/attachments")
	c := newTestClient(t, s)

	err := afero.WriteFile(c.fs, "/reports/output.log", []byte("all passed"), 0644)
	require.NoError(t, err)

	// The attachment takes its name from the file.
	err = c.AddTestResultAttachmentFile("TEST-R1", "TEST-T1", "/reports/output.log")
	assert.NoError(t, err)
	require.Len(t, s.Uploads, 1)
	assert.Equal(t, "output.log", s.Uploads[0].Filename)
	assert.Equal(t, "all passed", s.Uploads[0].Content)
}

func TestAddTestResultAttachmentFileMissing(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)

	err := c.AddTestResultAttachmentFile("TEST-R1", "TEST-T1", "/no/such/file")
	assert.Error(t, err)
	assert.Empty(t, s.Uploads)
}

func TestTestScriptAttachments(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	s.ServeJSON("GET", "/rest/atm/1.0/testresult/201/step/2/attachments",
		`[{"id": 42, "filename": "step.png", "filesize": 512}]`)
	c := newTestClient(t, s)

	// Step 3 for the caller is step 2 for the attachment endpoint.
	attachments, err := c.TestScriptAttachments("TEST-R1", "TEST-T1", 3)
	assert.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "step.png", attachments[0].Filename)
}

func TestAddTestScriptAttachment(t *testing.T) {
	s := newTestServer(t)
	s.ServeJSON("GET", "/rest/atm/1.0/testrun/TEST-R1/testresults", testResultsBody)
	s.AcceptUpload("/rest/atm/1.0/testresult/201/step/0/attachments")
	c := newTestClient(t, s)

	err := c.AddTestScriptAttachment("TEST-R1", "TEST-T1", 1,
		strings.NewReader("screenshot bytes"), "login.png")
	assert.NoError(t, err)
	require.Len(t, s.Uploads, 1)
	assert.Equal(t, "login.png", s.Uploads[0].Filename)

	err = c.AddTestScriptAttachment("TEST-R1", "TEST-T1", 1,
		strings.NewReader("ignored"), "")
	assert.Equal(t, ErrNoFilename, err)
}
