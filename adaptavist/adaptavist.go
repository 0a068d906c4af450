// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package adaptavist provides a client for the Adaptavist Test
// Management REST API as hosted inside a Jira server installation.
//
// Call New() with the base URL of the Jira server; for instance,
//
//	c, err := adaptavist.New(adaptavist.Config{
//		BaseURL:  "https://jira.example.com",
//		Username: "alice",
//		Password: "secret",
//	})
//
// The client works with the test management entities as the service
// exposes them: projects carry folder trees of test cases, test
// plans, and test runs, a test run holds one item per test case, and
// every execution of an item is recorded as a test result whose
// script steps can carry their own statuses and attachments.  Wire
// representations of these entities live in the restdata package.
//
// Listing operations that page through the service
// (Client.TestCases(), Client.TestRuns(), and the like) are best
// effort: they gather pages until one comes back empty, and a page
// that fails outright ends the listing with what was collected so
// far rather than returning an error.  Operations on a single entity
// report errors normally, including typed not-found errors such as
// ErrNoSuchTestCase.
//
// Editing operations fetch the entity first and write back only what
// actually changed.  Scalar options replace the remote value
// outright; list-valued options go through Delta, which either
// merges into or replaces the remote list.  An edit that changes
// nothing performs no write at all.
package adaptavist

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/benbjohnson/clock"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Config holds the parameters for a Client.
type Config struct {
	// BaseURL is the root URL of the Jira server hosting the
	// test management service, e.g. "https://jira.example.com".
	// This field is required.  A path component is kept, so a
	// server behind a context path works too.
	BaseURL string

	// Username and Password authenticate every request using
	// HTTP basic authentication.
	Username string
	Password string

	// HTTPClient performs the requests.  If unset, uses
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger receives per-operation debug records and transport
	// error records.  If unset, uses the logrus standard logger.
	Logger logrus.FieldLogger

	// Clock is the time source used to measure request
	// durations.  Only test code should need to set this.  If
	// unset, uses real wall-clock time.
	Clock clock.Clock

	// Fs is the filesystem attachment files are read from.  Only
	// test code should need to set this.  If unset, uses the host
	// filesystem.
	Fs afero.Fs

	// Executor resolves the identity recorded as assignee and
	// executor of new test results when the caller does not name
	// one.  If unset, uses CurrentExecutor.
	Executor func() string
}

// Validate checks that the configuration could plausibly work.
func (config Config) Validate() error {
	return validation.ValidateStruct(&config,
		validation.Field(&config.BaseURL, validation.Required, is.RequestURL),
	)
}

// Client talks to the test management service of one Jira server.
// Its zero value is not usable; call New().
//
// A Client performs one request at a time and keeps no state between
// operations beyond its configuration, so sharing one across
// goroutines is safe.
type Client struct {
	baseURL  *url.URL
	username string
	password string
	client   *http.Client
	log      logrus.FieldLogger
	clock    clock.Clock
	fs       afero.Fs
	executor func() string
}

// New creates a Client from a configuration.  It validates the
// configuration and parses the base URL but performs no network
// traffic.
func New(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}
	// Endpoint paths resolve relative to the base URL, which only
	// preserves a context path if it ends in a slash.
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}
	c := &Client{
		baseURL:  baseURL,
		username: config.Username,
		password: config.Password,
		client:   config.HTTPClient,
		log:      config.Logger,
		clock:    config.Clock,
		fs:       config.Fs,
		executor: config.Executor,
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.executor == nil {
		c.executor = CurrentExecutor
	}
	return c, nil
}
