// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

// This file provides the canned HTTP server the client tests run
// against.  Tests register the routes they expect to be called;
// anything else arriving at the server fails the test.

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// recordedWrite is one JSON-bodied write the test server accepted.
type recordedWrite struct {
	Method string
	Path   string

	// Body is the decoded JSON request body, a
	// map[string]interface{} or []interface{}.
	Body interface{}
}

// recordedUpload is one multipart file upload the test server
// accepted.
type recordedUpload struct {
	Path     string
	Token    string
	Filename string
	Content  string
}

type testServer struct {
	*mux.Router
	t       *testing.T
	Writes  []recordedWrite
	Uploads []recordedUpload
}

func newTestServer(t *testing.T) *testServer {
	s := &testServer{Router: mux.NewRouter(), t: t}
	s.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %v %v", r.Method, r.URL)
		http.Error(w, "unexpected request", http.StatusNotFound)
	})
	return s
}

// ServeJSON serves a fixed JSON body for a method and exact path.
func (s *testServer) ServeJSON(method, path, body string) {
	s.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}).Methods(method)
}

// ServeError serves the service's error envelope with an HTTP status
// for a method and exact path.
func (s *testServer) ServeError(method, path string, status int, message string) {
	s.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		body, _ := json.Marshal(map[string]interface{}{
			"errorMessages": []string{message},
		})
		w.Write(body)
	}).Methods(method)
}

// RecordJSON accepts JSON writes on a method and exact path,
// remembers their decoded bodies in order, and serves a fixed JSON
// response.
func (s *testServer) RecordJSON(method, path, response string) {
	s.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		var body interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.t.Errorf("decoding %v %v body: %v", method, path, err)
		}
		s.Writes = append(s.Writes, recordedWrite{
			Method: method,
			Path:   r.URL.Path,
			Body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, response)
	}).Methods(method)
}

// AcceptUpload accepts multipart file uploads on an exact path,
// remembering the file and the anti-CSRF token header.
func (s *testServer) AcceptUpload(path string) {
	s.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			s.t.Errorf("reading upload at %v: %v", path, err)
			http.Error(w, "bad upload", http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, err := ioutil.ReadAll(file)
		if err != nil {
			s.t.Errorf("reading uploaded file at %v: %v", path, err)
		}
		s.Uploads = append(s.Uploads, recordedUpload{
			Path:     r.URL.Path,
			Token:    r.Header.Get("X-Atlassian-Token"),
			Filename: header.Filename,
			Content:  string(content),
		})
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, "[]")
	}).Methods("POST")
}

// newTestClient starts an httptest server around the routes and
// returns a quiet client pointed at it.  The executor resolver is
// pinned so tests do not depend on the local user.
func newTestClient(t *testing.T, s *testServer) *Client {
	server := httptest.NewServer(s)
	t.Cleanup(server.Close)
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	c, err := New(Config{
		BaseURL:  server.URL,
		Username: "alice",
		Password: "secret",
		Logger:   log,
		Fs:       afero.NewMemMapFs(),
		Executor: func() string { return "robot" },
	})
	require.NoError(t, err)
	return c
}
