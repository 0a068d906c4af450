// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

// This file provides generic REST transport code; the entity
// operations elsewhere in this package are built on top of it.

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diffeo/go-adaptavist/restdata"
	"github.com/jtacoma/uritemplates"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

// expand interprets template as a URI template, fills in vars, and
// resolves the result relative to the client's base URL.
func (c *Client) expand(template string, vars map[string]interface{}) (*url.URL, error) {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return nil, err
	}
	expanded, err := tmpl.Expand(vars)
	if err != nil {
		return nil, err
	}
	return c.baseURL.Parse(expanded)
}

// do performs some HTTP action.  If in is non-nil, the request data
// is serialized and sent as the body of, for instance, a POST
// request.  If out is non-nil, the response data (if any) is
// deserialized into this object, which must be of pointer type.
func (c *Client) do(method string, url *url.URL, in, out interface{}) (err error) {
	// Set up the body as serialized JSON, if there is one
	var body io.Reader
	if in != nil {
		reader, writer := io.Pipe()
		encoder := codec.NewEncoder(writer, &codec.JsonHandle{})
		finished := make(chan error)
		go func() {
			err := encoder.Encode(in)
			err = firstError(err, writer.Close())
			finished <- err
		}()
		defer func() {
			err = firstError(err, <-finished)
		}()
		body = reader
	}

	req, err := http.NewRequest(method, url.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", restdata.JSONMediaType)
	}
	req.Header.Set("Accept", restdata.JSONMediaType)

	return c.send(req, out)
}

// get expands a URI template and retrieves the resource there.  The
// result is stored in out, which must be of pointer type.
func (c *Client) get(template string, vars map[string]interface{}, out interface{}) error {
	url, err := c.expand(template, vars)
	if err == nil {
		err = c.do("GET", url, nil, out)
	}
	return err
}

// post expands a URI template and submits data to the service there.
// The server response is stored in out, which must be of pointer
// type.
func (c *Client) post(template string, vars map[string]interface{}, in, out interface{}) error {
	url, err := c.expand(template, vars)
	if err == nil {
		err = c.do("POST", url, in, out)
	}
	return err
}

// put expands a URI template and updates the resource there.
func (c *Client) put(template string, vars map[string]interface{}, in, out interface{}) error {
	url, err := c.expand(template, vars)
	if err == nil {
		err = c.do("PUT", url, in, out)
	}
	return err
}

// delete expands a URI template and deletes the resource there.
func (c *Client) delete(template string, vars map[string]interface{}) error {
	url, err := c.expand(template, vars)
	if err == nil {
		err = c.do("DELETE", url, nil, nil)
	}
	return err
}

// upload expands a URI template and posts a single file there as a
// multipart form, the way Atlassian attachment endpoints expect.
func (c *Client) upload(template string, vars map[string]interface{}, content io.Reader, filename string) (err error) {
	url, err := c.expand(template, vars)
	if err != nil {
		return err
	}

	// Stream the form through a pipe rather than buffering the
	// whole file.
	reader, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	finished := make(chan error)
	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, content)
		}
		err = firstError(err, form.Close())
		err = firstError(err, writer.Close())
		finished <- err
	}()
	defer func() {
		err = firstError(err, <-finished)
	}()

	req, err := http.NewRequest("POST", url.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", restdata.JSONMediaType)
	// Without this header the service rejects the post as a
	// potential cross-site request.
	req.Header.Set("X-Atlassian-Token", "nocheck")

	return c.send(req, nil)
}

// send authenticates and performs a prepared request.  If out is
// non-nil, the response data (if any) is deserialized into this
// object, which must be of pointer type.
func (c *Client) send(req *http.Request, out interface{}) (err error) {
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("X-Request-Id", uuid.NewV4().String())

	// Actually do the request
	start := c.clock.Now()
	resp, err := c.client.Do(req)
	seconds := c.clock.Now().Sub(start).Seconds()
	if err != nil {
		observeRequest(req.Method, "error", seconds)
		c.log.WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL,
		}).WithError(err).Error("Request failed")
		return err
	}
	observeRequest(req.Method, strconv.Itoa(resp.StatusCode), seconds)

	// If the response included a body, clean up afterwards
	if resp.Body != nil {
		defer func() {
			err = firstError(err, resp.Body.Close())
		}()
	}

	// Check the response code
	if err = c.checkHTTPStatus(resp); err != nil {
		return err
	}

	// If there is both a body and a requested output, decode it
	if resp.Body != nil && out != nil {
		contentType := resp.Header.Get("Content-Type")
		err = restdata.Decode(contentType, resp.Body, out)
	}

	return err // may be nil
}

// ErrorHTTP is a catch-all error for non-successes returned from the
// REST endpoint.
type ErrorHTTP struct {
	// Response holds a pointer to the failing HTTP response.
	Response *http.Response

	// Body holds the contents of the message body, presumed to
	// be text.
	Body string

	// Message holds the flattened text of the service's error
	// envelope, if the body decoded as one.
	Message string
}

func (e ErrorHTTP) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %v", e.Response.Status, e.Message)
	}
	return e.Response.Status
}

// checkHTTPStatus examines an HTTP response and returns an error if
// it is not successful.
func (c *Client) checkHTTPStatus(resp *http.Response) error {
	if len(resp.Status) > 0 && resp.Status[0] == '2' {
		return nil
	}

	// Always collect the entire body; we will need it as a fallback
	// and can only parse it once.
	var body []byte
	var err error
	if resp.Body != nil {
		body, err = ioutil.ReadAll(resp.Body)
		if err != nil {
			return err
		}
	}

	errHTTP := ErrorHTTP{Response: resp, Body: string(body)}

	// Take a shot at decoding it as the service's error envelope
	var errResp restdata.ErrorResponse
	contentType := resp.Header.Get("Content-Type")
	if err := restdata.Decode(contentType, bytes.NewReader(body), &errResp); err == nil {
		errHTTP.Message = errResp.Text()
	}

	c.log.WithFields(logrus.Fields{
		"method": resp.Request.Method,
		"url":    resp.Request.URL,
		"status": resp.StatusCode,
	}).Error("Request failed")
	return errHTTP
}

// notFound reports whether an error from the transport is the
// service's way of saying an entity does not exist.
func notFound(err error) bool {
	if errHTTP, ok := err.(ErrorHTTP); ok {
		return errHTTP.Response.StatusCode == http.StatusNotFound
	}
	return false
}

func firstError(e1, e2 error) error {
	if e1 != nil {
		return e1
	}
	return e2
}
