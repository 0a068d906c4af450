// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import (
	"strconv"

	"github.com/diffeo/go-adaptavist/restdata"
)

const userSearchURL = "rest/api/2/user/search{?username,startAt,maxResults}"

// Users returns the keys of all users known to the Jira server.
// This goes through the Jira user search rather than anything
// specific to test management, in pages of 200.  The listing is best
// effort: a failed page ends it with what was collected so far.
func (c *Client) Users() []string {
	users := collectPages(func(startAt int) ([]restdata.User, error) {
		c.log.Debugf("Asking for 200 users starting at %v", startAt)
		var page []restdata.User
		err := c.get(userSearchURL, map[string]interface{}{
			// The search endpoint rejects an empty search
			// term; "." matches every user.
			"username":   ".",
			"startAt":    strconv.Itoa(startAt),
			"maxResults": "200",
		}, &page)
		return page, err
	})
	keys := make([]string, len(users))
	for i, user := range users {
		keys[i] = user.Key
	}
	return keys
}
