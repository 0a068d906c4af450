// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

// collectPages gathers a paginated listing into a single slice.  It
// repeatedly invokes fetch with the index of the first item still
// missing, starting at zero, and concatenates the pages in order.
// The first empty page ends the collection; so does a failed fetch,
// which returns everything gathered up to that point.  The transport
// has already logged the failure by then.
func collectPages[T any](fetch func(startAt int) ([]T, error)) []T {
	var items []T
	for {
		page, err := fetch(len(items))
		if err != nil || len(page) == 0 {
			return items
		}
		items = append(items, page...)
	}
}
