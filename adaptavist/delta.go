// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package adaptavist

import "strings"

// multilineSeparator joins the entries of freeform multi-value custom
// fields, which the service renders as HTML.
const multilineSeparator = "<br>"

// A Delta describes a change to a list-valued field of an entity.  It
// either merges additional values into the list the service already
// holds, or replaces that list outright.  The zero Delta merges
// nothing, leaving the field untouched.
type Delta struct {
	values  []string
	replace bool
}

// Merge returns a Delta that appends the given values to the current
// list, in order, skipping values the list already contains.
func Merge(values ...string) Delta {
	return Delta{values: values}
}

// Replace returns a Delta that discards the current list and installs
// the given values exactly.  Replace() with no values clears the
// field.
func Replace(values ...string) Delta {
	return Delta{values: values, replace: true}
}

// ParseDelta interprets a value list in the convention of the
// command-line tools: a "-" in the first position marks a replacement
// of the whole list by the remaining values, anything else is a
// merge.  "-" in any later position is an ordinary value.
func ParseDelta(values []string) Delta {
	if len(values) > 0 && values[0] == "-" {
		return Replace(values[1:]...)
	}
	return Merge(values...)
}

// Apply reconciles the delta against the current value of a field and
// reports whether the result differs from it.  Merges keep the
// current values in place and append only those delta values not
// already present, in their first-occurrence order; replacements keep
// the delta values exactly as given.
func (d Delta) Apply(current []string) ([]string, bool) {
	if d.replace {
		next := make([]string, len(d.values))
		copy(next, d.values)
		return next, !stringsEqual(next, current)
	}
	if len(d.values) == 0 {
		return current, false
	}
	seen := make(map[string]bool, len(current))
	for _, value := range current {
		seen[value] = true
	}
	next := append([]string(nil), current...)
	for _, value := range d.values {
		if !seen[value] {
			next = append(next, value)
			seen[value] = true
		}
	}
	return next, len(next) != len(current)
}

// ApplyMultiline reconciles the delta against a multiline field, a
// single string whose entries are joined by "<br>".  Values already
// contained anywhere in the accumulated content are skipped, as are
// empty values; a replacement accumulates from empty instead of from
// the current content.  Returns the new content and whether it
// differs from the current one.
func (d Delta) ApplyMultiline(current string) (string, bool) {
	if !d.replace && len(d.values) == 0 {
		return current, false
	}
	content := current
	if d.replace {
		content = ""
	}
	for _, value := range d.values {
		if value == "" || strings.Contains(content, value) {
			continue
		}
		if content != "" {
			content += multilineSeparator
		}
		content += value
	}
	return content, content != current
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
