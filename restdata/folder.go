// Copyright 2021 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"strings"

	"github.com/ugorji/go/codec"
)

// FolderPath is the canonical path of a folder, always rooted at "/".
// The root folder itself is "/".
//
// The service is asymmetric about the root folder: on writes it must
// be sent as JSON null (or omitted), while reads return "/", a
// "/"-prefixed path, or no folder field at all.  The JSON methods on
// this type perform that mapping, so a FolderPath field can be used
// directly in request and response structures.
type FolderPath string

// NormalizeFolderPath canonicalizes a raw folder name or path:
// prefixes "/" when absent and collapses any doubled separator left
// over from naive concatenation.  The empty string normalizes to the
// root folder.
func NormalizeFolderPath(raw string) FolderPath {
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return FolderPath(strings.ReplaceAll(raw, "//", "/"))
}

// IsRoot reports whether the path names the root folder.  The
// unnormalized empty string counts as root.
func (p FolderPath) IsRoot() bool {
	return p == "" || p == "/"
}

// MarshalJSON encodes the root folder as null, as the service
// requires on writes, and any other path as a plain string.
func (p FolderPath) MarshalJSON() (out []byte, err error) {
	if p.IsRoot() {
		return []byte("null"), nil
	}
	encoder := codec.NewEncoderBytes(&out, &codec.JsonHandle{})
	err = encoder.Encode(string(p))
	return
}

// UnmarshalJSON decodes null or a string, normalizing the result so
// that every path read off the wire is canonical.
func (p *FolderPath) UnmarshalJSON(in []byte) error {
	if string(in) == "null" {
		*p = "/"
		return nil
	}
	var s string
	decoder := codec.NewDecoderBytes(in, &codec.JsonHandle{})
	if err := decoder.Decode(&s); err != nil {
		return err
	}
	*p = NormalizeFolderPath(s)
	return nil
}

// FolderTree is one node of the hierarchical folder listing returned
// by the rest/tests/1.0 foldertree endpoint.  The root node has an
// empty name.
type FolderTree struct {
	Name     string       `json:"name"`
	Children []FolderTree `json:"children,omitempty"`
}

// Paths flattens the tree into a depth-first preorder list of full
// folder paths.  The node's own path comes first, then each child's
// subtree in service order; for the usual root node the first entry
// is "/".  Every returned path is already normalized.
func (t FolderTree) Paths() []FolderPath {
	return t.appendPaths(nil, "")
}

func (t FolderTree) appendPaths(paths []FolderPath, parent string) []FolderPath {
	path := NormalizeFolderPath(parent + "/" + t.Name)
	paths = append(paths, path)
	for _, child := range t.Children {
		paths = child.appendPaths(paths, string(path))
	}
	return paths
}
