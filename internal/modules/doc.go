// SPDX-License-Identifier: MPL-2.0

// Package modules discovers the local modules of a working tree.
//
// A module is a directory holding a package.json manifest whose path,
// relative to the root, matches one of the configured source globs. Globs use
// shell syntax where "*" stays within one path segment and "**" crosses
// segments. The discovered order is deterministic: modules matched by an
// earlier source come first, and within one source paths are lexical.
package modules
