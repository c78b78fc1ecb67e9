// SPDX-License-Identifier: MPL-2.0

// Package archive unpacks source tarballs into a work directory. Compression
// is detected from the filename and, failing that, from magic bytes; gzip,
// bzip2, zstd, and lz4 framings are supported. Extraction refuses entries
// that would escape the destination and enforces size limits so a truncated
// or hostile archive fails cleanly before any build step runs.
package archive
