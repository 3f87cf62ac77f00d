// Package geomedea is the top-level entry point for reading and writing
// geomedea files: a binary container for geospatial features with a packed
// Hilbert R-tree index, usable equally over a local file or a byte-range
// HTTP source.
//
// File wraps localio.File for random-access local reads. RemoteFile wraps
// rangeio.HTTPReader for streaming reads over HTTP Range requests. Both
// expose the same SelectAll/SelectBbox shape as iter.Seq2[Feature, error],
// so callers can range over either with the same loop and stop early with a
// plain break.
package geomedea

import (
	"context"
	"io"
	"iter"
	"net/http"

	"github.com/michaelkirk/geomedea/coord"
	"github.com/michaelkirk/geomedea/feature"
	"github.com/michaelkirk/geomedea/header"
	"github.com/michaelkirk/geomedea/localio"
	"github.com/michaelkirk/geomedea/property"
	"github.com/michaelkirk/geomedea/rangeio"
	"github.com/michaelkirk/geomedea/writer"
)

// Feature, Bounds and Option are re-exported so callers importing only the
// top-level package never need to reach into feature/coord/writer directly
// for the common path.
type (
	Feature = feature.Feature
	Bounds  = coord.Bounds
)

// WriterOption configures Create. It's a type alias to writer.Option so
// writer.With... constructors can be passed here directly.
type WriterOption = writer.Option

// ReaderOption configures Open/OpenRemote. It's a type alias to
// rangeio.Option so rangeio.With... constructors can be passed here
// directly for the remote path; local reads take no options today.
type ReaderOption = rangeio.Option

// File is a geomedea file on local disk, opened for random-access reads.
type File struct {
	inner *localio.File
}

// Open opens the geomedea file at path, reading its header and index into
// memory.
func Open(path string) (*File, error) {
	f, err := localio.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{inner: f}, nil
}

// Header returns the file's decoded header.
func (f *File) Header() header.Header {
	return f.inner.Header()
}

// SelectAll streams every feature in the file.
func (f *File) SelectAll() iter.Seq2[Feature, error] {
	return f.inner.SelectAll()
}

// SelectBbox streams every feature, from a page that intersects q, whose own
// bounds intersect q.
func (f *File) SelectBbox(q Bounds) iter.Seq2[Feature, error] {
	return f.inner.SelectBbox(q)
}

// Close releases the file's underlying descriptor.
func (f *File) Close() error {
	return f.inner.Close()
}

// RemoteFile is a geomedea file served over HTTP byte-range requests.
type RemoteFile struct {
	inner *rangeio.HTTPReader
}

// OpenRemote fetches and decodes the header and index of the geomedea file
// at url, which must support HTTP Range requests.
func OpenRemote(ctx context.Context, url string, opts ...ReaderOption) (*RemoteFile, error) {
	return OpenRemoteWithClient(ctx, url, nil, opts...)
}

// OpenRemoteWithClient is OpenRemote with an explicit *http.Client, for
// callers that need custom transport settings (retries, auth headers,
// proxying). A nil client uses http.DefaultClient.
func OpenRemoteWithClient(ctx context.Context, url string, client *http.Client, opts ...ReaderOption) (*RemoteFile, error) {
	r, err := rangeio.Open(ctx, &rangeio.HTTPRangeFetcher{URL: url, Client: client}, opts...)
	if err != nil {
		return nil, err
	}
	return &RemoteFile{inner: r}, nil
}

// Header returns the file's decoded header.
func (f *RemoteFile) Header() header.Header {
	return f.inner.Header()
}

// SelectAll streams every feature in the file. Breaking out of the
// consuming range loop aborts any request still in flight.
func (f *RemoteFile) SelectAll(ctx context.Context) iter.Seq2[Feature, error] {
	return f.inner.SelectAll(ctx)
}

// SelectBbox streams every feature, from a page that intersects q, whose own
// bounds intersect q.
func (f *RemoteFile) SelectBbox(ctx context.Context, q Bounds) iter.Seq2[Feature, error] {
	return f.inner.SelectBbox(ctx, q)
}

// Create opens a new Writer over dst. Finished pages are spooled to a
// temporary file as AddFeature fills the page budget; nothing is written to
// dst until Close, which writes the complete geomedea file.
func Create(dst io.Writer, schema Schema, opts ...WriterOption) (*Writer, error) {
	return writer.New(dst, schema, opts...)
}

// Writer and Schema are re-exported for the same reason as Feature/Bounds
// above: the common write path never needs the writer/property packages by
// name.
type (
	Writer = writer.Writer
	Schema = property.Schema
)
