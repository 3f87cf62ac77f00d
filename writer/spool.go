package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"

	"github.com/michaelkirk/geomedea/errs"
)

// spool is the writer's scratch space for finished page bytes. The
// reference on-disk layout is header -> index -> feature pages, but a
// page's final byte offset isn't known until the index's own length is
// known, which in turn isn't known until every page has been written. So
// pages accumulate here, in arrival order, behind their own LZ4 frame
// (distinct from whatever compression the caller chose for the pages
// themselves) to keep temp-disk usage down independent of that choice.
//
// spool-relative offsets are just the cumulative uncompressed byte count at
// the time a page was written; Close replays the whole spool in the same
// order it was written, so no random access into the LZ4 stream is needed.
type spool struct {
	file *os.File
	w    *lz4.Writer
	pos  uint64
}

func newSpool() (*spool, error) {
	f, err := os.CreateTemp("", "geomedea-spool-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating spool file: %s", errs.ErrIO, err)
	}
	return &spool{file: f, w: lz4.NewWriter(f)}, nil
}

// writePage appends pageBytes and returns its spool-relative offset.
func (s *spool) writePage(pageBytes []byte) (uint64, error) {
	offset := s.pos
	n, err := s.w.Write(pageBytes)
	if err != nil {
		return 0, fmt.Errorf("%w: writing spool: %s", errs.ErrIO, err)
	}
	s.pos += uint64(n)
	return offset, nil
}

// copyTo flushes the LZ4 frame, rewinds the spool file, and streams the
// decompressed page bytes (in original arrival order) to dst.
func (s *spool) copyTo(dst io.Writer) error {
	if err := s.w.Close(); err != nil {
		return fmt.Errorf("%w: finishing spool frame: %s", errs.ErrIO, err)
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: rewinding spool: %s", errs.ErrIO, err)
	}
	if _, err := io.Copy(dst, lz4.NewReader(s.file)); err != nil {
		return fmt.Errorf("%w: replaying spool: %s", errs.ErrIO, err)
	}
	return nil
}

// cleanup closes and removes the backing temp file. Safe to call more than
// once; errors are not fatal since the caller is already past the point of
// recovering from them.
func (s *spool) cleanup() {
	name := s.file.Name()
	_ = s.file.Close()
	_ = os.Remove(name)
}
