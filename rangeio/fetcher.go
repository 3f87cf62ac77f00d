package rangeio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/michaelkirk/geomedea/errs"
)

// RangeFetcher is the streaming HTTP range client geomedea's core assumes
// as a collaborator (spec §1, §4.7): given a byte range, return a stream of
// exactly that many bytes. Canceling ctx MUST abort the underlying request.
//
// No HTTP client library in the example corpus offers a byte-range request
// client (the one HTTP-adjacent dependency available, gorilla/mux, is
// server-side routing middleware with nothing to exercise here), so
// HTTPRangeFetcher below is a direct net/http implementation rather than a
// wrapped third-party client.
type RangeFetcher interface {
	FetchRange(ctx context.Context, offset, length uint64) (io.ReadCloser, error)
}

// HTTPRangeFetcher is the reference RangeFetcher: a GET request against URL
// with a Range header, requiring the server to honor it with 206 Partial
// Content.
type HTTPRangeFetcher struct {
	URL    string
	Client *http.Client
}

// FetchRange issues a single ranged GET for [offset, offset+length).
func (f *HTTPRangeFetcher) FetchRange(ctx context.Context, offset, length uint64) (io.ReadCloser, error) {
	if length == 0 {
		return io.NopCloser(noBytesReader{}), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building range request: %s", errs.ErrIO, err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrIO, err)
	}
	if resp.StatusCode != http.StatusPartialContent {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: server returned %s instead of 206 Partial Content", errs.ErrIO, resp.Status)
	}
	return resp.Body, nil
}

type noBytesReader struct{}

func (noBytesReader) Read([]byte) (int, error) { return 0, io.EOF }
