// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/vinyl/internal/services"
)

// FakeCollectionSource is a test double for [services.CollectionSource] serving fixed pages.
//
// When Err is set, the request for page FailOn (or every page when FailOn is 0) returns it.
// A done context fails the request with its error. OmitPage leaves pagination.page unset in every response.
type FakeCollectionSource struct {
	Pages    [][]services.Release
	Err      error
	FailOn   int
	OmitPage bool
	Calls    []int // pages requested, in order
}

// NewFakeCollectionSource serves each argument as one page.
func NewFakeCollectionSource(pages ...[]services.Release) *FakeCollectionSource {
	return &FakeCollectionSource{Pages: pages}
}

func (f *FakeCollectionSource) FetchCollectionPage(ctx context.Context, userID, token string, page, perPage int) (*services.CollectionPage, error) {
	f.Calls = append(f.Calls, page)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil && (f.FailOn == 0 || f.FailOn == page) {
		return nil, f.Err
	}

	result := &services.CollectionPage{
		Pagination: services.Pagination{Page: page, Pages: len(f.Pages), PerPage: perPage},
	}
	if page >= 1 && page <= len(f.Pages) {
		result.Releases = f.Pages[page-1]
	}
	for _, p := range f.Pages {
		result.Pagination.Items += len(p)
	}
	if f.OmitPage {
		result.Pagination.Page = 0
	}
	return result, nil
}

func (f *FakeCollectionSource) Name() string { return "fake" }

// Release builds a [services.Release] with a known year.
func Release(id int64, artist, title string, year int) services.Release {
	return services.Release{ID: id, Artists: artist, Title: title, Year: &year}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
