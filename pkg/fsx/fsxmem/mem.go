package fsxmem

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/fsx"
)

// MemFileSystem keeps files in memory. Used for local runs without a bucket and in tests.
type MemFileSystem struct {
	mu      sync.RWMutex
	files   map[string][]byte
	baseURL string
	now     func() time.Time
}

var _ fsx.SignedFileSystem = (*MemFileSystem)(nil)

func New(baseURL string) *MemFileSystem {
	return &MemFileSystem{
		files:   make(map[string][]byte),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}
}

func clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func (m *MemFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (m *MemFileSystem) ReadFile(_ context.Context, p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[clean(p)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, fsx.ErrNotExist)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemFileSystem) WriteFile(_ context.Context, p string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean(p)] = buf
	return nil
}

func (m *MemFileSystem) Exists(_ context.Context, p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[clean(p)]
	return ok, nil
}

// SignedURL returns a URL carrying the expiry; it is not cryptographically signed
func (m *MemFileSystem) SignedURL(_ context.Context, p string, ttl time.Duration, opts fsx.SignOptions) (string, error) {
	key := clean(p)

	m.mu.RLock()
	_, ok := m.files[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%s: %w", p, fsx.ErrNotExist)
	}

	q := url.Values{}
	q.Set("expires", fmt.Sprintf("%d", m.now().Add(ttl).Unix()))
	if opts.DownloadName != "" {
		q.Set("download", opts.DownloadName)
	}
	return fmt.Sprintf("%s/%s?%s", m.baseURL, key, q.Encode()), nil
}
