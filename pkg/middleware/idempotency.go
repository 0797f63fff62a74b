package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"hotel-reservation/pkg/utils"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	maxIdempotentBody = 1 << 20
)

var (
	ErrKeyInFlight = errors.New("idempotency key is still being processed")
	ErrKeyReused   = errors.New("idempotency key was used with a different request")
)

// IdempotencyStore remembers one outcome per scoped key. Reserve claims a
// key before the handler runs; the claim ends with Complete or Release.
type IdempotencyStore interface {
	Reserve(key, fingerprint string) (*CachedResponse, error)
	Complete(key string, response *CachedResponse)
	Release(key string)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

type idempotencyEntry struct {
	fingerprint string
	response    *CachedResponse // nil while the first request is running
	reservedAt  time.Time
}

type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]*idempotencyEntry
	ttl     time.Duration
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries: make(map[string]*idempotencyEntry),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go store.sweep(min(ttl, time.Hour))

	return store
}

// Reserve returns the stored response for a finished request with the same
// fingerprint, or claims the key and returns nil.
func (s *InMemoryIdempotencyStore) Reserve(key, fingerprint string) (*CachedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && !s.expired(entry) {
		switch {
		case entry.fingerprint != fingerprint:
			return nil, ErrKeyReused
		case entry.response == nil:
			return nil, ErrKeyInFlight
		default:
			return entry.response, nil
		}
	}

	s.entries[key] = &idempotencyEntry{fingerprint: fingerprint, reservedAt: s.now()}
	return nil, nil
}

func (s *InMemoryIdempotencyStore) Complete(key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		entry.response = response
		entry.reservedAt = s.now()
	}
}

func (s *InMemoryIdempotencyStore) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && entry.response == nil {
		delete(s.entries, key)
	}
}

func (s *InMemoryIdempotencyStore) expired(entry *idempotencyEntry) bool {
	return s.now().Sub(entry.reservedAt) > s.ttl
}

func (s *InMemoryIdempotencyStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, entry := range s.entries {
				if s.expired(entry) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key. Keys are scoped to method, path and caller, so it must
// run after the session middleware. Reusing a key with another body is
// rejected with 422.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(IdempotencyHeader)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdempotentBody))
			if err != nil {
				utils.ResponseBadRequest(w, "Request body is too large", nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := r.Method + " " + r.URL.Path + " " + utils.CallerScope(r.Context()) + " " + header
			sum := sha256.Sum256(body)

			cached, err := store.Reserve(key, hex.EncodeToString(sum[:]))
			switch {
			case errors.Is(err, ErrKeyReused):
				utils.ResponseUnprocessable(w, "Idempotency-Key was already used with a different request")
				return
			case errors.Is(err, ErrKeyInFlight):
				utils.ResponseConflict(w, "A request with this Idempotency-Key is still in progress")
				return
			case cached != nil:
				for k, values := range cached.Headers {
					for _, v := range values {
						w.Header().Add(k, v)
					}
				}
				w.Header().Set(ReplayedHeader, "true")
				w.WriteHeader(cached.StatusCode)
				_, _ = w.Write(cached.Body)
				return
			}

			completed := false
			defer func() {
				if !completed {
					store.Release(key)
				}
			}()

			capture := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(capture, r)

			if capture.statusCode >= 200 && capture.statusCode < 300 {
				store.Complete(key, &CachedResponse{
					StatusCode: capture.statusCode,
					Headers:    w.Header().Clone(),
					Body:       bytes.Clone(capture.body.Bytes()),
				})
				completed = true
			}
		})
	}
}
