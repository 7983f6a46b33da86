// Package bookings persists completed drafts as an append-only JSON array
// under a single storage key and reads back the most recent one.
package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"gym-booking/internal/database"
	"gym-booking/internal/metrics"
	"gym-booking/internal/models"
)

// DefaultKey is the storage key holding the booking list.
const DefaultKey = "gym_bookings"

// Messages shown for the saved-booking card.
const (
	MsgNoSavedBooking = "No saved booking yet."
	MsgUnreadable     = "Could not read saved bookings. Try saving a new one."
	MsgSaved          = "Booking saved successfully."
)

// savedAtLayout matches the ISO-8601 form produced by JavaScript's toISOString.
const savedAtLayout = "2006-01-02T15:04:05.000Z07:00"

var tracer = otel.Tracer("gym-booking/internal/bookings")

// errMalformed marks a stored value that is not valid JSON, or whose last
// element is not a booking object.
var errMalformed = errors.New("bookings: stored value is malformed")

// Store reads and appends booking records. Save serializes its
// read-modify-write with a mutex, which covers one process only; two
// processes sharing a backend can still lose an append.
type Store struct {
	db       database.Service
	key      string
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
	metrics  *metrics.WizardMetrics

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLocation sets the time zone savedAt is displayed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.location = loc }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for save and discard events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics records load and save outcomes on m.
func WithMetrics(m *metrics.WizardMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore returns a Store over db.
func NewStore(db database.Service, opts ...Option) *Store {
	s := &Store{
		db:       db,
		key:      DefaultKey,
		location: time.Local,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// Load reads the stored list and describes its last record. Malformed data
// is reported through the result, not the error; the error is reserved for
// backend failures.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	ctx, span := tracer.Start(ctx, "bookings.load", trace.WithAttributes(attribute.String("bookings.key", s.key)))
	defer span.End()

	raw, ok, err := s.db.Get(ctx, s.key)
	if err != nil {
		span.RecordError(err)
		return LoadResult{}, fmt.Errorf("bookings: load: %w", err)
	}

	result := s.describe(raw, ok)
	span.SetAttributes(attribute.String("bookings.status", string(result.Status)))
	s.metrics.ObserveLoad(string(result.Status))
	return result, nil
}

func (s *Store) describe(raw string, present bool) LoadResult {
	if !present || raw == "" {
		return emptyResult()
	}
	list, err := decodeList(raw)
	if errors.Is(err, errMalformed) {
		s.logger.Warn("stored bookings are not valid JSON", zap.String("key", s.key), zap.Int("bytes", len(raw)))
		return malformedResult()
	}
	if err != nil || len(list) == 0 {
		return emptyResult()
	}

	last, err := decodeRecord(list[len(list)-1])
	if err != nil {
		s.logger.Warn("last stored booking is not an object", zap.String("key", s.key), zap.Error(err))
		return malformedResult()
	}
	return LoadResult{
		Status: StatusFound,
		Count:  len(list),
		Last:   &last,
		Card:   RenderCard(last, s.location),
	}
}

// Save appends a snapshot of draft stamped with the current time, writes
// the whole list back and returns the refreshed Load result.
//
// An unreadable stored value is replaced by a fresh list. Elements of a
// readable list are written back JSON-equivalent (compacted, never
// HTML-escaped), including ones this package cannot decode.
func (s *Store) Save(ctx context.Context, draft models.Draft) (LoadResult, error) {
	ctx, span := tracer.Start(ctx, "bookings.save", trace.WithAttributes(attribute.String("bookings.key", s.key)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.readForAppend(ctx)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveSave(false)
		return LoadResult{}, err
	}

	rec := models.Record{Draft: draft, SavedAt: s.now().UTC().Format(savedAtLayout)}
	encoded, err := marshal(rec)
	if err != nil {
		s.metrics.ObserveSave(false)
		return LoadResult{}, fmt.Errorf("bookings: encode record: %w", err)
	}
	list = append(list, encoded)

	data, err := marshal(list)
	if err != nil {
		s.metrics.ObserveSave(false)
		return LoadResult{}, fmt.Errorf("bookings: encode list: %w", err)
	}
	if err := s.db.Set(ctx, s.key, string(data)); err != nil {
		span.RecordError(err)
		s.metrics.ObserveSave(false)
		return LoadResult{}, fmt.Errorf("bookings: save: %w", err)
	}

	s.metrics.ObserveSave(true)
	span.SetAttributes(attribute.Int("bookings.count", len(list)))
	s.logger.Info("booking saved", zap.String("key", s.key), zap.Int("count", len(list)), zap.String("saved_at", rec.SavedAt))

	return s.describe(string(data), true), nil
}

// marshal encodes v compactly without escaping <, > and &.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (s *Store) readForAppend(ctx context.Context) ([]json.RawMessage, error) {
	raw, ok, err := s.db.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("bookings: read before save: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	list, err := decodeList(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable stored bookings", zap.String("key", s.key), zap.Int("bytes", len(raw)), zap.Error(err))
		s.metrics.ObserveDiscardedList()
		return nil, nil
	}
	return list, nil
}

// List returns every stored record in save order. Absent or empty data
// yields an empty slice; unreadable data yields ErrUnreadable.
func (s *Store) List(ctx context.Context) ([]models.Record, error) {
	raw, ok, err := s.db.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("bookings: list: %w", err)
	}
	records := []models.Record{}
	if !ok || raw == "" {
		return records, nil
	}
	list, err := decodeList(raw)
	if errors.Is(err, errMalformed) {
		return nil, ErrUnreadable
	}
	if err != nil {
		return records, nil
	}
	for _, item := range list {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, ErrUnreadable
		}
		records = append(records, rec)
	}
	return records, nil
}

// ErrUnreadable is returned by List when the stored value cannot be decoded.
var ErrUnreadable = errors.New(MsgUnreadable)

// errNotList marks valid JSON that is not an array.
var errNotList = errors.New("bookings: stored value is not a list")

// decodeList splits raw into its elements. Invalid JSON yields errMalformed;
// valid JSON that is not an array yields errNotList.
func decodeList(raw string) ([]json.RawMessage, error) {
	if !json.Valid([]byte(raw)) {
		return nil, errMalformed
	}
	var list []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, errNotList
	}
	return list, nil
}

func decodeRecord(item json.RawMessage) (models.Record, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return models.Record{}, fmt.Errorf("%w: element is not an object", errMalformed)
	}
	var rec models.Record
	if err := json.Unmarshal(item, &rec); err != nil {
		return models.Record{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return rec, nil
}
