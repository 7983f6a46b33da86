package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gym-booking/internal/database"
	"gym-booking/internal/metrics"
	"gym-booking/internal/models"
)

// MockDatabase is a mock implementation of the database.Service interface
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Health() map[string]string {
	return map[string]string{"status": "up"}
}

func (m *MockDatabase) Close() error {
	return nil
}

func (m *MockDatabase) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockDatabase) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockDatabase) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var testStart = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

// tickingClock returns testStart, then one second later on every call.
func tickingClock() func() time.Time {
	n := 0
	return func() time.Time {
		t := testStart.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

func sampleDraft() models.Draft {
	return models.Draft{
		Day:        "Monday",
		Time:       "7:00 AM",
		Membership: "standard",
		Trainer:    "alex",
		FirstName:  "Ann",
		LastName:   "Lee",
		BirthDate:  "03/07/1990",
	}
}

func newTestStore(t *testing.T, db database.Service) *Store {
	t.Helper()
	return NewStore(db,
		WithClock(tickingClock()),
		WithLocation(time.UTC),
		WithMetrics(metrics.NewWizardMetrics(prometheus.NewRegistry())),
	)
}

func TestLoadAbsent(t *testing.T) {
	s := newTestStore(t, database.NewMemory())

	res, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, res.Status)
	assert.Equal(t, MsgNoSavedBooking, res.Message)
	assert.Nil(t, res.Last)
}

func TestLoadStoredValues(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		status  Status
		message string
	}{
		{"not json", "not json", StatusMalformed, MsgUnreadable},
		{"truncated array", `[{"day":"Monday"`, StatusMalformed, MsgUnreadable},
		{"empty string", "", StatusEmpty, MsgNoSavedBooking},
		{"empty array", "[]", StatusEmpty, MsgNoSavedBooking},
		{"object", `{"day":"Monday"}`, StatusEmpty, MsgNoSavedBooking},
		{"string", `"hello"`, StatusEmpty, MsgNoSavedBooking},
		{"number", "42", StatusEmpty, MsgNoSavedBooking},
		{"null", "null", StatusEmpty, MsgNoSavedBooking},
		{"last element not an object", `[{"day":"Monday"}, 7]`, StatusMalformed, MsgUnreadable},
		{"last element null", `[null]`, StatusMalformed, MsgUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := database.NewMemory()
			require.NoError(t, db.Set(context.Background(), DefaultKey, tt.stored))
			s := newTestStore(t, db)

			res, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.message, res.Message)

			after, ok, err := db.Get(context.Background(), DefaultKey)
			require.NoError(t, err)
			assert.True(t, ok, "load must never clear the stored value")
			assert.Equal(t, tt.stored, after)
		})
	}
}

func TestLoadShowsLastRecord(t *testing.T) {
	db := database.NewMemory()
	stored := `[
		{"day":"Monday","time":"7:00 AM","membership":"basic","trainer":"sam","firstName":"Old","middleName":"","lastName":"Entry","birthDate":"01/01/1970","savedAt":"2026-01-01T00:00:00.000Z"},
		{"day":"Friday","time":"7:00 AM","membership":"premium","trainer":"jordan","firstName":"Ann","middleName":"Marie","lastName":"Lee","birthDate":"03/07/1990","savedAt":"2026-10-16T09:30:00.000Z"}
	]`
	require.NoError(t, db.Set(context.Background(), DefaultKey, stored))
	s := newTestStore(t, db)

	res, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, 2, res.Count)
	require.NotNil(t, res.Last)
	assert.Equal(t, "Friday", res.Last.Day)

	assert.Equal(t, []CardLine{
		{Label: "Day", Value: "Friday"},
		{Label: "Time", Value: "7:00 AM"},
		{Label: "Membership", Value: "premium"},
		{Label: "Trainer", Value: "jordan"},
		{Label: "Name", Value: "Ann Marie Lee"},
		{Label: "Birth Date", Value: "03/07/1990"},
		{Label: "Saved At", Value: "Oct 16, 2026, 9:30:00 AM"},
	}, res.Card)
}

func TestSaveRoundTrip(t *testing.T) {
	s := newTestStore(t, database.NewMemory())
	draft := sampleDraft()

	res, err := s.Save(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, StatusFound, res.Status)
	require.NotNil(t, res.Last)
	assert.Equal(t, draft, res.Last.Draft)
	assert.Equal(t, "2026-10-16T09:30:00.000Z", res.Last.SavedAt)

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, draft, loaded.Last.Draft)
}

func TestSaveTwiceAppendsTwoRecords(t *testing.T) {
	db := database.NewMemory()
	s := newTestStore(t, db)
	draft := sampleDraft()

	_, err := s.Save(context.Background(), draft)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), draft)
	require.NoError(t, err)

	records, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, records[0].Draft, records[1].Draft)
	assert.NotEqual(t, records[0].SavedAt, records[1].SavedAt)
	assert.Equal(t, "2026-10-16T09:30:01.000Z", records[1].SavedAt)
}

func TestSaveWritesStorageFormat(t *testing.T) {
	db := database.NewMemory()
	s := newTestStore(t, db)

	_, err := s.Save(context.Background(), sampleDraft())
	require.NoError(t, err)

	raw, ok, err := db.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)

	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &list))
	require.Len(t, list, 1)
	assert.Equal(t, map[string]any{
		"day":        "Monday",
		"time":       "7:00 AM",
		"membership": "standard",
		"trainer":    "alex",
		"firstName":  "Ann",
		"middleName": "",
		"lastName":   "Lee",
		"birthDate":  "03/07/1990",
		"savedAt":    "2026-10-16T09:30:00.000Z",
	}, list[0])
}

func TestSaveKeepsExistingElements(t *testing.T) {
	db := database.NewMemory()
	require.NoError(t, db.Set(context.Background(), DefaultKey, `[{"day":"Old","note":"kept"}, 3]`))
	s := newTestStore(t, db)

	res, err := s.Save(context.Background(), sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)

	raw, _, err := db.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &list))
	require.Len(t, list, 3)
	assert.JSONEq(t, `{"day":"Old","note":"kept"}`, string(list[0]))
	assert.JSONEq(t, `3`, string(list[1]))
}

func TestSaveReplacesUnreadableValue(t *testing.T) {
	tests := []struct {
		stored    string
		discarded int
		count     int
	}{
		{stored: "not json", discarded: 1, count: 1},
		{stored: `{"day":"Monday"}`, discarded: 1, count: 1},
		{stored: `[]`, discarded: 0, count: 1},
		{stored: `[{"day":"Friday"}]`, discarded: 0, count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			db := database.NewMemory()
			require.NoError(t, db.Set(context.Background(), DefaultKey, tt.stored))

			reg := prometheus.NewRegistry()
			core, logs := observer.New(zapcore.WarnLevel)
			s := NewStore(db,
				WithClock(tickingClock()),
				WithLocation(time.UTC),
				WithLogger(zap.New(core)),
				WithMetrics(metrics.NewWizardMetrics(reg)),
			)

			res, err := s.Save(context.Background(), sampleDraft())
			require.NoError(t, err)
			assert.Equal(t, StatusFound, res.Status)
			assert.Equal(t, tt.count, res.Count)

			expected := fmt.Sprintf(`
# HELP gym_bookings_discarded_lists_total Unreadable stored booking lists replaced by a save
# TYPE gym_bookings_discarded_lists_total counter
gym_bookings_discarded_lists_total %d
`, tt.discarded)
			assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gym_bookings_discarded_lists_total"))

			warnings := logs.FilterMessage("discarding unreadable stored bookings")
			require.Equal(t, tt.discarded, warnings.Len())
			for _, entry := range warnings.All() {
				assert.Equal(t, zapcore.WarnLevel, entry.Level)
				assert.Equal(t, DefaultKey, entry.ContextMap()["key"])
			}
		})
	}
}

func TestSaveKeepsCharactersUnescaped(t *testing.T) {
	db := database.NewMemory()
	require.NoError(t, db.Set(context.Background(), DefaultKey, `[{"trainer":"Cardio & HIIT", "note":"<b>"}]`))
	s := newTestStore(t, db)

	draft := sampleDraft()
	draft.LastName = "Lee & Sons"
	_, err := s.Save(context.Background(), draft)
	require.NoError(t, err)

	raw, _, err := db.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `{"trainer":"Cardio & HIIT","note":"<b>"}`)
	assert.Contains(t, raw, `"lastName":"Lee & Sons"`)
	assert.NotContains(t, raw, `\u0026`)
	assert.False(t, strings.HasSuffix(raw, "\n"))
}

func TestSaveUsesConfiguredKey(t *testing.T) {
	db := database.NewMemory()
	s := NewStore(db, WithKey("kiosk_2"))
	assert.Equal(t, "kiosk_2", s.Key())

	_, err := s.Save(context.Background(), sampleDraft())
	require.NoError(t, err)

	_, ok, err := db.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = db.Get(context.Background(), "kiosk_2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSaveBackendErrors(t *testing.T) {
	t.Run("read fails", func(t *testing.T) {
		db := new(MockDatabase)
		db.On("Get", mock.Anything, DefaultKey).Return("", false, errors.New("timeout"))
		s := NewStore(db)

		_, err := s.Save(context.Background(), sampleDraft())
		assert.ErrorContains(t, err, "timeout")
		db.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
		db.AssertExpectations(t)
	})

	t.Run("write fails", func(t *testing.T) {
		db := new(MockDatabase)
		db.On("Get", mock.Anything, DefaultKey).Return("[]", true, nil)
		db.On("Set", mock.Anything, DefaultKey, mock.AnythingOfType("string")).Return(errors.New("read-only"))
		s := NewStore(db)

		_, err := s.Save(context.Background(), sampleDraft())
		assert.ErrorContains(t, err, "read-only")
		db.AssertExpectations(t)
	})
}

func TestLoadBackendError(t *testing.T) {
	db := new(MockDatabase)
	db.On("Get", mock.Anything, DefaultKey).Return("", false, errors.New("refused"))
	s := NewStore(db)

	_, err := s.Load(context.Background())
	assert.ErrorContains(t, err, "refused")
	db.AssertExpectations(t)
}

func TestListUnreadable(t *testing.T) {
	db := database.NewMemory()
	s := newTestStore(t, db)

	records, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, db.Set(context.Background(), DefaultKey, "not json"))
	_, err = s.List(context.Background())
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestFormatSavedAt(t *testing.T) {
	ny := time.FixedZone("EDT", -4*60*60)

	assert.Equal(t, "Oct 16, 2026, 9:30:00 AM", FormatSavedAt("2026-10-16T09:30:00.000Z", time.UTC))
	assert.Equal(t, "Oct 16, 2026, 5:30:00 AM", FormatSavedAt("2026-10-16T09:30:00.000Z", ny))
	assert.Equal(t, "yesterday", FormatSavedAt("yesterday", time.UTC))
}
