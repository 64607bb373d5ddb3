package event

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func febRoute() Event {
	return Event{
		ID:          "e1",
		Name:        "Ruta de Febrero",
		Slug:        "ruta-febrero",
		ActiveDates: ActiveDates{Start: "2026-02-01", End: "2026-02-15"},
	}
}

func TestIsActive_InclusiveBoundaries(t *testing.T) {
	e := febRoute()

	tests := []struct {
		day  string
		want bool
	}{
		{"2026-01-31", false},
		{"2026-02-01", true},
		{"2026-02-08", true},
		{"2026-02-15", true},
		{"2026-02-16", false},
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(e, tt.day))
		})
	}
}

func TestIsActive_NoWindow(t *testing.T) {
	assert.False(t, IsActive(Event{ID: "x"}, "2026-02-01"))
}

func TestToday_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 01:00 local on Feb 1 is still Jan 31 in UTC
	ts := time.Date(2026, 2, 1, 1, 0, 0, 0, loc)
	assert.Equal(t, "2026-01-31", Today(ts))
}

func TestSelectActive(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	old := Event{ID: "old", ActiveDates: ActiveDates{Start: "2025-01-01", End: "2025-01-10"}, CreatedAt: base}
	feb := febRoute()
	feb.CreatedAt = base.Add(24 * time.Hour)
	newest := Event{ID: "newest", ActiveDates: ActiveDates{Start: "2027-01-01", End: "2027-01-10"}, CreatedAt: base.Add(48 * time.Hour)}

	events := []Event{old, newest, feb}

	got := SelectActive(events, "2026-02-10")
	require.NotNil(t, got)
	assert.Equal(t, "e1", got.ID)

	// nothing active: most recent wins
	got = SelectActive(events, "2030-01-01")
	require.NotNil(t, got)
	assert.Equal(t, "newest", got.ID)

	assert.Nil(t, SelectActive(nil, "2026-02-10"))
}

func TestSelectActive_PrefersNewestAmongActive(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := febRoute()
	a.ID, a.CreatedAt = "a", base
	b := febRoute()
	b.ID, b.CreatedAt = "b", base.Add(time.Hour)

	got := SelectActive([]Event{a, b}, "2026-02-05")
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)
}

func TestPartition(t *testing.T) {
	active, inactive := Partition([]Event{febRoute(), {ID: "none"}}, "2026-02-02")
	require.Len(t, active, 1)
	require.Len(t, inactive, 1)
	assert.Equal(t, "e1", active[0].ID)
}

func TestActiveDates_UnmarshalForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ActiveDates
	}{
		{"object", `{"start":"2026-02-01","end":"2026-02-15"}`, ActiveDates{Start: "2026-02-01", End: "2026-02-15"}},
		{"pair", `["2026-02-01","2026-02-15"]`, ActiveDates{Start: "2026-02-01", End: "2026-02-15"}},
		{"single day", `["2026-02-03"]`, ActiveDates{Start: "2026-02-03", End: "2026-02-03"}},
		{"empty array", `[]`, ActiveDates{}},
		{"null", `null`, ActiveDates{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ActiveDates
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActiveDates_SingleDayActiveOnlyThatDay(t *testing.T) {
	var d ActiveDates
	require.NoError(t, json.Unmarshal([]byte(`["2026-02-03"]`), &d))
	e := Event{ActiveDates: d}

	assert.True(t, IsActive(e, "2026-02-03"))
	assert.False(t, IsActive(e, "2026-02-04"))
}

func TestActiveDates_UnmarshalInsideEvent(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","slug":"x","active_dates":["2026-02-01","2026-02-15"]}`), &e))
	assert.True(t, IsActive(e, "2026-02-15"))
}

func TestActiveDates_UnmarshalRejectsScalar(t *testing.T) {
	var d ActiveDates
	assert.Error(t, json.Unmarshal([]byte(`"2026-02-01"`), &d))
}

func TestActiveDates_ScanValue(t *testing.T) {
	d := ActiveDates{Start: "2026-02-01", End: "2026-02-15"}
	v, err := d.Value()
	require.NoError(t, err)

	var back ActiveDates
	require.NoError(t, back.Scan([]byte(v.(string))))
	assert.Equal(t, d, back)

	v, err = ActiveDates{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, back.Scan(nil))
	assert.True(t, back.IsZero())
}

func TestActiveDates_Validate(t *testing.T) {
	assert.NoError(t, ActiveDates{}.Validate())
	assert.NoError(t, febRoute().ActiveDates.Validate())
	assert.Error(t, ActiveDates{Start: "2026-02-15", End: "2026-02-01"}.Validate())
	assert.Error(t, ActiveDates{Start: "02/01/2026", End: "2026-02-15"}.Validate())
}

func TestValidSlug(t *testing.T) {
	valid := []string{"a", "ruta-2026", "feria-de-abril", strings.Repeat("x", 50)}
	invalid := []string{"", "Ruta", "ruta_2026", "ruta 2026", "ñam", strings.Repeat("x", 51)}

	for _, s := range valid {
		assert.True(t, ValidSlug(s), s)
		assert.NoError(t, CheckSlug(s))
	}
	for _, s := range invalid {
		assert.False(t, ValidSlug(s), s)
		assert.ErrorIs(t, CheckSlug(s), ErrInvalidSlug)
	}
}
