package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pkt = time.FixedZone("PKT", 5*60*60)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"21:00", TimeOfDay{21, 0, 0}, false},
		{"21:56:49", TimeOfDay{21, 56, 49}, false},
		{"05:59:59.123456", TimeOfDay{5, 59, 59}, false},
		{" 00:00:00 ", TimeOfDay{0, 0, 0}, false},
		{"24:00", TimeOfDay{}, true},
		{"12:60", TimeOfDay{}, true},
		{"12", TimeOfDay{}, true},
		{"ab:cd", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "07:05:09", TimeOfDay{7, 5, 9}.String())
	assert.Equal(t, 1316, MustParseTimeOfDay("21:56:58").Minutes())
}

func TestAttendanceDate(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"evening belongs to today", time.Date(2025, 3, 10, 21, 30, 0, 0, pkt), "2025-03-10"},
		{"midnight belongs to yesterday", time.Date(2025, 3, 11, 0, 0, 0, 0, pkt), "2025-03-10"},
		{"05:59 belongs to yesterday", time.Date(2025, 3, 11, 5, 59, 59, 0, pkt), "2025-03-10"},
		{"06:00 belongs to today", time.Date(2025, 3, 11, 6, 0, 0, 0, pkt), "2025-03-11"},
		{"afternoon belongs to today", time.Date(2025, 3, 11, 14, 0, 0, 0, pkt), "2025-03-11"},
		{"month boundary", time.Date(2025, 4, 1, 2, 0, 0, 0, pkt), "2025-03-31"},
		{"year boundary", time.Date(2026, 1, 1, 1, 0, 0, 0, pkt), "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AttendanceDate(tt.at).Format("2006-01-02"))
		})
	}
}

func TestClassifyCheckInOnTimeWindow(t *testing.T) {
	for m := ShiftStartMinutes; m <= GraceEndMinutes; m++ {
		got := ClassifyCheckIn(TimeOfDay{Hour: m / 60, Minute: m % 60})
		assert.False(t, got.IsLate, "minute %d", m)
		assert.True(t, got.OnTime, "minute %d", m)
		assert.Equal(t, 0, got.LateByMinutes, "minute %d", m)
		assert.Equal(t, StatusPresent, got.Status)
	}
}

func TestClassifyCheckInLateEvening(t *testing.T) {
	for m := GraceEndMinutes + 1; m < MinutesPerDay; m++ {
		got := ClassifyCheckIn(TimeOfDay{Hour: m / 60, Minute: m % 60})
		assert.True(t, got.IsLate, "minute %d", m)
		assert.Equal(t, m-GraceEndMinutes, got.LateByMinutes, "minute %d", m)
		assert.Equal(t, StatusLate, got.Status)
	}
}

func TestClassifyCheckInEarlyMorning(t *testing.T) {
	for m := 0; m <= MorningEndMinutes; m++ {
		got := ClassifyCheckIn(TimeOfDay{Hour: m / 60, Minute: m % 60})
		assert.True(t, got.IsLate, "minute %d", m)
		assert.Equal(t, 165+m, got.LateByMinutes, "minute %d", m)
		assert.Equal(t, m < MorningEndMinutes, got.InShift, "minute %d", m)
	}

	assert.Equal(t, 165, ClassifyCheckIn(MustParseTimeOfDay("00:00")).LateByMinutes)
	assert.Equal(t, 525, ClassifyCheckIn(MustParseTimeOfDay("06:00")).LateByMinutes)
}

func TestClassifyCheckInOutsideShift(t *testing.T) {
	for _, s := range []string{"06:01", "12:00", "20:59"} {
		got := ClassifyCheckIn(MustParseTimeOfDay(s))
		assert.False(t, got.InShift, s)
		assert.False(t, got.IsLate, s)
		assert.Equal(t, StatusPresent, got.Status, s)
	}
}

func TestIsShiftTime(t *testing.T) {
	for _, s := range []string{"21:00", "23:59:59", "00:00", "05:59:59"} {
		assert.True(t, IsShiftTime(MustParseTimeOfDay(s)), s)
	}
	for _, s := range []string{"06:00", "06:01", "12:00", "20:59:59"} {
		assert.False(t, IsShiftTime(MustParseTimeOfDay(s)), s)
	}
}

func TestIsEarlyMorning(t *testing.T) {
	assert.True(t, IsEarlyMorning(MustParseTimeOfDay("00:10")))
	assert.True(t, IsEarlyMorning(MustParseTimeOfDay("05:59")))
	assert.False(t, IsEarlyMorning(MustParseTimeOfDay("06:00")))
	assert.False(t, IsEarlyMorning(MustParseTimeOfDay("22:00")))
}
