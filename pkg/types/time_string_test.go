package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "09:30", want: "09:30"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "23:59", want: "23:59"},
		{name: "missing leading zero", input: "9:30", wantErr: true},
		{name: "out of range hour", input: "24:00", wantErr: true},
		{name: "out of range minute", input: "10:60", wantErr: true},
		{name: "with seconds", input: "10:00:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Clock(t *testing.T) {
	ts := TimeString("14:45")

	hour, minute, err := ts.Clock()
	require.NoError(t, err)
	assert.Equal(t, 14, hour)
	assert.Equal(t, 45, minute)
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))

	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("17:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))

	// Некорректные значения не считаются ни раньше, ни позже
	assert.False(t, TimeString("bogus").IsBefore("09:00"))
	assert.False(t, TimeString("bogus").IsAfter("09:00"))
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("10:00").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:45"), got)

	got, err = TimeString("10:30").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:00"), got)

	// Выход за границу суток - ошибка
	_, err = TimeString("23:30").AddMinutes(60)
	assert.Error(t, err)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.Error(t, err)

	_, err = TimeString("00:30").AddMinutes(-60)
	assert.Error(t, err)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит с секундами
	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("17:30")))
	assert.Equal(t, TimeString("17:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 7, 9, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("09:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan("25:00:00"))
	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bogus").Value()
	assert.Error(t, err)
}

func TestTimeString_JSON(t *testing.T) {
	data, err := json.Marshal(TimeString("10:00"))
	require.NoError(t, err)
	assert.Equal(t, `"10:00"`, string(data))

	var ts TimeString
	require.NoError(t, json.Unmarshal([]byte(`"17:45"`), &ts))
	assert.Equal(t, TimeString("17:45"), ts)

	assert.Error(t, json.Unmarshal([]byte(`"25:99"`), &ts))
}
