package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func TestUpdateWeeklyHoursRequest_ToDomain(t *testing.T) {
	req := &UpdateWeeklyHoursRequest{
		StaffID: 1,
		Days: []DayWindows{
			{
				Weekday: 1,
				Windows: []WindowPayload{
					// Пересекающиеся окна должны склеиться
					{Start: ts("13:00"), End: ts("17:00")},
					{Start: ts("09:00"), End: ts("14:00")},
				},
			},
			{Weekday: 2, Windows: nil},
		},
	}

	weekly, err := req.ToDomain()
	require.NoError(t, err)

	monday := weekly[time.Monday]
	require.Len(t, monday, 1)
	assert.Equal(t, ts("09:00"), monday[0].Start)
	assert.Equal(t, ts("17:00"), monday[0].End)

	// Пустой день присутствует в расписании как день без окон
	tuesday, ok := weekly[time.Tuesday]
	require.True(t, ok)
	assert.Empty(t, tuesday)
}

func TestUpdateWeeklyHoursRequest_ToDomain_Errors(t *testing.T) {
	tests := []struct {
		name string
		days []DayWindows
	}{
		{
			name: "weekday out of range",
			days: []DayWindows{{Weekday: 7}},
		},
		{
			name: "negative weekday",
			days: []DayWindows{{Weekday: -1}},
		},
		{
			name: "duplicate weekday",
			days: []DayWindows{{Weekday: 1}, {Weekday: 1}},
		},
		{
			name: "inverted window",
			days: []DayWindows{{
				Weekday: 1,
				Windows: []WindowPayload{{Start: ts("17:00"), End: ts("09:00")}},
			}},
		},
		{
			name: "malformed time",
			days: []DayWindows{{
				Weekday: 1,
				Windows: []WindowPayload{{Start: ts("9am"), End: ts("17:00")}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &UpdateWeeklyHoursRequest{StaffID: 1, Days: tt.days}
			_, err := req.ToDomain()
			assert.Error(t, err)
		})
	}
}

func TestCreateExceptionRequest_ToDomain(t *testing.T) {
	t.Run("closed without window", func(t *testing.T) {
		req := &CreateExceptionRequest{StaffID: 1, Date: "20260907", Kind: "closed"}

		row, err := req.ToDomain()
		require.NoError(t, err)
		assert.Equal(t, domain.DateID("20260907"), row.DateID)
		assert.Equal(t, domain.ExceptionClosed, row.Kind)
		assert.Nil(t, row.Window)
	})

	t.Run("closed with window rejected", func(t *testing.T) {
		req := &CreateExceptionRequest{
			StaffID: 1,
			Date:    "20260907",
			Kind:    "closed",
			Start:   tsPtr("10:00"),
			End:     tsPtr("12:00"),
		}

		_, err := req.ToDomain()
		assert.Error(t, err)
	})

	t.Run("modified requires both bounds", func(t *testing.T) {
		req := &CreateExceptionRequest{
			StaffID: 1,
			Date:    "20260907",
			Kind:    "modified",
			Start:   tsPtr("10:00"),
		}

		_, err := req.ToDomain()
		assert.Error(t, err)
	})

	t.Run("overtime with window", func(t *testing.T) {
		req := &CreateExceptionRequest{
			StaffID: 1,
			Date:    "20260907",
			Kind:    "overtime",
			Start:   tsPtr("18:00"),
			End:     tsPtr("20:00"),
		}

		row, err := req.ToDomain()
		require.NoError(t, err)
		require.NotNil(t, row.Window)
		assert.Equal(t, ts("18:00"), row.Window.Start)
		assert.Equal(t, ts("20:00"), row.Window.End)
	})

	t.Run("invalid date", func(t *testing.T) {
		req := &CreateExceptionRequest{StaffID: 1, Date: "2026-09-07", Kind: "closed"}

		_, err := req.ToDomain()
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		req := &CreateExceptionRequest{StaffID: 1, Date: "20260907", Kind: "vacation"}

		_, err := req.ToDomain()
		assert.Error(t, err)
	})
}

func TestFromDomainSchedule(t *testing.T) {
	staff := &domain.StaffMember{ID: 1, DisplayName: "Анна", Active: true}
	weekly := domain.WeeklyWindows{
		time.Monday: {{Start: ts("09:00"), End: ts("17:00")}},
		time.Friday: {{Start: ts("10:00"), End: ts("14:00")}},
	}
	window := domain.WorkingWindow{Start: ts("18:00"), End: ts("20:00")}
	exceptions := []domain.ExceptionRow{
		{DateID: "20260907", Kind: domain.ExceptionOvertime, Window: &window},
		{DateID: "20260908", Kind: domain.ExceptionClosed},
	}

	resp := FromDomainSchedule(staff, weekly, exceptions)

	assert.Equal(t, int64(1), resp.StaffID)
	assert.Equal(t, "Анна", resp.StaffName)
	assert.True(t, resp.Active)

	// Дни идут в порядке недели начиная с воскресенья
	require.Len(t, resp.Days, 2)
	assert.Equal(t, 1, resp.Days[0].Weekday)
	assert.Equal(t, 5, resp.Days[1].Weekday)

	require.Len(t, resp.Exceptions, 2)
	assert.Equal(t, "20260907", resp.Exceptions[0].Date)
	require.NotNil(t, resp.Exceptions[0].Start)
	assert.Equal(t, ts("18:00"), *resp.Exceptions[0].Start)
	assert.Nil(t, resp.Exceptions[1].Start)
}
