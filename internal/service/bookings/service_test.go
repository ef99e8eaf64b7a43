package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	byID        *domain.Booking
	byIDErr     error
	byClient    []*domain.Booking
	byStaff     []*domain.Booking
	lastFilter  domain.StaffBookingsFilter
	cancelledID int64
	cancelErr   error
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeBookingRepo) GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.byClient, nil
}

func (f *fakeBookingRepo) GetByStaffWithFilter(ctx context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	return f.byStaff, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelledID = id
	return nil
}

type fakePhorestClient struct {
	cancelledRef string
	cancelErr    error
}

func (f *fakePhorestClient) CancelAppointment(ctx context.Context, appointmentID string, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelledRef = appointmentID
	return nil
}

func newTestService(t *testing.T, repo *fakeBookingRepo, crm *fakePhorestClient) *Service {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	return NewService(repo, crm, loc, nopLogger{})
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:          10,
		ClientID:    5,
		StaffID:     1,
		StartUTC:    time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC),
		EndUTC:      time.Date(2026, 9, 7, 7, 30, 0, 0, time.UTC),
		Status:      domain.StatusBooked,
		ServiceName: "Стрижка",
	}
}

func TestGetByID_Success(t *testing.T) {
	repo := &fakeBookingRepo{byID: testBooking()}
	svc := newTestService(t, repo, &fakePhorestClient{})

	result, err := svc.GetByID(context.Background(), 10, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(10), result.ID)
	// Местное время вычислено в бизнес-таймзоне (Москва = UTC+3)
	assert.Equal(t, "2026-09-07", result.Date)
	assert.Equal(t, "10:00", result.StartLocal)
}

func TestGetByID_AccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{byID: testBooking()}
	svc := newTestService(t, repo, &fakePhorestClient{})

	_, err := svc.GetByID(context.Background(), 10, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{byIDErr: bookingRepo.ErrBookingNotFound}
	svc := newTestService(t, repo, &fakePhorestClient{})

	_, err := svc.GetByID(context.Background(), 10, 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetStaffBookings_FilterConversion(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newTestService(t, repo, &fakePhorestClient{})

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	status := "booked"

	_, err := svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
		StaffID:         1,
		FromUTC:         &from,
		ToUTC:           &to,
		Status:          &status,
		IncludeInactive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), repo.lastFilter.StaffID)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusBooked, *repo.lastFilter.Status)
	assert.True(t, repo.lastFilter.IncludeInactive)
}

func TestGetStaffBookings_InvalidInput(t *testing.T) {
	svc := newTestService(t, &fakeBookingRepo{}, &fakePhorestClient{})

	from := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
		StaffID: 1,
		FromUTC: &from,
		ToUTC:   &to,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	badStatus := "pending"
	_, err = svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
		StaffID: 1,
		Status:  &badStatus,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_Success(t *testing.T) {
	booking := testBooking()
	booking.ExternalRef = ptr.Ptr("appt-1")
	repo := &fakeBookingRepo{byID: booking}
	crm := &fakePhorestClient{}
	svc := newTestService(t, repo, crm)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{
		ClientID:           5,
		CancellationReason: "не смогу прийти",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), repo.cancelledID)
	// Отмена дошла и до внешнего календаря
	assert.Equal(t, "appt-1", crm.cancelledRef)
}

func TestCancel_PhorestFailureDoesNotFailCancellation(t *testing.T) {
	booking := testBooking()
	booking.ExternalRef = ptr.Ptr("appt-1")
	repo := &fakeBookingRepo{byID: booking}
	crm := &fakePhorestClient{cancelErr: errors.New("crm unavailable")}
	svc := newTestService(t, repo, crm)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{ClientID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(10), repo.cancelledID)
}

func TestCancel_WithoutExternalRefSkipsPhorest(t *testing.T) {
	repo := &fakeBookingRepo{byID: testBooking()}
	crm := &fakePhorestClient{}
	svc := newTestService(t, repo, crm)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{ClientID: 5})
	require.NoError(t, err)
	assert.Empty(t, crm.cancelledRef)
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{byID: testBooking()}
	svc := newTestService(t, repo, &fakePhorestClient{})

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{ClientID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.cancelledID)
}

func TestCancel_CannotCancelNonBooked(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusNoShow,
	} {
		booking := testBooking()
		booking.Status = status
		repo := &fakeBookingRepo{byID: booking}
		svc := newTestService(t, repo, &fakePhorestClient{})

		err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{ClientID: 5})
		assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
	}
}
