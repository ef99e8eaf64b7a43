package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/phorest"
	"github.com/m04kA/SMC-SalonService/internal/service/validation"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeValidationService struct {
	vctx     *domain.ValidationContext
	buildErr error
	now      time.Time
}

func (f *fakeValidationService) BuildContext(ctx context.Context, staffID int64, rangeStart, rangeEnd time.Time) (*domain.ValidationContext, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return f.vctx, nil
}

func (f *fakeValidationService) ValidateSlot(proposedStartUTC time.Time, durationMinutes int, vctx *domain.ValidationContext) (*domain.ValidationResult, error) {
	return validation.Validate(f.now, proposedStartUTC, durationMinutes, vctx)
}

type fakeBookingRepo struct {
	created        *domain.Booking
	createErr      error
	inRange        []*domain.Booking
	inRangeErr     error
	externalRef    string
	externalRefID  int64
	externalRefErr error
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *b
	created.ID = 100
	created.CreatedAt = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetByStaffInRange(ctx context.Context, staffID int64, fromUTC, toUTC time.Time) ([]*domain.Booking, error) {
	if f.inRangeErr != nil {
		return nil, f.inRangeErr
	}
	return f.inRange, nil
}

func (f *fakeBookingRepo) SetExternalRef(ctx context.Context, id int64, externalRef string) error {
	if f.externalRefErr != nil {
		return f.externalRefErr
	}
	f.externalRefID = id
	f.externalRef = externalRef
	return nil
}

type fakeScheduleRepo struct {
	staff    *domain.StaffMember
	staffErr error
}

func (f *fakeScheduleRepo) GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error) {
	if f.staffErr != nil {
		return nil, f.staffErr
	}
	return f.staff, nil
}

type fakePhorestClient struct {
	contact        *phorest.Contact
	searchErr      error
	createdContact *phorest.ContactRequest
	appointment    *phorest.Appointment
	appointmentErr error
}

func (f *fakePhorestClient) SearchContact(ctx context.Context, phone string) (*phorest.Contact, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.contact, nil
}

func (f *fakePhorestClient) CreateContact(ctx context.Context, req *phorest.ContactRequest) (*phorest.Contact, error) {
	f.createdContact = req
	return &phorest.Contact{ID: "contact-new", Phone: req.Phone}, nil
}

func (f *fakePhorestClient) CreateAppointmentWithGracefulDegradation(ctx context.Context, req *phorest.AppointmentRequest) (*phorest.Appointment, error) {
	if f.appointmentErr != nil {
		return nil, f.appointmentErr
	}
	return f.appointment, nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// Понедельник 2026-09-07, 09:00-17:00 по Москве
func mondayContext(t *testing.T) *domain.ValidationContext {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	return &domain.ValidationContext{
		StaffID: 1,
		DefaultWeeklyWindows: domain.WeeklyWindows{
			time.Monday: {{Start: "09:00", End: "17:00"}},
		},
		ExceptionsByDateID: map[domain.DateID]*domain.DayException{},
		Location:           loc,
	}
}

type testEnv struct {
	uc       *Usecase
	booking  *fakeBookingRepo
	schedule *fakeScheduleRepo
	phorest  *fakePhorestClient
	tx       *fakeTxManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	env := &testEnv{
		booking: &fakeBookingRepo{},
		schedule: &fakeScheduleRepo{
			staff: &domain.StaffMember{
				ID:          1,
				DisplayName: "Анна",
				Active:      true,
				ExternalRef: ptr.Ptr("phorest-staff-1"),
			},
		},
		phorest: &fakePhorestClient{
			contact:     &phorest.Contact{ID: "contact-1", Phone: "+79990001122"},
			appointment: &phorest.Appointment{ID: "appt-1"},
		},
		tx: &fakeTxManager{},
	}

	validationSvc := &fakeValidationService{
		vctx: mondayContext(t),
		now:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	env.uc = NewUsecase(
		validationSvc,
		env.booking,
		env.schedule,
		env.phorest,
		env.tx,
		loc,
		30,
		nopLogger{},
	)
	return env
}

// 10:00 по Москве = 07:00 UTC
func validRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		ClientID:        5,
		StaffID:         1,
		StartTime:       "2026-09-07T07:00:00Z",
		ServiceName:     "Стрижка",
		ServicePrice:    1500,
		ClientFirstName: "Иван",
		ClientLastName:  "Петров",
		ClientPhone:     "+79990001122",
	}
}

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), result.Booking.ID)
	assert.Equal(t, "booked", result.Booking.Status)
	assert.Equal(t, "2026-09-07", result.Booking.Date)
	assert.Equal(t, "10:00", result.Booking.StartLocal)
	assert.Equal(t, 30, result.Booking.DurationMinutes)

	// Вставка выполнена внутри транзакции
	assert.Equal(t, 1, env.tx.calls)
	require.NotNil(t, env.booking.created)
	assert.Equal(t, domain.StatusBooked, env.booking.created.Status)

	// Запись отправлена в Phorest, внешняя ссылка сохранена
	assert.Equal(t, int64(100), env.booking.externalRefID)
	assert.Equal(t, "appt-1", env.booking.externalRef)
}

func TestExecute_SlotOutsideWorkingHours(t *testing.T) {
	env := newTestEnv(t)

	req := validRequest()
	req.StartTime = "2026-09-07T04:00:00Z" // 07:00 по Москве, до открытия

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	assert.Zero(t, env.tx.calls)
}

func TestExecute_SlotTakenOnPreflight(t *testing.T) {
	env := newTestEnv(t)

	// Контекст уже содержит запись 10:00-10:30
	vctx := mondayContext(t)
	vctx.Bookings = []*domain.Booking{
		{
			ID:       7,
			StartUTC: time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC),
			EndUTC:   time.Date(2026, 9, 7, 7, 30, 0, 0, time.UTC),
			Status:   domain.StatusBooked,
		},
	}
	env.uc.validationService.(*fakeValidationService).vctx = vctx

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Zero(t, env.tx.calls)
}

func TestExecute_SlotTakenOnTransactionalRecheck(t *testing.T) {
	env := newTestEnv(t)

	// Предварительная проверка прошла, но к моменту транзакции слот заняли
	env.booking.inRange = []*domain.Booking{
		{
			ID:       8,
			StartUTC: time.Date(2026, 9, 7, 7, 15, 0, 0, time.UTC),
			EndUTC:   time.Date(2026, 9, 7, 7, 45, 0, 0, time.UTC),
			Status:   domain.StatusBooked,
		},
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 1, env.tx.calls)
	assert.Nil(t, env.booking.created)
}

func TestExecute_StaffNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.schedule.staff = &domain.StaffMember{ID: 1, Active: false}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_PastSlot(t *testing.T) {
	env := newTestEnv(t)

	req := validRequest()
	req.StartTime = "2026-08-30T07:00:00Z"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPastSlot)
}

func TestExecute_DayClosed(t *testing.T) {
	env := newTestEnv(t)

	vctx := mondayContext(t)
	vctx.ExceptionsByDateID["20260907"] = &domain.DayException{DateID: "20260907", Closed: true}
	env.uc.validationService.(*fakeValidationService).vctx = vctx

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDayClosed)
}

func TestExecute_ValidatesRequest(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		mutate  func(req *CreateBookingRequest)
		wantErr error
	}{
		{
			name:    "missing client",
			mutate:  func(req *CreateBookingRequest) { req.ClientID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing staff",
			mutate:  func(req *CreateBookingRequest) { req.StaffID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing service name",
			mutate:  func(req *CreateBookingRequest) { req.ServiceName = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing phone",
			mutate:  func(req *CreateBookingRequest) { req.ClientPhone = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad start time",
			mutate:  func(req *CreateBookingRequest) { req.StartTime = "07.09.2026 10:00" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duration too long",
			mutate:  func(req *CreateBookingRequest) { req.DurationMinutes = ptr.Ptr(600) },
			wantErr: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_CRMDownDoesNotBlockBooking(t *testing.T) {
	env := newTestEnv(t)
	env.phorest.contact = nil
	env.phorest.searchErr = errors.New("crm unavailable")

	result, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Запись создана локально, во внешний календарь не отправлена
	assert.Equal(t, int64(100), result.Booking.ID)
	assert.Empty(t, env.booking.externalRef)
}

func TestExecute_ContactCreatedWhenNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.phorest.contact = nil
	env.phorest.searchErr = phorest.ErrContactNotFound

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, env.phorest.createdContact)
	assert.Equal(t, "+79990001122", env.phorest.createdContact.Phone)
	assert.Equal(t, "Иван", env.phorest.createdContact.FirstName)
}

func TestExecute_PhorestPushFailureKeepsLocalBooking(t *testing.T) {
	env := newTestEnv(t)
	env.phorest.appointment = nil
	env.phorest.appointmentErr = phorest.ErrServiceDegraded

	result, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), result.Booking.ID)
	assert.Empty(t, env.booking.externalRef)
}
