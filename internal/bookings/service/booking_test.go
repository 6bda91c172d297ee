package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	availerrors "github.com/Podhive/MVP/internal/availability/errors"
	"github.com/Podhive/MVP/internal/bookings/validator"
	"github.com/Podhive/MVP/internal/events"
	"github.com/Podhive/MVP/internal/notify"
	"github.com/Podhive/MVP/pkg/config"
	mongotx "github.com/Podhive/MVP/pkg/db/mongo"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/model"
)

const (
	studioID   = "64f1b2c3d4e5f6a7b8c9d0e1"
	customerID = "64f1b2c3d4e5f6a7b8c9d0e2"
	ownerID    = "64f1b2c3d4e5f6a7b8c9d0e3"
)

type mockBookingRepository struct {
	createFunc   func(ctx context.Context, booking *model.Booking) error
	findByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
	deleteFunc   func(ctx context.Context, id string) error
	byCustomer   func(ctx context.Context, customerID string) ([]*model.Booking, error)
	byStudios    func(ctx context.Context, studioIDs []string) ([]*model.Booking, error)
	allFunc      func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	pastFunc     func(ctx context.Context, customerID, studioID string, before time.Time) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return m.createFunc(ctx, booking)
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockBookingRepository) FindByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error) {
	return m.byCustomer(ctx, customerID)
}

func (m *mockBookingRepository) FindByStudios(ctx context.Context, studioIDs []string) ([]*model.Booking, error) {
	return m.byStudios(ctx, studioIDs)
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return m.allFunc(ctx, limit, offset)
}

func (m *mockBookingRepository) FindPastByCustomerAndStudio(ctx context.Context, customerID, studioID string, before time.Time) ([]*model.Booking, error) {
	return m.pastFunc(ctx, customerID, studioID, before)
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockSlotLockRepository struct {
	acquireFunc func(ctx context.Context, lockID string) (bool, error)
	releaseFunc func(ctx context.Context, lockID string) error
}

func (m *mockSlotLockRepository) Acquire(ctx context.Context, lockID string) (bool, error) {
	if m.acquireFunc == nil {
		return true, nil
	}
	return m.acquireFunc(ctx, lockID)
}

func (m *mockSlotLockRepository) Release(ctx context.Context, lockID string) error {
	if m.releaseFunc == nil {
		return nil
	}
	return m.releaseFunc(ctx, lockID)
}

type mockAvailabilityRepository struct {
	findByStudioAndDateFn func(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error)
	closeSlotsFunc        func(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error)
	openSlotsFunc         func(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error)
}

func (m *mockAvailabilityRepository) FindFromDate(ctx context.Context, studioID string, from time.Time) ([]*model.AvailabilityDay, error) {
	return nil, nil
}

func (m *mockAvailabilityRepository) FindByStudioAndDate(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
	return m.findByStudioAndDateFn(ctx, studioID, date)
}

func (m *mockAvailabilityRepository) InsertDays(ctx context.Context, days []*model.AvailabilityDay) error {
	return nil
}

func (m *mockAvailabilityRepository) UpsertDays(ctx context.Context, studioID string, days []*model.AvailabilityDay) error {
	return nil
}

func (m *mockAvailabilityRepository) CloseSlots(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error) {
	if m.closeSlotsFunc == nil {
		return 1, nil
	}
	return m.closeSlotsFunc(ctx, studioID, date, hours)
}

func (m *mockAvailabilityRepository) OpenSlots(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error) {
	if m.openSlotsFunc == nil {
		return 1, nil
	}
	return m.openSlotsFunc(ctx, studioID, date, hours)
}

func (m *mockAvailabilityRepository) DeleteByStudio(ctx context.Context, studioID string) (int64, error) {
	return 0, nil
}

func (m *mockAvailabilityRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type mockStudioRepository struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.Studio, error)
	findByOwnerFunc func(ctx context.Context, ownerID string) ([]*model.Studio, error)
}

func (m *mockStudioRepository) Create(ctx context.Context, studio *model.Studio) error { return nil }

func (m *mockStudioRepository) FindByID(ctx context.Context, id string) (*model.Studio, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockStudioRepository) FindApproved(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	return nil, nil
}

func (m *mockStudioRepository) FindPending(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	return nil, nil
}

func (m *mockStudioRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Studio, error) {
	return m.findByOwnerFunc(ctx, ownerID)
}

func (m *mockStudioRepository) Update(ctx context.Context, id string, studio *model.Studio) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (m *mockStudioRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockStudioRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	return nil
}

func (m *mockStudioRepository) UpdateRatingSummary(ctx context.Context, id string, summary model.RatingSummary) error {
	return nil
}

func (m *mockStudioRepository) Count(ctx context.Context, approved bool) (int64, error) {
	return 0, nil
}

func (m *mockStudioRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockUserDirectory struct{}

func (mockUserDirectory) FindByID(ctx context.Context, id string) (*model.User, error) {
	return &model.User{ID: id, Name: "Test User", Email: "user@example.com"}, nil
}

type mockMailer struct {
	confirmations int
	notifications int
}

func (m *mockMailer) BookingConfirmation(ctx context.Context, to string, d notify.BookingDetails) error {
	m.confirmations++
	return nil
}

func (m *mockMailer) BookingNotification(ctx context.Context, to string, d notify.BookingDetails) error {
	m.notifications++
	return nil
}

func (m *mockMailer) StudioApproval(ctx context.Context, to, studioName string) error { return nil }

func (m *mockMailer) VerificationOTP(ctx context.Context, to, otp string) error { return nil }

func (m *mockMailer) PasswordResetOTP(ctx context.Context, to, otp string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Log:         logger.New(logger.Config{Level: "error", Format: "text", Service: "test"}),
		SlotLockTTL: 10 * time.Second,
	}
}

func approvedStudio() *model.Studio {
	return &model.Studio{
		ID:                   studioID,
		Name:                 "Echo Chamber",
		Owner:                ownerID,
		Approved:             true,
		PricePerHour:         800,
		MinimumDurationHours: 1,
		Packages: []model.Package{
			{Key: "1 Cam", Price: 1000},
			{Key: "2 Cam", Price: 1800},
		},
		AddOns: []model.AddOn{
			{Key: "teleprompter", Name: "Teleprompter", Price: 300, MaxQuantity: 2},
		},
	}
}

func openDay(date time.Time, hours ...int) *model.AvailabilityDay {
	slots := make([]model.Slot, len(hours))
	for i, h := range hours {
		slots[i] = model.Slot{Hour: h, IsAvailable: true}
	}
	return &model.AvailabilityDay{Studio: studioID, Date: date, Slots: slots}
}

type serviceDeps struct {
	repo    *mockBookingRepository
	locks   *mockSlotLockRepository
	avail   *mockAvailabilityRepository
	studios *mockStudioRepository
	mailer  *mockMailer
}

func newService(d serviceDeps) *bookingService {
	cfg := testConfig()
	if d.repo == nil {
		d.repo = &mockBookingRepository{
			createFunc: func(ctx context.Context, booking *model.Booking) error {
				booking.ID = "64f1b2c3d4e5f6a7b8c9d0f0"
				return nil
			},
		}
	}
	if d.locks == nil {
		d.locks = &mockSlotLockRepository{}
	}
	if d.studios == nil {
		d.studios = &mockStudioRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Studio, error) {
				return approvedStudio(), nil
			},
		}
	}
	if d.mailer == nil {
		d.mailer = &mockMailer{}
	}

	svc := NewBookingService(
		d.repo, d.locks, d.avail, d.studios, mockUserDirectory{},
		validator.NewBookingValidator(cfg.Log), d.mailer, events.NoopPublisher{}, cfg,
	).(*bookingService)

	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func newBooking(hours []int, addOns ...model.AddOnSelection) *model.Booking {
	return &model.Booking{
		Studio:     studioID,
		Customer:   customerID,
		Date:       time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Hours:      hours,
		PackageKey: "1 Cam",
		AddOns:     addOns,
	}
}

func TestCreateComputesTotalPrice(t *testing.T) {
	avail := &mockAvailabilityRepository{
		findByStudioAndDateFn: func(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
			return openDay(date, 9, 10, 11, 12), nil
		},
	}
	mailer := &mockMailer{}
	svc := newService(serviceDeps{avail: avail, mailer: mailer})

	booking := newBooking([]int{10, 11})
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two hours of the "1 Cam" package at 1000 each.
	if booking.TotalPrice != 2000 {
		t.Errorf("total price = %v, want 2000", booking.TotalPrice)
	}
	if booking.PaymentStatus != model.PaymentPending {
		t.Errorf("payment status = %q, want pending", booking.PaymentStatus)
	}
	if mailer.confirmations != 1 || mailer.notifications != 1 {
		t.Errorf("emails sent = %d confirmations, %d notifications, want 1 each",
			mailer.confirmations, mailer.notifications)
	}
}

func TestCreateAddsAddOnPrices(t *testing.T) {
	avail := &mockAvailabilityRepository{
		findByStudioAndDateFn: func(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
			return openDay(date, 9, 10, 11), nil
		},
	}
	svc := newService(serviceDeps{avail: avail})

	booking := newBooking([]int{9, 10}, model.AddOnSelection{Key: "teleprompter", Quantity: 2})
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.TotalPrice != 2600 {
		t.Errorf("total price = %v, want 2600", booking.TotalPrice)
	}
}

func TestCreateRejectsUnknownPackage(t *testing.T) {
	svc := newService(serviceDeps{avail: &mockAvailabilityRepository{}})

	booking := newBooking([]int{10})
	booking.PackageKey = "3 Cam"

	err := svc.Create(context.Background(), booking)
	assertInvalidInput(t, err, "Invalid package selection")
}

func TestCreateRejectsUnknownAddOn(t *testing.T) {
	svc := newService(serviceDeps{avail: &mockAvailabilityRepository{}})

	booking := newBooking([]int{10}, model.AddOnSelection{Key: "fog machine", Quantity: 1})

	err := svc.Create(context.Background(), booking)
	assertInvalidInput(t, err, "Invalid add-on: fog machine")
}

func TestCreateRejectsExcessiveAddOnQuantity(t *testing.T) {
	svc := newService(serviceDeps{avail: &mockAvailabilityRepository{}})

	booking := newBooking([]int{10}, model.AddOnSelection{Key: "teleprompter", Quantity: 3})

	err := svc.Create(context.Background(), booking)
	assertInvalidInput(t, err, "Quantity for teleprompter must be between 1 and 2")
}

func TestCreateRejectsMissingAvailabilityDay(t *testing.T) {
	avail := &mockAvailabilityRepository{
		findByStudioAndDateFn: func(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
			return nil, availerrors.ErrNotFound
		},
	}
	svc := newService(serviceDeps{avail: avail})

	err := svc.Create(context.Background(), newBooking([]int{10}))
	assertInvalidInput(t, err, "No availability for this date.")
}

func TestCreateRejectsClosedHours(t *testing.T) {
	day := openDay(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), 9, 10)
	day.Slots = append(day.Slots, model.Slot{Hour: 11, IsAvailable: false})

	avail := &mockAvailabilityRepository{
		findByStudioAndDateFn: func(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
			return day, nil
		},
	}

	created := false
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = true
			return nil
		},
	}
	svc := newService(serviceDeps{avail: avail, repo: repo})

	err := svc.Create(context.Background(), newBooking([]int{10, 11}))
	assertInvalidInput(t, err, "One or more of the selected hours are not available.")
	if created {
		t.Error("booking must not be created when hours are closed")
	}
}

func TestCreateClosesExactlyBookedHours(t *testing.T) {
	var closedHours []int
	avail := &mockAvailabilityRepository{
		findByStudioAndDateFn: func(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
			return openDay(date, 9, 10, 11, 12), nil
		},
		closeSlotsFunc: func(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error) {
			closedHours = append([]int(nil), hours...)
			return 1, nil
		},
	}
	svc := newService(serviceDeps{avail: avail})

	booking := newBooking([]int{11, 10})
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(closedHours) != 2 || closedHours[0] != 10 || closedHours[1] != 11 {
		t.Errorf("closed hours = %v, want [10 11]", closedHours)
	}
}

func TestCreateAbortsWhenSlotFlipMatchesNothing(t *testing.T) {
	avail := &mockAvailabilityRepository{
		findByStudioAndDateFn: func(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
			return openDay(date, 9, 10, 11), nil
		},
		// The conditional update found no open slot left to flip, a
		// concurrent writer got there first.
		closeSlotsFunc: func(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error) {
			return 0, nil
		},
	}
	svc := newService(serviceDeps{avail: avail})

	err := svc.Create(context.Background(), newBooking([]int{10}))
	assertInvalidInput(t, err, "One or more of the selected hours are not available.")
}

func TestCreateRejectsPastDate(t *testing.T) {
	svc := newService(serviceDeps{avail: &mockAvailabilityRepository{}})

	booking := newBooking([]int{10})
	booking.Date = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	err := svc.Create(context.Background(), booking)
	assertInvalidInput(t, err, "Cannot book a date in the past")
}

func TestCreateConflictsWhenLockHeld(t *testing.T) {
	locks := &mockSlotLockRepository{
		acquireFunc: func(ctx context.Context, lockID string) (bool, error) {
			return false, nil
		},
	}
	svc := newService(serviceDeps{avail: &mockAvailabilityRepository{}, locks: locks})

	err := svc.Create(context.Background(), newBooking([]int{10}))

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateReleasesLock(t *testing.T) {
	released := ""
	locks := &mockSlotLockRepository{
		releaseFunc: func(ctx context.Context, lockID string) error {
			released = lockID
			return nil
		},
	}
	avail := &mockAvailabilityRepository{
		findByStudioAndDateFn: func(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
			return openDay(date, 10), nil
		},
	}
	svc := newService(serviceDeps{avail: avail, locks: locks})

	if err := svc.Create(context.Background(), newBooking([]int{10})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "slotlock:" + studioID + ":2024-06-10"
	if released != want {
		t.Errorf("released lock %q, want %q", released, want)
	}
}

func TestCreateEnforcesMinimumDuration(t *testing.T) {
	studios := &mockStudioRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Studio, error) {
			s := approvedStudio()
			s.MinimumDurationHours = 3
			return s, nil
		},
	}
	svc := newService(serviceDeps{avail: &mockAvailabilityRepository{}, studios: studios})

	err := svc.Create(context.Background(), newBooking([]int{10, 11}))
	assertInvalidInput(t, err, "Minimum booking duration for this studio is 3 hours")
}

func TestCreateRejectsUnapprovedStudio(t *testing.T) {
	studios := &mockStudioRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Studio, error) {
			s := approvedStudio()
			s.Approved = false
			return s, nil
		},
	}
	svc := newService(serviceDeps{avail: &mockAvailabilityRepository{}, studios: studios})

	err := svc.Create(context.Background(), newBooking([]int{10}))
	assertInvalidInput(t, err, "Studio not found or not approved")
}

func TestCancelReopensSlots(t *testing.T) {
	booking := newBooking([]int{10, 11})
	booking.ID = "64f1b2c3d4e5f6a7b8c9d0f0"

	var reopened []int
	deleted := false

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	avail := &mockAvailabilityRepository{
		openSlotsFunc: func(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error) {
			reopened = hours
			return 1, nil
		},
	}
	svc := newService(serviceDeps{repo: repo, avail: avail})

	if err := svc.Cancel(context.Background(), booking.ID, customerID, model.UserTypeCustomer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reopened) != 2 {
		t.Errorf("reopened %v, want the two booked hours", reopened)
	}
	if !deleted {
		t.Error("expected booking to be deleted")
	}
}

func TestCancelToleratesSweptDay(t *testing.T) {
	booking := newBooking([]int{10})
	booking.ID = "64f1b2c3d4e5f6a7b8c9d0f0"

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		deleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	avail := &mockAvailabilityRepository{
		// A reaped day matches no documents, the update reports zero.
		openSlotsFunc: func(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error) {
			return 0, nil
		},
	}
	svc := newService(serviceDeps{repo: repo, avail: avail})

	if err := svc.Cancel(context.Background(), booking.ID, customerID, model.UserTypeCustomer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelRejectsStrangers(t *testing.T) {
	booking := newBooking([]int{10})
	booking.ID = "64f1b2c3d4e5f6a7b8c9d0f0"

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newService(serviceDeps{repo: repo, avail: &mockAvailabilityRepository{}})

	err := svc.Cancel(context.Background(), booking.ID, "64f1b2c3d4e5f6a7b8c9d0ff", model.UserTypeCustomer)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestListByOwnerCollectsStudioBookings(t *testing.T) {
	studios := &mockStudioRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Studio, error) {
			return approvedStudio(), nil
		},
		findByOwnerFunc: func(ctx context.Context, id string) ([]*model.Studio, error) {
			return []*model.Studio{{ID: studioID, Owner: ownerID}}, nil
		},
	}
	repo := &mockBookingRepository{
		byStudios: func(ctx context.Context, studioIDs []string) ([]*model.Booking, error) {
			if len(studioIDs) != 1 || studioIDs[0] != studioID {
				t.Errorf("queried studios %v, want [%s]", studioIDs, studioID)
			}
			return []*model.Booking{newBooking([]int{10})}, nil
		},
	}
	svc := newService(serviceDeps{repo: repo, avail: &mockAvailabilityRepository{}, studios: studios})

	bookings, err := svc.ListByOwner(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("got %d bookings, want 1", len(bookings))
	}
}

func assertInvalidInput(t *testing.T, err error, message string) {
	t.Helper()

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("code = %s, want invalid input (%v)", appErr.Code, err)
	}
	if appErr.Message != message {
		t.Errorf("message = %q, want %q", appErr.Message, message)
	}
}
