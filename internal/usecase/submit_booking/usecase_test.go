package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
	catalogstorage "github.com/cercle-asbl/ASBL-BookingService/internal/infra/storage/catalog"
	"github.com/cercle-asbl/ASBL-BookingService/internal/integrations/paymentgate"
	"github.com/cercle-asbl/ASBL-BookingService/pkg/ptr"
)

// In-memory фейки

// fakeRepo хранит бронирования в памяти
type fakeRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (r *fakeRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *booking
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.bookings = append(r.bookings, &stored)

	result := stored
	return &result, nil
}

func (r *fakeRepo) GetActiveByResource(_ context.Context, resourceID int64) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.ResourceID == resourceID && b.IsActive() {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRepo) snapshot() []*domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Booking(nil), r.bookings...)
}

func (r *fakeRepo) restore(snapshot []*domain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = snapshot
}

// fakeTxManager сериализует критические секции мьютексом и откатывает
// вставки при ошибке, имитируя транзакцию
type fakeTxManager struct {
	mu   sync.Mutex
	repo *fakeRepo
	// before эмулирует конкурента, успевшего закоммититься между
	// быстрой проверкой и критической секцией. Срабатывает один раз
	before func()
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.before != nil {
		m.before()
		m.before = nil
	}

	snapshot := m.repo.snapshot()
	if err := fn(ctx); err != nil {
		m.repo.restore(snapshot)
		return err
	}
	return nil
}

// fakeCatalog отдает ресурсы из карты
type fakeCatalog struct {
	resources map[int64]*domain.Resource
}

func (c *fakeCatalog) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	r, ok := c.resources[id]
	if !ok {
		return nil, catalogstorage.ErrResourceNotFound
	}
	return r, nil
}

func (c *fakeCatalog) GetByIDAndType(_ context.Context, id int64, resourceType domain.ResourceType) (*domain.Resource, error) {
	r, ok := c.resources[id]
	if !ok || r.Type != resourceType {
		return nil, catalogstorage.ErrResourceNotFound
	}
	return r, nil
}

// fakePayments считает вызовы и возвращает заданную ошибку
type fakePayments struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *fakePayments) Verify(_ context.Context, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *fakePayments) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fixedTime всегда возвращает одно и то же время
type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

// nopLogger глушит логи в тестах
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Хелперы

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testSpace(id int64, price float64, requiresApproval bool) *domain.Resource {
	return &domain.Resource{
		ID:               id,
		Type:             domain.ResourceSpace,
		Name:             "Grande salle",
		Status:           domain.ResourceStatusAvailable,
		Price:            price,
		HourlyPricing:    true,
		RequiresApproval: requiresApproval,
	}
}

func testEvent(id int64, capacity int, price float64) *domain.Resource {
	start := testNow.Add(48 * time.Hour)
	end := start.Add(3 * time.Hour)
	return &domain.Resource{
		ID:       id,
		Type:     domain.ResourceEvent,
		Name:     "Concert de rentrée",
		Status:   domain.ResourceStatusOpen,
		Capacity: ptr.Ptr(capacity),
		Price:    price,
		StartsAt: &start,
		EndsAt:   &end,
	}
}

type env struct {
	uc       *Usecase
	repo     *fakeRepo
	payments *fakePayments
	txMgr    *fakeTxManager
}

func newEnv(resources ...*domain.Resource) *env {
	repo := &fakeRepo{}
	catalog := &fakeCatalog{resources: map[int64]*domain.Resource{}}
	for _, r := range resources {
		catalog.resources[r.ID] = r
	}
	payments := &fakePayments{}
	txMgr := &fakeTxManager{repo: repo}

	return &env{
		uc:       NewUsecase(repo, catalog, payments, txMgr, &fixedTime{now: testNow}, nopLogger{}),
		repo:     repo,
		payments: payments,
		txMgr:    txMgr,
	}
}

func spaceRequest(userID int64, startOffset, endOffset time.Duration, declared float64) *Request {
	start := testNow.Add(startOffset)
	end := testNow.Add(endOffset)
	return &Request{
		UserID:        userID,
		ResourceID:    1,
		StartAt:       &start,
		EndAt:         &end,
		Quantity:      1,
		DeclaredPrice: declared,
		PaymentRef:    ptr.Ptr("test_tok_1"),
	}
}

// Тесты

func TestSubmit_SpaceConfirmedAfterPayment(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))

	resp, err := e.uc.Execute(context.Background(), spaceRequest(7, 24*time.Hour, 26*time.Hour, 50))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, 50.0, resp.TotalPrice)
	assert.Equal(t, 1, e.payments.callCount())
	assert.Len(t, e.repo.snapshot(), 1)
}

func TestSubmit_ApprovalRequiredSkipsPayment(t *testing.T) {
	e := newEnv(testSpace(1, 25, true))

	resp, err := e.uc.Execute(context.Background(), spaceRequest(7, 24*time.Hour, 26*time.Hour, 50))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingApproval, resp.Status)
	// Оплата происходит после одобрения, не при подаче
	assert.Equal(t, 0, e.payments.callCount())
}

func TestSubmit_FreeBookingConfirmedWithoutPayment(t *testing.T) {
	e := newEnv(testEvent(2, 30, 0))

	resp, err := e.uc.Execute(context.Background(), &Request{
		UserID:        7,
		ResourceID:    2,
		Quantity:      3,
		DeclaredPrice: 0,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, 0, e.payments.callCount())
}

func TestSubmit_OverlappingIntervalRejected(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))

	_, err := e.uc.Execute(context.Background(), spaceRequest(1, 24*time.Hour, 26*time.Hour, 50))
	require.NoError(t, err)

	_, err = e.uc.Execute(context.Background(), spaceRequest(2, 25*time.Hour, 27*time.Hour, 50))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, e.repo.snapshot(), 1)
}

func TestSubmit_TouchingIntervalsBothAccepted(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))

	_, err := e.uc.Execute(context.Background(), spaceRequest(1, 24*time.Hour, 26*time.Hour, 50))
	require.NoError(t, err)

	// Начало второго совпадает с концом первого
	_, err = e.uc.Execute(context.Background(), spaceRequest(2, 26*time.Hour, 28*time.Hour, 50))
	require.NoError(t, err)

	assert.Len(t, e.repo.snapshot(), 2)
}

func TestSubmit_PendingApprovalSoftLocksSlot(t *testing.T) {
	e := newEnv(testSpace(1, 25, true))

	_, err := e.uc.Execute(context.Background(), spaceRequest(1, 24*time.Hour, 26*time.Hour, 50))
	require.NoError(t, err)

	// Неодобренная заявка уже блокирует слот
	_, err = e.uc.Execute(context.Background(), spaceRequest(2, 24*time.Hour, 26*time.Hour, 50))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSubmit_ConcurrentSameSlotExactlyOneWins(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))

	const workers = 20
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := e.uc.Execute(context.Background(), spaceRequest(userID, 24*time.Hour, 26*time.Hour, 50))
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var won, conflicts int
	for err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, won)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, e.repo.snapshot(), 1)
}

func TestSubmit_ConcurrentCapacityExactlyKWin(t *testing.T) {
	const capacity = 10
	const workers = 15
	e := newEnv(testEvent(2, capacity, 0))

	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := e.uc.Execute(context.Background(), &Request{
				UserID:        userID,
				ResourceID:    2,
				Quantity:      1,
				DeclaredPrice: 0,
			})
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var won, exceeded int
	for err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrCapacityExceeded):
			exceeded++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, capacity, won)
	assert.Equal(t, workers-capacity, exceeded)
	assert.Len(t, e.repo.snapshot(), capacity)
}

func TestSubmit_CapacityExceededReportsRemaining(t *testing.T) {
	e := newEnv(testEvent(2, 5, 0))

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID: 1, ResourceID: 2, Quantity: 3, DeclaredPrice: 0,
	})
	require.NoError(t, err)

	_, err = e.uc.Execute(context.Background(), &Request{
		UserID: 2, ResourceID: 2, Quantity: 3, DeclaredPrice: 0,
	})

	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "remaining capacity 2")
}

func TestSubmit_UnlimitedCapacity(t *testing.T) {
	event := testEvent(2, 0, 0)
	event.Capacity = nil
	e := newEnv(event)

	for i := 0; i < 5; i++ {
		_, err := e.uc.Execute(context.Background(), &Request{
			UserID: int64(i + 1), ResourceID: 2, Quantity: 50, DeclaredPrice: 0,
		})
		require.NoError(t, err)
	}
}

func TestSubmit_PriceMismatchRejected(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))

	_, err := e.uc.Execute(context.Background(), spaceRequest(1, 24*time.Hour, 26*time.Hour, 40))

	assert.ErrorIs(t, err, ErrPriceMismatch)
	assert.Empty(t, e.repo.snapshot())
	assert.Equal(t, 0, e.payments.callCount())
}

func TestSubmit_PaymentFailureNothingPersisted(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))
	e.payments.err = paymentgate.ErrPaymentNotVerified

	_, err := e.uc.Execute(context.Background(), spaceRequest(1, 24*time.Hour, 26*time.Hour, 50))

	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Empty(t, e.repo.snapshot())
}

func TestSubmit_GateUnavailableTreatedAsPaymentFailure(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))
	e.payments.err = fmt.Errorf("%w: dial tcp: connection refused", paymentgate.ErrGateUnavailable)

	_, err := e.uc.Execute(context.Background(), spaceRequest(1, 24*time.Hour, 26*time.Hour, 50))

	// Транспортная ошибка шлюза — неуспех оплаты, заявку можно повторить
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Empty(t, e.repo.snapshot())
}

func TestSubmit_PaidBookingWithoutRef(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))

	req := spaceRequest(1, 24*time.Hour, 26*time.Hour, 50)
	req.PaymentRef = nil

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestSubmit_IntervalInPast(t *testing.T) {
	e := newEnv(testSpace(1, 25, false))

	_, err := e.uc.Execute(context.Background(), spaceRequest(1, -4*time.Hour, -2*time.Hour, 50))
	assert.ErrorIs(t, err, ErrIntervalInPast)
}

func TestSubmit_EventAlreadyStarted(t *testing.T) {
	event := testEvent(2, 30, 0)
	started := testNow.Add(-time.Hour)
	event.StartsAt = &started

	e := newEnv(event)

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID: 1, ResourceID: 2, Quantity: 1, DeclaredPrice: 0,
	})
	assert.ErrorIs(t, err, ErrResourceStarted)
}

func TestSubmit_ResourceNotFound(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID: 1, ResourceID: 99, Quantity: 1, DeclaredPrice: 0,
	})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestSubmit_ResourceUnavailable(t *testing.T) {
	s := testSpace(1, 25, false)
	s.Status = domain.ResourceStatusUnavailable
	e := newEnv(s)

	_, err := e.uc.Execute(context.Background(), spaceRequest(1, 24*time.Hour, 26*time.Hour, 50))
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}

// Тесты гардери

func eventWithChildcare(capacity, childcareCapacity int) []*domain.Resource {
	event := testEvent(2, capacity, 10)
	event.ChildcareSessionID = ptr.Ptr(int64(3))

	sessionDate := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	session := &domain.Resource{
		ID:          3,
		Type:        domain.ResourceChildcareSession,
		Name:        "Garderie du concert",
		Status:      domain.ResourceStatusOpen,
		Capacity:    ptr.Ptr(childcareCapacity),
		Price:       5,
		SessionDate: &sessionDate,
	}
	return []*domain.Resource{event, session}
}

func TestSubmit_EventWithChildcareBothCreated(t *testing.T) {
	e := newEnv(eventWithChildcare(30, 10)...)

	resp, err := e.uc.Execute(context.Background(), &Request{
		UserID:                 7,
		ResourceID:             2,
		Quantity:               2,
		DeclaredPrice:          20,
		PaymentRef:             ptr.Ptr("test_tok_1"),
		AddChildcare:           true,
		NumberOfChildren:       2,
		DeclaredChildcarePrice: 10,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Childcare)
	assert.Equal(t, int64(3), resp.Childcare.SessionID)
	assert.Equal(t, 2, resp.Childcare.Children)
	assert.Equal(t, 10.0, resp.Childcare.TotalPrice)
	assert.Len(t, e.repo.snapshot(), 2)
}

func TestSubmit_ChildcareCapacityExceededRejectedUpfront(t *testing.T) {
	e := newEnv(eventWithChildcare(30, 1)...)

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID:                 7,
		ResourceID:             2,
		Quantity:               2,
		DeclaredPrice:          20,
		PaymentRef:             ptr.Ptr("test_tok_1"),
		AddChildcare:           true,
		NumberOfChildren:       2,
		DeclaredChildcarePrice: 10,
	})

	require.ErrorIs(t, err, ErrCapacityExceeded)
	// Отказ происходит на быстрой проверке, до платежа и вставок
	assert.Equal(t, 0, e.payments.callCount())
	assert.Empty(t, e.repo.snapshot())
}

func TestSubmit_ChildcareCapacityExceededRollsBackEvent(t *testing.T) {
	e := newEnv(eventWithChildcare(30, 2)...)

	// Конкурент занимает место в гардери после быстрой проверки,
	// но до критической секции
	e.txMgr.before = func() {
		_, _ = e.repo.Create(context.Background(), &domain.Booking{
			UserID:       99,
			ResourceID:   3,
			ResourceType: domain.ResourceChildcareSession,
			Quantity:     1,
			Status:       domain.StatusConfirmed,
		})
	}

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID:                 7,
		ResourceID:             2,
		Quantity:               2,
		DeclaredPrice:          20,
		PaymentRef:             ptr.Ptr("test_tok_1"),
		AddChildcare:           true,
		NumberOfChildren:       2,
		DeclaredChildcarePrice: 10,
	})

	require.ErrorIs(t, err, ErrCapacityExceeded)
	// Регистрация на событие не должна остаться без гардери:
	// в хранилище только бронирование конкурента
	remaining := e.repo.snapshot()
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(99), remaining[0].UserID)
}

func TestSubmit_ChildcareWithoutSessionRejected(t *testing.T) {
	e := newEnv(testEvent(2, 30, 10))

	_, err := e.uc.Execute(context.Background(), &Request{
		UserID:                 7,
		ResourceID:             2,
		Quantity:               1,
		DeclaredPrice:          10,
		PaymentRef:             ptr.Ptr("test_tok_1"),
		AddChildcare:           true,
		NumberOfChildren:       1,
		DeclaredChildcarePrice: 5,
	})

	assert.ErrorIs(t, err, ErrChildcareUnavailable)
}
