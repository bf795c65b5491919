package customers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memRepo struct {
	byID   map[int64]*Customer
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[int64]*Customer)}
}

func (m *memRepo) Create(_ context.Context, input CreateCustomerRequest) (*Customer, error) {
	for _, c := range m.byID {
		if input.Phone != nil && c.Phone != nil && *c.Phone == *input.Phone {
			return nil, ErrAlreadyExists
		}
	}
	m.nextID++
	c := &Customer{
		ID:            m.nextID,
		Name:          input.Name,
		Phone:         input.Phone,
		Address:       input.Address,
		DailyQuantity: input.DailyQuantity,
		RatePerLitre:  input.RatePerLitre,
		IsActive:      true,
		Notes:         input.Notes,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.byID[c.ID] = c
	return c, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *memRepo) List(_ context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var out []Customer
	for _, c := range m.byID {
		if req.ActiveOnly && !c.IsActive {
			continue
		}
		if req.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(req.Search)) {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *memRepo) ListActive(ctx context.Context) ([]Customer, error) {
	list, _, err := m.List(ctx, ListCustomersRequest{ActiveOnly: true})
	return list, err
}

func (m *memRepo) Update(_ context.Context, id int64, input UpdateCustomerRequest) (*Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.RatePerLitre != nil {
		c.RatePerLitre = *input.RatePerLitre
	}
	if input.DailyQuantity != nil {
		c.DailyQuantity = *input.DailyQuantity
	}
	if input.IsActive != nil {
		c.IsActive = *input.IsActive
	}
	c.UpdatedAt = time.Now()
	return c, nil
}

func TestRegisterAndGet(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Register(ctx, CreateCustomerRequest{
		Name:          "Sharma Family",
		DailyQuantity: 1.5,
		RatePerLitre:  60,
	})
	require.NoError(t, err)
	require.True(t, created.IsActive, "new customers start active")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Sharma Family", got.Name)
	require.Equal(t, 60.0, got.RatePerLitre)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()
	phone := "9876543210"

	_, err := svc.Register(ctx, CreateCustomerRequest{Name: "First", Phone: &phone, RatePerLitre: 60})
	require.NoError(t, err)

	_, err = svc.Register(ctx, CreateCustomerRequest{Name: "Second", Phone: &phone, RatePerLitre: 55})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestDeactivateHidesFromBillingRun(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	a, err := svc.Register(ctx, CreateCustomerRequest{Name: "Active One", RatePerLitre: 60})
	require.NoError(t, err)
	b, err := svc.Register(ctx, CreateCustomerRequest{Name: "Paused One", RatePerLitre: 60})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(ctx, b.ID, UpdateCustomerRequest{IsActive: &inactive})
	require.NoError(t, err)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, a.ID, active[0].ID)

	// Record survives deactivation so past bills keep their reference.
	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestUpdateRateTakesEffect(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	c, err := svc.Register(ctx, CreateCustomerRequest{Name: "Rate Change", RatePerLitre: 60})
	require.NoError(t, err)

	newRate := 65.0
	updated, err := svc.Update(ctx, c.ID, UpdateCustomerRequest{RatePerLitre: &newRate})
	require.NoError(t, err)
	require.Equal(t, 65.0, updated.RatePerLitre)
}

func TestUpdateMissingCustomer(t *testing.T) {
	svc := NewService(newMemRepo())
	name := "Ghost"
	_, err := svc.Update(context.Background(), 404, UpdateCustomerRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}
