package commission

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/shared"
)

// MockCommissionPlanRepository is a mock implementation of
// commission.CommissionPlanRepository
type MockCommissionPlanRepository struct {
	mock.Mock
}

func (m *MockCommissionPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.CommissionPlan, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.CommissionPlan), args.Error(1)
}

func (m *MockCommissionPlanRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]commission.CommissionPlan, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.CommissionPlan), args.Error(1)
}

func (m *MockCommissionPlanRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]commission.CommissionPlan, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.CommissionPlan), args.Error(1)
}

func (m *MockCommissionPlanRepository) Save(ctx context.Context, plan *commission.CommissionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockCommissionPlanRepository) SaveWithLock(ctx context.Context, plan *commission.CommissionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// MockSalesCommissionRepository is a mock implementation of
// commission.SalesCommissionRepository
type MockSalesCommissionRepository struct {
	mock.Mock
}

func (m *MockSalesCommissionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.SalesCommission, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.SalesCommission), args.Error(1)
}

func (m *MockSalesCommissionRepository) FindBySalesPerson(ctx context.Context, tenantID, salesPersonID uuid.UUID, filter shared.Filter) ([]commission.SalesCommission, error) {
	args := m.Called(ctx, tenantID, salesPersonID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.SalesCommission), args.Error(1)
}

func (m *MockSalesCommissionRepository) FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]commission.SalesCommission, error) {
	args := m.Called(ctx, tenantID, salesOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.SalesCommission), args.Error(1)
}

func (m *MockSalesCommissionRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status commission.CommissionStatus, filter shared.Filter) ([]commission.SalesCommission, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.SalesCommission), args.Error(1)
}

func (m *MockSalesCommissionRepository) Save(ctx context.Context, c *commission.SalesCommission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockSalesCommissionRepository) SaveWithLock(ctx context.Context, c *commission.SalesCommission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockDiscountRepository is a mock implementation of
// commission.DiscountRepository
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*commission.Discount, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Discount), args.Error(1)
}

func (m *MockDiscountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*commission.Discount, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Discount), args.Error(1)
}

func (m *MockDiscountRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]commission.Discount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.Discount), args.Error(1)
}

func (m *MockDiscountRepository) Save(ctx context.Context, discount *commission.Discount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) SaveWithLock(ctx context.Context, discount *commission.Discount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}
