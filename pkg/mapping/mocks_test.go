package mapping

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/synaptica-ai/requestmapping/pkg/datamapper"
	"gorm.io/datatypes"
)

var (
	_ Store     = (*mockStore)(nil)
	_ Store     = (*Repository)(nil)
	_ Cache     = (*mockCache)(nil)
	_ Cache     = (*RedisCache)(nil)
	_ Publisher = (*mockPublisher)(nil)
	_ Forwarder = (*mockForwarder)(nil)
	_ Forwarder = (*HTTPForwarder)(nil)
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Create(ctx context.Context, rec *Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) SaveOutput(ctx context.Context, id string, output datatypes.JSONMap) error {
	return m.Called(ctx, id, output).Error(0)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	return m.Called(ctx, id, status, errMsg).Error(0)
}

func (m *mockStore) Get(ctx context.Context, id string) (*Record, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*Record)
	return rec, args.Error(1)
}

func (m *mockStore) CleanupExpired(ctx context.Context, ttl time.Duration) error {
	return m.Called(ctx, ttl).Error(0)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Put(ctx context.Context, res *Result, ttl time.Duration) error {
	return m.Called(ctx, res, ttl).Error(0)
}

func (m *mockCache) Get(ctx context.Context, id string) (*Result, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*Result)
	return res, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error {
	return m.Called(ctx, eventType, source, data).Error(0)
}

type mockForwarder struct{ mock.Mock }

func (m *mockForwarder) Forward(ctx context.Context, id string, out datamapper.OutputRecord) error {
	return m.Called(ctx, id, out).Error(0)
}

func janeDoe() datamapper.InputRecord {
	return datamapper.InputRecord{
		Name:            "Jane Doe",
		DOB:             "1980-01-01",
		SSN:             "123-45-6789",
		Address:         "1 Main St",
		Phone:           "555-0100",
		Email:           "jane@example.com",
		Doctor:          "Dr. Smith",
		HospitalID:      "H100",
		Hospital:        "General Hospital",
		CardNo:          "4111111111111111",
		AppointmentDate: "2024-05-01",
	}
}
