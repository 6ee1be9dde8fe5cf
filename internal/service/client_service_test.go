package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/mocks"
	customError "github.com/segyhp/loan-ledger/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newClientService() (*ClientService, *mocks.MockClientRepository, *mocks.MockLoanRepository, *mocks.MockDashboardCache) {
	clients := &mocks.MockClientRepository{}
	loans := &mocks.MockLoanRepository{}
	dashboard := &mocks.MockDashboardCache{}
	s := NewClientService(clients, loans, dashboard, testLogger())
	s.now = fixedClock
	return s, clients, loans, dashboard
}

func TestClientService_Create(t *testing.T) {
	s, clients, _, dashboard := newClientService()

	clients.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
		return c.Name == "Maria Silva" && c.OwnerID == testOwner && c.CreatedAt.Equal(testNow)
	})).Return(nil)
	dashboard.On("Invalidate", mock.Anything, testOwner).Return(nil)

	client, err := s.Create(context.Background(), testOwner, &domain.CreateClientRequest{Name: "  Maria Silva "})
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", client.Name)

	_, err = s.Create(context.Background(), testOwner, &domain.CreateClientRequest{Name: "   "})
	assert.ErrorIs(t, err, customError.ErrValidation)

	clients.AssertExpectations(t)
}

func TestClientService_Get(t *testing.T) {
	s, clients, loans, _ := newClientService()
	client := &domain.Client{ID: uuid.New(), Name: "Ana"}
	missing := uuid.New()

	clients.On("GetByID", mock.Anything, testOwner, client.ID).Return(client, nil)
	clients.On("GetByID", mock.Anything, testOwner, missing).Return(nil, sql.ErrNoRows)
	loans.On("ListByClient", mock.Anything, testOwner, client.ID).Return([]*domain.Loan{testLoan(client.ID, "100", testNow)}, nil)

	detail, err := s.Get(context.Background(), testOwner, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", detail.Client.Name)
	assert.Len(t, detail.Loans, 1)

	_, err = s.Get(context.Background(), testOwner, missing)
	assert.ErrorIs(t, err, customError.ErrClientNotFound)
}

func TestClientService_Search(t *testing.T) {
	s, clients, _, _ := newClientService()

	clients.On("List", mock.Anything, testOwner).Return([]*domain.Client{{Name: "A"}, {Name: "B"}}, nil)
	clients.On("Search", mock.Anything, testOwner, "999").Return([]*domain.Client{{Name: "B"}}, nil)

	all, err := s.Search(context.Background(), testOwner, " ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := s.Search(context.Background(), testOwner, "999")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestClientService_Update(t *testing.T) {
	s, clients, _, _ := newClientService()
	client := &domain.Client{ID: uuid.New(), Name: "Pedro", Phone: "1"}

	clients.On("GetByID", mock.Anything, testOwner, client.ID).Return(client, nil)
	clients.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
		return c.Name == "Pedro" && c.Phone == "21 99999-0000" && c.UpdatedAt.Equal(testNow)
	})).Return(nil)

	updated, err := s.Update(context.Background(), testOwner, client.ID, &domain.UpdateClientRequest{Phone: ptr("21 99999-0000")})
	require.NoError(t, err)
	assert.Equal(t, "21 99999-0000", updated.Phone)

	_, err = s.Update(context.Background(), testOwner, client.ID, &domain.UpdateClientRequest{Name: ptr("")})
	assert.ErrorIs(t, err, customError.ErrValidation)
}

func TestClientService_Delete(t *testing.T) {
	s, clients, _, dashboard := newClientService()
	id := uuid.New()

	clients.On("Delete", mock.Anything, testOwner, id).Return(nil)
	dashboard.On("Invalidate", mock.Anything, testOwner).Return(nil)

	require.NoError(t, s.Delete(context.Background(), testOwner, id))
	dashboard.AssertExpectations(t)
}
