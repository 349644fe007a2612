package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/postgres"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/testhelpers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	testDB    *testhelpers.TestDatabase
	requests  *postgres.RequestRepository
	states    *postgres.StateRepository
	responses *postgres.ResponseStore
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres suite in short mode")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.requests = postgres.NewRequestRepository(suite.testDB.DB)
	suite.states = postgres.NewStateRepository(suite.testDB.DB)
	suite.responses = postgres.NewResponseStore(suite.testDB.DB)
}

func (suite *RepositoryTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *RepositoryTestSuite) TearDownTest() {
	suite.testDB.CleanTables(suite.T())
}

func (suite *RepositoryTestSuite) TestAppend_AssignsIncreasingSeq() {
	ctx := context.Background()

	first := testhelpers.NewRequest("svc.alice")
	second := testhelpers.NewRequest("svc.bob")

	require.NoError(suite.T(), suite.requests.Append(ctx, first))
	require.NoError(suite.T(), suite.requests.Append(ctx, second))

	assert.Greater(suite.T(), second.Seq, first.Seq)

	count, err := suite.requests.Count(ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), count)
}

func (suite *RepositoryTestSuite) TestAppend_DuplicateKeyRejected() {
	ctx := context.Background()

	req := testhelpers.NewRequest("svc.alice")
	require.NoError(suite.T(), suite.requests.Append(ctx, req))

	dup := *req
	err := suite.requests.Append(ctx, &dup)

	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, domain.ErrDuplicateRequest))
}

func (suite *RepositoryTestSuite) TestList_PreservesArrivalOrderAndLimit() {
	ctx := context.Background()

	var ids []domain.RequestID
	for range 5 {
		req := testhelpers.NewRequest("svc.alice")
		require.NoError(suite.T(), suite.requests.Append(ctx, req))
		ids = append(ids, req.RequestID)
	}

	all, err := suite.requests.List(ctx, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 5)
	for i, req := range all {
		assert.Equal(suite.T(), ids[i], req.RequestID)
	}

	head, err := suite.requests.List(ctx, 2)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), head, 2)
	assert.Equal(suite.T(), ids[0], head[0].RequestID)
	assert.Equal(suite.T(), ids[1], head[1].RequestID)
}

func (suite *RepositoryTestSuite) TestList_EmptyRegistry() {
	requests, err := suite.requests.List(context.Background(), 0)

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), requests)
}

func (suite *RepositoryTestSuite) TestRemoveFirst_KeepsOthersInOrder() {
	ctx := context.Background()

	a := testhelpers.NewRequest("svc.alice")
	b := testhelpers.NewRequest("svc.alice")
	c := testhelpers.NewRequest("svc.bob")
	for _, req := range []*domain.Request{a, b, c} {
		require.NoError(suite.T(), suite.requests.Append(ctx, req))
	}

	removed, err := suite.requests.RemoveFirst(ctx, b.OriginatorID, b.RequestID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), b.RequestID, removed.RequestID)
	assert.True(suite.T(), b.Deposit.Equal(removed.Deposit))

	remaining, err := suite.requests.List(ctx, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), remaining, 2)
	assert.Equal(suite.T(), a.RequestID, remaining[0].RequestID)
	assert.Equal(suite.T(), c.RequestID, remaining[1].RequestID)
}

func (suite *RepositoryTestSuite) TestRemoveFirst_NoMatch() {
	ctx := context.Background()

	req := testhelpers.NewRequest("svc.alice")
	require.NoError(suite.T(), suite.requests.Append(ctx, req))

	// same request id, different originator
	_, err := suite.requests.RemoveFirst(ctx, "svc.bob", req.RequestID)

	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, domain.ErrNotFound))

	count, err := suite.requests.Count(ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *RepositoryTestSuite) TestWithTx_RollsBackOnError() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := suite.requests.WithTx(ctx, func(tx ports.RequestRepository) error {
		if err := tx.Append(ctx, testhelpers.NewRequest("svc.alice")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(suite.T(), err, boom)

	count, err := suite.requests.Count(ctx)
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), count)
}

func (suite *RepositoryTestSuite) TestBalance_CreditAndDebit() {
	ctx := context.Background()

	balance, err := suite.requests.Balance(ctx, "svc.alice")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), balance.IsZero())

	_, err = suite.requests.Credit(ctx, "svc.alice", decimal.NewFromInt(2))
	require.NoError(suite.T(), err)
	balance, err = suite.requests.Credit(ctx, "svc.alice", decimal.RequireFromString("0.5"))
	require.NoError(suite.T(), err)
	assert.True(suite.T(), balance.Equal(decimal.RequireFromString("2.5")))

	balance, err = suite.requests.Debit(ctx, "svc.alice", decimal.NewFromInt(2))
	require.NoError(suite.T(), err)
	assert.True(suite.T(), balance.Equal(decimal.RequireFromString("0.5")))

	_, err = suite.requests.Debit(ctx, "svc.alice", decimal.NewFromInt(1))
	assert.True(suite.T(), errors.Is(err, domain.ErrInsufficientPayment))

	_, err = suite.requests.Debit(ctx, "svc.nobody", decimal.NewFromInt(1))
	assert.True(suite.T(), errors.Is(err, domain.ErrInsufficientPayment))
}

func (suite *RepositoryTestSuite) TestBalance_DebitRolledBackWithTx() {
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := suite.requests.Credit(ctx, "svc.alice", decimal.NewFromInt(1))
	require.NoError(suite.T(), err)

	err = suite.requests.WithTx(ctx, func(tx ports.RequestRepository) error {
		if _, err := tx.Debit(ctx, "svc.alice", decimal.NewFromInt(1)); err != nil {
			return err
		}
		if err := tx.Append(ctx, testhelpers.NewRequest("svc.alice")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(suite.T(), err, boom)

	balance, err := suite.requests.Balance(ctx, "svc.alice")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), balance.Equal(decimal.NewFromInt(1)))
}

func (suite *RepositoryTestSuite) TestState_CreateOnce() {
	ctx := context.Background()

	_, err := suite.states.LoadState(ctx)
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, domain.ErrInvalidAmbientState))

	state := &domain.RegistryState{
		OwnerID:       "fetcher.near",
		MinDeposit:    decimal.RequireFromString("0.5"),
		InitializedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(suite.T(), suite.states.CreateState(ctx, state))

	loaded, err := suite.states.LoadState(ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), state.OwnerID, loaded.OwnerID)
	assert.True(suite.T(), state.MinDeposit.Equal(loaded.MinDeposit))

	err = suite.states.CreateState(ctx, state)
	assert.True(suite.T(), errors.Is(err, domain.ErrInvalidAmbientState))
}

func (suite *RepositoryTestSuite) TestResponses_LatestTracksLastPut() {
	ctx := context.Background()

	empty, err := suite.responses.Latest(ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.PayloadNone, empty.Payload.Kind)

	volume, err := domain.NewPayload(domain.PayloadTradeVolume, decimal.NewFromInt(1200))
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.responses.Put(ctx, &domain.Response{
		RequestID:  "101",
		Payload:    volume,
		ReceivedAt: time.Now().UTC(),
	}))
	require.NoError(suite.T(), suite.responses.Put(ctx, &domain.Response{
		RequestID:  "102",
		Err:        "feed unavailable",
		Payload:    domain.NoData(),
		ReceivedAt: time.Now().UTC(),
	}))

	latest, err := suite.responses.Latest(ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.RequestID("102"), latest.RequestID)
	assert.Equal(suite.T(), "feed unavailable", latest.Err)

	// re-delivery of an older id makes it the latest again
	require.NoError(suite.T(), suite.responses.Put(ctx, &domain.Response{
		RequestID:  "101",
		Payload:    volume,
		ReceivedAt: time.Now().UTC(),
	}))
	latest, err = suite.responses.Latest(ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.RequestID("101"), latest.RequestID)

	got, err := latest.Payload.TradeVolume()
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.NewFromInt(1200).Equal(got))
}

func (suite *RepositoryTestSuite) TestResponses_ClearPayload() {
	ctx := context.Background()

	symbols, err := domain.NewPayload(domain.PayloadSymbols, domain.SymbolsData{Symbols: []string{"AAPL", "MSFT"}})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.responses.Put(ctx, &domain.Response{
		RequestID:  "101",
		Payload:    symbols,
		ReceivedAt: time.Now().UTC(),
	}))

	require.NoError(suite.T(), suite.responses.ClearPayload(ctx))

	latest, err := suite.responses.Latest(ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.RequestID("101"), latest.RequestID)
	assert.True(suite.T(), latest.Payload.IsEmpty())

	_, err = suite.responses.Get(ctx, "999")
	assert.True(suite.T(), errors.Is(err, domain.ErrNotFound))
}
