package postgres_test

import (
	"context"
	"testing"

	postgres_adapter "tiffin/internal/adapters/out/postgres"
	"tiffin/internal/adapters/out/postgres/pgtest"
	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/delivery"
	"tiffin/internal/core/domain/model/order"
	"tiffin/internal/core/ports"
	"tiffin/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real Postgres.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	factory *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(pg.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCreate_ReturnsIndependentInstances() {
	a := suite.factory.Create()
	b := suite.factory.Create()

	suite.NotSame(a, b)
}

// TestCommit_PersistsAcrossRepositories writes one aggregate through every
// repository in a single transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	c := pgtest.Customer(suite.T(), customer.Active)
	s := pgtest.Subscription(suite.T(), c.ID())
	o := pgtest.Order(suite.T(), s, order.Packed)
	d := pgtest.Delivery(suite.T(), o, delivery.Scheduled, c.Zone(), c.Location())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, c))
	suite.Require().NoError(uow.SubscriptionRepository().Add(ctx, s))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, d))
	suite.Equal(4, uow.(*postgres_adapter.GormUnitOfWork).TrackedCount())
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	gotOrder, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Packed, gotOrder.Status())
	gotDelivery, err := reader.DeliveryRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.True(o.ID().IsEqual(gotDelivery.OrderID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsWrites() {
	ctx := context.Background()
	c := pgtest.Customer(suite.T(), customer.Active)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, c))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().CustomerRepository().Get(ctx, c.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Zero(uow.(*postgres_adapter.GormUnitOfWork).TrackedCount())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUncommittedWritesAreInvisibleOutside() {
	ctx := context.Background()
	c := pgtest.Customer(suite.T(), customer.Active)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, c))

	_, err := uow.CustomerRepository().Get(ctx, c.ID())
	suite.Require().NoError(err)
	_, err = suite.factory.Create().CustomerRepository().Get(ctx, c.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_IsNoop() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitAndRollback_WithoutTransaction() {
	ctx := context.Background()
	var uow ports.UnitOfWork = suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_AfterCommit_ReportsNoTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
