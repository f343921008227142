package customerrepo_test

import (
	"context"
	"testing"

	"tiffin/internal/adapters/out/postgres/customerrepo"
	"tiffin/internal/adapters/out/postgres/pgtest"
	"tiffin/internal/core/domain/model/customer"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CustomerRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *customerrepo.GormCustomerRepository
}

func (suite *CustomerRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *CustomerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.repository = customerrepo.NewGormCustomerRepository(suite.pg.DB, pgtest.NopTracker{})
}

func (suite *CustomerRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := context.Background()
	c := pgtest.Customer(suite.T(), customer.Active)

	suite.Require().NoError(suite.repository.Add(ctx, c))
	got, err := suite.repository.Get(ctx, c.ID())

	suite.Require().NoError(err)
	suite.Equal("Priya Sharma", got.FullName())
	suite.Equal(c.Address(), got.Address())
	suite.Equal("Langley", got.Zone())
	suite.Require().NotNil(got.Location())
	suite.True(c.Location().IsEqual(*got.Location()))
	suite.Equal("Leave at side door", got.DeliveryInstructions())
	suite.True(decimal.RequireFromString("120.50").Equal(got.AccountBalance()))
	suite.Equal(customer.Active, got.Status())
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestAdd_WithoutLocation_KeepsNil() {
	ctx := context.Background()
	c := pgtest.Customer(suite.T(), customer.Active)
	suite.Require().NoError(c.ChangeAddress(c.Address(), nil))

	suite.Require().NoError(suite.repository.Add(ctx, c))
	got, err := suite.repository.Get(ctx, c.ID())

	suite.Require().NoError(err)
	suite.Nil(got.Location())
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusAndBalance() {
	ctx := context.Background()
	c := pgtest.Customer(suite.T(), customer.Active)
	suite.Require().NoError(suite.repository.Add(ctx, c))

	suite.Require().NoError(c.ChangeStatus(customer.Suspended))
	c.AdjustBalance(decimal.RequireFromString("-20.50"))
	suite.Require().NoError(suite.repository.Update(ctx, c))

	got, err := suite.repository.Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Equal(customer.Suspended, got.Status())
	suite.True(decimal.RequireFromString("100.00").Equal(got.AccountBalance()))
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestUpdate_UnknownCustomer_NotFound() {
	err := suite.repository.Update(context.Background(), pgtest.Customer(suite.T(), customer.Active))

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestGetMany_KeysByID() {
	ctx := context.Background()
	a := pgtest.Customer(suite.T(), customer.Active)
	b := pgtest.Customer(suite.T(), customer.Inactive)
	suite.Require().NoError(suite.repository.Add(ctx, a))
	suite.Require().NoError(suite.repository.Add(ctx, b))

	got, err := suite.repository.GetMany(ctx, []kernel.UUID{a.ID(), b.ID(), kernel.NewUUID()})

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.Equal(customer.Active, got[a.ID().String()].Status())
	suite.Equal(customer.Inactive, got[b.ID().String()].Status())
}

func (suite *CustomerRepositoryIntegrationTestSuite) TestGetMany_Empty() {
	got, err := suite.repository.GetMany(context.Background(), nil)

	suite.Require().NoError(err)
	suite.Empty(got)
}

func TestCustomerRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerRepositoryIntegrationTestSuite))
}
