package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

func (suite *KeeperTestSuite) TestAllowOracles() {
	suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 100)
	oracleD := testAddr("oracle-d")

	suite.Require().ErrorIs(suite.keeper.AllowOracles(suite.ctx, stranger, []sdk.AccAddress{oracleD}), types.ErrNotOwner)
	suite.Require().NoError(suite.keeper.AllowOracles(suite.ctx, owner, []sdk.AccAddress{oracleA, oracleD}))

	suite.Require().Equal(uint32(4), suite.keeper.OracleCount(suite.ctx))
	status, found := suite.keeper.GetOracleStatus(suite.ctx, oracleA)
	suite.Require().True(found)
	suite.Require().Equal(uint64(1), status.TotalSubmissions)
}

func (suite *KeeperTestSuite) TestDisallowOracles() {
	testCases := []struct {
		name    string
		caller  sdk.AccAddress
		count   uint32
		oracles []sdk.AccAddress
		expErr  error
	}{
		{"not owner", stranger, 1, []sdk.AccAddress{oracleC}, types.ErrNotOwner},
		{"unknown oracle", owner, 1, []sdk.AccAddress{stranger}, types.ErrOracleNotFound},
		{"count above remaining", owner, 3, []sdk.AccAddress{oracleC}, types.ErrInvalidSubmissionCount},
		{"zero count", owner, 0, []sdk.AccAddress{oracleC}, types.ErrInvalidSubmissionCount},
		{"remove one", owner, 2, []sdk.AccAddress{oracleC}, nil},
		{"remove two", owner, 1, []sdk.AccAddress{oracleB, oracleC}, nil},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			err := suite.keeper.DisallowOracles(suite.ctx, tc.caller, tc.count, tc.oracles)
			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}
			suite.Require().NoError(err)
			suite.Require().Equal(uint32(3-len(tc.oracles)), suite.keeper.OracleCount(suite.ctx))
			suite.Require().Equal(tc.count, suite.keeper.GetParams(suite.ctx).SubmissionCount)
			for _, o := range tc.oracles {
				suite.Require().False(suite.keeper.IsOracle(suite.ctx, o))
			}
		})
	}
}

func (suite *KeeperTestSuite) TestUpdateSubmissionCount() {
	suite.Require().ErrorIs(suite.keeper.UpdateSubmissionCount(suite.ctx, stranger, 1), types.ErrNotOwner)
	suite.Require().ErrorIs(suite.keeper.UpdateSubmissionCount(suite.ctx, owner, 0), types.ErrInvalidSubmissionCount)
	suite.Require().ErrorIs(suite.keeper.UpdateSubmissionCount(suite.ctx, owner, 4), types.ErrInvalidSubmissionCount)

	suite.Require().NoError(suite.keeper.UpdateSubmissionCount(suite.ctx, owner, 1))
	res := suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 100)
	suite.Require().Equal(uint64(1), res.RoundID)
}

func (suite *KeeperTestSuite) TestTransferOwnership() {
	suite.Require().ErrorIs(suite.keeper.TransferOwnership(suite.ctx, stranger, stranger), types.ErrNotOwner)
	suite.Require().NoError(suite.keeper.TransferOwnership(suite.ctx, owner, stranger))
	suite.Require().Equal(stranger, suite.keeper.GetOwner(suite.ctx))

	suite.Require().ErrorIs(suite.keeper.SetPaused(suite.ctx, owner, true), types.ErrNotOwner)
	suite.Require().NoError(suite.keeper.SetPaused(suite.ctx, stranger, true))
}
