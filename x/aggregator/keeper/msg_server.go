package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// MsgServer implementation
var _ types.MsgServer = &Keeper{}

func parseAddress(field, addr string) (sdk.AccAddress, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, " %s address, %s", field, err)
	}
	return acc, nil
}

func parseAddresses(field string, addrs []string) ([]sdk.AccAddress, error) {
	out := make([]sdk.AccAddress, len(addrs))
	for i, addr := range addrs {
		acc, err := parseAddress(field, addr)
		if err != nil {
			return nil, err
		}
		out[i] = acc
	}
	return out, nil
}

// Submit defines a method for an oracle to report on a round
func (k Keeper) Submit(c context.Context, msg *types.MsgSubmit) (*types.MsgSubmitResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	oracle, err := parseAddress("oracle", msg.Oracle)
	if err != nil {
		return nil, err
	}
	if err := k.SubmitValues(ctx, oracle, msg.RoundID, msg.Values); err != nil {
		return nil, err
	}
	return &types.MsgSubmitResponse{}, nil
}

// ChangeOracles defines a method for the owner to edit the oracle set
func (k Keeper) ChangeOracles(c context.Context, msg *types.MsgChangeOracles) (*types.MsgChangeOraclesResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	removed, err := parseAddresses("removed oracle", msg.Removed)
	if err != nil {
		return nil, err
	}
	added, err := parseAddresses("added oracle", msg.Added)
	if err != nil {
		return nil, err
	}
	admins, err := parseAddresses("added admin", msg.AddedAdmins)
	if err != nil {
		return nil, err
	}

	if err := k.UpdateOracles(ctx, owner, removed, added, admins, msg.MinSubmissions, msg.MaxSubmissions, msg.RestartDelay); err != nil {
		return nil, err
	}
	return &types.MsgChangeOraclesResponse{}, nil
}

// UpdateFutureRounds defines a method for the owner to set round params
func (k Keeper) UpdateFutureRounds(c context.Context, msg *types.MsgUpdateFutureRounds) (*types.MsgUpdateFutureRoundsResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	if err := k.SetFutureRounds(ctx, owner, msg.Params()); err != nil {
		return nil, err
	}
	return &types.MsgUpdateFutureRoundsResponse{}, nil
}

// RequestNewRound defines a method for a requester to open a round
func (k Keeper) RequestNewRound(c context.Context, msg *types.MsgRequestNewRound) (*types.MsgRequestNewRoundResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	requester, err := parseAddress("requester", msg.Requester)
	if err != nil {
		return nil, err
	}
	roundID, err := k.RequestRound(ctx, requester)
	if err != nil {
		return nil, err
	}
	return &types.MsgRequestNewRoundResponse{RoundID: roundID}, nil
}

// SetRequesterPermissions defines a method for the owner to manage requesters
func (k Keeper) SetRequesterPermissions(c context.Context, msg *types.MsgSetRequesterPermissions) (*types.MsgSetRequesterPermissionsResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	requester, err := parseAddress("requester", msg.Requester)
	if err != nil {
		return nil, err
	}
	if err := k.SetRequesterAccess(ctx, owner, requester, msg.Authorized, msg.Delay); err != nil {
		return nil, err
	}
	return &types.MsgSetRequesterPermissionsResponse{}, nil
}

// TransferAdmin defines a method for an oracle admin to propose a successor
func (k Keeper) TransferAdmin(c context.Context, msg *types.MsgTransferAdmin) (*types.MsgTransferAdminResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	admin, err := parseAddress("admin", msg.Admin)
	if err != nil {
		return nil, err
	}
	oracle, err := parseAddress("oracle", msg.Oracle)
	if err != nil {
		return nil, err
	}
	newAdmin, err := parseAddress("new admin", msg.NewAdmin)
	if err != nil {
		return nil, err
	}
	if err := k.ProposeAdmin(ctx, admin, oracle, newAdmin); err != nil {
		return nil, err
	}
	return &types.MsgTransferAdminResponse{}, nil
}

// AcceptAdmin defines a method for a proposed admin to take over
func (k Keeper) AcceptAdmin(c context.Context, msg *types.MsgAcceptAdmin) (*types.MsgAcceptAdminResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	newAdmin, err := parseAddress("new admin", msg.NewAdmin)
	if err != nil {
		return nil, err
	}
	oracle, err := parseAddress("oracle", msg.Oracle)
	if err != nil {
		return nil, err
	}
	if err := k.ClaimAdmin(ctx, newAdmin, oracle); err != nil {
		return nil, err
	}
	return &types.MsgAcceptAdminResponse{}, nil
}

// WithdrawPayment defines a method for an oracle admin to collect rewards
func (k Keeper) WithdrawPayment(c context.Context, msg *types.MsgWithdrawPayment) (*types.MsgWithdrawPaymentResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	admin, err := parseAddress("admin", msg.Admin)
	if err != nil {
		return nil, err
	}
	oracle, err := parseAddress("oracle", msg.Oracle)
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress("recipient", msg.Recipient)
	if err != nil {
		return nil, err
	}
	if err := k.WithdrawOraclePayment(ctx, admin, oracle, recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgWithdrawPaymentResponse{}, nil
}

// WithdrawFunds defines a method for the owner to take unreserved funds
func (k Keeper) WithdrawFunds(c context.Context, msg *types.MsgWithdrawFunds) (*types.MsgWithdrawFundsResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress("recipient", msg.Recipient)
	if err != nil {
		return nil, err
	}
	if err := k.WithdrawOwnerFunds(ctx, owner, recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgWithdrawFundsResponse{}, nil
}

// Deposit defines a method for anyone to fund oracle payments
func (k Keeper) Deposit(c context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	depositor, err := parseAddress("depositor", msg.Depositor)
	if err != nil {
		return nil, err
	}
	if err := k.DepositFunds(ctx, depositor, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{}, nil
}

// ChangeOwner defines a method for the owner to hand over the feed
func (k Keeper) ChangeOwner(c context.Context, msg *types.MsgChangeOwner) (*types.MsgChangeOwnerResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	newOwner, err := parseAddress("new owner", msg.NewOwner)
	if err != nil {
		return nil, err
	}
	if err := k.TransferOwnership(ctx, owner, newOwner); err != nil {
		return nil, err
	}
	return &types.MsgChangeOwnerResponse{}, nil
}
