package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
)

type TransferServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (s *TransferServiceTestSuite) SetupTest() {
	s.f = newFixture()
}

// --- CreateDrawerTransfer ---

func (s *TransferServiceTestSuite) TestCreateDrawerTransfer_Success() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	dest := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "50")

	transfer, err := s.f.transfers.CreateDrawerTransfer(s.f.ctx, cashierAlice, dto.CreateDrawerTransferRequest{
		FromDrawerID: source.DrawerID,
		ToDrawerID:   dest.DrawerID,
		Amount:       dec("25"),
		Reason:       "change float",
	})

	s.Require().NoError(err)
	s.Equal(domain.TransferPending, transfer.Status)
	s.Equal(domain.TransferDrawer, transfer.Kind)
	s.Equal(cashierAlice.ActorID, transfer.FromActorID)
	s.Equal(cashierBob.ActorID, transfer.ToActorID, "the request is addressed to the destination drawer's owner")
	s.Equal(cashierAlice.ActorID, transfer.CreatedBy)
	s.True(strings.HasPrefix(transfer.ReferenceNumber, "TRF-"))
	s.Nil(transfer.RespondedAt)

	// Proposing moves no cash.
	balance, err := s.f.drawers.GetBalance(s.f.ctx, cashierAlice, source.DrawerID)
	s.Require().NoError(err)
	s.True(dec("100").Equal(balance))
}

func (s *TransferServiceTestSuite) TestCreateDrawerTransfer_NonPositiveAmountRejected() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	dest := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "50")

	for _, amount := range []string{"0", "-10"} {
		_, err := s.f.transfers.CreateDrawerTransfer(s.f.ctx, cashierAlice, dto.CreateDrawerTransferRequest{
			FromDrawerID: source.DrawerID,
			ToDrawerID:   dest.DrawerID,
			Amount:       dec(amount),
		})
		s.ErrorIs(err, apperrors.ErrInvalidAmount)
	}
}

func (s *TransferServiceTestSuite) TestCreateDrawerTransfer_SameDrawerRejected() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")

	_, err := s.f.transfers.CreateDrawerTransfer(s.f.ctx, cashierAlice, dto.CreateDrawerTransferRequest{
		FromDrawerID: source.DrawerID,
		ToDrawerID:   source.DrawerID,
		Amount:       dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *TransferServiceTestSuite) TestCreateDrawerTransfer_DrawersMustBeOpen() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	dest := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "50")

	_, err := s.f.drawers.CloseDrawer(s.f.ctx, cashierBob, dest.DrawerID)
	s.Require().NoError(err)

	_, err = s.f.transfers.CreateDrawerTransfer(s.f.ctx, cashierAlice, dto.CreateDrawerTransferRequest{
		FromDrawerID: source.DrawerID,
		ToDrawerID:   dest.DrawerID,
		Amount:       dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrInvalidState)

	_, err = s.f.drawers.CloseDrawer(s.f.ctx, cashierAlice, source.DrawerID)
	s.Require().NoError(err)

	_, err = s.f.transfers.CreateDrawerTransfer(s.f.ctx, cashierAlice, dto.CreateDrawerTransferRequest{
		FromDrawerID: source.DrawerID,
		ToDrawerID:   dest.DrawerID,
		Amount:       dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *TransferServiceTestSuite) TestCreateDrawerTransfer_InsufficientFundsAtCreation() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "20")
	dest := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "50")

	_, err := s.f.transfers.CreateDrawerTransfer(s.f.ctx, cashierAlice, dto.CreateDrawerTransferRequest{
		FromDrawerID: source.DrawerID,
		ToDrawerID:   dest.DrawerID,
		Amount:       dec("21"),
	})
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (s *TransferServiceTestSuite) TestCreateDrawerTransfer_SourceOwnershipEnforced() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	dest := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "50")

	_, err := s.f.transfers.CreateDrawerTransfer(s.f.ctx, cashierBob, dto.CreateDrawerTransferRequest{
		FromDrawerID: source.DrawerID,
		ToDrawerID:   dest.DrawerID,
		Amount:       dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrForbidden)

	// An elevated role may propose from any drawer in the tenant; the request
	// still names the drawer owners, not the proposer.
	transfer, err := s.f.transfers.CreateDrawerTransfer(s.f.ctx, managerMara, dto.CreateDrawerTransferRequest{
		FromDrawerID: source.DrawerID,
		ToDrawerID:   dest.DrawerID,
		Amount:       dec("10"),
	})
	s.Require().NoError(err)
	s.Equal(cashierAlice.ActorID, transfer.FromActorID)
	s.Equal(managerMara.ActorID, transfer.CreatedBy)
}

func (s *TransferServiceTestSuite) TestCreateDrawerTransfer_CrossTenantDestinationNotFound() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	foreign := s.f.mustOpenDrawer(s.T(), outsiderEve, "Elsewhere", "50")

	_, err := s.f.transfers.CreateDrawerTransfer(s.f.ctx, cashierAlice, dto.CreateDrawerTransferRequest{
		FromDrawerID: source.DrawerID,
		ToDrawerID:   foreign.DrawerID,
		Amount:       dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

// --- CreateAccountTransfer ---

func (s *TransferServiceTestSuite) TestCreateAccountTransfer_Success() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")

	transfer, err := s.f.transfers.CreateAccountTransfer(s.f.ctx, cashierAlice, dto.CreateAccountTransferRequest{
		FromDrawerID:        source.DrawerID,
		ToExternalAccountID: "iban:DE02120300000000202051",
		Amount:              dec("60"),
		Reason:              "evening deposit",
	})

	s.Require().NoError(err)
	s.Equal(domain.TransferAccount, transfer.Kind)
	s.Equal(domain.TransferPending, transfer.Status)
	s.Equal("iban:DE02120300000000202051", transfer.ToExternalAccID)
	s.Empty(transfer.ToActorID, "account transfers have no recipient operator")
	s.Empty(transfer.ToDrawerID)
}

func (s *TransferServiceTestSuite) TestCreateAccountTransfer_SourceChecksApply() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "40")

	_, err := s.f.transfers.CreateAccountTransfer(s.f.ctx, cashierAlice, dto.CreateAccountTransferRequest{
		FromDrawerID:        source.DrawerID,
		ToExternalAccountID: "acct-77",
		Amount:              dec("41"),
	})
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	_, err = s.f.transfers.CreateAccountTransfer(s.f.ctx, cashierBob, dto.CreateAccountTransferRequest{
		FromDrawerID:        source.DrawerID,
		ToExternalAccountID: "acct-77",
		Amount:              dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

// --- GetTransfer / ListTransfers ---

func (s *TransferServiceTestSuite) TestGetTransfer_TenantScoped() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	dest := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "50")
	transfer := s.f.mustCreateDrawerTransfer(s.T(), cashierAlice, source.DrawerID, dest.DrawerID, "10")

	found, err := s.f.transfers.GetTransfer(s.f.ctx, cashierBob, transfer.RequestID)
	s.Require().NoError(err)
	s.Equal(transfer.RequestID, found.RequestID)

	_, err = s.f.transfers.GetTransfer(s.f.ctx, outsiderEve, transfer.RequestID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransferServiceTestSuite) TestListTransfers_FiltersAndPagination() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	dest := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "50")

	ids := make(map[string]bool)
	for i := 0; i < 5; i++ {
		tr := s.f.mustCreateDrawerTransfer(s.T(), cashierAlice, source.DrawerID, dest.DrawerID, "1")
		ids[tr.RequestID] = true
	}

	accountTr, err := s.f.transfers.CreateAccountTransfer(s.f.ctx, cashierAlice, dto.CreateAccountTransferRequest{
		FromDrawerID:        source.DrawerID,
		ToExternalAccountID: "acct-1",
		Amount:              dec("2"),
	})
	s.Require().NoError(err)

	kind := domain.TransferAccount
	resp, err := s.f.transfers.ListTransfers(s.f.ctx, managerMara, dto.ListTransfersParams{Kind: &kind, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(resp.Transfers, 1)
	s.Equal(accountTr.RequestID, resp.Transfers[0].RequestID)

	// Page through the drawer transfers two at a time.
	drawerKind := domain.TransferDrawer
	seen := make(map[string]bool)
	var nextToken *string
	pages := 0
	for {
		page, err := s.f.transfers.ListTransfers(s.f.ctx, managerMara, dto.ListTransfersParams{
			Kind:      &drawerKind,
			Limit:     2,
			NextToken: nextToken,
		})
		s.Require().NoError(err)
		for _, tr := range page.Transfers {
			s.False(seen[tr.RequestID], "transfer %s returned twice", tr.RequestID)
			seen[tr.RequestID] = true
		}
		pages++
		if page.NextToken == nil {
			break
		}
		nextToken = page.NextToken
	}
	s.Equal(3, pages)
	s.Len(seen, len(ids))
	for id := range ids {
		s.True(seen[id], "transfer %s missing from pagination", id)
	}
}

func (s *TransferServiceTestSuite) TestListTransfers_ActorFilterMatchesEitherSide() {
	source := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	dest := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "50")
	s.f.mustCreateDrawerTransfer(s.T(), cashierAlice, source.DrawerID, dest.DrawerID, "5")

	for _, actorID := range []string{cashierAlice.ActorID, cashierBob.ActorID} {
		id := actorID
		resp, err := s.f.transfers.ListTransfers(s.f.ctx, managerMara, dto.ListTransfersParams{ActorID: &id, Limit: 10})
		s.Require().NoError(err)
		s.Len(resp.Transfers, 1, "actor %s should see the transfer", actorID)
	}

	unknown := "user-nobody"
	resp, err := s.f.transfers.ListTransfers(s.f.ctx, managerMara, dto.ListTransfersParams{ActorID: &unknown, Limit: 10})
	s.Require().NoError(err)
	s.Empty(resp.Transfers)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
