package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
)

type LedgerQueryServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (s *LedgerQueryServiceTestSuite) SetupTest() {
	s.f = newFixture()
}

// --- GetJournal ---

func (s *LedgerQueryServiceTestSuite) TestGetJournal_SummaryTotals() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	_, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("50"),
	})
	s.Require().NoError(err)

	_, err = s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntryExpensePayment,
		Amount: dec("30"),
	})
	s.Require().NoError(err)

	journal, err := s.f.queries.GetJournal(s.f.ctx, cashierAlice, drawer.DrawerID, dto.GetJournalParams{})
	s.Require().NoError(err)
	s.Require().Len(journal.Entries, 3)
	s.Equal(drawer.DrawerID, journal.DrawerID)

	// Opening 100 and sale 50 flow in, the expense 30 flows out.
	s.True(dec("150").Equal(journal.Summary.TotalIn))
	s.True(dec("30").Equal(journal.Summary.TotalOut))
	s.True(dec("120").Equal(journal.Summary.NetChange))

	// For the full journal, net change equals the last running balance.
	last := journal.Entries[len(journal.Entries)-1]
	s.True(journal.Summary.NetChange.Equal(last.BalanceAfter))
}

func (s *LedgerQueryServiceTestSuite) TestGetJournal_EntriesOrderedBySequence() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "10")

	for i := 0; i < 4; i++ {
		_, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
			Kind:   domain.EntrySalePayment,
			Amount: dec("1"),
		})
		s.Require().NoError(err)
	}

	journal, err := s.f.queries.GetJournal(s.f.ctx, cashierAlice, drawer.DrawerID, dto.GetJournalParams{})
	s.Require().NoError(err)
	s.Require().Len(journal.Entries, 5)
	for i, e := range journal.Entries {
		s.Equal(int64(i+1), e.SequenceNumber)
	}
}

func (s *LedgerQueryServiceTestSuite) TestGetJournal_DateRangeFilters() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	// Everything so far happened before this bound.
	future := time.Now().UTC().Add(time.Hour)
	journal, err := s.f.queries.GetJournal(s.f.ctx, cashierAlice, drawer.DrawerID, dto.GetJournalParams{From: &future})
	s.Require().NoError(err)
	s.Empty(journal.Entries)
	s.True(journal.Summary.TotalIn.IsZero())
	s.True(journal.Summary.TotalOut.IsZero())
	s.True(journal.Summary.NetChange.IsZero())

	past := time.Now().UTC().Add(-time.Hour)
	journal, err = s.f.queries.GetJournal(s.f.ctx, cashierAlice, drawer.DrawerID, dto.GetJournalParams{From: &past, To: &future})
	s.Require().NoError(err)
	s.Len(journal.Entries, 1)
}

func (s *LedgerQueryServiceTestSuite) TestGetJournal_CrossTenantNotFound() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	_, err := s.f.queries.GetJournal(s.f.ctx, outsiderEve, drawer.DrawerID, dto.GetJournalParams{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ListPendingApprovals ---

func (s *LedgerQueryServiceTestSuite) TestListPendingApprovals_CashierSeesOnlyAddressedRequests() {
	aliceDrawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	bobDrawer := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "100")

	toBob := s.f.mustCreateDrawerTransfer(s.T(), cashierAlice, aliceDrawer.DrawerID, bobDrawer.DrawerID, "10")
	toAlice := s.f.mustCreateDrawerTransfer(s.T(), cashierBob, bobDrawer.DrawerID, aliceDrawer.DrawerID, "5")

	pending, err := s.f.queries.ListPendingApprovals(s.f.ctx, cashierBob)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(toBob.RequestID, pending[0].RequestID)

	pending, err = s.f.queries.ListPendingApprovals(s.f.ctx, cashierAlice)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(toAlice.RequestID, pending[0].RequestID)
}

func (s *LedgerQueryServiceTestSuite) TestListPendingApprovals_ElevatedSeesWholeTenant() {
	aliceDrawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	bobDrawer := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "100")

	s.f.mustCreateDrawerTransfer(s.T(), cashierAlice, aliceDrawer.DrawerID, bobDrawer.DrawerID, "10")

	_, err := s.f.transfers.CreateAccountTransfer(s.f.ctx, cashierAlice, dto.CreateAccountTransferRequest{
		FromDrawerID:        aliceDrawer.DrawerID,
		ToExternalAccountID: "acct-9",
		Amount:              dec("20"),
	})
	s.Require().NoError(err)

	pending, err := s.f.queries.ListPendingApprovals(s.f.ctx, managerMara)
	s.Require().NoError(err)
	s.Len(pending, 2, "elevated roles see account transfers too")

	pending, err = s.f.queries.ListPendingApprovals(s.f.ctx, outsiderEve)
	s.Require().NoError(err)
	s.Empty(pending, "other tenants see nothing")
}

func (s *LedgerQueryServiceTestSuite) TestListPendingApprovals_ResolvedRequestsDisappear() {
	aliceDrawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")
	bobDrawer := s.f.mustOpenDrawer(s.T(), cashierBob, "Bob's register", "100")

	transfer := s.f.mustCreateDrawerTransfer(s.T(), cashierAlice, aliceDrawer.DrawerID, bobDrawer.DrawerID, "10")

	_, err := s.f.approvals.Resolve(s.f.ctx, cashierBob, transfer.RequestID, dto.ResolveTransferRequest{Decision: domain.DecisionApprove})
	s.Require().NoError(err)

	pending, err := s.f.queries.ListPendingApprovals(s.f.ctx, managerMara)
	s.Require().NoError(err)
	s.Empty(pending)
}

func TestLedgerQueryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerQueryServiceTestSuite))
}
