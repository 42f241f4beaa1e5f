package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
)

type DrawerServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (s *DrawerServiceTestSuite) SetupTest() {
	s.f = newFixture()
}

// --- CreateDrawer ---

func (s *DrawerServiceTestSuite) TestCreateDrawer_DefaultsOwnerToActor() {
	drawer, err := s.f.drawers.CreateDrawer(s.f.ctx, cashierAlice, dto.CreateDrawerRequest{Name: "Front register 1"})

	s.Require().NoError(err)
	s.Equal(cashierAlice.ActorID, drawer.OwnerID)
	s.Equal(testTenant, drawer.TenantID)
	s.Equal(domain.DrawerClosed, drawer.Status)
	s.True(drawer.OpeningBalance.IsZero())
	s.True(drawer.CurrentBalance.IsZero())
}

func (s *DrawerServiceTestSuite) TestCreateDrawer_ForAnotherOperatorRequiresElevatedRole() {
	_, err := s.f.drawers.CreateDrawer(s.f.ctx, cashierAlice, dto.CreateDrawerRequest{
		Name:    "Bob's register",
		OwnerID: cashierBob.ActorID,
	})
	s.ErrorIs(err, apperrors.ErrForbidden)

	drawer, err := s.f.drawers.CreateDrawer(s.f.ctx, managerMara, dto.CreateDrawerRequest{
		Name:    "Bob's register",
		OwnerID: cashierBob.ActorID,
	})
	s.Require().NoError(err)
	s.Equal(cashierBob.ActorID, drawer.OwnerID)
	s.Equal(managerMara.ActorID, drawer.CreatedBy)
}

// --- OpenDrawer / CloseDrawer ---

func (s *DrawerServiceTestSuite) TestOpenDrawer_SetsBalancesAndWritesOpeningEntry() {
	created, err := s.f.drawers.CreateDrawer(s.f.ctx, cashierAlice, dto.CreateDrawerRequest{Name: "Register"})
	s.Require().NoError(err)

	opened, err := s.f.drawers.OpenDrawer(s.f.ctx, cashierAlice, created.DrawerID, dec("100"))
	s.Require().NoError(err)
	s.Equal(domain.DrawerOpen, opened.Status)
	s.True(dec("100").Equal(opened.OpeningBalance))
	s.True(dec("100").Equal(opened.CurrentBalance))

	journal, err := s.f.queries.GetJournal(s.f.ctx, cashierAlice, created.DrawerID, dto.GetJournalParams{})
	s.Require().NoError(err)
	s.Require().Len(journal.Entries, 1)
	s.Equal(domain.EntryOpeningBalance, journal.Entries[0].Kind)
	s.True(dec("100").Equal(journal.Entries[0].Amount))
	s.True(dec("100").Equal(journal.Entries[0].BalanceAfter))
	s.Equal(int64(1), journal.Entries[0].SequenceNumber)
}

func (s *DrawerServiceTestSuite) TestOpenDrawer_NegativeBalanceRejected() {
	created, err := s.f.drawers.CreateDrawer(s.f.ctx, cashierAlice, dto.CreateDrawerRequest{Name: "Register"})
	s.Require().NoError(err)

	_, err = s.f.drawers.OpenDrawer(s.f.ctx, cashierAlice, created.DrawerID, dec("-1"))
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *DrawerServiceTestSuite) TestOpenDrawer_AlreadyOpenRejected() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "50")

	_, err := s.f.drawers.OpenDrawer(s.f.ctx, cashierAlice, drawer.DrawerID, dec("60"))
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *DrawerServiceTestSuite) TestCloseDrawer_SnapshotsBalance() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	closed, err := s.f.drawers.CloseDrawer(s.f.ctx, cashierAlice, drawer.DrawerID)
	s.Require().NoError(err)
	s.Equal(domain.DrawerClosed, closed.Status)
	s.True(dec("100").Equal(closed.CurrentBalance))

	journal, err := s.f.queries.GetJournal(s.f.ctx, cashierAlice, drawer.DrawerID, dto.GetJournalParams{})
	s.Require().NoError(err)
	s.Require().Len(journal.Entries, 2)
	last := journal.Entries[1]
	s.Equal(domain.EntryClosingBalance, last.Kind)
	s.True(last.Amount.IsZero())
	s.True(dec("100").Equal(last.BalanceAfter))
}

func (s *DrawerServiceTestSuite) TestCloseDrawer_NotOpenRejected() {
	created, err := s.f.drawers.CreateDrawer(s.f.ctx, cashierAlice, dto.CreateDrawerRequest{Name: "Register"})
	s.Require().NoError(err)

	_, err = s.f.drawers.CloseDrawer(s.f.ctx, cashierAlice, created.DrawerID)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

// Reopening writes an OPENING_BALANCE entry holding the difference against the
// carried-over balance, so balanceAfter stays chained across sessions.
func (s *DrawerServiceTestSuite) TestReopenDrawer_OpeningEntryCarriesDelta() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	_, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("20"),
	})
	s.Require().NoError(err)

	_, err = s.f.drawers.CloseDrawer(s.f.ctx, cashierAlice, drawer.DrawerID)
	s.Require().NoError(err)

	reopened, err := s.f.drawers.OpenDrawer(s.f.ctx, cashierAlice, drawer.DrawerID, dec("150"))
	s.Require().NoError(err)
	s.True(dec("150").Equal(reopened.CurrentBalance))

	journal, err := s.f.queries.GetJournal(s.f.ctx, cashierAlice, drawer.DrawerID, dto.GetJournalParams{})
	s.Require().NoError(err)
	s.Require().Len(journal.Entries, 4)

	reopening := journal.Entries[3]
	s.Equal(domain.EntryOpeningBalance, reopening.Kind)
	s.True(dec("30").Equal(reopening.Amount), "expected delta against the carried balance of 120, got %s", reopening.Amount)
	s.True(dec("150").Equal(reopening.BalanceAfter))

	// balanceAfter(n) == balanceAfter(n-1) + amount(n) across the whole journal.
	for i := 1; i < len(journal.Entries); i++ {
		expected := journal.Entries[i-1].BalanceAfter.Add(journal.Entries[i].Amount)
		s.True(expected.Equal(journal.Entries[i].BalanceAfter), "chain broken at sequence %d", journal.Entries[i].SequenceNumber)
	}
}

// --- RecordEntry ---

func (s *DrawerServiceTestSuite) TestRecordEntry_SignConventions() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	sale, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("40"),
	})
	s.Require().NoError(err)
	s.True(dec("40").Equal(sale.Amount))
	s.True(dec("140").Equal(sale.BalanceAfter))

	expense, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntryExpensePayment,
		Amount: dec("15"),
	})
	s.Require().NoError(err)
	s.True(dec("-15").Equal(expense.Amount), "expense is submitted positive but stored negative")
	s.True(dec("125").Equal(expense.BalanceAfter))

	adjustment, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntryAdjustment,
		Amount: dec("-5"),
	})
	s.Require().NoError(err)
	s.True(dec("-5").Equal(adjustment.Amount))
	s.True(dec("120").Equal(adjustment.BalanceAfter))

	balance, err := s.f.drawers.GetBalance(s.f.ctx, cashierAlice, drawer.DrawerID)
	s.Require().NoError(err)
	s.True(dec("120").Equal(balance))
}

func (s *DrawerServiceTestSuite) TestRecordEntry_InvalidAmounts() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	_, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("-10"),
	})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntryAdjustment,
		Amount: dec("0"),
	})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *DrawerServiceTestSuite) TestRecordEntry_LifecycleKindsRejected() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	for _, kind := range []domain.EntryKind{domain.EntryOpeningBalance, domain.EntryClosingBalance, domain.EntryTransferIn, domain.EntryTransferOut} {
		_, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
			Kind:   kind,
			Amount: dec("10"),
		})
		s.ErrorIs(err, apperrors.ErrValidation, "kind %s must not be recordable directly", kind)
	}
}

func (s *DrawerServiceTestSuite) TestRecordEntry_OverdraftRejected() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "30")

	_, err := s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntryBankDeposit,
		Amount: dec("31"),
	})
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	// The failed attempt must leave no trace.
	balance, err := s.f.drawers.GetBalance(s.f.ctx, cashierAlice, drawer.DrawerID)
	s.Require().NoError(err)
	s.True(dec("30").Equal(balance))

	journal, err := s.f.queries.GetJournal(s.f.ctx, cashierAlice, drawer.DrawerID, dto.GetJournalParams{})
	s.Require().NoError(err)
	s.Len(journal.Entries, 1)
}

func (s *DrawerServiceTestSuite) TestRecordEntry_ClosedDrawerRejected() {
	created, err := s.f.drawers.CreateDrawer(s.f.ctx, cashierAlice, dto.CreateDrawerRequest{Name: "Register"})
	s.Require().NoError(err)

	_, err = s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, created.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- Authorization ---

func (s *DrawerServiceTestSuite) TestMutation_NonOwnerCashierForbidden() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")

	_, err := s.f.drawers.RecordEntry(s.f.ctx, cashierBob, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.f.drawers.CloseDrawer(s.f.ctx, cashierBob, drawer.DrawerID)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *DrawerServiceTestSuite) TestMutation_ManagerMayActOnAnyTenantDrawer() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Alice's register", "100")

	_, err := s.f.drawers.RecordEntry(s.f.ctx, managerMara, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("10"),
	})
	s.NoError(err)

	_, err = s.f.drawers.CloseDrawer(s.f.ctx, managerMara, drawer.DrawerID)
	s.NoError(err)
}

func (s *DrawerServiceTestSuite) TestCrossTenant_ReadsAsNotFound() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	_, err := s.f.drawers.GetDrawer(s.f.ctx, outsiderEve, drawer.DrawerID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.f.drawers.CloseDrawer(s.f.ctx, outsiderEve, drawer.DrawerID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Suspend / Reinstate ---

func (s *DrawerServiceTestSuite) TestSuspendDrawer_ElevatedOnly() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")

	_, err := s.f.drawers.SuspendDrawer(s.f.ctx, cashierAlice, drawer.DrawerID)
	s.ErrorIs(err, apperrors.ErrForbidden, "even the owner may not suspend")

	suspended, err := s.f.drawers.SuspendDrawer(s.f.ctx, managerMara, drawer.DrawerID)
	s.Require().NoError(err)
	s.Equal(domain.DrawerSuspended, suspended.Status)
}

func (s *DrawerServiceTestSuite) TestSuspendedDrawer_BlocksMutation() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")
	_, err := s.f.drawers.SuspendDrawer(s.f.ctx, managerMara, drawer.DrawerID)
	s.Require().NoError(err)

	_, err = s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("10"),
	})
	s.ErrorIs(err, apperrors.ErrInvalidState)

	_, err = s.f.drawers.CloseDrawer(s.f.ctx, cashierAlice, drawer.DrawerID)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *DrawerServiceTestSuite) TestReinstateDrawer_RestoresOpen() {
	drawer := s.f.mustOpenDrawer(s.T(), cashierAlice, "Register", "100")
	_, err := s.f.drawers.SuspendDrawer(s.f.ctx, managerMara, drawer.DrawerID)
	s.Require().NoError(err)

	reinstated, err := s.f.drawers.ReinstateDrawer(s.f.ctx, managerMara, drawer.DrawerID)
	s.Require().NoError(err)
	s.Equal(domain.DrawerOpen, reinstated.Status)
	s.True(dec("100").Equal(reinstated.CurrentBalance), "suspension must not touch the balance")

	_, err = s.f.drawers.RecordEntry(s.f.ctx, cashierAlice, drawer.DrawerID, dto.RecordEntryRequest{
		Kind:   domain.EntrySalePayment,
		Amount: dec("10"),
	})
	s.NoError(err)
}

func (s *DrawerServiceTestSuite) TestSuspendDrawer_ClosedDrawerRejected() {
	created, err := s.f.drawers.CreateDrawer(s.f.ctx, cashierAlice, dto.CreateDrawerRequest{Name: "Register"})
	s.Require().NoError(err)

	_, err = s.f.drawers.SuspendDrawer(s.f.ctx, managerMara, created.DrawerID)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- Listing ---

func (s *DrawerServiceTestSuite) TestListDrawers_TenantScopedAndOrdered() {
	s.f.mustOpenDrawer(s.T(), cashierBob, "Back office", "10")
	s.f.mustOpenDrawer(s.T(), cashierAlice, "Front register", "20")

	otherTenantDrawer, err := s.f.drawers.CreateDrawer(s.f.ctx, outsiderEve, dto.CreateDrawerRequest{Name: "Elsewhere"})
	s.Require().NoError(err)

	drawers, err := s.f.drawers.ListDrawers(s.f.ctx, managerMara)
	s.Require().NoError(err)
	s.Require().Len(drawers, 2)
	s.Equal("Back office", drawers[0].Name)
	s.Equal("Front register", drawers[1].Name)
	for _, d := range drawers {
		s.NotEqual(otherTenantDrawer.DrawerID, d.DrawerID)
	}
}

func TestDrawerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DrawerServiceTestSuite))
}
