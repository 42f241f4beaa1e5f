package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/core/services"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
)

type UserServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (s *UserServiceTestSuite) SetupTest() {
	s.f = newFixture()
}

func (s *UserServiceTestSuite) mustCreateUser(actor domain.Actor, name, username string, role domain.UserRole) *domain.User {
	s.T().Helper()
	user, err := s.f.users.CreateUser(s.f.ctx, actor, dto.CreateUserRequest{
		Name:     name,
		Username: username,
		Password: "correct horse battery",
		Role:     role,
	})
	s.Require().NoError(err)
	return user
}

// --- CreateUser ---

func (s *UserServiceTestSuite) TestCreateUser_Success() {
	user := s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)

	s.Equal("Carol", user.Name)
	s.Equal("carol", user.Username)
	s.Equal(domain.RoleCashier, user.Role)
	s.Equal(testTenant, user.TenantID)
	s.NotEmpty(user.UserID)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual("correct horse battery", user.PasswordHash)
	s.Equal(adminAda.ActorID, user.CreatedBy)
}

func (s *UserServiceTestSuite) TestCreateUser_CashierForbidden() {
	_, err := s.f.users.CreateUser(s.f.ctx, cashierAlice, dto.CreateUserRequest{
		Name:     "Carol",
		Username: "carol",
		Password: "correct horse battery",
		Role:     domain.RoleCashier,
	})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *UserServiceTestSuite) TestCreateUser_ManagerMayOnlyMintCashiers() {
	_, err := s.f.users.CreateUser(s.f.ctx, managerMara, dto.CreateUserRequest{
		Name:     "Second Admin",
		Username: "admin2",
		Password: "correct horse battery",
		Role:     domain.RoleAdmin,
	})
	s.ErrorIs(err, apperrors.ErrForbidden)

	user := s.mustCreateUser(managerMara, "Carol", "carol", domain.RoleCashier)
	s.Equal(domain.RoleCashier, user.Role)
}

func (s *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)

	_, err := s.f.users.CreateUser(s.f.ctx, adminAda, dto.CreateUserRequest{
		Name:     "Other Carol",
		Username: "carol",
		Password: "correct horse battery",
		Role:     domain.RoleCashier,
	})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- VerifyCredentials ---

func (s *UserServiceTestSuite) TestVerifyCredentials() {
	created := s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)

	user, err := s.f.users.VerifyCredentials(s.f.ctx, "carol", "correct horse battery")
	s.Require().NoError(err)
	s.Equal(created.UserID, user.UserID)

	_, err = s.f.users.VerifyCredentials(s.f.ctx, "carol", "wrong password")
	s.ErrorIs(err, services.ErrInvalidCredentials)

	// Unknown usernames fail identically to wrong passwords.
	_, err = s.f.users.VerifyCredentials(s.f.ctx, "nobody", "correct horse battery")
	s.ErrorIs(err, services.ErrInvalidCredentials)
}

// --- GetUserByID / ListUsers ---

func (s *UserServiceTestSuite) TestGetUserByID_TenantScoped() {
	created := s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)

	found, err := s.f.users.GetUserByID(s.f.ctx, managerMara, created.UserID)
	s.Require().NoError(err)
	s.Equal(created.UserID, found.UserID)

	_, err = s.f.users.GetUserByID(s.f.ctx, outsiderEve, created.UserID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *UserServiceTestSuite) TestListUsers_TenantScoped() {
	s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)
	s.mustCreateUser(adminAda, "Dave", "dave", domain.RoleCashier)
	s.mustCreateUser(outsiderEve, "Frank", "frank", domain.RoleCashier)

	users, err := s.f.users.ListUsers(s.f.ctx, managerMara, dto.ListUsersParams{Limit: 10})
	s.Require().NoError(err)
	s.Len(users, 2)
	for _, u := range users {
		s.Equal(testTenant, u.TenantID)
	}
}

// --- UpdateUser ---

func (s *UserServiceTestSuite) TestUpdateUser_SelfRenameAllowed() {
	created := s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)
	self := domain.Actor{ActorID: created.UserID, TenantID: testTenant, Role: domain.RoleCashier}

	newName := "Caroline"
	updated, err := s.f.users.UpdateUser(s.f.ctx, self, created.UserID, dto.UpdateUserRequest{Name: &newName})
	s.Require().NoError(err)
	s.Equal("Caroline", updated.Name)
}

func (s *UserServiceTestSuite) TestUpdateUser_RoleChangeNeedsElevatedActor() {
	created := s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)
	self := domain.Actor{ActorID: created.UserID, TenantID: testTenant, Role: domain.RoleCashier}

	manager := domain.RoleManager
	_, err := s.f.users.UpdateUser(s.f.ctx, self, created.UserID, dto.UpdateUserRequest{Role: &manager})
	s.ErrorIs(err, apperrors.ErrForbidden, "operators cannot promote themselves")

	updated, err := s.f.users.UpdateUser(s.f.ctx, adminAda, created.UserID, dto.UpdateUserRequest{Role: &manager})
	s.Require().NoError(err)
	s.Equal(domain.RoleManager, updated.Role)
}

func (s *UserServiceTestSuite) TestUpdateUser_CashierCannotTouchOthers() {
	created := s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)

	newName := "Hijacked"
	_, err := s.f.users.UpdateUser(s.f.ctx, cashierAlice, created.UserID, dto.UpdateUserRequest{Name: &newName})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

// --- DeleteUser ---

func (s *UserServiceTestSuite) TestDeleteUser_SoftDeleteBlocksLoginAndLookup() {
	created := s.mustCreateUser(adminAda, "Carol", "carol", domain.RoleCashier)

	err := s.f.users.DeleteUser(s.f.ctx, cashierAlice, created.UserID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	err = s.f.users.DeleteUser(s.f.ctx, adminAda, created.UserID)
	s.Require().NoError(err)

	_, err = s.f.users.GetUserByID(s.f.ctx, adminAda, created.UserID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.f.users.VerifyCredentials(s.f.ctx, "carol", "correct horse battery")
	s.ErrorIs(err, services.ErrInvalidCredentials)

	// The freed username may be reused.
	s.mustCreateUser(adminAda, "New Carol", "carol", domain.RoleCashier)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
