package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/core/services"
	"github.com/SscSPs/billing_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExpenseRepository
	service  portssvc.ExpenseSvcFacade
	ctx      context.Context
	userID   string
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExpenseRepository)
	suite.service = services.NewExpenseService(suite.mockRepo)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *ExpenseServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_Success() {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateExpenseRequest{
		Description: "Office rent",
		Amount:      decimal.RequireFromString("30.00"),
		Date:        &date,
	}
	suite.mockRepo.On("SaveExpense", suite.ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		return e.Description() == "Office rent" && e.UserID() == suite.userID && e.Date().Equal(date)
	})).Return(nil).Once()

	expense, err := suite.service.CreateExpense(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(expense.ExpenseID())
	suite.Equal(suite.userID, expense.CreatedBy)
	suite.True(req.Amount.Equal(expense.Amount()))
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_DefaultsDateToNow() {
	suite.mockRepo.On("SaveExpense", suite.ctx, mock.AnythingOfType("*domain.Expense")).Return(nil).Once()

	expense, err := suite.service.CreateExpense(suite.ctx, dto.CreateExpenseRequest{Description: "Coffee", Amount: decimal.NewFromInt(3)}, suite.userID)

	suite.Require().NoError(err)
	suite.WithinDuration(time.Now(), expense.Date(), time.Second)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_Validation() {
	expense, err := suite.service.CreateExpense(suite.ctx, dto.CreateExpenseRequest{Description: "  "}, suite.userID)

	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_SaveError() {
	suite.mockRepo.On("SaveExpense", suite.ctx, mock.AnythingOfType("*domain.Expense")).Return(assert.AnError).Once()

	_, err := suite.service.CreateExpense(suite.ctx, dto.CreateExpenseRequest{Description: "Coffee"}, suite.userID)

	suite.ErrorIs(err, assert.AnError)
}

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_Ownership() {
	mine := storedExpense(suite.T(), uuid.NewString(), suite.userID, "Mine", decimal.Zero)
	theirs := storedExpense(suite.T(), uuid.NewString(), uuid.NewString(), "Theirs", decimal.Zero)
	suite.mockRepo.On("FindExpenseByID", suite.ctx, mine.ExpenseID()).Return(mine, nil).Once()
	suite.mockRepo.On("FindExpenseByID", suite.ctx, theirs.ExpenseID()).Return(theirs, nil).Once()

	got, err := suite.service.GetExpenseByID(suite.ctx, mine.ExpenseID(), suite.userID)
	suite.Require().NoError(err)
	suite.Equal(mine, got)

	_, err = suite.service.GetExpenseByID(suite.ctx, theirs.ExpenseID(), suite.userID)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_DefaultLimit() {
	token := "next"
	expenses := []domain.Expense{*storedExpense(suite.T(), "e1", suite.userID, "a", decimal.NewFromInt(1))}
	suite.mockRepo.On("ListExpensesPage", suite.ctx, suite.userID, 20, (*string)(nil)).Return(expenses, &token, nil).Once()

	resp, err := suite.service.ListExpenses(suite.ctx, suite.userID, dto.ListExpensesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Expenses, 1)
	suite.Equal("e1", resp.Expenses[0].ExpenseID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_RepoError() {
	suite.mockRepo.On("ListExpensesPage", suite.ctx, suite.userID, 5, (*string)(nil)).Return(nil, nil, assert.AnError).Once()

	resp, err := suite.service.ListExpenses(suite.ctx, suite.userID, dto.ListExpensesParams{Limit: 5})

	suite.Nil(resp)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense() {
	mine := storedExpense(suite.T(), uuid.NewString(), suite.userID, "Mine", decimal.Zero)
	suite.mockRepo.On("FindExpenseByID", suite.ctx, mine.ExpenseID()).Return(mine, nil).Once()
	suite.mockRepo.On("DeleteExpense", suite.ctx, mine.ExpenseID()).Return(nil).Once()

	suite.NoError(suite.service.DeleteExpense(suite.ctx, mine.ExpenseID(), suite.userID))
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_NotFound() {
	suite.mockRepo.On("FindExpenseByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteExpense(suite.ctx, "missing", suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
