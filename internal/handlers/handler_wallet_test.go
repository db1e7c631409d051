package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_ledger/internal/core/ports/services"
	"github.com/SscSPs/wallet_ledger/internal/dto"
	"github.com/SscSPs/wallet_ledger/internal/handlers"
	"github.com/SscSPs/wallet_ledger/internal/middleware"
	"github.com/SscSPs/wallet_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock WalletService ---
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) Identity() domain.Identity {
	return m.Called().Get(0).(domain.Identity)
}
func (m *MockWalletService) Rates() domain.RateTable {
	return m.Called().Get(0).(domain.RateTable)
}
func (m *MockWalletService) Accounts() []domain.Account {
	return m.Called().Get(0).([]domain.Account)
}
func (m *MockWalletService) AccountByType(accountType domain.AccountType) (domain.Account, bool) {
	args := m.Called(accountType)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(domain.Account), args.Bool(1)
}
func (m *MockWalletService) TotalBalanceInUSD() decimal.Decimal {
	return m.Called().Get(0).(decimal.Decimal)
}
func (m *MockWalletService) BalancesByAccountType() map[domain.AccountType]decimal.Decimal {
	return m.Called().Get(0).(map[domain.AccountType]decimal.Decimal)
}
func (m *MockWalletService) Snapshot() domain.WalletSnapshot {
	return m.Called().Get(0).(domain.WalletSnapshot)
}
func (m *MockWalletService) SetIdentity(email string, emailVerified, isAnonymous bool, uid string) {
	m.Called(email, emailVerified, isAnonymous, uid)
}
func (m *MockWalletService) SetIdentityEmail(email string) {
	m.Called(email)
}
func (m *MockWalletService) ResetIdentity() {
	m.Called()
}
func (m *MockWalletService) SignIn(identity domain.Identity, saved *domain.WalletSnapshot) error {
	return m.Called(identity, saved).Error(0)
}
func (m *MockWalletService) RefreshAccountHistory(ctx context.Context, accountType domain.AccountType) {
	m.Called(ctx, accountType)
}
func (m *MockWalletService) RefreshBalance(ctx context.Context, accountType domain.AccountType) {
	m.Called(ctx, accountType)
}
func (m *MockWalletService) RefreshRates(ctx context.Context) {
	m.Called(ctx)
}
func (m *MockWalletService) RefreshAllBalances(ctx context.Context) {
	m.Called(ctx)
}
func (m *MockWalletService) RefreshAll(ctx context.Context) {
	m.Called(ctx)
}
func (m *MockWalletService) ResetAccount(accountType domain.AccountType) error {
	return m.Called(accountType).Error(0)
}
func (m *MockWalletService) Restore(snapshot domain.WalletSnapshot) error {
	return m.Called(snapshot).Error(0)
}
func (m *MockWalletService) Subscribe(fn func(domain.WalletSnapshot)) func() {
	return m.Called(fn).Get(0).(func())
}

// Ensure mock implements the interface
var _ portssvc.WalletSvcFacade = (*MockWalletService)(nil)

// --- Mock SnapshotService ---
type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) Run(ctx context.Context) {
	m.Called(ctx)
}
func (m *MockSnapshotService) SignIn(ctx context.Context, identity domain.Identity) error {
	return m.Called(ctx, identity).Error(0)
}

var _ portssvc.SnapshotSvc = (*MockSnapshotService)(nil)

// --- Test Suite ---
type WalletHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockWalletService   *MockWalletService
	mockSnapshotService *MockSnapshotService
	jwtSecret           string
	userID              string
}

const testIssuer = "wallet-ledger-test"

func (suite *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockWalletService = new(MockWalletService)
	suite.mockSnapshotService = new(MockSnapshotService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, testIssuer))
	handlers.RegisterWalletRoutes(v1, suite.mockWalletService)
	handlers.RegisterIdentityRoutes(v1, suite.mockWalletService, suite.mockSnapshotService)
}

// ownedBy makes the store report uid as its signed-in user for the ownership check.
func (suite *WalletHandlerTestSuite) ownedBy(uid string) {
	suite.mockWalletService.On("Identity").Return(domain.Identity{Email: "a@b.c", UID: uid}).Once()
}

func (suite *WalletHandlerTestSuite) request(method, url, body string) *httptest.ResponseRecorder {
	return suite.requestAs(suite.userID, method, url, body)
}

func (suite *WalletHandlerTestSuite) requestAs(subject, method, url, body string) *httptest.ResponseRecorder {
	token, err := utils.GenerateJWT(subject, suite.jwtSecret, time.Hour, testIssuer)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *WalletHandlerTestSuite) sampleSnapshot() domain.WalletSnapshot {
	return domain.WalletSnapshot{
		Identity: domain.Identity{Email: "a@b.c", UID: suite.userID},
		Accounts: []domain.AccountSnapshot{
			{Type: domain.Checking, Currency: domain.USD, Balance: decimal.RequireFromString("100.5"), Transactions: []domain.Transaction{
				{Name: "Coffee", Icon: "cup", Amount: decimal.RequireFromString("-3.25"), Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			}},
			{Type: domain.Bitcoin, Currency: domain.BTC, Balance: decimal.RequireFromString("0.5"), Transactions: []domain.Transaction{}},
		},
		Rates:   domain.RateTable{BTC: decimal.NewFromInt(60000)},
		TakenAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
}

// --- Test Cases ---

func (suite *WalletHandlerTestSuite) TestGetWallet_Success() {
	suite.ownedBy(suite.userID)
	suite.mockWalletService.On("Snapshot").Return(suite.sampleSnapshot()).Once()

	w := suite.request(http.MethodGet, "/api/v1/wallet", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.WalletResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(suite.userID, resp.Identity.UID)
	suite.Require().Len(resp.Accounts, 2)
	suite.Equal(domain.Checking, resp.Accounts[0].Type)
	suite.Equal("100.50", resp.Accounts[0].BalanceDisplay)
	suite.Require().Len(resp.Accounts[0].Transactions, 1)
	suite.Equal(domain.Bitcoin, resp.Accounts[1].Type)
	suite.Equal("0.50000000", resp.Accounts[1].BalanceDisplay)
	suite.Equal("30000.00", resp.Accounts[1].USDDisplay)
	suite.True(resp.Rates.USD.Equal(decimal.NewFromInt(1)))
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestGetTotals() {
	suite.ownedBy(suite.userID)
	suite.mockWalletService.On("TotalBalanceInUSD").Return(decimal.RequireFromString("30100.5")).Once()
	suite.mockWalletService.On("BalancesByAccountType").Return(map[domain.AccountType]decimal.Decimal{
		domain.Checking: decimal.RequireFromString("100.5"),
		domain.Bitcoin:  decimal.NewFromInt(30000),
	}).Once()

	w := suite.request(http.MethodGet, "/api/v1/wallet/totals", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TotalsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("30100.50", resp.TotalDisplay)
	suite.True(resp.BalancesByAccountType[domain.Bitcoin].Equal(decimal.NewFromInt(30000)))
}

func (suite *WalletHandlerTestSuite) TestGetAccount() {
	suite.ownedBy(suite.userID)
	fiat := domain.NewFiatAccount()
	fiat.Balance = decimal.NewFromInt(42)
	suite.mockWalletService.On("AccountByType", domain.Checking).Return(fiat, true).Once()
	suite.mockWalletService.On("Rates").Return(domain.DefaultRateTable()).Once()

	w := suite.request(http.MethodGet, "/api/v1/wallet/accounts/checking", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.USD, resp.Currency)
	suite.Equal("42.00", resp.USDDisplay)
}

func (suite *WalletHandlerTestSuite) TestGetAccount_UnknownType() {
	suite.ownedBy(suite.userID)
	w := suite.request(http.MethodGet, "/api/v1/wallet/accounts/savings", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "AccountByType", mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestRefreshAll_Accepted() {
	suite.ownedBy(suite.userID)
	suite.mockWalletService.On("RefreshAll", mock.Anything).Return().Once()
	suite.mockWalletService.On("Snapshot").Return(suite.sampleSnapshot()).Once()

	w := suite.request(http.MethodPost, "/api/v1/wallet/refresh", "")

	suite.Equal(http.StatusAccepted, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestRefreshRates_Accepted() {
	suite.ownedBy(suite.userID)
	suite.mockWalletService.On("RefreshRates", mock.Anything).Return().Once()
	suite.mockWalletService.On("Snapshot").Return(suite.sampleSnapshot()).Once()

	w := suite.request(http.MethodPost, "/api/v1/wallet/rates/refresh", "")

	suite.Equal(http.StatusAccepted, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestRefreshAccount_RefreshesBalanceAndHistory() {
	suite.ownedBy(suite.userID)
	suite.mockWalletService.On("RefreshBalance", mock.Anything, domain.Bitcoin).Return().Once()
	suite.mockWalletService.On("RefreshAccountHistory", mock.Anything, domain.Bitcoin).Return().Once()
	suite.mockWalletService.On("Snapshot").Return(suite.sampleSnapshot()).Once()

	w := suite.request(http.MethodPost, "/api/v1/wallet/accounts/Bitcoin/refresh", "")

	suite.Equal(http.StatusAccepted, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestResetAccount() {
	tests := []struct {
		name        string
		path        string
		accountType domain.AccountType
		err         error
		wantStatus  int
	}{
		{name: "checking", path: "Checking", accountType: domain.Checking, wantStatus: http.StatusOK},
		{name: "bitcoin not supported", path: "bitcoin", accountType: domain.Bitcoin, err: fmt.Errorf("%w: no", apperrors.ErrNotSupported), wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.ownedBy(suite.userID)
			suite.mockWalletService.On("ResetAccount", tt.accountType).Return(tt.err).Once()
			if tt.err == nil {
				suite.mockWalletService.On("Snapshot").Return(suite.sampleSnapshot()).Once()
			}

			w := suite.request(http.MethodPost, "/api/v1/wallet/accounts/"+tt.path+"/reset", "")

			suite.Equal(tt.wantStatus, w.Code)
			suite.mockWalletService.AssertExpectations(suite.T())
		})
	}
}

func (suite *WalletHandlerTestSuite) TestSetIdentity_SignsInWithSavedWallet() {
	body := fmt.Sprintf(`{"email":"a@b.c","emailVerified":true,"isAnonymous":false,"uid":"%s"}`, suite.userID)
	identity := domain.Identity{Email: "a@b.c", EmailVerified: true, UID: suite.userID}
	suite.mockSnapshotService.On("SignIn", mock.Anything, identity).Return(nil).Once()
	suite.mockWalletService.On("Identity").Return(identity).Once()

	w := suite.request(http.MethodPut, "/api/v1/identity", body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.IdentityResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(suite.userID, resp.UID)
	suite.mockWalletService.AssertExpectations(suite.T())
	suite.mockSnapshotService.AssertExpectations(suite.T())
	suite.mockWalletService.AssertNotCalled(suite.T(), "SetIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestSetIdentity_SavedWalletUnavailable() {
	body := fmt.Sprintf(`{"uid":"%s"}`, suite.userID)
	suite.mockSnapshotService.On("SignIn", mock.Anything, domain.Identity{UID: suite.userID}).
		Return(errors.New("connection refused")).Once()

	w := suite.request(http.MethodPut, "/api/v1/identity", body)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "Identity")
}

func (suite *WalletHandlerTestSuite) TestSetIdentity_WithoutPersistence() {
	router := gin.New()
	v1 := router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, testIssuer))
	handlers.RegisterIdentityRoutes(v1, suite.mockWalletService, nil)
	identity := domain.Identity{Email: "a@b.c", UID: suite.userID}
	suite.mockWalletService.On("SignIn", identity, (*domain.WalletSnapshot)(nil)).Return(nil).Once()
	suite.mockWalletService.On("Identity").Return(identity).Once()
	suite.router = router

	w := suite.request(http.MethodPut, "/api/v1/identity", fmt.Sprintf(`{"email":"a@b.c","uid":"%s"}`, suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestOwnedRoutes_RejectOtherUsers() {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		owner  string
	}{
		{name: "read wallet", method: http.MethodGet, path: "/api/v1/wallet", owner: "owner-uid"},
		{name: "read totals", method: http.MethodGet, path: "/api/v1/wallet/totals", owner: "owner-uid"},
		{name: "reset checking", method: http.MethodPost, path: "/api/v1/wallet/accounts/Checking/reset", owner: "owner-uid"},
		{name: "refresh wallet", method: http.MethodPost, path: "/api/v1/wallet/refresh", owner: "owner-uid"},
		{name: "read identity", method: http.MethodGet, path: "/api/v1/identity", owner: "owner-uid"},
		{name: "change email", method: http.MethodPatch, path: "/api/v1/identity/email", body: `{"email":"x@b.c"}`, owner: "owner-uid"},
		{name: "sign out", method: http.MethodDelete, path: "/api/v1/identity", owner: "owner-uid"},
		{name: "nobody signed in", method: http.MethodGet, path: "/api/v1/wallet", owner: ""},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.ownedBy(tt.owner)

			w := suite.request(tt.method, tt.path, tt.body)

			suite.Equal(http.StatusForbidden, w.Code)
			suite.mockWalletService.AssertNotCalled(suite.T(), "Snapshot")
			suite.mockWalletService.AssertNotCalled(suite.T(), "ResetAccount", mock.Anything)
			suite.mockWalletService.AssertNotCalled(suite.T(), "RefreshAll", mock.Anything)
			suite.mockWalletService.AssertNotCalled(suite.T(), "SetIdentityEmail", mock.Anything)
			suite.mockWalletService.AssertNotCalled(suite.T(), "ResetIdentity")
			suite.mockWalletService.AssertNotCalled(suite.T(), "TotalBalanceInUSD")
		})
	}
}

func (suite *WalletHandlerTestSuite) TestSetIdentity_OpenToAnySubject() {
	other := "next-user"
	suite.mockSnapshotService.On("SignIn", mock.Anything, domain.Identity{UID: other}).Return(nil).Once()
	suite.mockWalletService.On("Identity").Return(domain.Identity{UID: other}).Once()

	w := suite.requestAs(other, http.MethodPut, "/api/v1/identity", `{"uid":"next-user"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockSnapshotService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestSetIdentity_RejectsForeignUID() {
	w := suite.request(http.MethodPut, "/api/v1/identity", `{"uid":"someone-else"}`)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "SetIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestSetIdentity_InvalidBody() {
	w := suite.request(http.MethodPut, "/api/v1/identity", `{"email":"not-an-email"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *WalletHandlerTestSuite) TestSetIdentityEmail() {
	suite.ownedBy(suite.userID)
	suite.mockWalletService.On("SetIdentityEmail", "new@b.c").Return().Once()
	suite.mockWalletService.On("Identity").Return(domain.Identity{Email: "new@b.c", UID: suite.userID}).Once()

	w := suite.request(http.MethodPatch, "/api/v1/identity/email", `{"email":"new@b.c"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestResetIdentity() {
	suite.ownedBy(suite.userID)
	suite.mockWalletService.On("ResetIdentity").Return().Once()

	w := suite.request(http.MethodDelete, "/api/v1/identity", "")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/wallet", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Run Test Suite ---
func TestWalletHandler(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}
