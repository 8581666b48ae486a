package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newCheckoutUsecase(t *testing.T, backend *BackendMock, receipts *ReceiptRepoMock) (*usecase.CheckoutUsecase, *usecase.CartUsecase) {
	t.Helper()
	repo := newSessionRepo(t, "s1")
	cart := usecase.NewCartUsecase(repo, backend)
	uc := usecase.NewCheckoutUsecase(repo, backend, receipts, "30", "90",
		&fixedIDGen{id: "r-1"}, &fixedClock{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)})
	return uc, cart
}

func addTea(t *testing.T, cart *usecase.CartUsecase) {
	t.Helper()
	_, err := cart.LookupAndAdd(context.Background(), "s1", tea.Code)
	assert.NoError(t, err)
}

func TestCheckoutUsecase_EmptyCartNoNetworkCall(t *testing.T) {
	backend := new(BackendMock)
	uc, _ := newCheckoutUsecase(t, backend, new(ReceiptRepoMock))

	_, err := uc.Checkout(context.Background(), "s1", "9999999999")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	backend.AssertNotCalled(t, "Purchase")
}

func TestCheckoutUsecase_SuccessClearsCartAndJournals(t *testing.T) {
	backend := new(BackendMock)
	backend.On("SearchProduct", mock.Anything, tea.Code).Return(&tea, nil)
	backend.On("Purchase", mock.Anything, mock.MatchedBy(func(req model.PurchaseRequest) bool {
		return req.EmpCd == "1234" && req.StoreCd == "30" && req.PosNo == "90" && len(req.Items) == 1
	})).Return(model.PurchaseResult{Success: true, TotalAmount: 150, TotalAmountExTax: 136}, nil)

	receipts := new(ReceiptRepoMock)
	receipts.On("Create", mock.Anything, mock.MatchedBy(func(r model.Receipt) bool {
		return r.ID == "r-1" && r.SessionID == "s1" && r.TotalAmount == 150 && len(r.Lines) == 1
	})).Return(nil)

	uc, cart := newCheckoutUsecase(t, backend, receipts)
	addTea(t, cart)

	out, err := uc.Checkout(context.Background(), "s1", "1234")
	assert.NoError(t, err)
	assert.Equal(t, "r-1", out.ReceiptID)
	assert.Equal(t, int64(150), out.TotalAmount)
	assert.Equal(t, int64(136), out.TotalAmountExTax)

	// cart cleared only after confirmed success
	view, err := cart.Get(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Empty(t, view.Items)

	receipts.AssertExpectations(t)
}

func TestCheckoutUsecase_BackendSuccessFalseKeepsCart(t *testing.T) {
	backend := new(BackendMock)
	backend.On("SearchProduct", mock.Anything, tea.Code).Return(&tea, nil)
	backend.On("Purchase", mock.Anything, mock.Anything).Return(model.PurchaseResult{Success: false}, nil)

	receipts := new(ReceiptRepoMock)
	uc, cart := newCheckoutUsecase(t, backend, receipts)
	addTea(t, cart)

	_, err := uc.Checkout(context.Background(), "s1", "9999999999")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)

	view, _ := cart.Get(context.Background(), "s1")
	assert.Len(t, view.Items, 1)
	receipts.AssertNotCalled(t, "Create")
}

func TestCheckoutUsecase_TransportFailureKeepsCart(t *testing.T) {
	backend := new(BackendMock)
	backend.On("SearchProduct", mock.Anything, tea.Code).Return(&tea, nil)
	backend.On("Purchase", mock.Anything, mock.Anything).Return(model.PurchaseResult{}, errors.New("timeout"))

	uc, cart := newCheckoutUsecase(t, backend, new(ReceiptRepoMock))
	addTea(t, cart)

	_, err := uc.Checkout(context.Background(), "s1", "9999999999")
	assert.Error(t, err)

	view, _ := cart.Get(context.Background(), "s1")
	assert.Len(t, view.Items, 1)

	// Submitting was reset: a retry reaches the backend again
	_, err = uc.Checkout(context.Background(), "s1", "9999999999")
	assert.Error(t, err)
	backend.AssertNumberOfCalls(t, "Purchase", 2)
}

func TestCheckoutUsecase_SecondCheckoutWhileSubmittingRejected(t *testing.T) {
	backend := new(BackendMock)
	backend.On("SearchProduct", mock.Anything, tea.Code).Return(&tea, nil)

	inPurchase := make(chan struct{})
	release := make(chan struct{})
	backend.On("Purchase", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(inPurchase)
			<-release
		}).
		Return(model.PurchaseResult{Success: true, TotalAmount: 150, TotalAmountExTax: 136}, nil)

	receipts := new(ReceiptRepoMock)
	receipts.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc, cart := newCheckoutUsecase(t, backend, receipts)
	addTea(t, cart)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = uc.Checkout(context.Background(), "s1", "9999999999")
	}()

	<-inPurchase
	_, err := uc.Checkout(context.Background(), "s1", "9999999999")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)

	close(release)
	wg.Wait()
	assert.NoError(t, firstErr)

	backend.AssertNumberOfCalls(t, "Purchase", 1)
}

func TestCheckoutUsecase_JournalFailureDoesNotFailCheckout(t *testing.T) {
	backend := new(BackendMock)
	backend.On("SearchProduct", mock.Anything, tea.Code).Return(&tea, nil)
	backend.On("Purchase", mock.Anything, mock.Anything).Return(model.PurchaseResult{Success: true, TotalAmount: 150, TotalAmountExTax: 136}, nil)

	receipts := new(ReceiptRepoMock)
	receipts.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	uc, cart := newCheckoutUsecase(t, backend, receipts)
	addTea(t, cart)

	out, err := uc.Checkout(context.Background(), "s1", "9999999999")
	assert.NoError(t, err)
	assert.Equal(t, int64(150), out.TotalAmount)
}
