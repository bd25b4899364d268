package purchase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/irsalhamdi/course-market/core/cart"
	"github.com/irsalhamdi/course-market/core/course"
	"github.com/irsalhamdi/course-market/core/entitlement"
	"github.com/irsalhamdi/course-market/core/payment"
	"github.com/irsalhamdi/course-market/core/pending"
	"github.com/irsalhamdi/course-market/core/user"
	"github.com/irsalhamdi/course-market/database"
	"github.com/irsalhamdi/course-market/gateway"
	"github.com/irsalhamdi/course-market/validate"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultGatewayTimeout = 15 * time.Second
	cleanupTimeout        = 30 * time.Second
	settleTimeout         = 30 * time.Second
)

// Service orchestrates purchases. The unique (user, course) constraint on
// entitlements is what keeps concurrent captures and charges from granting a
// course twice; the losing writer is reported as AlreadyOwned or
// ErrAlreadyPurchased.
type Service struct {
	db    *sqlx.DB
	gw    Gateway
	cards CardProcessor
	bg    Runner
	log   logrus.FieldLogger
	cfg   Config
	now   func() time.Time
}

func NewService(db *sqlx.DB, gw Gateway, cards CardProcessor, bg Runner, log logrus.FieldLogger, cfg Config) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = pending.DefaultTTL
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	return &Service{
		db:    db,
		gw:    gw,
		cards: cards,
		bg:    bg,
		log:   log,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the clock used for expiry and timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateOrder opens a PayPal order for the course and records it as pending
// so the capture can be matched to the caller after the approval redirect.
func (s *Service) CreateOrder(ctx context.Context, userID, courseID, baseURL string) (CreatedOrder, error) {
	c, err := s.checkPurchasable(ctx, userID, courseID)
	if err != nil {
		return CreatedOrder{}, err
	}

	amount, err := course.ParsePrice(c.Price)
	if err != nil {
		return CreatedOrder{}, fmt.Errorf("pricing course[%s]: %w", c.ID, err)
	}
	if amount.IsZero() {
		return CreatedOrder{}, fmt.Errorf("course[%s] is free: %w", c.ID, course.ErrInvalidPrice)
	}

	returnURL, cancelURL := s.redirectURLs(baseURL, c.ID)

	gctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	orderID, err := s.gw.CreateOrder(gctx, gateway.OrderRequest{
		CourseID:  c.ID,
		Title:     c.Title,
		Amount:    amount,
		Currency:  s.cfg.Currency,
		ReturnURL: returnURL,
		CancelURL: cancelURL,
	})
	if err != nil {
		return CreatedOrder{}, fmt.Errorf("creating provider order: %w", err)
	}

	approval, err := s.gw.ApprovalURL(gctx, orderID)
	if err != nil {
		return CreatedOrder{}, fmt.Errorf("fetching approval url: %w", err)
	}

	now := s.now()
	po := pending.New(userID, c.ID, orderID, amount, now, s.cfg.PendingTTL)
	if err := pending.Create(ctx, s.db, po); err != nil {
		return CreatedOrder{}, fmt.Errorf("storing pending order: %w", err)
	}

	s.bg.Go(func() { s.removeExpired(now) })

	s.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"course_id": c.ID,
		"order_id":  orderID,
		"amount":    amount.StringFixed(2),
	}).Info("order created")

	return CreatedOrder{
		OrderID:     orderID,
		ApprovalURL: approval,
		CourseID:    c.ID,
	}, nil
}

// CaptureOrder settles an approved PayPal order of the caller. Calling it
// again for an order that was already settled returns AlreadyOwned.
func (s *Service) CaptureOrder(ctx context.Context, userID, providerOrderID string) (Result, error) {
	log := s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"order_id": providerOrderID,
	})

	po, err := pending.FetchByProviderID(ctx, s.db, userID, providerOrderID)
	if err != nil {
		if !errors.Is(err, database.ErrDBNotFound) {
			return Result{}, err
		}

		p, perr := payment.FetchByProviderOrder(ctx, s.db, userID, providerOrderID)
		switch {
		case perr == nil:
			log.Info("already owned")
			return Result{Outcome: AlreadyOwned, TransactionID: p.TransactionID, PaymentID: p.ID}, nil
		case errors.Is(perr, database.ErrDBNotFound):
			return Result{}, ErrPendingOrderNotFound
		default:
			return Result{}, perr
		}
	}
	log = log.WithField("course_id", po.CourseID)

	if po.Expired(s.now()) {
		s.dropPending(ctx, po)
		log.Info("order expired")
		return Result{}, ErrOrderExpired
	}

	owned, err := entitlement.Exists(ctx, s.db, userID, po.CourseID)
	if err != nil {
		return Result{}, err
	}
	if owned {
		s.dropPending(ctx, po)
		log.Info("already owned")
		return s.alreadyOwned(ctx, userID, po.CourseID)
	}

	gctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	txID, err := s.gw.CaptureOrder(gctx, providerOrderID)
	if err != nil {
		// A concurrent capture of the same order may have won the race.
		if owned, oerr := entitlement.Exists(ctx, s.db, userID, po.CourseID); oerr == nil && owned {
			s.dropPending(ctx, po)
			log.Info("already owned")
			return s.alreadyOwned(ctx, userID, po.CourseID)
		}

		if errors.Is(err, gateway.ErrDeclined) {
			log.WithError(err).Warn("capture declined")
			return Result{}, fmt.Errorf("%w: %v", ErrProviderDeclined, err)
		}
		return Result{}, fmt.Errorf("capturing order[%s]: %w", providerOrderID, err)
	}

	if txID == "" {
		log.Warn("capture declined")
		return Result{}, ErrProviderDeclined
	}

	// PayPal holds the money from here on, so the ledger write must not be
	// abandoned with the request.
	sctx, scancel := context.WithTimeout(context.Background(), settleTimeout)
	defer scancel()

	orderID := providerOrderID
	res, err := s.grant(sctx, settlement{
		userID:          userID,
		courseID:        po.CourseID,
		amount:          po.Amount,
		method:          payment.MethodPaypal,
		transactionID:   txID,
		providerOrderID: &orderID,
		pendingID:       po.ID,
	})
	if err != nil {
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			s.dropPending(sctx, po)
			log.Info("already owned")
			return s.alreadyOwned(sctx, userID, po.CourseID)
		}
		return Result{}, fmt.Errorf("recording captured order[%s]: %w", providerOrderID, err)
	}

	log.WithField("transaction_id", txID).Info("order captured")
	return res, nil
}

// Checkout dispatches a checkout request on its payment method.
func (s *Service) Checkout(ctx context.Context, userID, courseID string, method payment.Method, card *Card) (Result, error) {
	switch method {
	case payment.MethodCreditCard:
		if card == nil {
			return Result{}, &InstrumentError{Field: "cardDetails", Reason: "is required"}
		}
		return s.ProcessDirectPayment(ctx, userID, courseID, *card)
	case payment.MethodPaypal:
		return Result{}, ErrUseRedirectFlow
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// ProcessDirectPayment charges the simulated card processor and grants the
// course. Unlike capture, buying an owned course is an error here.
func (s *Service) ProcessDirectPayment(ctx context.Context, userID, courseID string, card Card) (Result, error) {
	c, err := s.checkPurchasable(ctx, userID, courseID)
	if err != nil {
		return Result{}, err
	}

	if err := card.Validate(s.now()); err != nil {
		return Result{}, err
	}

	amount, err := course.ParsePrice(c.Price)
	if err != nil {
		return Result{}, fmt.Errorf("pricing course[%s]: %w", c.ID, err)
	}

	gctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	txID, err := s.cards.Charge(gctx, amount, s.cfg.Currency)
	if err != nil {
		return Result{}, fmt.Errorf("charging card: %w", err)
	}

	sctx, scancel := context.WithTimeout(context.Background(), settleTimeout)
	defer scancel()

	res, err := s.grant(sctx, settlement{
		userID:        userID,
		courseID:      c.ID,
		amount:        amount,
		method:        payment.MethodCreditCard,
		transactionID: txID,
	})
	if err != nil {
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			return Result{}, ErrAlreadyPurchased
		}
		return Result{}, fmt.Errorf("recording card payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"course_id":      c.ID,
		"transaction_id": txID,
	}).Info("card payment completed")

	return res, nil
}

// PendingOrder returns the live pending order of the caller.
func (s *Service) PendingOrder(ctx context.Context, userID, providerOrderID string) (pending.Order, error) {
	po, err := pending.FetchByProviderID(ctx, s.db, userID, providerOrderID)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return pending.Order{}, ErrPendingOrderNotFound
		}
		return pending.Order{}, err
	}

	if po.Expired(s.now()) {
		return pending.Order{}, ErrPendingOrderNotFound
	}

	return po, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]payment.Record, error) {
	return payment.ListByUser(ctx, s.db, userID)
}

type settlement struct {
	userID          string
	courseID        string
	amount          decimal.Decimal
	method          payment.Method
	transactionID   string
	providerOrderID *string
	pendingID       string
}

// grant writes the payment and its entitlement in one transaction. Either
// both rows exist afterwards or neither does.
func (s *Service) grant(ctx context.Context, g settlement) (Result, error) {
	now := s.now()

	p := payment.Payment{
		ID:              validate.GenerateID(),
		UserID:          g.userID,
		CourseID:        g.courseID,
		Amount:          g.amount,
		Currency:        s.cfg.Currency,
		Method:          g.method,
		Status:          payment.StatusCompleted,
		TransactionID:   g.transactionID,
		ProviderOrderID: g.providerOrderID,
		CreatedAt:       now,
	}

	e := entitlement.Entitlement{
		ID:          validate.GenerateID(),
		UserID:      g.userID,
		CourseID:    g.courseID,
		PaymentID:   p.ID,
		PurchasedAt: now,
		UpdatedAt:   now,
	}

	err := database.Transaction(ctx, s.db, func(tx sqlx.ExtContext) error {
		if err := payment.Create(ctx, tx, p); err != nil {
			return err
		}

		if err := entitlement.Create(ctx, tx, e); err != nil {
			return err
		}

		if err := course.IncrementStudents(ctx, tx, g.courseID, now); err != nil {
			return err
		}

		if err := cart.DeleteItem(ctx, tx, g.userID, g.courseID); err != nil {
			return err
		}

		if g.pendingID != "" {
			if err := pending.Delete(ctx, tx, g.pendingID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Outcome: Completed, TransactionID: p.TransactionID, PaymentID: p.ID}, nil
}

func (s *Service) checkPurchasable(ctx context.Context, userID, courseID string) (course.Course, error) {
	if _, err := user.Fetch(ctx, s.db, userID); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return course.Course{}, ErrUserNotFound
		}
		return course.Course{}, err
	}

	c, err := course.Fetch(ctx, s.db, courseID)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return course.Course{}, ErrCourseNotFound
		}
		return course.Course{}, err
	}

	owned, err := entitlement.Exists(ctx, s.db, userID, courseID)
	if err != nil {
		return course.Course{}, err
	}
	if owned {
		return course.Course{}, ErrAlreadyPurchased
	}

	return c, nil
}

func (s *Service) alreadyOwned(ctx context.Context, userID, courseID string) (Result, error) {
	e, err := entitlement.Fetch(ctx, s.db, userID, courseID)
	if err != nil {
		return Result{}, fmt.Errorf("loading existing entitlement: %w", err)
	}

	p, err := payment.Fetch(ctx, s.db, e.PaymentID)
	if err != nil {
		return Result{}, fmt.Errorf("loading existing payment: %w", err)
	}

	return Result{Outcome: AlreadyOwned, TransactionID: p.TransactionID, PaymentID: p.ID}, nil
}

func (s *Service) redirectURLs(baseURL, courseID string) (string, string) {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.cfg.FrontendURL, "/")
	}

	q := url.Values{"courseId": {courseID}}.Encode()
	return base + "/payment/paypal/success?" + q, base + "/payment/paypal/cancel?" + q
}

// dropPending removes a pending order that can no longer be captured. Failing
// to do so only leaves work for the sweeper.
func (s *Service) dropPending(ctx context.Context, po pending.Order) {
	if err := pending.Delete(ctx, s.db, po.ID); err != nil {
		s.log.WithError(err).WithField("order_id", po.ProviderOrderID).Warn("removing pending order")
	}
}

func (s *Service) removeExpired(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	n, err := pending.DeleteExpired(ctx, s.db, now)
	if err != nil {
		s.log.WithError(err).Warn("removing expired pending orders")
		return
	}

	if n > 0 {
		s.log.WithField("deleted", n).Debug("expired pending orders removed")
	}
}
