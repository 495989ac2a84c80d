package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kirana/internal/metrics"
	"kirana/internal/models"
	"kirana/internal/repositories"
	"kirana/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultOrderDateLayout formats the display date stored on each order.
const DefaultOrderDateLayout = "02/01/2006, 15:04:05"

// SettlementService turns a customer's cart into an order.
type SettlementService struct {
	store      *store.RecordStore
	publisher  EventPublisher // optional
	log        zerolog.Logger
	dateLayout string
	now        func() time.Time
}

// NewSettlementService creates a SettlementService. publisher may be nil.
func NewSettlementService(st *store.RecordStore, publisher EventPublisher, log zerolog.Logger, dateLayout string) *SettlementService {
	if dateLayout == "" {
		dateLayout = DefaultOrderDateLayout
	}
	return &SettlementService{
		store:      st,
		publisher:  publisher,
		log:        log,
		dateLayout: dateLayout,
		now:        time.Now,
	}
}

// WithClock replaces the clock used to stamp orders.
func (s *SettlementService) WithClock(now func() time.Time) *SettlementService {
	s.now = now
	return s
}

// SettleInput is the checkout request.
type SettleInput struct {
	Type          models.SettlementType `json:"type" validate:"required,oneof=prepaid khata"`
	UseRewards    bool                  `json:"use_rewards"`
	PaymentMethod string                `json:"payment_method"`
}

// SettlementResult is a settled order together with the committed customer record.
type SettlementResult struct {
	Order          models.Order `json:"order"`
	User           models.User  `json:"user"`
	PointsEarned   int64        `json:"points_earned"`
	PointsRedeemed int64        `json:"points_redeemed"`
	Message        string       `json:"message"`
}

// Settle places an order for the acting customer's cart.
//
// A prepaid order may redeem reward points against the subtotal, then increments the
// prepaid count, earns points on the amount paid and may unlock khata. A khata order never
// takes a reward discount and charges the full subtotal to the khata balance; it is
// rejected with ErrIneligible below the prepaid threshold. An empty cart is rejected with
// ErrEmptyCart. The customer, the new order and the cleared cart commit together, or
// nothing is written.
func (s *SettlementService) Settle(ctx context.Context, sess models.Session, in SettleInput) (*SettlementResult, error) {
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if err := s.validate(in); err != nil {
		s.reject(sess, in, err)
		return nil, err
	}

	var result *SettlementResult
	err := s.store.Update(ctx, func(tx store.Accessor) error {
		users := repositories.NewUserRepository(tx)
		carts := repositories.NewCartRepository(tx)

		user, err := sessionUser(ctx, users, sess)
		if err != nil {
			return err
		}
		acct, err := user.AsCustomer()
		if err != nil {
			return err
		}

		cart, err := carts.Get(ctx, user.ID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return models.ErrEmptyCart
		}

		subtotal := cart.Subtotal()
		discount := decimal.Zero
		var redeemed, earned int64
		if in.Type == models.SettlementPrepaid && in.UseRewards {
			discount = RedeemableDiscount(subtotal, acct.RewardPoints)
			redeemed = PointsForDiscount(discount)
			acct.RewardPoints -= redeemed
		}
		toPay := subtotal.Sub(discount)

		switch in.Type {
		case models.SettlementKhata:
			if !KhataEligible(acct) {
				return fmt.Errorf("%d of %d prepaid orders placed: %w", acct.PrepaidCount, KhataThreshold, models.ErrIneligible)
			}
			ApplyKhataCharge(acct, subtotal)
		case models.SettlementPrepaid:
			acct.PrepaidCount++
			earned = PointsEarned(toPay)
			acct.RewardPoints += earned
			OnThresholdCrossed(acct)
		}

		committed, err := users.Update(ctx, *user)
		if err != nil {
			return err
		}

		now := s.now()
		order := models.Order{
			UserID:        user.ID,
			Items:         cart.Snapshot(),
			Subtotal:      subtotal,
			Discount:      discount,
			ToPay:         toPay,
			Type:          in.Type,
			PaymentMethod: paymentMethodFor(in),
			Date:          now.Format(s.dateLayout),
			CreatedAt:     now.UTC(),
		}
		if err := repositories.NewOrderRepository(tx).Create(ctx, &order); err != nil {
			return err
		}
		if err := carts.Clear(ctx, user.ID); err != nil {
			return err
		}

		result = &SettlementResult{
			Order:          order,
			User:           *committed,
			PointsEarned:   earned,
			PointsRedeemed: redeemed,
			Message:        confirmation(order),
		}
		return nil
	})
	if err != nil {
		s.reject(sess, in, err)
		return nil, err
	}

	s.record(result)
	s.publish(result)
	return result, nil
}

func (s *SettlementService) validate(in SettleInput) error {
	if err := validateInput(in, "Choose prepaid or khata."); err != nil {
		return err
	}
	if in.Type == models.SettlementPrepaid && in.PaymentMethod == "" {
		return &models.ValidationError{
			Message: "Choose a payment method.",
			Fields:  map[string]string{"PaymentMethod": "required for prepaid orders"},
		}
	}
	return nil
}

func paymentMethodFor(in SettleInput) string {
	if in.Type == models.SettlementKhata {
		return models.KhataPaymentMethod
	}
	return in.PaymentMethod
}

func confirmation(o models.Order) string {
	msg := fmt.Sprintf("%s order placed! Amount to pay: ₹ %s", strings.ToUpper(string(o.Type)), o.ToPay.String())
	if o.Discount.IsPositive() {
		msg += fmt.Sprintf(" (₹%s from reward points)", o.Discount.String())
	}
	return msg
}

func (s *SettlementService) record(r *SettlementResult) {
	o := r.Order
	metrics.OrdersSettledTotal.WithLabelValues(string(o.Type)).Inc()
	if r.PointsEarned > 0 {
		metrics.RewardPointsTotal.WithLabelValues("earned").Add(float64(r.PointsEarned))
	}
	if r.PointsRedeemed > 0 {
		metrics.RewardPointsTotal.WithLabelValues("redeemed").Add(float64(r.PointsRedeemed))
	}
	if o.Type == models.SettlementKhata {
		metrics.KhataChargedTotal.Add(o.Subtotal.InexactFloat64())
	}

	s.log.Info().
		Str("order_id", o.ID).
		Str("user_id", o.UserID).
		Str("type", string(o.Type)).
		Str("subtotal", o.Subtotal.String()).
		Str("discount", o.Discount.String()).
		Str("to_pay", o.ToPay.String()).
		Int64("points_earned", r.PointsEarned).
		Msg("order settled")
}

func (s *SettlementService) reject(sess models.Session, in SettleInput, err error) {
	reason := rejectionReason(err)
	metrics.SettlementRejectionsTotal.WithLabelValues(reason).Inc()

	ev := s.log.Info()
	if reason == "error" {
		ev = s.log.Error().Err(err)
	}
	ev.Str("user_id", sess.UserID).
		Str("type", string(in.Type)).
		Str("reason", reason).
		Msg("settlement rejected")
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, models.ErrIneligible):
		return "ineligible"
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, models.ErrWrongRole), errors.Is(err, models.ErrAuthentication):
		return "wrong_role"
	}
	return "error"
}

// publish sends order.settled after commit. Failures are logged and never undo the order.
func (s *SettlementService) publish(r *SettlementResult) {
	if s.publisher == nil {
		return
	}
	o := r.Order
	productIDs := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		productIDs = append(productIDs, it.ProductID)
	}
	body, err := json.Marshal(OrderSettledEvent{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Type:           string(o.Type),
		Subtotal:       o.Subtotal,
		Discount:       o.Discount,
		ToPay:          o.ToPay,
		PointsEarned:   r.PointsEarned,
		PointsRedeemed: r.PointsRedeemed,
		ProductIDs:     productIDs,
		CreatedAt:      o.CreatedAt,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", o.ID).Msg("failed to marshal order event")
		return
	}
	if err := s.publisher.Publish(OrderExchange, OrderSettledRoutingKey, body); err != nil {
		s.log.Warn().Err(err).Str("order_id", o.ID).Msg("failed to publish order settled event")
	}
}
