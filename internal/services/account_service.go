package services

import (
	"context"
	"errors"
	"fmt"

	"kirana/internal/models"
	"kirana/internal/repositories"
	"kirana/internal/store"

	"github.com/rs/zerolog"
)

// AccountService serves the acting user's own record.
type AccountService struct {
	store *store.RecordStore
	log   zerolog.Logger
}

func NewAccountService(st *store.RecordStore, log zerolog.Logger) *AccountService {
	return &AccountService{store: st, log: log}
}

// StoreStatusInput is the request body for changing a shopkeeper's store status.
type StoreStatusInput struct {
	Status models.StoreStatus `json:"status" validate:"required,oneof=open busy closed"`
}

// CurrentUser returns the session's user. For customers who reached the khata threshold
// without a display credit limit, the limit is assigned and persisted first.
func (s *AccountService) CurrentUser(ctx context.Context, sess models.Session) (*models.User, error) {
	var current *models.User
	err := s.store.Update(ctx, func(tx store.Accessor) error {
		users := repositories.NewUserRepository(tx)
		user, err := sessionUser(ctx, users, sess)
		if err != nil {
			return err
		}
		current = user
		acct, err := user.AsCustomer()
		if err != nil {
			return nil
		}
		if !OnThresholdCrossed(acct) {
			return nil
		}
		current, err = users.Update(ctx, *user)
		if err != nil {
			return err
		}
		s.log.Info().Str("user_id", user.ID).Msg("khata unlocked on reconcile")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// SetStoreStatus changes the acting shopkeeper's store status and returns the stored record.
func (s *AccountService) SetStoreStatus(ctx context.Context, sess models.Session, in StoreStatusInput) (*models.User, error) {
	if err := validateInput(in, "Choose open, busy, or closed."); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.store.Update(ctx, func(tx store.Accessor) error {
		users := repositories.NewUserRepository(tx)
		user, err := sessionUser(ctx, users, sess)
		if err != nil {
			return err
		}
		shop, err := user.AsShopkeeper()
		if err != nil {
			return err
		}
		shop.StoreStatus = in.Status
		updated, err = users.Update(ctx, *user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Str("store_status", string(in.Status)).Msg("store status changed")
	return updated, nil
}

// sessionUser loads the acting user and checks that the session role still matches.
func sessionUser(ctx context.Context, users *repositories.UserRepository, sess models.Session) (*models.User, error) {
	if sess.UserID == "" {
		return nil, models.ErrAuthentication
	}
	user, err := users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("session user %s: %w", sess.UserID, models.ErrAuthentication)
		}
		return nil, err
	}
	if user.Role != sess.Role {
		return nil, models.ErrWrongRole
	}
	return user, nil
}
