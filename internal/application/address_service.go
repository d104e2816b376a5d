package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	repo "github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
)

// AddressPageSize caps how many addresses a listing returns.
const AddressPageSize = 50

// AddressService manages a user's address book and keeps at most one
// address per user flagged as default.
type AddressService struct {
	Repo   repo.AddressRepository
	Logger *logrus.Logger

	locks *helpers.KeyedMutex
}

func NewAddressService(r repo.AddressRepository, logger *logrus.Logger) *AddressService {
	return &AddressService{Repo: r, Logger: logger, locks: helpers.NewKeyedMutex()}
}

type CreateAddressInput struct {
	Label      string
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Create stores a new address. The default flag is never written directly:
// the address is stored as non-default and then promoted.
func (s *AddressService) Create(ctx context.Context, userID string, in CreateAddressInput) (*entity.Address, error) {
	if err := requireFields(map[string]string{
		"label":     in.Label,
		"full_name": in.FullName,
		"phone":     in.Phone,
		"line1":     in.Line1,
		"city":      in.City,
	}); err != nil {
		return nil, err
	}
	a := &entity.Address{
		UserID:     userID,
		Label:      strings.TrimSpace(in.Label),
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      optional(in.Line2),
		City:       strings.TrimSpace(in.City),
		State:      optional(in.State),
		PostalCode: optional(in.PostalCode),
		Country:    optional(in.Country),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	if in.IsDefault {
		if err := s.PromoteToDefault(ctx, userID, a.ID); err != nil {
			return a, err
		}
		a.IsDefault = true
	}
	return a, nil
}

// ListOwnedByUser returns the user's addresses, newest first.
func (s *AddressService) ListOwnedByUser(ctx context.Context, userID string) ([]entity.Address, error) {
	return s.Repo.ListByUser(ctx, userID, AddressPageSize)
}

// Default returns the user's default address, or ErrAddressNotFound.
// If a failed promotion left two defaults, the newest one wins.
func (s *AddressService) Default(ctx context.Context, userID string) (*entity.Address, error) {
	defaults, err := s.Repo.ListDefaults(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(defaults) == 0 {
		return nil, ErrAddressNotFound
	}
	return &defaults[0], nil
}

// PromoteToDefault makes addressID the user's only default address.
//
// The store has no multi-record transaction, so this runs in two phases:
// the target is promoted first, then every other default is demoted. A
// failure in phase two leaves two defaults, never zero, and is reported as a
// *DefaultConsistencyError. Running the promotion again converges.
func (s *AddressService) PromoteToDefault(ctx context.Context, userID, addressID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	target, err := s.owned(ctx, userID, addressID)
	if err != nil {
		return err
	}

	if !target.IsDefault {
		if err := s.Repo.SetDefault(ctx, target.ID, true); err != nil {
			return err
		}
	}

	defaults, err := s.Repo.ListDefaults(ctx, userID)
	if err != nil {
		return s.inconsistent(userID, target.ID, nil, err)
	}
	var (
		pending  []string
		firstErr error
	)
	for _, d := range defaults {
		if d.ID == target.ID {
			continue
		}
		if err := s.Repo.SetDefault(ctx, d.ID, false); err != nil && !errors.Is(err, repo.ErrNotFound) {
			pending = append(pending, d.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return s.inconsistent(userID, target.ID, pending, firstErr)
	}
	return nil
}

func (s *AddressService) inconsistent(userID, addressID string, pending []string, err error) error {
	cerr := &DefaultConsistencyError{UserID: userID, AddressID: addressID, Pending: pending, Err: err}
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"address_id": addressID,
			"pending":    pending,
		}).Warn("default address promotion incomplete; user may have several defaults")
	}
	return cerr
}

// Delete removes an address. Deleting the default does not promote another one.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	if _, err := s.owned(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, addressID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAddressNotFound
		}
		return err
	}
	return nil
}

// owned loads an address and hides other users' addresses behind ErrAddressNotFound.
func (s *AddressService) owned(ctx context.Context, userID, addressID string) (*entity.Address, error) {
	a, err := s.Repo.GetByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return a, nil
}
