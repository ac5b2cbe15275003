// Package store is the gorm-backed persistence layer. Handlers depend on
// narrow interfaces satisfied by *Store so they can be tested with fakes.
package store

import (
	"context"
	"errors"

	"paperboy/internal/domain/billing"
	"paperboy/internal/domain/profiles"
	"paperboy/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func wrap(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

/* ---------------- users ---------------- */

func (s *Store) CreateUser(ctx context.Context, u *users.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var u users.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*users.User, error) {
	var u users.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (s *Store) UserByGoogleSub(ctx context.Context, sub string) (*users.User, error) {
	var u users.User
	if err := s.db.WithContext(ctx).Where("google_sub = ?", sub).First(&u).Error; err != nil {
		return nil, wrap(err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", id).Updates(fields).Error
}

/* ---------------- profiles ---------------- */

func (s *Store) CreateProfile(ctx context.Context, p *profiles.Profile) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) ProfileByUserID(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error) {
	var p profiles.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, wrap(err)
	}
	return &p, nil
}

func (s *Store) ProfileByStripeCustomerID(ctx context.Context, customerID string) (*profiles.Profile, error) {
	var p profiles.Profile
	if err := s.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&p).Error; err != nil {
		return nil, wrap(err)
	}
	return &p, nil
}

// UpdateProfile applies keyed field writes to the profile of the given user.
// Returns ErrNotFound when no profile row matches.
func (s *Store) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&profiles.Profile{}).Where("user_id = ?", userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&profiles.Profile{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]profiles.Profile, error) {
	var out []profiles.Profile
	if err := s.db.WithContext(ctx).Order("created_at").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

/* ---------------- subscriptions ---------------- */

// UpsertSubscription inserts or updates the history row keyed on
// stripe_subscription_id. Re-applying the same event yields the same row.
func (s *Store) UpsertSubscription(ctx context.Context, sub *billing.Subscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"stripe_customer_id",
			"status",
			"current_period_start",
			"current_period_end",
			"price_id",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (s *Store) UpdateSubscriptionByStripeID(ctx context.Context, stripeSubscriptionID string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&billing.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListSubscriptions(ctx context.Context) ([]billing.Subscription, error) {
	var out []billing.Subscription
	if err := s.db.WithContext(ctx).Order("subscribed_at").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
