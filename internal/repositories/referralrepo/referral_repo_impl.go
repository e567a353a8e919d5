package referralrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
	"github.com/oxventura/wishd/internal/infrastructure/localstore"
)

const (
	profileNamespace     = "referral_data"
	attributionNamespace = "referred_by"
)

type referralRepository struct {
	store  interfaces.KVStore
	logger zerolog.Logger
}

func New(store interfaces.KVStore, logger zerolog.Logger) IReferralRepository {
	return &referralRepository{
		store:  store,
		logger: logger.With().Str("component", "referral_repository").Logger(),
	}
}

func (r *referralRepository) Profile(ctx context.Context, address string) (domain.ReferralProfile, error) {
	var profile domain.ReferralProfile

	raw, ok, err := r.store.Get(ctx, localstore.Key(profileNamespace, address))
	if err != nil {
		return profile, err
	}
	if !ok {
		return profile, nil
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.ReferralProfile{}, fmt.Errorf("decoding referral profile for %s: %w", address, err)
	}
	return profile, nil
}

func (r *referralRepository) SaveProfile(ctx context.Context, address string, profile domain.ReferralProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding referral profile for %s: %w", address, err)
	}
	return r.store.Put(ctx, localstore.Key(profileNamespace, address), raw)
}

func (r *referralRepository) Attribution(ctx context.Context, address string) (*domain.AttributionRecord, error) {
	raw, ok, err := r.store.Get(ctx, localstore.Key(attributionNamespace, address))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var record domain.AttributionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decoding attribution record for %s: %w", address, err)
	}
	return &record, nil
}

func (r *referralRepository) SaveAttribution(ctx context.Context, address string, record domain.AttributionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding attribution record for %s: %w", address, err)
	}
	return r.store.Put(ctx, localstore.Key(attributionNamespace, address), raw)
}
