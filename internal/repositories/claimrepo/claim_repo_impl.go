package claimrepo

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
	entryNamespace   = "social_tasks"
	clickedNamespace = "social_tasks_clicked"
)

type claimRepository struct {
	store  interfaces.KVStore
	logger zerolog.Logger
}

func New(store interfaces.KVStore, logger zerolog.Logger) IClaimRepository {
	return &claimRepository{
		store:  store,
		logger: logger.With().Str("component", "claim_repository").Logger(),
	}
}

func (r *claimRepository) Entry(ctx context.Context, address string) (domain.ClaimLedgerEntry, error) {
	var entry domain.ClaimLedgerEntry

	raw, ok, err := r.store.Get(ctx, localstore.Key(entryNamespace, address))
	if err != nil {
		return entry, err
	}
	if !ok {
		return entry, nil
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.ClaimLedgerEntry{}, fmt.Errorf("decoding claim entry for %s: %w", address, err)
	}
	return entry, nil
}

func (r *claimRepository) SaveEntry(ctx context.Context, address string, entry domain.ClaimLedgerEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding claim entry for %s: %w", address, err)
	}
	return r.store.Put(ctx, localstore.Key(entryNamespace, address), raw)
}

func (r *claimRepository) ActionRecorded(ctx context.Context, address, taskID string) (bool, error) {
	ids, err := r.RecordedActions(ctx, address)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == taskID {
			return true, nil
		}
	}
	return false, nil
}

func (r *claimRepository) RecordAction(ctx context.Context, address, taskID string) error {
	ids, err := r.RecordedActions(ctx, address)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == taskID {
			return nil
		}
	}
	ids = append(ids, taskID)

	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encoding recorded actions for %s: %w", address, err)
	}
	return r.store.Put(ctx, localstore.Key(clickedNamespace, address), raw)
}

func (r *claimRepository) RecordedActions(ctx context.Context, address string) ([]string, error) {
	raw, ok, err := r.store.Get(ctx, localstore.Key(clickedNamespace, address))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decoding recorded actions for %s: %w", address, err)
	}
	return ids, nil
}
