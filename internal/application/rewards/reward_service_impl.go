package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/netgate"
	"github.com/oxventura/wishd/internal/application/session"
	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
	"github.com/oxventura/wishd/internal/observability"
	"github.com/oxventura/wishd/internal/repositories/claimrepo"
	"github.com/oxventura/wishd/internal/repositories/referralrepo"
	"github.com/oxventura/wishd/pkg/config"
	"github.com/oxventura/wishd/pkg/units"
)

type rewardService struct {
	session      session.ISessionService
	gate         netgate.INetworkGate
	ledger       interfaces.RewardLedger
	claimRepo    claimrepo.IClaimRepository
	referralRepo referralrepo.IReferralRepository
	contracts    domain.ContractSet
	config       config.RewardsConfig
	logger       zerolog.Logger

	now func() time.Time
}

func NewRewardService(
	sess session.ISessionService,
	gate netgate.INetworkGate,
	ledger interfaces.RewardLedger,
	claimRepo claimrepo.IClaimRepository,
	referralRepo referralrepo.IReferralRepository,
	contracts domain.ContractSet,
	cfg config.RewardsConfig,
	logger zerolog.Logger,
) IRewardService {
	return &rewardService{
		session:      sess,
		gate:         gate,
		ledger:       ledger,
		claimRepo:    claimRepo,
		referralRepo: referralRepo,
		contracts:    contracts,
		config:       cfg,
		now:          time.Now,
		logger:       logger.With().Str("component", "reward_claim_engine").Logger(),
	}
}

func (s *rewardService) Tasks(ctx context.Context) ([]domain.TaskStatus, int64, error) {
	snap := s.session.Snapshot()
	if !snap.Connected() {
		return nil, 0, domain.ErrNotConnected
	}

	entry, err := s.claimRepo.Entry(ctx, snap.Address)
	if err != nil {
		return nil, 0, err
	}
	actions, err := s.claimRepo.RecordedActions(ctx, snap.Address)
	if err != nil {
		return nil, 0, err
	}
	acted := make(map[string]bool, len(actions))
	for _, id := range actions {
		acted[id] = true
	}

	catalog := domain.TaskCatalog()
	statuses := make([]domain.TaskStatus, 0, len(catalog))
	for _, task := range catalog {
		statuses = append(statuses, domain.TaskStatus{
			Task:       task,
			ActionDone: acted[task.ID],
			Completed:  entry.Completed(task.ID),
		})
	}
	return statuses, entry.TotalEarned, nil
}

func (s *rewardService) RecordTaskAction(ctx context.Context, taskID string) error {
	if _, ok := domain.TaskByID(taskID); !ok {
		return fmt.Errorf("%w: unknown task %q", domain.ErrValidation, taskID)
	}
	snap := s.session.Snapshot()
	if !snap.Connected() {
		return domain.ErrNotConnected
	}
	return s.claimRepo.RecordAction(ctx, snap.Address, taskID)
}

func (s *rewardService) Claim(ctx context.Context, taskID string) (domain.ClaimResult, error) {
	task, ok := domain.TaskByID(taskID)
	if !ok {
		return domain.ClaimResult{}, fmt.Errorf("%w: unknown task %q", domain.ErrValidation, taskID)
	}

	snap := s.session.Snapshot()
	if !snap.Connected() {
		return domain.ClaimResult{}, domain.ErrNotConnected
	}
	address := snap.Address

	entry, err := s.claimRepo.Entry(ctx, address)
	if err != nil {
		return domain.ClaimResult{}, err
	}
	// An id in the completed set can never be claimed again; a repeat
	// attempt is a no-op that leaves TotalEarned untouched.
	if entry.Completed(taskID) {
		return domain.ClaimResult{
			TaskID:           taskID,
			Reward:           task.Reward,
			TotalEarned:      entry.TotalEarned,
			AlreadyCompleted: true,
		}, nil
	}

	acted, err := s.claimRepo.ActionRecorded(ctx, address, taskID)
	if err != nil {
		return domain.ClaimResult{}, err
	}
	if !acted {
		return domain.ClaimResult{}, fmt.Errorf("%w: complete %q first", domain.ErrPrerequisiteNotMet, task.Action)
	}

	signer, signerErr := s.session.Signer()
	onLedger := signerErr == nil && s.gate.IsOnTargetChain() && s.contracts.WishTokenDeployed()
	if !onLedger {
		return s.settleLocal(ctx, address, task, entry, "")
	}

	// Ledger wins when reachable: an already-claimed task reconciles the
	// stale local cache to completed without paying out again.
	claimed, err := s.ledger.HasClaimedTask(ctx, signer, signer.Address(), taskID)
	if err != nil {
		s.logger.Warn().Err(err).Str("task_id", taskID).Msg("On-ledger claim status unavailable, proceeding")
	} else if claimed {
		entry.MarkCompleted(taskID)
		if err := s.claimRepo.SaveEntry(ctx, address, entry); err != nil {
			return domain.ClaimResult{}, err
		}
		s.logger.Info().Str("task_id", taskID).Msg("Task already claimed on-ledger, local state reconciled")
		return domain.ClaimResult{
			TaskID:      taskID,
			Mode:        domain.ClaimOnLedger,
			Reward:      task.Reward,
			TotalEarned: entry.TotalEarned,
			Reconciled:  true,
		}, nil
	}

	amount := units.Whole(task.Reward, s.contracts.WishDecimals)

	// Pool-availability problems degrade to local settlement: the user
	// always gets credit for a completed task.
	pool, err := s.ledger.PoolBalance(ctx, signer)
	if err != nil {
		s.logger.Warn().Err(err).Str("task_id", taskID).Msg("Reward pool balance unavailable, settling locally")
		return s.settleLocal(ctx, address, task, entry, "")
	}
	if pool.Cmp(amount) < 0 {
		s.logger.Warn().
			Str("task_id", taskID).
			Str("pool", pool.String()).
			Str("required", amount.String()).
			Msg("Reward pool underfunded, settling locally")
		return s.settleLocal(ctx, address, task, entry, "")
	}

	receipt, err := s.ledger.ClaimReward(ctx, signer, taskID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrUserRejected) {
			// User refusal is terminal for the attempt; degradation is
			// reserved for ledger-availability problems.
			return domain.ClaimResult{}, err
		}
		s.logger.Warn().Err(err).Str("task_id", taskID).Msg("On-ledger claim failed, settling locally")
		return s.settleLocal(ctx, address, task, entry, "")
	}

	return s.settle(ctx, address, task, entry, domain.ClaimOnLedger, receipt.TxHash)
}

func (s *rewardService) ClaimReferral(ctx context.Context) (domain.ClaimResult, error) {
	signer, err := s.session.Signer()
	if err != nil {
		return domain.ClaimResult{}, err
	}
	if !s.gate.IsOnTargetChain() {
		return domain.ClaimResult{}, domain.ErrWrongNetwork
	}
	if !s.contracts.WishTokenDeployed() {
		return domain.ClaimResult{}, fmt.Errorf("%w: WISH token not deployed", domain.ErrContractNotConfigured)
	}

	address := s.session.Snapshot().Address
	profile, err := s.referralRepo.Profile(ctx, address)
	if err != nil {
		return domain.ClaimResult{}, err
	}
	if profile.ClaimableRewards <= 0 {
		return domain.ClaimResult{}, domain.ErrNothingToClaim
	}

	amount := units.Whole(profile.ClaimableRewards, s.contracts.WishDecimals)
	pool, err := s.ledger.PoolBalance(ctx, signer)
	if err != nil {
		return domain.ClaimResult{}, fmt.Errorf("%w: reading reward pool: %v", domain.ErrLedgerUnavailable, err)
	}
	if pool.Cmp(amount) < 0 {
		return domain.ClaimResult{}, fmt.Errorf("%w: reward pool cannot cover the claim", domain.ErrInsufficientBalance)
	}

	// The amount varies per claim, so the on-ledger key is synthetic
	// rather than a catalog task id.
	claimID := fmt.Sprintf("referral_%s_%d", address, s.now().UnixMilli())
	receipt, err := s.ledger.ClaimReward(ctx, signer, claimID, amount)
	if err != nil {
		return domain.ClaimResult{}, err
	}

	claimedAmount := profile.ClaimableRewards
	profile.TotalEarned += claimedAmount
	profile.ClaimableRewards = 0
	if err := s.referralRepo.SaveProfile(ctx, address, profile); err != nil {
		return domain.ClaimResult{}, err
	}

	observability.ClaimsTotal.WithLabelValues(string(domain.ClaimOnLedger)).Inc()
	s.logger.Info().
		Str("claim_id", claimID).
		Str("tx_hash", receipt.TxHash).
		Int64("amount", claimedAmount).
		Msg("Referral rewards claimed")

	return domain.ClaimResult{
		TaskID:      claimID,
		Mode:        domain.ClaimOnLedger,
		TxHash:      receipt.TxHash,
		Reward:      claimedAmount,
		TotalEarned: profile.TotalEarned,
	}, nil
}

// settleLocal credits the task in persisted local state only, after the
// configured settlement latency (a stand-in for real settlement time,
// zeroed in tests).
func (s *rewardService) settleLocal(ctx context.Context, address string, task domain.Task, entry domain.ClaimLedgerEntry, txHash string) (domain.ClaimResult, error) {
	if s.config.SettleLatency > 0 {
		select {
		case <-ctx.Done():
			return domain.ClaimResult{}, ctx.Err()
		case <-time.After(s.config.SettleLatency):
		}
	}
	return s.settle(ctx, address, task, entry, domain.ClaimLocalOnly, txHash)
}

// settle converges both modes on the same post-state: task id added to the
// completed set, total earned increased, written as one whole-entry
// replace.
func (s *rewardService) settle(ctx context.Context, address string, task domain.Task, entry domain.ClaimLedgerEntry, mode domain.ClaimMode, txHash string) (domain.ClaimResult, error) {
	entry.MarkCompleted(task.ID)
	entry.TotalEarned += task.Reward
	if err := s.claimRepo.SaveEntry(ctx, address, entry); err != nil {
		return domain.ClaimResult{}, err
	}

	observability.ClaimsTotal.WithLabelValues(string(mode)).Inc()
	s.logger.Info().
		Str("task_id", task.ID).
		Str("mode", string(mode)).
		Int64("reward", task.Reward).
		Int64("total_earned", entry.TotalEarned).
		Msg("Reward claim settled")

	return domain.ClaimResult{
		TaskID:      task.ID,
		Mode:        mode,
		TxHash:      txHash,
		Reward:      task.Reward,
		TotalEarned: entry.TotalEarned,
	}, nil
}
