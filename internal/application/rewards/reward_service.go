package rewards

import (
	"context"

	"github.com/oxventura/wishd/internal/domain"
)

type IRewardService interface {
	// Tasks returns the fixed catalog annotated with the address's local
	// progress, plus the running total earned.
	Tasks(ctx context.Context) ([]domain.TaskStatus, int64, error)

	// RecordTaskAction marks a task's prerequisite action as performed.
	// Claiming without a recorded action fails with ErrPrerequisiteNotMet.
	RecordTaskAction(ctx context.Context, taskID string) error

	// Claim settles a task reward. Settlement mode is selected per attempt
	// by current connectivity: on-ledger when the chain is reachable and
	// funded, local-only otherwise. Both modes converge on the same
	// post-state. A user-rejected wallet prompt is terminal and never
	// degrades to local settlement.
	Claim(ctx context.Context, taskID string) (domain.ClaimResult, error)

	// ClaimReferral settles the accumulated referral credit through the
	// on-ledger path, keyed by a synthetic per-claim id since the amount
	// varies. There is no local fallback for referral credit.
	ClaimReferral(ctx context.Context) (domain.ClaimResult, error)
}
