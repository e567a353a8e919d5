package rewards

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
	"github.com/oxventura/wishd/internal/repositories/claimrepo"
	"github.com/oxventura/wishd/internal/repositories/referralrepo"
	"github.com/oxventura/wishd/pkg/config"
	"github.com/oxventura/wishd/pkg/logger"
	"github.com/oxventura/wishd/pkg/units"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type fakeSigner struct {
	address common.Address
}

func (f *fakeSigner) Address() common.Address { return f.address }
func (f *fakeSigner) ChainID() uint64         { return 5042002 }
func (f *fakeSigner) Generation() string      { return "gen-1" }

func (f *fakeSigner) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return nil, nil
}

func (f *fakeSigner) Send(ctx context.Context, to common.Address, data []byte, gas uint64) (string, error) {
	return "0xdead", nil
}

func (f *fakeSigner) WaitMined(ctx context.Context, txHash string) (*domain.Receipt, error) {
	return &domain.Receipt{TxHash: txHash, Status: 1}, nil
}

type fakeSession struct {
	snapshot  domain.SessionSnapshot
	signer    interfaces.Signer
	signerErr error
}

func (f *fakeSession) Connect(ctx context.Context) (domain.SessionSnapshot, error) {
	return f.snapshot, nil
}
func (f *fakeSession) Disconnect()                              {}
func (f *fakeSession) Snapshot() domain.SessionSnapshot         { return f.snapshot }
func (f *fakeSession) ResyncChain(ctx context.Context) error    { return nil }
func (f *fakeSession) OnChange(fn func(domain.SessionSnapshot)) {}

func (f *fakeSession) Signer() (interfaces.Signer, error) {
	if f.signerErr != nil {
		return nil, f.signerErr
	}
	return f.signer, nil
}

type fakeGate struct {
	onTarget bool
}

func (f *fakeGate) IsOnTargetChain() bool                    { return f.onTarget }
func (f *fakeGate) SwitchToTarget(ctx context.Context) error { return nil }
func (f *fakeGate) Target() domain.ChainDescriptor           { return domain.ChainDescriptor{} }

type fakeRewardLedger struct {
	claimed     map[string]bool
	claimedErr  error
	pool        *big.Int
	poolErr     error
	claimErr    error
	claimCalls  []string
	claimAmount *big.Int
}

func (f *fakeRewardLedger) HasClaimedTask(ctx context.Context, s interfaces.Signer, user common.Address, taskID string) (bool, error) {
	if f.claimedErr != nil {
		return false, f.claimedErr
	}
	return f.claimed[taskID], nil
}

func (f *fakeRewardLedger) PoolBalance(ctx context.Context, s interfaces.Signer) (*big.Int, error) {
	if f.poolErr != nil {
		return nil, f.poolErr
	}
	if f.pool == nil {
		return units.Whole(1000000, 18), nil
	}
	return f.pool, nil
}

func (f *fakeRewardLedger) ClaimReward(ctx context.Context, s interfaces.Signer, taskID string, amount *big.Int) (*domain.Receipt, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	f.claimCalls = append(f.claimCalls, taskID)
	f.claimAmount = amount
	return &domain.Receipt{TxHash: "0xclaim", Status: 1}, nil
}

var (
	userAddr  = common.HexToAddress("0xAbCd000000000000000000000000000000000001")
	contracts = domain.ContractSet{
		WishToken:    common.HexToAddress("0x7adf36ef2f3775096298101a6e88e44c5ada4b95"),
		WishDecimals: 18,
	}
)

type fixture struct {
	svc          IRewardService
	session      *fakeSession
	ledger       *fakeRewardLedger
	claimRepo    claimrepo.IClaimRepository
	referralRepo referralrepo.IReferralRepository
	address      string
}

func newFixture(t *testing.T, gate *fakeGate, ledger *fakeRewardLedger) *fixture {
	t.Helper()
	log := logger.New()
	store := newMemStore()
	claims := claimrepo.New(store, log)
	referrals := referralrepo.New(store, log)
	address := strings.ToLower(userAddr.Hex())
	sess := &fakeSession{
		snapshot: domain.SessionSnapshot{
			Address:       address,
			ChainID:       5042002,
			Status:        domain.SessionConnected,
			OnTargetChain: gate.onTarget,
		},
		signer: &fakeSigner{address: userAddr},
	}
	svc := NewRewardService(sess, gate, ledger, claims, referrals, contracts, config.RewardsConfig{}, log)
	return &fixture{
		svc:          svc,
		session:      sess,
		ledger:       ledger,
		claimRepo:    claims,
		referralRepo: referrals,
		address:      address,
	}
}

func TestClaimRequiresRecordedAction(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: true}, &fakeRewardLedger{})

	_, err := f.svc.Claim(context.Background(), "twitter_follow")
	require.ErrorIs(t, err, domain.ErrPrerequisiteNotMet)
	require.Empty(t, f.ledger.claimCalls)
}

func TestClaimUnknownTask(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: true}, &fakeRewardLedger{})

	_, err := f.svc.Claim(context.Background(), "instagram_follow")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestClaimOnLedger(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: true}, &fakeRewardLedger{})
	ctx := context.Background()
	require.NoError(t, f.svc.RecordTaskAction(ctx, "twitter_follow"))

	result, err := f.svc.Claim(ctx, "twitter_follow")
	require.NoError(t, err)
	require.Equal(t, domain.ClaimOnLedger, result.Mode)
	require.Equal(t, "0xclaim", result.TxHash)
	require.Equal(t, int64(50), result.Reward)
	require.Equal(t, int64(50), result.TotalEarned)
	require.Equal(t, []string{"twitter_follow"}, f.ledger.claimCalls)
	require.Equal(t, units.Whole(50, 18), f.ledger.claimAmount)
}

func TestClaimIsIdempotent(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: true}, &fakeRewardLedger{})
	ctx := context.Background()
	require.NoError(t, f.svc.RecordTaskAction(ctx, "twitter_follow"))

	_, err := f.svc.Claim(ctx, "twitter_follow")
	require.NoError(t, err)

	second, err := f.svc.Claim(ctx, "twitter_follow")
	require.NoError(t, err)
	require.True(t, second.AlreadyCompleted)
	require.Equal(t, int64(50), second.TotalEarned)
	require.Len(t, f.ledger.claimCalls, 1)
}

func TestClaimSettlesLocallyWhenOffTarget(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: false}, &fakeRewardLedger{})
	ctx := context.Background()
	require.NoError(t, f.svc.RecordTaskAction(ctx, "telegram_join"))

	result, err := f.svc.Claim(ctx, "telegram_join")
	require.NoError(t, err)
	require.Equal(t, domain.ClaimLocalOnly, result.Mode)
	require.Empty(t, result.TxHash)
	require.Equal(t, int64(40), result.TotalEarned)
	require.Empty(t, f.ledger.claimCalls)

	entry, err := f.claimRepo.Entry(ctx, f.address)
	require.NoError(t, err)
	require.True(t, entry.Completed("telegram_join"))
	require.Equal(t, int64(40), entry.TotalEarned)
}

func TestClaimDegradesOnPoolShortfall(t *testing.T) {
	ledger := &fakeRewardLedger{pool: big.NewInt(1)}
	f := newFixture(t, &fakeGate{onTarget: true}, ledger)
	ctx := context.Background()
	require.NoError(t, f.svc.RecordTaskAction(ctx, "twitter_tag"))

	result, err := f.svc.Claim(ctx, "twitter_tag")
	require.NoError(t, err)
	require.Equal(t, domain.ClaimLocalOnly, result.Mode)
	require.Equal(t, int64(100), result.TotalEarned)
	require.Empty(t, ledger.claimCalls)
}

func TestClaimDegradesOnLedgerFailure(t *testing.T) {
	ledger := &fakeRewardLedger{claimErr: errors.New("execution reverted")}
	f := newFixture(t, &fakeGate{onTarget: true}, ledger)
	ctx := context.Background()
	require.NoError(t, f.svc.RecordTaskAction(ctx, "twitter_retweet"))

	result, err := f.svc.Claim(ctx, "twitter_retweet")
	require.NoError(t, err)
	require.Equal(t, domain.ClaimLocalOnly, result.Mode)
	require.Equal(t, int64(30), result.TotalEarned)
}

// A user refusal is terminal for the attempt; it must not fall through to
// local settlement.
func TestClaimUserRejectionIsTerminal(t *testing.T) {
	ledger := &fakeRewardLedger{claimErr: domain.ErrUserRejected}
	f := newFixture(t, &fakeGate{onTarget: true}, ledger)
	ctx := context.Background()
	require.NoError(t, f.svc.RecordTaskAction(ctx, "twitter_follow"))

	_, err := f.svc.Claim(ctx, "twitter_follow")
	require.ErrorIs(t, err, domain.ErrUserRejected)

	entry, err := f.claimRepo.Entry(ctx, f.address)
	require.NoError(t, err)
	require.False(t, entry.Completed("twitter_follow"))
	require.Zero(t, entry.TotalEarned)
}

// When the ledger already recorded the claim, the local cache reconciles to
// completed without paying out a second time.
func TestClaimReconcilesAlreadyClaimedTask(t *testing.T) {
	ledger := &fakeRewardLedger{claimed: map[string]bool{"twitter_follow": true}}
	f := newFixture(t, &fakeGate{onTarget: true}, ledger)
	ctx := context.Background()
	require.NoError(t, f.svc.RecordTaskAction(ctx, "twitter_follow"))

	result, err := f.svc.Claim(ctx, "twitter_follow")
	require.NoError(t, err)
	require.True(t, result.Reconciled)
	require.Empty(t, ledger.claimCalls)

	entry, err := f.claimRepo.Entry(ctx, f.address)
	require.NoError(t, err)
	require.True(t, entry.Completed("twitter_follow"))
	require.Zero(t, entry.TotalEarned)
}

func TestTasksReportsProgress(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: true}, &fakeRewardLedger{})
	ctx := context.Background()
	require.NoError(t, f.svc.RecordTaskAction(ctx, "twitter_follow"))
	_, err := f.svc.Claim(ctx, "twitter_follow")
	require.NoError(t, err)
	require.NoError(t, f.svc.RecordTaskAction(ctx, "telegram_join"))

	tasks, totalEarned, err := f.svc.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 6)
	require.Equal(t, int64(50), totalEarned)

	byID := make(map[string]domain.TaskStatus, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}
	require.True(t, byID["twitter_follow"].Completed)
	require.True(t, byID["telegram_join"].ActionDone)
	require.False(t, byID["telegram_join"].Completed)
	require.False(t, byID["twitter_retweet"].ActionDone)
}

func TestClaimReferral(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: true}, &fakeRewardLedger{})
	ctx := context.Background()
	require.NoError(t, f.referralRepo.SaveProfile(ctx, f.address, domain.ReferralProfile{
		ReferralCount:    2,
		ClaimableRewards: 200,
	}))

	result, err := f.svc.ClaimReferral(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.ClaimOnLedger, result.Mode)
	require.Equal(t, int64(200), result.Reward)
	require.True(t, strings.HasPrefix(result.TaskID, "referral_"+f.address+"_"))
	require.Equal(t, units.Whole(200, 18), f.ledger.claimAmount)

	profile, err := f.referralRepo.Profile(ctx, f.address)
	require.NoError(t, err)
	require.Zero(t, profile.ClaimableRewards)
	require.Equal(t, int64(200), profile.TotalEarned)
	require.Equal(t, 2, profile.ReferralCount)
}

func TestClaimReferralNothingToClaim(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: true}, &fakeRewardLedger{})

	_, err := f.svc.ClaimReferral(context.Background())
	require.ErrorIs(t, err, domain.ErrNothingToClaim)
}

// Referral claims have no local fallback: pool problems surface as errors
// and claimable credit stays intact.
func TestClaimReferralPoolShortfallKeepsCredit(t *testing.T) {
	ledger := &fakeRewardLedger{pool: big.NewInt(1)}
	f := newFixture(t, &fakeGate{onTarget: true}, ledger)
	ctx := context.Background()
	require.NoError(t, f.referralRepo.SaveProfile(ctx, f.address, domain.ReferralProfile{
		ClaimableRewards: 200,
	}))

	_, err := f.svc.ClaimReferral(ctx)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	profile, err := f.referralRepo.Profile(ctx, f.address)
	require.NoError(t, err)
	require.Equal(t, int64(200), profile.ClaimableRewards)
}

func TestClaimReferralRequiresTargetNetwork(t *testing.T) {
	f := newFixture(t, &fakeGate{onTarget: false}, &fakeRewardLedger{})
	ctx := context.Background()
	require.NoError(t, f.referralRepo.SaveProfile(ctx, f.address, domain.ReferralProfile{
		ClaimableRewards: 200,
	}))

	_, err := f.svc.ClaimReferral(ctx)
	require.ErrorIs(t, err, domain.ErrWrongNetwork)
}
