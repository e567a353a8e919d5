package referral

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/session"
	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/observability"
	"github.com/oxventura/wishd/internal/repositories/referralrepo"
	"github.com/oxventura/wishd/pkg/config"
)

type referralService struct {
	session session.ISessionService
	repo    referralrepo.IReferralRepository
	config  config.ReferralConfig
	logger  zerolog.Logger

	now func() time.Time
}

func NewReferralService(
	sess session.ISessionService,
	repo referralrepo.IReferralRepository,
	cfg config.ReferralConfig,
	logger zerolog.Logger,
) IReferralService {
	return &referralService{
		session: sess,
		repo:    repo,
		config:  cfg,
		now:     time.Now,
		logger:  logger.With().Str("component", "referral_service").Logger(),
	}
}

func (s *referralService) Attribute(ctx context.Context, referrer string) error {
	snap := s.session.Snapshot()
	if !snap.Connected() {
		return domain.ErrNotConnected
	}
	address := snap.Address

	if !common.IsHexAddress(referrer) {
		return nil
	}
	referrer = strings.ToLower(common.HexToAddress(referrer).Hex())
	if strings.EqualFold(referrer, address) {
		return nil
	}

	existing, err := s.repo.Attribution(ctx, address)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if err := s.repo.SaveAttribution(ctx, address, domain.AttributionRecord{
		ReferredBy:   referrer,
		AttributedAt: s.now().UTC(),
	}); err != nil {
		return err
	}

	profile, err := s.repo.Profile(ctx, referrer)
	if err != nil {
		return err
	}
	profile.ReferralCount++
	profile.ClaimableRewards += s.config.Reward
	if err := s.repo.SaveProfile(ctx, referrer, profile); err != nil {
		return err
	}

	observability.AttributionsTotal.Inc()
	s.logger.Info().
		Str("referrer", referrer).
		Str("referred", address).
		Int64("reward", s.config.Reward).
		Msg("Referral attributed")
	return nil
}

func (s *referralService) Profile(ctx context.Context) (domain.ReferralProfile, string, error) {
	snap := s.session.Snapshot()
	if !snap.Connected() {
		return domain.ReferralProfile{}, "", domain.ErrNotConnected
	}
	profile, err := s.repo.Profile(ctx, snap.Address)
	if err != nil {
		return domain.ReferralProfile{}, "", err
	}
	return profile, domain.ReferralLink(s.config.LinkBase, snap.Address), nil
}
