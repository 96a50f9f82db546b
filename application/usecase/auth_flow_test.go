package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdeo/auth-service/application/port/inbound"
	"github.com/verdeo/auth-service/application/port/outbound"
	"github.com/verdeo/auth-service/domain/apperror"
	"github.com/verdeo/auth-service/domain/entity"
	"github.com/verdeo/auth-service/infrastructure/service/jwt"
	"github.com/verdeo/auth-service/infrastructure/service/logger"
	"github.com/verdeo/auth-service/infrastructure/service/password"
)

// In-memory repositories backing the end-to-end flow tests. They honor the
// same contracts as the postgres implementations: Create assigns IDs and
// rejects duplicate emails, Upsert keeps at most one pair per account.

type memAccountRepository struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*entity.Account
	indProf map[int64]*entity.IndividualProfile
	orgProf map[int64]*entity.OrganizationProfile
}

func newMemAccountRepository() *memAccountRepository {
	return &memAccountRepository{
		nextID:  1,
		byEmail: make(map[string]*entity.Account),
		indProf: make(map[int64]*entity.IndividualProfile),
		orgProf: make(map[int64]*entity.OrganizationProfile),
	}
}

func (r *memAccountRepository) FindByID(_ context.Context, id int64) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byEmail {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, outbound.ErrAccountNotFound
}

func (r *memAccountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byEmail[email]
	if !ok {
		return nil, outbound.ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memAccountRepository) Create(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[account.Email]; ok {
		return outbound.ErrDuplicateEmail
	}
	account.ID = r.nextID
	r.nextID++
	copied := *account
	r.byEmail[account.Email] = &copied
	return nil
}

func (r *memAccountRepository) CreateIndividualProfile(_ context.Context, profile *entity.IndividualProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.indProf[profile.AccountID] = &copied
	return nil
}

func (r *memAccountRepository) CreateOrganizationProfile(_ context.Context, profile *entity.OrganizationProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.orgProf[profile.AccountID] = &copied
	return nil
}

func (r *memAccountRepository) FindIndividualProfile(_ context.Context, accountID int64) (*entity.IndividualProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.indProf[accountID]
	if !ok {
		return nil, outbound.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memAccountRepository) FindOrganizationProfile(_ context.Context, accountID int64) (*entity.OrganizationProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.orgProf[accountID]
	if !ok {
		return nil, outbound.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

type memTokenPairRepository struct {
	mu    sync.Mutex
	pairs map[int64]*entity.TokenPair
}

func newMemTokenPairRepository() *memTokenPairRepository {
	return &memTokenPairRepository{pairs: make(map[int64]*entity.TokenPair)}
}

func (r *memTokenPairRepository) Upsert(_ context.Context, pair *entity.TokenPair) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *pair
	r.pairs[pair.AccountID] = &copied
	return nil
}

func (r *memTokenPairRepository) FindByAccountID(_ context.Context, accountID int64) (*entity.TokenPair, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pairs[accountID]
	if !ok {
		return nil, outbound.ErrTokenPairNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memTokenPairRepository) DeleteByAccountID(_ context.Context, accountID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pairs, accountID)
	return nil
}

type flowEnv struct {
	accounts   *memAccountRepository
	tokenPairs *memTokenPairRepository
	clock      *time.Time
	uc         inbound.AuthUseCase
}

// newFlowEnv wires the use case against in-memory storage, real bcrypt and a
// real token codec driven by a controllable clock, so issued tokens change
// whenever the clock advances.
func newFlowEnv(t *testing.T) *flowEnv {
	t.Helper()

	accounts := newMemAccountRepository()
	tokenPairs := newMemTokenPairRepository()
	uow := &fakeUnitOfWork{accounts: accounts, tokenPairs: tokenPairs}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	codec, err := jwt.NewCodecWithClock("flow-test-secret", 30*time.Minute, 7*24*time.Hour, func() time.Time { return *clock })
	require.NoError(t, err)

	hasher := password.NewBcryptService(4)
	log := logger.NewStructuredLogger(logger.Config{Level: "error", Format: "text", ServiceName: "test"})

	uc := NewAuthUseCase(accounts, tokenPairs, uow, codec, hasher, nil, log, 5, 15*time.Minute)
	return &flowEnv{accounts: accounts, tokenPairs: tokenPairs, clock: clock, uc: uc}
}

func (e *flowEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

func TestFlow_RegisterLoginCycle(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()

	registered, err := env.uc.RegisterIndividual(ctx, inbound.RegisterIndividualRequest{
		Email:    "ann@example.com",
		Password: "s3cret-pass",
		FullName: "Ann",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AccountKindIndividual, registered.Kind)
	assert.Equal(t, "Ann", registered.FullName)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.NotEqual(t, registered.AccessToken, registered.RefreshToken)

	stored, err := env.tokenPairs.FindByAccountID(ctx, registered.AccountID)
	require.NoError(t, err)
	assert.Equal(t, registered.AccessToken, stored.AccessToken)
	assert.Equal(t, registered.RefreshToken, stored.RefreshToken)

	_, err = env.uc.Login(ctx, inbound.LoginRequest{Email: "ann@example.com", Password: "wrong-pass"})
	assert.Equal(t, apperror.ErrCodeInvalidCredentials, apperror.CodeOf(err))

	env.advance(time.Minute)
	loggedIn, err := env.uc.Login(ctx, inbound.LoginRequest{Email: "ann@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEqual(t, registered.AccessToken, loggedIn.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, loggedIn.RefreshToken)

	stored, err = env.tokenPairs.FindByAccountID(ctx, loggedIn.AccountID)
	require.NoError(t, err)
	assert.Equal(t, loggedIn.AccessToken, stored.AccessToken)
	assert.Equal(t, loggedIn.RefreshToken, stored.RefreshToken)
}

func TestFlow_RefreshRotatesStoredPair(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()

	registered, err := env.uc.RegisterOrganization(ctx, inbound.RegisterOrganizationRequest{
		Email:    "org@example.com",
		Password: "s3cret-pass",
		Name:     "Verdeo Ltd",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PackageTierBasic, registered.PackageTier)

	env.advance(time.Minute)
	refreshed, err := env.uc.Refresh(ctx, inbound.RefreshRequest{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, registered.AccountID, refreshed.AccountID)
	assert.Equal(t, entity.AccountKindOrganization, refreshed.Kind)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	stored, err := env.tokenPairs.FindByAccountID(ctx, registered.AccountID)
	require.NoError(t, err)
	assert.Equal(t, refreshed.AccessToken, stored.AccessToken)

	_, err = env.uc.Refresh(ctx, inbound.RefreshRequest{RefreshToken: registered.AccessToken})
	assert.Equal(t, apperror.ErrCodeInvalidToken, apperror.CodeOf(err))
}

func TestFlow_ExpiredRefreshTokenRejected(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()

	registered, err := env.uc.RegisterIndividual(ctx, inbound.RegisterIndividualRequest{
		Email:    "ann@example.com",
		Password: "s3cret-pass",
		FullName: "Ann",
	})
	require.NoError(t, err)

	env.advance(7*24*time.Hour + time.Second)
	_, err = env.uc.Refresh(ctx, inbound.RefreshRequest{RefreshToken: registered.RefreshToken})
	assert.Equal(t, apperror.ErrCodeInvalidToken, apperror.CodeOf(err))
}

func TestFlow_LogoutRemovesPairButTokensStillDecode(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()

	registered, err := env.uc.RegisterIndividual(ctx, inbound.RegisterIndividualRequest{
		Email:    "ann@example.com",
		Password: "s3cret-pass",
		FullName: "Ann",
	})
	require.NoError(t, err)

	require.NoError(t, env.uc.Logout(ctx, registered.AccountID))
	_, err = env.tokenPairs.FindByAccountID(ctx, registered.AccountID)
	assert.ErrorIs(t, err, outbound.ErrTokenPairNotFound)

	// Stateless tokens outlive the stored pair until they expire.
	env.advance(time.Minute)
	refreshed, err := env.uc.Refresh(ctx, inbound.RefreshRequest{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, registered.AccountID, refreshed.AccountID)
}

func TestFlow_DuplicateRegistration(t *testing.T) {
	env := newFlowEnv(t)
	ctx := context.Background()

	_, err := env.uc.RegisterIndividual(ctx, inbound.RegisterIndividualRequest{
		Email:    "ann@example.com",
		Password: "s3cret-pass",
		FullName: "Ann",
	})
	require.NoError(t, err)

	_, err = env.uc.RegisterOrganization(ctx, inbound.RegisterOrganizationRequest{
		Email:    "ann@example.com",
		Password: "other-pass",
		Name:     "Verdeo Ltd",
	})
	assert.Equal(t, apperror.ErrCodeDuplicateEmail, apperror.CodeOf(err))
}
