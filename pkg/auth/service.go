package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAdminRole = "national_admin"
	defaultUserRole  = "researcher"

	mfaChallengeTTL = 5 * time.Minute
)

type Service struct {
	repo      *Repository
	roles     RoleConfig
	mfaIssuer string

	mu         sync.Mutex
	challenges map[string]mfaChallenge

	nowFunc func() time.Time
}

type mfaChallenge struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func NewService(repo *Repository, roles RoleConfig, mfaIssuer string) *Service {
	return &Service{
		repo:       repo,
		roles:      roles,
		mfaIssuer:  mfaIssuer,
		challenges: make(map[string]mfaChallenge),
		nowFunc:    time.Now,
	}
}

// Bootstrap creates the first center and its national admin. Refused once any
// user exists.
func (s *Service) Bootstrap(ctx context.Context, req models.BootstrapRequest) (models.Center, models.User, error) {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return models.Center{}, models.User{}, err
	}
	if count > 0 {
		return models.Center{}, models.User{}, apperr.Conflict("platform already bootstrapped")
	}
	if req.CenterCode == "" || req.CenterName == "" {
		return models.Center{}, models.User{}, apperr.BadRequest("center code and name required")
	}
	if req.AdminEmail == "" || req.AdminPassword == "" {
		return models.Center{}, models.User{}, apperr.BadRequest("admin email and password required")
	}

	center, err := s.repo.CreateCenter(ctx, CreateCenterInput{
		Code: req.CenterCode,
		Name: strings.TrimSpace(req.CenterName),
	})
	if err != nil {
		return models.Center{}, models.User{}, err
	}

	user, err := s.createUser(ctx, createUserParams{
		CenterID: center.ID,
		Email:    req.AdminEmail,
		Name:     req.AdminName,
		Role:     defaultAdminRole,
		Password: req.AdminPassword,
	})
	if err != nil {
		return models.Center{}, models.User{}, err
	}

	return center, user, nil
}

type createUserParams struct {
	CenterID uuid.UUID
	Email    string
	Name     string
	Role     string
	Password string
	Metadata map[string]interface{}
}

func (s *Service) createUser(ctx context.Context, params createUserParams) (models.User, error) {
	if params.Password == "" {
		return models.User{}, apperr.BadRequest("password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	return s.repo.CreateUser(ctx, CreateUserInput{
		CenterID:     params.CenterID,
		Email:        params.Email,
		Name:         params.Name,
		Role:         params.Role,
		PasswordHash: string(hash),
		Metadata:     params.Metadata,
	})
}

func (s *Service) RegisterUser(ctx context.Context, actor *Claims, req models.RegisterUserRequest) (models.User, error) {
	if !HasPermission(actor.Permissions, PermManageUsers) {
		return models.User{}, apperr.Forbidden("caller lacks %s", PermManageUsers)
	}
	centerID := req.CenterID
	if centerID == uuid.Nil {
		centerID = actor.CenterID
	} else if centerID != actor.CenterID {
		if _, err := s.repo.GetCenter(ctx, centerID); err != nil {
			return models.User{}, err
		}
	}
	role := req.Role
	if role == "" {
		role = defaultUserRole
	}
	if len(s.roles.PermissionsFor(role)) == 0 && role != defaultUserRole {
		return models.User{}, apperr.BadRequest("unknown role %q", role)
	}
	return s.createUser(ctx, createUserParams{
		CenterID: centerID,
		Email:    req.Email,
		Name:     req.Name,
		Role:     role,
		Password: req.Password,
		Metadata: req.Metadata,
	})
}

// Login verifies credentials. Users with MFA enabled get a short-lived
// challenge ticket instead of a token; VerifyMFA completes the login.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, bool, string, error) {
	row, err := s.repo.getUserRow(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return models.User{}, false, "", apperr.Unauthorized("invalid credentials")
		}
		return models.User{}, false, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return models.User{}, false, "", apperr.Unauthorized("invalid credentials")
	}

	user := toUser(row)
	if !row.MFAEnabled {
		return user, false, "", nil
	}

	ticket := uuid.NewString()
	s.mu.Lock()
	s.pruneChallengesLocked()
	s.challenges[ticket] = mfaChallenge{userID: row.ID, expiresAt: s.nowFunc().Add(mfaChallengeTTL)}
	s.mu.Unlock()

	return user, true, ticket, nil
}

func (s *Service) VerifyMFA(ctx context.Context, ticket, code string) (models.User, error) {
	s.mu.Lock()
	challenge, ok := s.challenges[ticket]
	if ok {
		delete(s.challenges, ticket)
	}
	s.pruneChallengesLocked()
	s.mu.Unlock()

	if !ok || s.nowFunc().After(challenge.expiresAt) {
		return models.User{}, apperr.Unauthorized("mfa challenge expired or unknown")
	}

	row, err := s.repo.getUserRowByID(ctx, challenge.userID)
	if err != nil {
		return models.User{}, err
	}
	if !VerifyTOTP(row.MFASecret, code, s.nowFunc()) {
		return models.User{}, apperr.Unauthorized("invalid mfa code")
	}
	return toUser(row), nil
}

func (s *Service) EnrollMFA(ctx context.Context, userID uuid.UUID) (models.EnrollMFAResponse, error) {
	row, err := s.repo.getUserRowByID(ctx, userID)
	if err != nil {
		return models.EnrollMFAResponse{}, err
	}
	if row.MFAEnabled {
		return models.EnrollMFAResponse{}, apperr.Conflict("mfa already active")
	}

	secret, err := GenerateTOTPSecret()
	if err != nil {
		return models.EnrollMFAResponse{}, err
	}
	if err := s.repo.SetMFASecret(ctx, userID, secret, false); err != nil {
		return models.EnrollMFAResponse{}, err
	}

	return models.EnrollMFAResponse{
		Secret:     secret,
		OTPAuthURL: TOTPProvisioningURL(s.mfaIssuer, row.Email, secret),
	}, nil
}

// ActivateMFA turns enrollment on after the user proves possession of the
// secret with one valid code.
func (s *Service) ActivateMFA(ctx context.Context, userID uuid.UUID, code string) error {
	row, err := s.repo.getUserRowByID(ctx, userID)
	if err != nil {
		return err
	}
	if row.MFASecret == "" {
		return apperr.BadRequest("mfa not enrolled")
	}
	if row.MFAEnabled {
		return apperr.Conflict("mfa already active")
	}
	if !VerifyTOTP(row.MFASecret, code, s.nowFunc()) {
		return apperr.Unauthorized("invalid mfa code")
	}
	return s.repo.SetMFASecret(ctx, userID, row.MFASecret, true)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListCenters(ctx context.Context) ([]models.Center, error) {
	return s.repo.ListCenters(ctx)
}

func (s *Service) PermissionsFor(role string) []string {
	return s.roles.PermissionsFor(role)
}

func (s *Service) pruneChallengesLocked() {
	now := s.nowFunc()
	for ticket, challenge := range s.challenges {
		if now.After(challenge.expiresAt) {
			delete(s.challenges, ticket)
		}
	}
}
