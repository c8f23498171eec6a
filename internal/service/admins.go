package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/auth"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/store"
)

var errInvalidCredentials = apperr.Unauthorized("Invalid credentials")

type AdminInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AdminUpdate changes only the non-nil, non-blank fields. A new password
// is re-hashed.
type AdminUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

type Admins struct {
	store  store.Admins
	tokens *auth.Tokens
	logger *slog.Logger
	Now    func() time.Time
}

func NewAdmins(st store.Admins, tokens *auth.Tokens, logger *slog.Logger) *Admins {
	return &Admins{store: st, tokens: tokens, logger: logger, Now: time.Now}
}

// Login checks the credentials and returns a signed token.
func (s *Admins) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, apperr.InvalidInput("Email and password are required")
	}

	a, err := s.store.FindAdminByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", nil, errInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return "", nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(*a)
	if err != nil {
		return "", nil, err
	}
	return token, a, nil
}

func (s *Admins) Signup(ctx context.Context, in AdminInput) (*domain.Admin, error) {
	name, email := strings.TrimSpace(in.Name), domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperr.InvalidInput("Name, email and password are required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleAdmin
	}
	if !role.Valid() {
		return nil, apperr.InvalidInput(`role must be "admin" or "superadmin"`)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	a := domain.Admin{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.Now().UTC(),
	}
	if err := s.store.CreateAdmin(ctx, &a); err != nil {
		return nil, err
	}
	s.logger.Info("admin created", "admin_id", a.ID, "role", a.Role)
	return &a, nil
}

// List returns admins and superadmins separately.
func (s *Admins) List(ctx context.Context) (admins, superadmins []domain.Admin, err error) {
	all, err := s.store.ListAdmins(ctx)
	if err != nil {
		return nil, nil, err
	}
	admins, superadmins = []domain.Admin{}, []domain.Admin{}
	for _, a := range all {
		if a.Role == domain.RoleSuperAdmin {
			superadmins = append(superadmins, a)
		} else {
			admins = append(admins, a)
		}
	}
	return admins, superadmins, nil
}

func (s *Admins) Update(ctx context.Context, id string, u AdminUpdate) (*domain.Admin, error) {
	a, err := s.store.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		a.Name = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil && strings.TrimSpace(*u.Email) != "" {
		a.Email = domain.NormalizeEmail(*u.Email)
	}
	if u.Role != nil && *u.Role != "" {
		if !u.Role.Valid() {
			return nil, apperr.InvalidInput(`role must be "admin" or "superadmin"`)
		}
		a.Role = *u.Role
	}
	if u.Password != nil && *u.Password != "" {
		hash, err := auth.HashPassword(*u.Password)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = hash
	}

	if err := s.store.UpdateAdmin(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Admins) Delete(ctx context.Context, id string) error {
	return s.store.DeleteAdmin(ctx, id)
}

// EnsureSuperAdmin creates the first superadmin from the configured
// credentials when no admin exists yet.
func (s *Admins) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := s.store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.Signup(ctx, AdminInput{Name: "Super Admin", Email: email, Password: password, Role: domain.RoleSuperAdmin})
	return err
}
