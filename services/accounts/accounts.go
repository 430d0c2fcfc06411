// Package accounts implements authentication and profile operations: signin,
// signup with client-side form validation, logout, profile reads/updates and
// the dashboard summary.
package accounts

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/apiclient"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/dispatcher"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/session"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

// MinPasswordLength matches the signup form rule.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Query keys for account data.
var (
	KeyDashboardStats = querycache.NewKey("dashboard-stats")
)

func keyProfile(userID string) querycache.Key {
	return querycache.NewKey("user", userID)
}

// authPayload is the signin/signup response data: the user plus a bearer
// token.
type authPayload struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// SignupInput is the signup form.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Service exposes account operations.
type Service struct {
	api      apiclient.API
	cache    *querycache.Cache
	dispatch *dispatcher.Dispatcher
	session  *session.Store
}

// NewService wires an accounts service over the shared client stack.
func NewService(api apiclient.API, cache *querycache.Cache, d *dispatcher.Dispatcher, sess *session.Store) *Service {
	return &Service{api: api, cache: cache, dispatch: d, session: sess}
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn authenticates and stores the resulting session.
func (s *Service) SignIn(ctx context.Context, email, password string) (models.User, error) {
	verr := clienterrors.NewValidationError()
	if email == "" {
		verr.Add("email", "email is required")
	}
	if password == "" {
		verr.Add("password", "password is required")
	}
	if verr.HasErrors() {
		return models.User{}, fmt.Errorf("accounts: signin: %w", verr)
	}

	var payload authPayload
	if err := s.api.Post(ctx, "/auth/signin", signinRequest{Email: email, Password: password}, &payload); err != nil {
		return models.User{}, fmt.Errorf("accounts: signin: %w", err)
	}

	if err := s.session.SignIn(payload.User, payload.Token); err != nil {
		return models.User{}, fmt.Errorf("accounts: signin: %w", err)
	}

	utils.Info("signed in", map[string]any{"user_id": payload.User.UserID, "role": payload.User.Role})
	return payload.User, nil
}

// ValidateSignup applies the signup form rules. A non-nil error means the
// submission is blocked and no request may be issued.
func ValidateSignup(in SignupInput) error {
	verr := clienterrors.NewValidationError()
	if in.Name == "" {
		verr.Add("name", "name is required")
	}
	if in.Email == "" {
		verr.Add("email", "email is required")
	} else if !emailPattern.MatchString(in.Email) {
		verr.Add("email", "email address is invalid")
	}
	if len(in.Password) < MinPasswordLength {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	switch in.Role {
	case models.RoleSeller, models.RoleBuyer, models.RoleWarehouseOwner:
	default:
		verr.Add("role", "role must be seller, buyer or warehouse_owner")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// SignUp registers an account and stores the resulting session.
func (s *Service) SignUp(ctx context.Context, in SignupInput) (models.User, error) {
	if err := ValidateSignup(in); err != nil {
		return models.User{}, fmt.Errorf("accounts: signup: %w", err)
	}

	var payload authPayload
	if err := s.api.Post(ctx, "/auth/signup", in, &payload); err != nil {
		return models.User{}, fmt.Errorf("accounts: signup: %w", err)
	}

	if err := s.session.SignIn(payload.User, payload.Token); err != nil {
		return models.User{}, fmt.Errorf("accounts: signup: %w", err)
	}

	utils.Info("account created", map[string]any{"user_id": payload.User.UserID, "role": payload.User.Role})
	return payload.User, nil
}

// SignOut clears the persisted session and drops every cached response, so
// nothing from the old account survives.
func (s *Service) SignOut() error {
	if err := s.session.SignOut(); err != nil {
		return fmt.Errorf("accounts: signout: %w", err)
	}
	s.cache.Clear()
	utils.Info("signed out", nil)
	return nil
}

// Profile returns a user's profile, served from cache until invalidated.
func (s *Service) Profile(ctx context.Context, userID string) (models.User, error) {
	if userID == "" {
		return models.User{}, fmt.Errorf("accounts: profile: %w: empty user id", clienterrors.ErrValidation)
	}
	return querycache.Fetch(ctx, s.cache, keyProfile(userID), func(ctx context.Context) (models.User, error) {
		var user models.User
		if err := s.api.Get(ctx, "/users/"+userID, &user); err != nil {
			return models.User{}, fmt.Errorf("accounts: profile %s: %w", userID, err)
		}
		return user, nil
	})
}

type updateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// UpdateProfile edits the signed-in user's profile; the cached profile is
// refetched afterwards.
func (s *Service) UpdateProfile(ctx context.Context, name, image string) (models.User, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return models.User{}, fmt.Errorf("accounts: update profile: %w", err)
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.User]{
		Name: "accounts.update_profile",
		Validate: func() error {
			if name == "" && image == "" {
				return fmt.Errorf("%w: nothing to update", clienterrors.ErrValidation)
			}
			return nil
		},
		Run: func(ctx context.Context) (models.User, error) {
			var updated models.User
			if err := s.api.Put(ctx, "/users/"+user.UserID, updateProfileRequest{Name: name, Image: image}, &updated); err != nil {
				return models.User{}, err
			}
			if err := s.session.SignIn(updated, s.session.Token()); err != nil {
				return models.User{}, err
			}
			return updated, nil
		},
		Invalidates: []querycache.Key{keyProfile(user.UserID)},
	})
}

// DashboardStats returns the role-specific summary for the overview page.
func (s *Service) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("accounts: dashboard stats: %w", err)
	}
	return querycache.Fetch(ctx, s.cache, KeyDashboardStats, func(ctx context.Context) (models.DashboardStats, error) {
		var stats models.DashboardStats
		if err := s.api.Get(ctx, "/users/dashboard-stats", &stats); err != nil {
			return models.DashboardStats{}, fmt.Errorf("accounts: dashboard stats: %w", err)
		}
		return stats, nil
	})
}
