package accounts

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/apiclient"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/dispatcher"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/session"
)

func newTestService(t *testing.T, api apiclient.API) (*Service, *querycache.Cache, *session.Store) {
	t.Helper()
	cache := querycache.New()
	sess := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return NewService(api, cache, dispatcher.New(cache), sess), cache, sess
}

func validSignup() SignupInput {
	return SignupInput{
		Name:     "Sadia Rahman",
		Email:    "seller@bidstock.dev",
		Password: "password123",
		Role:     models.RoleSeller,
	}
}

// Tests ValidateSignup
func TestValidateSignup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*SignupInput)
		wantField string
	}{
		{name: "valid", mutate: func(in *SignupInput) {}},
		{name: "missing_name", mutate: func(in *SignupInput) { in.Name = "" }, wantField: "name"},
		{name: "missing_email", mutate: func(in *SignupInput) { in.Email = "" }, wantField: "email"},
		{name: "malformed_email", mutate: func(in *SignupInput) { in.Email = "not-an-email" }, wantField: "email"},
		{name: "short_password", mutate: func(in *SignupInput) { in.Password = "seven77" }, wantField: "password"},
		{name: "exactly_min_password", mutate: func(in *SignupInput) { in.Password = "eight888" }},
		{name: "bad_role", mutate: func(in *SignupInput) { in.Role = "superuser" }, wantField: "role"},
		{name: "admin_not_self_service", mutate: func(in *SignupInput) { in.Role = models.RoleAdmin }, wantField: "role"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := validSignup()
			tc.mutate(&in)

			err := ValidateSignup(in)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, clienterrors.ErrValidation)
			var verr *clienterrors.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, tc.wantField)
		})
	}
}

// A blocked signup must not reach the network. The mock has no expectations,
// so any request would fail the test.
func TestSignUpBlockedLocally(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := apiclient.NewMockAPI(ctrl)
	svc, _, sess := newTestService(t, api)

	in := validSignup()
	in.Password = "short"

	_, err := svc.SignUp(context.Background(), in)
	require.ErrorIs(t, err, clienterrors.ErrValidation)
	require.False(t, sess.IsAuthenticated())
}

// Tests SignUp
func TestSignUpStoresSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := apiclient.NewMockAPI(ctrl)
	svc, _, sess := newTestService(t, api)

	api.EXPECT().
		Post(gomock.Any(), "/auth/signup", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, path string, body, out any) error {
			*out.(*authPayload) = authPayload{
				User:  models.User{UserID: "u1", Email: "seller@bidstock.dev", Role: models.RoleSeller},
				Token: "tok-1",
			}
			return nil
		})

	user, err := svc.SignUp(context.Background(), validSignup())
	require.NoError(t, err)
	require.Equal(t, "u1", user.UserID)
	require.True(t, sess.IsAuthenticated())
	require.Equal(t, "tok-1", sess.Token())
}

// Tests SignIn
func TestSignIn(t *testing.T) {
	t.Parallel()

	t.Run("empty_fields_blocked_locally", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, _, _ := newTestService(t, api)

		_, err := svc.SignIn(context.Background(), "", "")
		require.ErrorIs(t, err, clienterrors.ErrValidation)

		var verr *clienterrors.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "email")
		require.Contains(t, verr.Fields, "password")
	})

	t.Run("success_stores_session", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, _, sess := newTestService(t, api)

		api.EXPECT().
			Post(gomock.Any(), "/auth/signin", signinRequest{Email: "seller@bidstock.dev", Password: "password123"}, gomock.Any()).
			DoAndReturn(func(ctx context.Context, path string, body, out any) error {
				*out.(*authPayload) = authPayload{
					User:  models.User{UserID: "u1", Role: models.RoleSeller},
					Token: "tok-1",
				}
				return nil
			})

		user, err := svc.SignIn(context.Background(), "seller@bidstock.dev", "password123")
		require.NoError(t, err)
		require.Equal(t, models.RoleSeller, user.Role)
		require.True(t, sess.IsAuthenticated())
	})

	t.Run("bad_credentials_leave_store_signed_out", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, _, sess := newTestService(t, api)

		api.EXPECT().
			Post(gomock.Any(), "/auth/signin", gomock.Any(), gomock.Any()).
			Return(clienterrors.ErrUnauthorized)

		_, err := svc.SignIn(context.Background(), "seller@bidstock.dev", "wrong")
		require.ErrorIs(t, err, clienterrors.ErrUnauthorized)
		require.False(t, sess.IsAuthenticated())
	})
}

// Tests SignOut
func TestSignOutDropsSessionAndCache(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := apiclient.NewMockAPI(ctrl)
	svc, cache, sess := newTestService(t, api)

	require.NoError(t, sess.SignIn(models.User{UserID: "u1", Role: models.RoleSeller}, "tok-1"))
	cache.Put(KeyDashboardStats, models.DashboardStats{})
	cache.Put(keyProfile("u1"), models.User{UserID: "u1"})

	require.NoError(t, svc.SignOut())

	require.False(t, sess.IsAuthenticated())
	require.Empty(t, sess.Token())
	require.Equal(t, 0, cache.Len())
}

// Tests Profile caching
func TestProfileCaching(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := apiclient.NewMockAPI(ctrl)
	svc, _, _ := newTestService(t, api)

	api.EXPECT().
		Get(gomock.Any(), "/users/u1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, path string, out any) error {
			*out.(*models.User) = models.User{UserID: "u1", Name: "Sadia Rahman"}
			return nil
		}).
		Times(1)

	for i := 0; i < 3; i++ {
		user, err := svc.Profile(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, "Sadia Rahman", user.Name)
	}
}

// Tests UpdateProfile
func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("nothing_to_update_blocked_locally", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, _, sess := newTestService(t, api)
		require.NoError(t, sess.SignIn(models.User{UserID: "u1", Role: models.RoleSeller}, "tok-1"))

		_, err := svc.UpdateProfile(context.Background(), "", "")
		require.ErrorIs(t, err, clienterrors.ErrValidation)
	})

	t.Run("success_refreshes_session_and_cache", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, cache, sess := newTestService(t, api)
		require.NoError(t, sess.SignIn(models.User{UserID: "u1", Name: "Sadia Rahman", Role: models.RoleSeller}, "tok-1"))
		cache.Put(keyProfile("u1"), models.User{UserID: "u1", Name: "Sadia Rahman"})

		api.EXPECT().
			Put(gomock.Any(), "/users/u1", updateProfileRequest{Name: "Sadia R."}, gomock.Any()).
			DoAndReturn(func(ctx context.Context, path string, body, out any) error {
				*out.(*models.User) = models.User{UserID: "u1", Name: "Sadia R.", Role: models.RoleSeller}
				return nil
			})

		updated, err := svc.UpdateProfile(context.Background(), "Sadia R.", "")
		require.NoError(t, err)
		require.Equal(t, "Sadia R.", updated.Name)

		stored, ok := sess.User()
		require.True(t, ok)
		require.Equal(t, "Sadia R.", stored.Name)
		require.Equal(t, "tok-1", sess.Token())
		require.Equal(t, 1, cache.Invalidations(keyProfile("u1")))
	})
}

// Tests DashboardStats
func TestDashboardStatsRequiresSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := apiclient.NewMockAPI(ctrl)
	svc, _, _ := newTestService(t, api)

	_, err := svc.DashboardStats(context.Background())
	require.ErrorIs(t, err, clienterrors.ErrNotSignedIn)
}
