package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/notakey/pushmfa/internal/nas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testSettings() func() Settings {
	return func() Settings {
		return Settings{
			Title:           "Login authentication",
			MessageTemplate: "Proceed with login as user %user%?",
			TTLSeconds:      300,
		}
	}
}

// --- Create ---

func TestCreate_SubstitutesUsernameInMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	api.EXPECT().CreateAuthRequest(gomock.Any(), nas.AuthRequestInput{
		Username:    "alice",
		Action:      "Login authentication",
		Description: "Proceed with login as user alice?",
		TTLSeconds:  300,
	}).Return(&nas.AuthRequest{UUID: "uuid-1", Username: "alice"}, nil)

	s := New(api, testSettings(), quietLogger)

	id, err := s.Create(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", id)
}

func TestCreate_EmptyUsernameRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := New(NewMockAPI(ctrl), testSettings(), quietLogger)

	_, err := s.Create(context.Background(), "")
	require.Error(t, err)
}

func TestCreate_APIErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	api.EXPECT().CreateAuthRequest(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("boom"))

	s := New(api, testSettings(), quietLogger)

	_, err := s.Create(context.Background(), "alice")
	require.ErrorContains(t, err, "boom")
}

func TestCreate_MissingUUIDIsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	api.EXPECT().CreateAuthRequest(gomock.Any(), gomock.Any()).
		Return(&nas.AuthRequest{Username: "alice"}, nil)

	s := New(api, testSettings(), quietLogger)

	_, err := s.Create(context.Background(), "alice")
	require.ErrorContains(t, err, "uuid")
}

// --- Status ---

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		ar   *nas.AuthRequest
		err  error
		want Status
	}{
		{
			name: "pending while unresolved",
			ar:   &nas.AuthRequest{UUID: "u"},
			want: StatusPending,
		},
		{
			name: "approved",
			ar:   &nas.AuthRequest{UUID: "u", ResponseType: nas.ResponseApprove},
			want: StatusApproved,
		},
		{
			name: "denied",
			ar:   &nas.AuthRequest{UUID: "u", ResponseType: nas.ResponseDeny},
			want: StatusDenied,
		},
		{
			name: "expired wins over approval",
			ar:   &nas.AuthRequest{UUID: "u", Expired: true, ResponseType: nas.ResponseApprove},
			want: StatusExpired,
		},
		{
			name: "fetch failure reads as none",
			err:  fmt.Errorf("connection refused"),
			want: StatusNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			api := NewMockAPI(ctrl)

			api.EXPECT().AuthRequestStatus(gomock.Any(), "uuid-1").
				Return(tt.ar, tt.err)

			s := New(api, testSettings(), quietLogger)

			assert.Equal(t, tt.want, s.Status(context.Background(), "uuid-1"))
		})
	}
}

func TestStatus_EmptyUUIDSkipsRemoteCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := New(NewMockAPI(ctrl), testSettings(), quietLogger)

	assert.Equal(t, StatusNone, s.Status(context.Background(), ""))
}

// --- IsAuthenticated ---

func TestIsAuthenticated_ApprovedMatchingUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	api.EXPECT().AuthRequestStatus(gomock.Any(), "uuid-1").
		Return(&nas.AuthRequest{UUID: "uuid-1", Username: "alice", ResponseType: nas.ResponseApprove}, nil)

	s := New(api, testSettings(), quietLogger)

	assert.True(t, s.IsAuthenticated(context.Background(), "alice", "uuid-1"))
}

func TestIsAuthenticated_UsernameMismatchFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	api.EXPECT().AuthRequestStatus(gomock.Any(), "uuid-1").
		Return(&nas.AuthRequest{UUID: "uuid-1", Username: "alice", ResponseType: nas.ResponseApprove}, nil)

	s := New(api, testSettings(), quietLogger)

	assert.False(t, s.IsAuthenticated(context.Background(), "mallory", "uuid-1"))
}

func TestIsAuthenticated_PendingFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	api.EXPECT().AuthRequestStatus(gomock.Any(), "uuid-1").
		Return(&nas.AuthRequest{UUID: "uuid-1", Username: "alice"}, nil)

	s := New(api, testSettings(), quietLogger)

	assert.False(t, s.IsAuthenticated(context.Background(), "alice", "uuid-1"))
}

func TestIsAuthenticated_FetchErrorFailsClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)

	api.EXPECT().AuthRequestStatus(gomock.Any(), "uuid-1").
		Return(nil, fmt.Errorf("timeout"))

	s := New(api, testSettings(), quietLogger)

	assert.False(t, s.IsAuthenticated(context.Background(), "alice", "uuid-1"))
}

func TestIsAuthenticated_EmptyInputsSkipRemoteCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := New(NewMockAPI(ctrl), testSettings(), quietLogger)

	assert.False(t, s.IsAuthenticated(context.Background(), "", "uuid-1"))
	assert.False(t, s.IsAuthenticated(context.Background(), "alice", ""))
}
