package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"marathonhub/internal/delivery/http/helpers"
	"marathonhub/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data payload.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(dataBytes, dest))
	}
	return envelope
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	registerErr     error
	registerCreated bool
	getByIDErr      error
	lastRegister    *domain.User
	lastGetByID     string
}

func (f *fakeUserService) Register(_ context.Context, user *domain.User) (*domain.User, bool, error) {
	f.lastRegister = user
	if f.registerErr != nil {
		return nil, false, f.registerErr
	}
	out := *user
	out.ID = "user-1"
	return &out, f.registerCreated, nil
}

func (f *fakeUserService) GetByExternalID(_ context.Context, firebaseUID string) (*domain.User, error) {
	return &domain.User{ID: "user-1", FirebaseUID: firebaseUID}, nil
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.lastGetByID = id
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return &domain.User{ID: id, FirebaseUID: "fb-" + id, Email: id + "@example.com"}, nil
}

// fakeMarathonService implements domain.MarathonService for handler tests.
type fakeMarathonService struct {
	err          error
	marathons    []*domain.Marathon
	lastCreate   *domain.Marathon
	lastParams   domain.ListParams
	lastID       string
	lastOwnerID  string
	lastCallerID string
	lastUpdate   domain.MarathonUpdate
}

func (f *fakeMarathonService) CreateMarathon(_ context.Context, m *domain.Marathon) error {
	f.lastCreate = m
	if f.err != nil {
		return f.err
	}
	m.ID = "mar-1"
	return nil
}

func (f *fakeMarathonService) GetMarathon(_ context.Context, id string) (*domain.Marathon, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Marathon{ID: id, Title: "City Run", Distance: domain.Distance10K}, nil
}

func (f *fakeMarathonService) ListMarathons(_ context.Context, params domain.ListParams) ([]*domain.Marathon, error) {
	f.lastParams = params
	return f.marathons, f.err
}

func (f *fakeMarathonService) ListByOwner(_ context.Context, ownerID, callerID string) ([]*domain.Marathon, error) {
	f.lastOwnerID, f.lastCallerID = ownerID, callerID
	return f.marathons, f.err
}

func (f *fakeMarathonService) UpdateMarathon(_ context.Context, id, callerID string, update domain.MarathonUpdate) (*domain.Marathon, error) {
	f.lastID, f.lastCallerID, f.lastUpdate = id, callerID, update
	if f.err != nil {
		return nil, f.err
	}
	m := &domain.Marathon{ID: id, CreatedBy: callerID}
	update.Apply(m)
	return m, nil
}

func (f *fakeMarathonService) DeleteMarathon(_ context.Context, id, callerID string) error {
	f.lastID, f.lastCallerID = id, callerID
	return f.err
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	err          error
	rows         []*domain.RegistrationWithMarathon
	lastRegister *domain.Registration
	lastID       string
	lastUserID   string
	lastCallerID string
	lastSearch   string
	lastUpdate   domain.RegistrationUpdate
}

func (f *fakeRegistrationService) Register(_ context.Context, reg *domain.Registration) (*domain.Registration, error) {
	f.lastRegister = reg
	if f.err != nil {
		return nil, f.err
	}
	out := *reg
	out.ID = "reg-1"
	return &out, nil
}

func (f *fakeRegistrationService) GetRegistration(_ context.Context, id, callerID string) (*domain.Registration, error) {
	f.lastID, f.lastCallerID = id, callerID
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Registration{ID: id, UserID: callerID, MarathonID: "mar-1"}, nil
}

func (f *fakeRegistrationService) ListByUser(_ context.Context, userID, callerID, search string) ([]*domain.RegistrationWithMarathon, error) {
	f.lastUserID, f.lastCallerID, f.lastSearch = userID, callerID, search
	return f.rows, f.err
}

func (f *fakeRegistrationService) UpdateRegistration(_ context.Context, id, callerID string, update domain.RegistrationUpdate) (*domain.Registration, error) {
	f.lastID, f.lastCallerID, f.lastUpdate = id, callerID, update
	if f.err != nil {
		return nil, f.err
	}
	reg := &domain.Registration{ID: id, UserID: callerID, MarathonID: "mar-1"}
	update.Apply(reg)
	return reg, nil
}

func (f *fakeRegistrationService) DeleteRegistration(_ context.Context, id, callerID string) error {
	f.lastID, f.lastCallerID = id, callerID
	return f.err
}
