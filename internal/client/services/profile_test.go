package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileAPI struct {
	Profile api.Profile
	Last    *api.ProfileUpdate
}

func (f *fakeProfileAPI) CurrentProfile(context.Context) (api.Profile, error) {
	return f.Profile, nil
}

func (f *fakeProfileAPI) UpdateProfile(_ context.Context, upd api.ProfileUpdate) (api.Profile, error) {
	f.Last = &upd
	p := f.Profile
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	return p, nil
}

func TestProfileUpdate(t *testing.T) {
	fa := &fakeProfileAPI{Profile: api.Profile{Username: "alice"}}
	svc := NewProfileService(fa)
	ctx := context.Background()

	_, err := svc.Update(ctx, api.ProfileUpdate{})
	require.ErrorIs(t, err, common.ErrInvalidInput)
	require.ErrorContains(t, err, "nothing to update")

	email := "nope"
	_, err = svc.Update(ctx, api.ProfileUpdate{Email: &email})
	require.ErrorIs(t, err, common.ErrInvalidInput)
	require.ErrorContains(t, err, "email must be a valid email address")
	assert.Nil(t, fa.Last)

	bio := "gopher"
	p, err := svc.Update(ctx, api.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "gopher", p.Bio)
	require.NotNil(t, fa.Last)
	assert.Nil(t, fa.Last.Email)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name())
}
