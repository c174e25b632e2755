package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/dmitrijs2005/hexsocial/internal/common"
)

var errMissingID = fmt.Errorf("%w: id is required", common.ErrInvalidInput)

var errEmptyUpdate = errors.New("nothing to update")

type ProfileService interface {
	Get(ctx context.Context) (api.Profile, error)
	Update(ctx context.Context, upd api.ProfileUpdate) (api.Profile, error)
}

type profileService struct {
	api ProfileAPI
}

func NewProfileService(client ProfileAPI) ProfileService {
	return &profileService{api: client}
}

func (s *profileService) Get(ctx context.Context) (api.Profile, error) {
	p, err := s.api.CurrentProfile(ctx)
	if err != nil {
		return api.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, upd api.ProfileUpdate) (api.Profile, error) {
	if upd == (api.ProfileUpdate{}) {
		return api.Profile{}, fmt.Errorf("%w: %w", common.ErrInvalidInput, errEmptyUpdate)
	}
	if err := validateInput(upd); err != nil {
		return api.Profile{}, err
	}
	p, err := s.api.UpdateProfile(ctx, upd)
	if err != nil {
		return api.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
