package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
)

type CommunityService interface {
	Create(ctx context.Context, in api.NewCommunity) (api.Community, error)
	Mine(ctx context.Context) ([]api.Community, error)
	Update(ctx context.Context, id api.ID, upd api.CommunityUpdate) (api.Community, error)
}

type communityService struct {
	api CommunityAPI
}

func NewCommunityService(client CommunityAPI) CommunityService {
	return &communityService{api: client}
}

// Create fills the first-post defaults before validating, so a community
// needs only name, description and visibility.
func (s *communityService) Create(ctx context.Context, in api.NewCommunity) (api.Community, error) {
	if in.Visibility == "" {
		in.Visibility = api.VisibilityPublic
	}
	if in.Title == "" {
		in.Title = in.Name
	}
	if in.Content == "" {
		in.Content = in.Description
	}
	if in.PostType == "" {
		in.PostType = api.PostTypeText
	}
	if err := validateInput(in); err != nil {
		return api.Community{}, err
	}

	c, err := s.api.CreateCommunity(ctx, in)
	if err != nil {
		return api.Community{}, fmt.Errorf("create community: %w", err)
	}
	return c, nil
}

func (s *communityService) Mine(ctx context.Context) ([]api.Community, error) {
	list, err := s.api.MyCommunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("get communities: %w", err)
	}
	return list, nil
}

func (s *communityService) Update(ctx context.Context, id api.ID, upd api.CommunityUpdate) (api.Community, error) {
	if id == "" {
		return api.Community{}, fmt.Errorf("update community: %w", errMissingID)
	}
	if err := validateInput(upd); err != nil {
		return api.Community{}, err
	}
	c, err := s.api.UpdateCommunity(ctx, id, upd)
	if err != nil {
		return api.Community{}, fmt.Errorf("update community %s: %w", id, err)
	}
	return c, nil
}
