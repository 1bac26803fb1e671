package user

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/darasahq/darasa/core/cache"
	"github.com/darasahq/darasa/gateway"
)

var ErrNotFound = errors.New("user not found")

const listKeyPrefix = "users:"

// Service wraps the admin user endpoints.
type Service struct {
	api   *gateway.Client
	cache *cache.Cache
}

func NewService(api *gateway.Client, c *cache.Cache) *Service {
	return &Service{api: api, cache: c}
}

// List pages through accounts; page defaults to 1 and limit to 10.
func (svc *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(filter.Page))
	params.Set("limit", strconv.Itoa(filter.Limit))
	params.Set("search", filter.Search)
	params.Set("role", filter.Role)
	params.Set("status", filter.Status)

	key := listKeyPrefix + params.Encode()
	if cached, ok := svc.cache.Get(key); ok {
		if res, ok := cached.(ListResult); ok {
			return res, nil
		}
	}

	var res ListResult
	if err := svc.api.Get(ctx, "/users", params, &res); err != nil {
		return ListResult{}, err
	}
	svc.cache.Set(key, res)
	return res, nil
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) error {
	if err := uu.Validate(); err != nil {
		return err
	}
	if err := svc.api.Put(ctx, "/users/"+id, uu, nil); err != nil {
		if gateway.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	svc.cache.InvalidatePrefix(listKeyPrefix)
	return nil
}

func (svc *Service) UpdateStatus(ctx context.Context, id, status string) error {
	return svc.Update(ctx, id, UpdateUser{Status: status})
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.api.Delete(ctx, "/users/"+id); err != nil {
		if gateway.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	svc.cache.InvalidatePrefix(listKeyPrefix)
	return nil
}
