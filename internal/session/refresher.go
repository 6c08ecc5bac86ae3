package session

import (
	"context"
	"net/http"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
)

// UpstreamRefresher renews the session against the backend's token refresh
// endpoint. It uses an unauthenticated client: the refresh token itself is
// the credential.
type UpstreamRefresher struct {
	client *upstream.Client
}

// NewUpstreamRefresher builds a refresher.
func NewUpstreamRefresher(client *upstream.Client) *UpstreamRefresher {
	return &UpstreamRefresher{client: client}
}

// Refresh implements Refresher.
func (r *UpstreamRefresher) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	payload := map[string]string{"refresh": refreshToken}
	if err := r.client.Do(ctx, http.MethodPost, "/auth/token/refresh/", nil, payload, &resp); err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: resp.Access, RefreshToken: resp.Refresh}, nil
}
