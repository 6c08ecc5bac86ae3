package upstream

import (
	"context"
	"net/http"

	"github.com/belalwws/noor-academy-sub008/internal/models"
)

// ReminderSettingsAPI reads and writes the reminder preference blob on the
// backend user profile. Not a collection, so it sits outside Resource.
type ReminderSettingsAPI struct {
	client *Client
}

// NewReminderSettingsAPI binds the API to a client.
func NewReminderSettingsAPI(client *Client) ReminderSettingsAPI {
	return ReminderSettingsAPI{client: client}
}

// Fetch loads the user's reminder settings.
func (a ReminderSettingsAPI) Fetch(ctx context.Context, userID string) (models.ReminderSettings, error) {
	var settings models.ReminderSettings
	err := a.client.Do(ctx, http.MethodGet, "/users/"+userID+"/reminder-settings/", nil, nil, &settings)
	return settings, err
}

// Update pushes the desired settings.
func (a ReminderSettingsAPI) Update(ctx context.Context, userID string, settings models.ReminderSettings) (models.ReminderSettings, error) {
	var echoed models.ReminderSettings
	err := a.client.Do(ctx, http.MethodPatch, "/users/"+userID+"/reminder-settings/", nil, settings, &echoed)
	return echoed, err
}
