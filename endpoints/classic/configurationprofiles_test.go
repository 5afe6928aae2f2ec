// endpoints/classic/configurationprofiles_test.go
package classic

import (
	"context"
	"errors"
	"testing"

	"github.com/deploymenttheory/go-jamfpi/apierrors"
	"github.com/deploymenttheory/go-jamfpi/config"
	"github.com/deploymenttheory/go-jamfpi/endpoints/endpointstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesURL = "https://acme.jamfcloud.com/JSSResource/osxconfigurationprofiles"

func TestConfigurationProfiles_GetAll(t *testing.T) {
	tests := []struct {
		format string
		accept string
	}{
		{"json", "application/json"},
		{"XML", "application/xml"},
		{"", "application/xml"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			d := endpointstest.New(config.FamilyClassic)
			resp, err := NewConfigurationProfiles(d).GetAll(context.Background(), tt.format)
			require.NoError(t, err)
			resp.Body.Close()

			reqs := d.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "GET", reqs[0].Method)
			assert.Equal(t, profilesURL, reqs[0].URL)
			assert.Equal(t, tt.accept, reqs[0].Header.Get("Accept"))
		})
	}
}

func TestConfigurationProfiles_UnsupportedFormat(t *testing.T) {
	d := endpointstest.New(config.FamilyClassic)
	profiles := NewConfigurationProfiles(d)

	_, err := profiles.GetAll(context.Background(), "yaml")
	var reqErr *apierrors.RequestValidationError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "yaml", reqErr.Value)

	_, err = profiles.GetByID(context.Background(), 1, "yaml")
	require.True(t, errors.As(err, &reqErr))

	assert.Empty(t, d.Requests(), "no request may be issued for an invalid format")
}

func TestConfigurationProfiles_GetByID(t *testing.T) {
	d := endpointstest.New(config.FamilyClassic)
	resp, err := NewConfigurationProfiles(d).GetByID(context.Background(), 12, "json")
	require.NoError(t, err)
	resp.Body.Close()

	reqs := d.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, profilesURL+"/id/12", reqs[0].URL)
	assert.Equal(t, "application/json", reqs[0].Header.Get("Accept"))
}

func TestConfigurationProfiles_Writes(t *testing.T) {
	const doc = "<os_x_configuration_profile><general><name>Wi-Fi</name></general></os_x_configuration_profile>"
	d := endpointstest.New(config.FamilyClassic)
	profiles := NewConfigurationProfiles(d)
	ctx := context.Background()

	_, err := profiles.UpdateByID(ctx, 3, doc)
	require.NoError(t, err)
	_, err = profiles.Create(ctx, doc)
	require.NoError(t, err)
	_, err = profiles.DeleteByID(ctx, 3)
	require.NoError(t, err)

	reqs := d.Requests()
	require.Len(t, reqs, 3)

	assert.Equal(t, "PUT", reqs[0].Method)
	assert.Equal(t, profilesURL+"/id/3", reqs[0].URL)
	assert.Equal(t, "text/xml", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, doc, reqs[0].Body)

	assert.Equal(t, "POST", reqs[1].Method)
	assert.Equal(t, profilesURL+"/id/0", reqs[1].URL)
	assert.Equal(t, "text/xml", reqs[1].Header.Get("Content-Type"))
	assert.Equal(t, doc, reqs[1].Body)

	assert.Equal(t, "DELETE", reqs[2].Method)
	assert.Equal(t, profilesURL+"/id/3", reqs[2].URL)
}

func TestConfigurationProfiles_InvalidID(t *testing.T) {
	d := endpointstest.New(config.FamilyClassic)
	profiles := NewConfigurationProfiles(d)
	ctx := context.Background()

	var reqErr *apierrors.RequestValidationError
	_, err := profiles.GetByID(ctx, 0, "xml")
	assert.True(t, errors.As(err, &reqErr))
	_, err = profiles.UpdateByID(ctx, -1, "<x/>")
	assert.True(t, errors.As(err, &reqErr))
	_, err = profiles.DeleteByID(ctx, 0)
	assert.True(t, errors.As(err, &reqErr))

	assert.Empty(t, d.Requests())
}
