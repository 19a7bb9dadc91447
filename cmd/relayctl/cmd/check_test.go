package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaydesk/discord-relay/internal/cli/api"
)

func TestCheckCommandValid(t *testing.T) {
	mockClient := &api.MockClient{
		CheckTenantFunc: func(ctx context.Context, applicationID string) (*api.StatusResponse, error) {
			assert.Equal(t, "app-1", applicationID)
			return &api.StatusResponse{Success: true, Message: "Discord configuration valid"}, nil
		},
	}

	cmd := newCheckCmd(mockClient)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"app-1"})

	err := cmd.Execute()
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Discord configuration valid")
}

func TestCheckCommandInvalid(t *testing.T) {
	mockClient := &api.MockClient{
		CheckTenantFunc: func(ctx context.Context, applicationID string) (*api.StatusResponse, error) {
			return &api.StatusResponse{Success: false, Message: "Discord configuration invalid"}, nil
		},
	}

	cmd := newCheckCmd(mockClient)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"app-1"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "Discord configuration invalid")
}
