package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaydesk/discord-relay/internal/cli/api"
)

func TestPublicKeyCommand(t *testing.T) {
	mockClient := &api.MockClient{
		GetPublicKeyFunc: func(ctx context.Context, applicationID string) (*api.PublicKeyResponse, error) {
			assert.Equal(t, "app-1", applicationID)
			return &api.PublicKeyResponse{PublicKey: "deadbeef"}, nil
		},
	}

	cmd := newPublicKeyCmd(mockClient)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"app-1"})

	err := cmd.Execute()
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "deadbeef")
}

func TestPublicKeyCommandNotFound(t *testing.T) {
	mockClient := &api.MockClient{
		GetPublicKeyFunc: func(ctx context.Context, applicationID string) (*api.PublicKeyResponse, error) {
			return nil, errors.New("relay returned 404: Public key not configured")
		},
	}

	cmd := newPublicKeyCmd(mockClient)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"ghost"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "Public key not configured")
}
