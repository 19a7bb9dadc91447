package api

import (
	"context"
)

// Client is the interface for talking to the relay's admin endpoints.
type Client interface {
	InitTenant(ctx context.Context, req *InitRequest) (*InitResponse, error)
	CheckTenant(ctx context.Context, applicationID string) (*StatusResponse, error)
	GetPublicKey(ctx context.Context, applicationID string) (*PublicKeyResponse, error)
}
