package api

import (
	"context"
)

// MockClient for testing
type MockClient struct {
	InitTenantFunc   func(ctx context.Context, req *InitRequest) (*InitResponse, error)
	CheckTenantFunc  func(ctx context.Context, applicationID string) (*StatusResponse, error)
	GetPublicKeyFunc func(ctx context.Context, applicationID string) (*PublicKeyResponse, error)
}

func (m *MockClient) InitTenant(ctx context.Context, req *InitRequest) (*InitResponse, error) {
	if m.InitTenantFunc != nil {
		return m.InitTenantFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockClient) CheckTenant(ctx context.Context, applicationID string) (*StatusResponse, error) {
	if m.CheckTenantFunc != nil {
		return m.CheckTenantFunc(ctx, applicationID)
	}
	return nil, nil
}

func (m *MockClient) GetPublicKey(ctx context.Context, applicationID string) (*PublicKeyResponse, error) {
	if m.GetPublicKeyFunc != nil {
		return m.GetPublicKeyFunc(ctx, applicationID)
	}
	return nil, nil
}
