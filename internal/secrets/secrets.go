// Package secrets resolves sensitive settings from Google Secret Manager.
package secrets

import (
	"context"
	"fmt"
	"strings"

	"gurukul/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// Accessor reads the payload of a secret version.
type Accessor interface {
	Access(ctx context.Context, name string) (string, error)
}

type secretManagerAccessor struct {
	client *secretmanager.Client
}

// NewSecretManagerAccessor opens a Secret Manager client with application default credentials.
func NewSecretManagerAccessor(ctx context.Context, opts ...option.ClientOption) (Accessor, func() error, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerAccessor{client: client}, client.Close, nil
}

func (a *secretManagerAccessor) Access(ctx context.Context, name string) (string, error) {
	result, err := a.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version %s: %w", name, err)
	}
	return string(result.Payload.Data), nil
}

// VersionName expands a short secret id into a full resource name. Names that
// are already fully qualified are returned unchanged.
func VersionName(projectID, secret string) string {
	if strings.HasPrefix(secret, "projects/") {
		if strings.Contains(secret, "/versions/") {
			return secret
		}
		return secret + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secret)
}

// ResolveJWTSecret fills cfg.JWTSecret from Secret Manager when JWT_SECRET_NAME is set.
func ResolveJWTSecret(ctx context.Context, cfg *config.Config, accessor Accessor) error {
	if cfg.JWTSecretName == "" {
		return nil
	}
	if !strings.HasPrefix(cfg.JWTSecretName, "projects/") && cfg.GCPProjectID == "" {
		return fmt.Errorf("JWT_SECRET_NAME %q needs GCP_PROJECT_ID or a full resource name", cfg.JWTSecretName)
	}
	value, err := accessor.Access(ctx, VersionName(cfg.GCPProjectID, cfg.JWTSecretName))
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("secret %s is empty", cfg.JWTSecretName)
	}
	cfg.JWTSecret = value
	return nil
}
