// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// client captures the methods of interest from the Secrets Manager API. This
// should help mock API calls as well.
type client interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager resolves secrets from AWS Secrets Manager. No value is
// cached; every Resolve is a fresh GetSecretValue call.
type SecretsManager struct {
	c client
}

// NewSecretsManager builds a resolver from the shared AWS config.
func NewSecretsManager(cfg aws.Config) *SecretsManager {
	return &SecretsManager{c: secretsmanager.NewFromConfig(cfg)}
}

func (s *SecretsManager) Resolve(ctx context.Context, name string) (string, error) {
	out, err := s.c.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", handleClientError(name, err)
	}
	if out == nil || out.SecretString == nil {
		return "", ErrSecretEmpty
	}
	return *out.SecretString, nil
}

func handleClientError(name string, err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("secretsmanager %s: %w", apiErr.ErrorCode(), err)
	}
	return err
}
