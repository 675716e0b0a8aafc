package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/logging"
	"github.com/systmms/valt/pkg/provider"
)

// SecretsManagerClientAPI defines the subset of the AWS Secrets Manager client
// used by the store. This allows for fakes in tests.
type SecretsManagerClientAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
}

// AWSOptions configures how the SDK client is built.
type AWSOptions struct {
	Region          string
	Endpoint        string // LocalStack or testing
	AccessKeyID     string
	SecretAccessKey string
}

// LoadAWSConfig builds an SDK config from the default credential chain,
// overridden by opts where set.
func LoadAWSConfig(ctx context.Context, opts AWSOptions) (aws.Config, error) {
	var configOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		configOpts = append(configOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if opts.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return cfg, nil
}

// SecretStore resolves values from JSON documents stored in AWS Secrets
// Manager. Documents are fetched once per secret and cached.
type SecretStore struct {
	opts   AWSOptions
	cache  *DocumentCache
	logger *logging.Logger

	once    sync.Once
	client  SecretsManagerClientAPI
	initErr error
}

// SecretStoreOption is a functional option for configuring the store
type SecretStoreOption func(*SecretStore)

// WithSecretsManagerClient sets a custom Secrets Manager client (for testing)
func WithSecretsManagerClient(client SecretsManagerClientAPI) SecretStoreOption {
	return func(s *SecretStore) {
		s.client = client
	}
}

// WithAWSOptions sets region, endpoint and static credentials.
func WithAWSOptions(opts AWSOptions) SecretStoreOption {
	return func(s *SecretStore) {
		s.opts = opts
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *logging.Logger) SecretStoreOption {
	return func(s *SecretStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSecretStore creates a store. The SDK client is built lazily on first use
// so that configurations without aws sources never touch AWS settings.
func NewSecretStore(opts ...SecretStoreOption) *SecretStore {
	s := &SecretStore{
		cache:  NewDocumentCache(),
		logger: logging.New(false, true),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider tag
func (s *SecretStore) Name() string {
	return "aws"
}

// Cache exposes the document cache.
func (s *SecretStore) Cache() *DocumentCache {
	return s.cache
}

// Resolve returns the string field ref.Key of the secret ref.Source. A missing
// secret is an empty document; a missing key is an error.
func (s *SecretStore) Resolve(ctx context.Context, ref provider.Reference) (provider.SecretValue, error) {
	doc, err := s.Document(ctx, ref.Source)
	if err != nil {
		return provider.SecretValue{}, err
	}

	value, ok := doc.String(ref.Key)
	if !ok {
		return provider.SecretValue{}, dserrors.UserError{
			Message:    fmt.Sprintf("Key %s not found in secret value for %s", ref.Key, ref.Source),
			Suggestion: "Check if the key exists in the secret",
			Err:        dserrors.ErrSecretKeyMissing,
		}
	}

	return provider.SecretValue{
		Value: value,
		Metadata: map[string]string{
			"provider": s.Name(),
			"secret":   ref.Source,
			"key":      ref.Key,
		},
	}, nil
}

// Current returns the field's value without treating a missing key as an error.
func (s *SecretStore) Current(ctx context.Context, ref provider.Reference) (string, bool, error) {
	doc, err := s.Document(ctx, ref.Source)
	if err != nil {
		return "", false, err
	}
	value, ok := doc.String(ref.Key)
	return value, ok, nil
}

// Write sets or deletes a single field and puts the whole document back.
func (s *SecretStore) Write(ctx context.Context, ref provider.Reference, value *string) error {
	doc, err := s.Document(ctx, ref.Source)
	if err != nil {
		return err
	}

	if value != nil {
		doc[ref.Key] = *value
	} else {
		delete(doc, ref.Key)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return dserrors.UserError{
			Message: fmt.Sprintf("Failed to encode secret value for %s", ref.Source),
			Details: err.Error(),
			Err:     dserrors.ErrSecretWrite,
		}
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(ref.Source),
		SecretString: aws.String(string(data)),
	})
	if err != nil {
		return dserrors.ProviderError(s.Name(), "set", ref.Source, dserrors.ErrSecretWrite, err)
	}
	s.logger.Debug("Wrote %d fields to %s", len(doc), ref.Source)

	return s.cache.Put(ref.Source, doc)
}

// Document returns a private copy of the secret's document, fetching it on
// the first request.
func (s *SecretStore) Document(ctx context.Context, secret string) (Document, error) {
	doc, ok, err := s.cache.Get(secret)
	if err != nil {
		return nil, dserrors.UserError{
			Message: fmt.Sprintf("Failed to read cached secret value for %s", secret),
			Details: err.Error(),
			Err:     dserrors.ErrSecretFetch,
		}
	}
	if ok {
		s.logger.Debug("Using cached secret %s", secret)
		return doc, nil
	}

	doc, err = s.fetch(ctx, secret)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(secret, doc); err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

func (s *SecretStore) fetch(ctx context.Context, secret string) (Document, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Fetching secret %s", secret)
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secret),
	})
	if err != nil {
		if isNotFoundError(err) {
			s.logger.Debug("Secret %s does not exist, using an empty document", secret)
			return Document{}, nil
		}
		return nil, dserrors.ProviderError(s.Name(), "get", secret, dserrors.ErrSecretFetch, err)
	}

	var raw []byte
	if result.SecretString != nil {
		raw = []byte(*result.SecretString)
	} else if result.SecretBinary != nil {
		raw = result.SecretBinary
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Secret value is empty for %s", secret),
			Suggestion: "Check if the secret value is a valid JSON string",
			Err:        dserrors.ErrSecretMalformed,
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Failed to parse secret value for %s", secret),
			Details:    err.Error(),
			Suggestion: "Check if the secret value is a valid JSON string",
			Err:        dserrors.ErrSecretMalformed,
		}
	}

	object, ok := data.(map[string]interface{})
	if !ok {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Secret value is not an object for %s", secret),
			Suggestion: "Check if the secret value is a valid JSON string",
			Err:        dserrors.ErrSecretMalformed,
		}
	}
	return Document(object), nil
}

func (s *SecretStore) getClient(ctx context.Context) (SecretsManagerClientAPI, error) {
	s.once.Do(func() {
		if s.client != nil {
			return
		}
		cfg, err := LoadAWSConfig(ctx, s.opts)
		if err != nil {
			s.initErr = dserrors.UserError{
				Message:    "Failed to configure AWS Secrets Manager client",
				Details:    err.Error(),
				Suggestion: "Check your AWS profile and region settings",
				Err:        errors.Join(dserrors.ErrSecretFetch, err),
			}
			return
		}
		s.client = secretsmanager.NewFromConfig(cfg)
	})
	return s.client, s.initErr
}

func isNotFoundError(err error) bool {
	var resourceNotFound *types.ResourceNotFoundException
	return errors.As(err, &resourceNotFound)
}
