package fakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// FakeSecretsManagerClient is an in-memory Secrets Manager. It implements the
// narrow client interface consumed by providers.SecretStore.
type FakeSecretsManagerClient struct {
	mu sync.Mutex

	// Secrets maps secret names to their SecretString
	Secrets map[string]string
	// Binary maps secret names to SecretBinary payloads
	Binary map[string][]byte
	// Errors maps secret names to errors returned by GetSecretValue
	Errors map[string]error
	// PutErrors maps secret names to errors returned by PutSecretValue
	PutErrors map[string]error

	// GetCalls counts GetSecretValue calls per secret
	GetCalls map[string]int
	// PutCalls records every SecretString written, in order
	PutCalls []PutCall
}

// PutCall is one recorded PutSecretValue request.
type PutCall struct {
	SecretID     string
	SecretString string
}

// NewFakeSecretsManagerClient creates a new fake Secrets Manager client
func NewFakeSecretsManagerClient() *FakeSecretsManagerClient {
	return &FakeSecretsManagerClient{
		Secrets:   make(map[string]string),
		Binary:    make(map[string][]byte),
		Errors:    make(map[string]error),
		PutErrors: make(map[string]error),
		GetCalls:  make(map[string]int),
	}
}

// AddSecretString adds a string secret
func (f *FakeSecretsManagerClient) AddSecretString(name, value string) *FakeSecretsManagerClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Secrets[name] = value
	return f
}

// AddSecretBinary adds a binary secret
func (f *FakeSecretsManagerClient) AddSecretBinary(name string, value []byte) *FakeSecretsManagerClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Binary[name] = value
	return f
}

// AddError configures GetSecretValue to fail for a specific secret
func (f *FakeSecretsManagerClient) AddError(name string, err error) *FakeSecretsManagerClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[name] = err
	return f
}

// AddPutError configures PutSecretValue to fail for a specific secret
func (f *FakeSecretsManagerClient) AddPutError(name string, err error) *FakeSecretsManagerClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PutErrors[name] = err
	return f
}

// SecretString returns the stored string for name.
func (f *FakeSecretsManagerClient) SecretString(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.Secrets[name]
	return v, ok
}

// GetCount returns how many times name was fetched.
func (f *FakeSecretsManagerClient) GetCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetCalls[name]
}

// GetSecretValue returns the stored secret or ResourceNotFoundException
func (f *FakeSecretsManagerClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(params.SecretId)
	f.GetCalls[name]++

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	out := &secretsmanager.GetSecretValueOutput{
		ARN:  aws.String(fmt.Sprintf("arn:aws:secretsmanager:us-east-1:123456789012:secret:%s", name)),
		Name: params.SecretId,
	}
	if value, ok := f.Secrets[name]; ok {
		out.SecretString = aws.String(value)
		return out, nil
	}
	if value, ok := f.Binary[name]; ok {
		out.SecretBinary = value
		return out, nil
	}

	return nil, &types.ResourceNotFoundException{
		Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", name)),
	}
}

// PutSecretValue stores the new SecretString, creating the secret if needed
func (f *FakeSecretsManagerClient) PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(params.SecretId)
	if err, exists := f.PutErrors[name]; exists {
		return nil, err
	}

	value := aws.ToString(params.SecretString)
	f.Secrets[name] = value
	delete(f.Binary, name)
	f.PutCalls = append(f.PutCalls, PutCall{SecretID: name, SecretString: value})

	return &secretsmanager.PutSecretValueOutput{
		Name:      params.SecretId,
		VersionId: aws.String(fmt.Sprintf("v%d", len(f.PutCalls))),
	}, nil
}

// FakeSTSClient answers GetCallerIdentity with a fixed identity or error.
type FakeSTSClient struct {
	Account string
	Arn     string
	UserID  string
	Err     error
	Calls   int
}

// NewFakeSTSClient creates a fake that reports the given account.
func NewFakeSTSClient(account string) *FakeSTSClient {
	return &FakeSTSClient{
		Account: account,
		Arn:     fmt.Sprintf("arn:aws:iam::%s:user/test", account),
		UserID:  "AIDATESTUSER",
	}
}

// GetCallerIdentity returns the configured identity
func (f *FakeSTSClient) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String(f.Account),
		Arn:     aws.String(f.Arn),
		UserId:  aws.String(f.UserID),
	}, nil
}
