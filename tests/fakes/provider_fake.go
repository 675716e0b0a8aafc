package fakes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/systmms/valt/pkg/provider"
)

// FakeProvider is a manual fake implementation of provider.Provider and
// provider.Writer.
//
// It stores values in memory keyed by "source:key" and can be configured to
// return specific errors.
//
// Example usage:
//
//	fake := fakes.NewFakeProvider("aws").
//	    WithValue("app/prod", "password", "secret123").
//	    WithError("app/prod", "api_key", errors.New("connection failed"))
//
//	secret, err := fake.Resolve(ctx, provider.Reference{Source: "app/prod", Key: "password"})
type FakeProvider struct {
	name string

	values       map[string]string
	failOn       map[string]error
	failWrite    error
	resolveDelay time.Duration
	callCount    map[string]int

	mu sync.RWMutex
}

// NewFakeProvider creates a new FakeProvider with the given name.
func NewFakeProvider(name string) *FakeProvider {
	return &FakeProvider{
		name:      name,
		values:    make(map[string]string),
		failOn:    make(map[string]error),
		callCount: make(map[string]int),
	}
}

// WithValue stores value under source:key.
func (f *FakeProvider) WithValue(source, key, value string) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[refKey(source, key)] = value
	return f
}

// WithError makes Resolve and Current fail for source:key.
func (f *FakeProvider) WithError(source, key string, err error) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failOn[refKey(source, key)] = err
	return f
}

// WithWriteError makes every Write fail.
func (f *FakeProvider) WithWriteError(err error) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failWrite = err
	return f
}

// WithDelay adds artificial latency to Resolve calls.
func (f *FakeProvider) WithDelay(d time.Duration) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resolveDelay = d
	return f
}

// Name returns the provider's tag.
func (f *FakeProvider) Name() string {
	return f.name
}

// Resolve returns the stored value, the configured error, or a NotFoundError.
func (f *FakeProvider) Resolve(ctx context.Context, ref provider.Reference) (provider.SecretValue, error) {
	f.trackCall("Resolve")

	if f.resolveDelay > 0 {
		select {
		case <-time.After(f.resolveDelay):
		case <-ctx.Done():
			return provider.SecretValue{}, ctx.Err()
		}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	k := refKey(ref.Source, ref.Key)
	if err, ok := f.failOn[k]; ok {
		return provider.SecretValue{}, err
	}

	value, ok := f.values[k]
	if !ok {
		return provider.SecretValue{}, &provider.NotFoundError{
			Provider: f.name,
			Source:   ref.Source,
			Key:      ref.Key,
		}
	}

	return provider.SecretValue{
		Value:    value,
		Metadata: map[string]string{"provider": f.name},
	}, nil
}

// Current returns the stored value and whether it exists.
func (f *FakeProvider) Current(ctx context.Context, ref provider.Reference) (string, bool, error) {
	f.trackCall("Current")

	f.mu.RLock()
	defer f.mu.RUnlock()

	k := refKey(ref.Source, ref.Key)
	if err, ok := f.failOn[k]; ok {
		return "", false, err
	}
	value, ok := f.values[k]
	return value, ok, nil
}

// Write stores or deletes a value.
func (f *FakeProvider) Write(ctx context.Context, ref provider.Reference, value *string) error {
	f.trackCall("Write")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrite != nil {
		return f.failWrite
	}

	k := refKey(ref.Source, ref.Key)
	if value == nil {
		delete(f.values, k)
	} else {
		f.values[k] = *value
	}
	return nil
}

// Value returns what is currently stored under source:key.
func (f *FakeProvider) Value(source, key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[refKey(source, key)]
	return v, ok
}

// GetCallCount returns the number of times a method was called.
// Method names: "Resolve", "Current", "Write".
func (f *FakeProvider) GetCallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.callCount[method]
}

func (f *FakeProvider) trackCall(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.callCount[method]++
}

// String returns a string representation of the fake provider.
func (f *FakeProvider) String() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return fmt.Sprintf("FakeProvider{name=%s, values=%d}", f.name, len(f.values))
}

func refKey(source, key string) string {
	return source + ":" + key
}
