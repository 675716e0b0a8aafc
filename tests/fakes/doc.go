// Package fakes provides test doubles for valt's external boundaries.
//
// The fakes are manually implemented (not generated) so tests have precise
// control over stored values, failures and call counts.
//
// Usage:
//
//	client := fakes.NewFakeSecretsManagerClient().
//	    AddSecretString("app/prod", `{"password":"hunter2"}`)
//	store := providers.NewSecretStore(providers.WithSecretsManagerClient(client))
//	// Test store methods...
package fakes
