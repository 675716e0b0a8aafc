// Package provider defines the contract between the valt resolution engine and
// the value sources it consults.
//
// A Provider turns a fully resolved Reference into either a value or a defined
// absence. The engine never inspects provider internals; it only relies on the
// error semantics described here:
//
//   - NotFoundError means "no value here". The engine moves on to the next
//     source without treating it as a failure.
//   - Any other error is a failure. Whether a failure aborts the variable
//     depends on the variable's policy, not on the provider.
//
// Two implementations live in internal/providers: the AWS Secrets Manager store
// and the dotenv file reader. Tests substitute either with tests/fakes.
//
// # References
//
// A Reference names the provider, a source and a key inside it:
//
//	Reference{Provider: "aws", Source: "app/prod", Key: "DB_PASS"}
//	Reference{Provider: "dotenv", Source: ".env.local", Key: "DB_PASS"}
//
// # Writing
//
// Providers that can persist values also implement Writer. Writes replace the
// whole backing document; a nil value deletes the key.
package provider
