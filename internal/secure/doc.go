// Package secure keeps secret material encrypted while it sits in memory.
//
// The secret store caches whole secret documents for the lifetime of the
// process. Those documents are sealed into memguard enclaves: they are
// encrypted at rest in memory, guarded against swapping, and only decrypted
// into a locked buffer for the duration of a Reveal callback.
//
//	sealed := secure.Seal([]byte(`{"password":"hunter2"}`))
//	defer sealed.Destroy()
//
//	err := sealed.Reveal(func(plain []byte) error {
//	    return json.Unmarshal(plain, &doc)
//	})
//
// Seal wipes the slice it is given. Callers that still need the bytes must
// pass a copy.
//
// Call Purge before the process exits to wipe every enclave and locked buffer.
package secure
