package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned by Reveal after Destroy.
var ErrDestroyed = errors.New("sealed value has been destroyed")

// Sealed holds bytes encrypted in a memguard enclave.
type Sealed struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	empty     bool
	destroyed bool
}

// Seal moves data into an enclave. data is wiped.
func Seal(data []byte) *Sealed {
	if len(data) == 0 {
		// memguard refuses empty enclaves
		return &Sealed{empty: true}
	}
	return &Sealed{enclave: memguard.NewEnclave(data)}
}

// Reveal decrypts the value into a locked buffer, hands it to fn and wipes the
// buffer when fn returns. fn must not retain the slice.
func (s *Sealed) Reveal(fn func(plain []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed {
		return ErrDestroyed
	}
	if s.empty {
		return fn(nil)
	}

	locked, err := s.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()

	return fn(locked.Bytes())
}

// Destroy drops the enclave. It is idempotent.
func (s *Sealed) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enclave = nil
	s.destroyed = true
}

// Purge wipes all memguard state. Call it once on the way out of main.
func Purge() {
	memguard.Purge()
}
