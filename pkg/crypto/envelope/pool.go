package envelope

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many PBKDF2 derivations run at once so a burst of vault reads
// cannot starve the HTTP server of CPU.
type Pool struct {
	sem     *semaphore.Weighted
	workers int
}

// NewPool creates a pool with the given number of concurrent cipher operations.
// workers <= 0 uses runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: workers,
	}
}

// Workers reports the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Encrypt waits for a free slot, then runs Encrypt.
func (p *Pool) Encrypt(ctx context.Context, plaintext, secret string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)
	return Encrypt(plaintext, secret)
}

// Decrypt waits for a free slot, then runs Decrypt.
func (p *Pool) Decrypt(ctx context.Context, blob, secret string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)
	return Decrypt(blob, secret)
}
