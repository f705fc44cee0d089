// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pyenv

import (
	"fmt"
	"os"
	"time"
)

// Advisory lock guarding first-run environment creation. Without it two
// launchers starting on a fresh profile would race `-m venv` into the
// same directory and leave partial state behind.
var (
	lockStaleAfter = 10 * time.Minute
	lockPollEvery  = 100 * time.Millisecond
	lockWaitMax    = 5 * time.Minute
)

// acquireLock takes the advisory lock file at path, waiting for a
// current holder to release it. A lock older than lockStaleAfter is
// treated as abandoned by a dead process and broken. The returned
// release func removes the lock.
func acquireLock(path string) (release func(), err error) {
	deadline := time.Now().Add(lockWaitMax)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lock %s: %w", path, err)
		}

		if info, statErr := os.Stat(path); statErr == nil && time.Since(info.ModTime()) > lockStaleAfter {
			os.Remove(path)
			continue
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf(
				"environment lock %s held for more than %v; remove it if no other launcher is running", path, lockWaitMax)
		}
		time.Sleep(lockPollEvery)
	}
}
