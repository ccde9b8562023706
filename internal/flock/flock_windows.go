//go:build windows

package flock

import "golang.org/x/sys/windows"

// LockFileEx/UnlockFileEx take a byte range. Locking a single byte at
// offset zero is enough to guard the whole lock file.
const (
	lockReserved  = 0 // must be zero per the Win32 API
	lockBytesLow  = 1
	lockBytesHigh = 0
)

// exclusive takes an exclusive lock on the handle without blocking. Fails
// immediately when another process already holds the lock.
func exclusive(fd uintptr) error {
	return windows.LockFileEx(
		windows.Handle(fd),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}

// unlock drops the byte-range lock held on the handle.
func unlock(fd uintptr) error {
	return windows.UnlockFileEx(
		windows.Handle(fd),
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}
