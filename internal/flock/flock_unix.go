//go:build unix

package flock

import "syscall"

// exclusive takes an exclusive flock(2) lock without blocking. Fails
// immediately when another process already holds the lock.
func exclusive(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_EX|syscall.LOCK_NB)
}

// unlock drops the flock(2) lock held on fd.
func unlock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_UN)
}
