//go:build unix || linux || darwin || freebsd || openbsd || netbsd

package backing

// Default returns the store used when none is configured: the VM
// store, so demand paging is real.
func Default() Store {
	return NewVMStore()
}
