// SPDX-License-Identifier: MPL-2.0

//go:build windows

package lockfile

import (
	"os"

	"golang.org/x/sys/windows"
)

// tryLock creates the lock file with an exclusive sharing mode, which
// fails while another process holds it open.
func tryLock(lockPath string) (func() error, error) {
	p, err := windows.UTF16PtrFromString(lockPath)
	if err != nil {
		return nil, err
	}

	h, err := windows.CreateFile(
		p,
		windows.GENERIC_WRITE,
		0, // no sharing: others cannot open the file while we hold it
		nil,
		windows.CREATE_ALWAYS,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, err
	}

	f := os.NewFile(uintptr(h), lockPath)
	return f.Close, nil
}
