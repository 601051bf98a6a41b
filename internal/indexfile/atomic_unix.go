//go:build !windows

package indexfile

import (
	"io"

	"github.com/google/renameio"
)

func writeAtomic(path string, fill func(io.Writer) error) error {
	pf, err := renameio.TempFile("", path)
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	if err := fill(pf); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}
