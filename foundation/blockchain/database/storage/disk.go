// Package storage implements the append only chain log on disk. The file
// is the raw concatenation of block serializations with no framing;
// boundaries are recovered because each block is self delimited.
package storage

import (
	"errors"
	"io/fs"
	"os"
)

// Disk represents the chain log persistence. The file is opened in append
// mode for each write and closed immediately, so durability is best
// effort and there is nothing to hold open between calls.
type Disk struct {
	path string
}

// NewDisk constructs a Disk value for the specified log path.
func NewDisk(path string) *Disk {
	return &Disk{path: path}
}

// Append writes the serialized block to the end of the log.
func (d *Disk) Append(data []byte) error {
	f, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// ReadAll returns the full contents of the log. A missing file is an
// empty chain, not an error.
func (d *Disk) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	return data, nil
}

// Close has nothing to do since the file is opened and closed per write.
func (d *Disk) Close() error {
	return nil
}
