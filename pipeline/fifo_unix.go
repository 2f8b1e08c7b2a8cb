//go:build unix

package pipeline

import (
	"fmt"
	"os"
	"path"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// WriterProcessDir creates a fresh temporary directory for the
// writer_process mode's named pipes, following the teacher's pipedir
// convention (muscato.go's makeTemp: a uuid-tagged directory under /tmp).
func WriterProcessDir() (string, error) {
	xuid, err := uuid.NewUUID()
	if err != nil {
		return "", fmt.Errorf("pipeline: generating run id: %w", err)
	}
	dir := path.Join(os.TempDir(), "trimato-pipes-"+xuid.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("pipeline: creating pipe dir %q: %w", dir, err)
	}
	return dir, nil
}

// MakeFifo creates a named pipe at path name; an existing file at that path
// is accepted. No executor code calls it: the writer_process option does not
// change how RunSerial or RunParallel write output.
func MakeFifo(name string) error {
	if err := unix.Mkfifo(name, 0755); err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("pipeline: creating fifo %q: %w", name, err)
	}
	return nil
}

// RemoveWriterProcessDir cleans up a directory created by WriterProcessDir.
func RemoveWriterProcessDir(dir string) error {
	return os.RemoveAll(dir)
}
