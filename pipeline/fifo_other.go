//go:build !unix

package pipeline

import "fmt"

// WriterProcessDir, MakeFifo, and RemoveWriterProcessDir require named
// pipes, which golang.org/x/sys/unix only exposes on unix platforms; the
// writer_process option is accordingly unix-only.

func WriterProcessDir() (string, error) {
	return "", fmt.Errorf("pipeline: writer_process is only supported on unix platforms")
}

func MakeFifo(name string) error {
	return fmt.Errorf("pipeline: writer_process is only supported on unix platforms")
}

func RemoveWriterProcessDir(dir string) error {
	return nil
}
