// Package archive packs a staged distribution directory into a tar.gz file
// whose entries live under a single versioned top-level directory.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"distpack/internal/paths"
)

const copyBufferSize = 32 * 1024

// topLevelExcludes lists dist files that stay out of the archive: they drive
// local installs, not the shipped tree.
var topLevelExcludes = map[string]bool{
	"Makefile": true,
	"VERSION":  true,
}

// Writer archives the staged distribution directory.
type Writer struct {
	Paths paths.ProjectPaths
	Log   *log.Logger
}

// Write creates <root>/<stem>.tar.gz from the distribution directory and
// returns the archive path. A failed run leaves the partial file behind.
func (w *Writer) Write(stem string) (string, error) {
	return w.WriteFile(stem, w.Paths.ArchiveFile(stem))
}

// WriteFile archives the distribution directory to an explicit destination.
func (w *Writer) WriteFile(stem, dest string) (string, error) {
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create archive %s: %w", dest, err)
	}
	if err := w.writeStream(out, stem); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close archive %s: %w", dest, err)
	}
	w.logf("archived %s -> %s", w.Paths.DistDir, dest)
	return dest, nil
}

func (w *Writer) writeStream(out io.Writer, stem string) error {
	gz, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("gzip writer: %w", err)
	}
	tw := tar.NewWriter(gz)

	if err := w.writeTree(tw, stem); err != nil {
		tw.Close()
		gz.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return nil
}

// writeTree walks the distribution directory in lexical order so identical
// layouts produce identical entry sequences.
func (w *Writer) writeTree(tw *tar.Writer, stem string) error {
	if err := tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     stem + "/",
		Mode:     0o755,
		ModTime:  time.Now(),
	}); err != nil {
		return fmt.Errorf("write stem header: %w", err)
	}

	buf := make([]byte, copyBufferSize)
	count := 0
	root := w.Paths.DistDir
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !d.IsDir() && !strings.Contains(rel, "/") && topLevelExcludes[rel] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", rel, err)
		}
		if !d.IsDir() && !info.Mode().IsRegular() {
			w.logf("skipping irregular entry %s", rel)
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("tar header %s: %w", rel, err)
		}
		header.Name = stem + "/" + rel
		if d.IsDir() {
			header.Name += "/"
		}
		header.Uid = 0
		header.Gid = 0
		header.Uname = ""
		header.Gname = ""
		if rel == "bin" || strings.HasPrefix(rel, "bin/") {
			header.Mode = 0o755
		}

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("write header %s: %w", rel, err)
		}
		if !d.IsDir() {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", rel, err)
			}
			if _, err := io.CopyBuffer(tw, file, buf); err != nil {
				file.Close()
				return fmt.Errorf("archive %s: %w", rel, err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", rel, err)
			}
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	w.logf("wrote %d entries under %s/", count+1, stem)
	return nil
}

func (w *Writer) logf(format string, args ...any) {
	if w.Log != nil {
		w.Log.Printf(format, args...)
	}
}
