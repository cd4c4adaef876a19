package scaffold

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"

	"github.com/steveyegge/workup/internal/errs"
)

// Archive materialises root in a private working directory under workDir
// (the system temp directory when empty) and returns the deflated zip
// bytes. Entry paths are relative to root, slash separated and sorted. The
// working directory is removed before Archive returns, whatever the
// outcome.
func Archive(root *Node, workDir string) (data []byte, err error) {
	dir, err := os.MkdirTemp(workDir, "workup-scaffold-*")
	if err != nil {
		return nil, errs.ArchiveWrite("create working directory", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			data, err = nil, errs.ArchiveWrite("remove working directory", rmErr)
		}
	}()

	if err := materialise(root, dir); err != nil {
		return nil, err
	}
	return zipDir(dir)
}

func materialise(root *Node, dir string) error {
	return root.Walk(func(rel string, file *Node) error {
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errs.ArchiveWrite("create directory", err)
		}
		if err := os.WriteFile(target, []byte(file.Content), 0o644); err != nil {
			return errs.ArchiveWrite("write "+rel, err)
		}
		return nil
	})
}

func zipDir(dir string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		return addFile(zw, p, filepath.ToSlash(rel))
	})
	if walkErr != nil {
		_ = zw.Close()
		return nil, errs.ArchiveWrite("add files", walkErr)
	}
	if err := zw.Close(); err != nil {
		return nil, errs.ArchiveWrite("finalise zip", err)
	}
	return buf.Bytes(), nil
}

func addFile(zw *zip.Writer, src, name string) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
	hdr.SetMode(0o644)
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
