package artifacts

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ArchiveDirectory writes a gzip-compressed tarball of sourceDir to w.
// Entries are rooted at the top of the archive, so sourceDir itself is not
// a path component inside it. Symbolic links are stored as links and never
// followed, which keeps cyclic or external links from inflating the
// archive.
func ArchiveDirectory(sourceDir string, w io.Writer) error {
	gzipWriter := gzip.NewWriter(w)
	tarWriter := tar.NewWriter(gzipWriter)

	err := filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()

		_, err = io.Copy(tarWriter, file)
		return err
	})
	if err != nil {
		return NewArchiveError(fmt.Sprintf("writing archive entries from %q", sourceDir), err)
	}

	if err := tarWriter.Close(); err != nil {
		return NewArchiveError("finalizing tar stream", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return NewArchiveError("finalizing gzip stream", err)
	}
	return nil
}

// ExtractArchive unpacks a gzip-compressed tarball read from r into
// destDir, creating the directory if needed. Symbolic link entries are
// recreated as links.
func ExtractArchive(r io.Reader, destDir string) error {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return NewArchiveError("opening gzip stream", err)
	}
	defer func() { _ = gzipReader.Close() }()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return NewArchiveError(fmt.Sprintf("creating destination directory %q", destDir), err)
	}

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return NewArchiveError("reading tar header", err)
		}

		target := filepath.Join(destDir, filepath.FromSlash(header.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return NewArchiveError(fmt.Sprintf("archive entry %q escapes destination directory", header.Name), nil)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode).Perm()); err != nil {
				return NewArchiveError(fmt.Sprintf("creating directory %q", target), err)
			}
		case tar.TypeReg:
			if err := extractFile(tarReader, target, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return NewArchiveError(fmt.Sprintf("creating parent directory for %q", target), err)
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return NewArchiveError(fmt.Sprintf("creating symlink %q", target), err)
			}
		}
	}
	return nil
}

func extractFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return NewArchiveError(fmt.Sprintf("creating parent directory for %q", target), err)
	}
	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return NewArchiveError(fmt.Sprintf("creating file %q", target), err)
	}
	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		return NewArchiveError(fmt.Sprintf("writing file %q", target), err)
	}
	if err := file.Close(); err != nil {
		return NewArchiveError(fmt.Sprintf("closing file %q", target), err)
	}
	return nil
}
