package report

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"time"
)

// fixedModTime is the timestamp FastQC-style zip archives use for every
// entry, so two runs over identical input produce byte-identical zips.
var fixedModTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// ZipRenderer wraps dir's rendered files into <sample>_fastqc.zip next to
// it, writing to a temp file first so a failed run never leaves a
// half-written archive behind.
type ZipRenderer struct {
	SampleName string
}

func (z ZipRenderer) Render(dir string, m *Metrics) error {
	root := z.SampleName + "_fastqc"
	zipName := z.SampleName + "_fastqc.zip"
	parent := filepath.Dir(dir)
	zipPath := filepath.Join(parent, zipName)
	tmpPath := zipPath + ".tmp"

	if err := writeZipEntries(tmpPath, dir, root); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, zipPath)
}

func writeZipEntries(tmpPath, dir, root string) error {
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if _, err := zw.CreateHeader(&zip.FileHeader{
		Name:     root + "/",
		Modified: fixedModTime,
	}); err != nil {
		return err
	}

	for _, name := range []string{"fastqc_data.txt", "summary.txt", "fastqc_report.html"} {
		if err := addFile(zw, filepath.Join(dir, name), root+"/"+name); err != nil {
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, srcPath, zipPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	hdr := &zip.FileHeader{
		Name:     zipPath,
		Method:   zip.Deflate,
		Modified: fixedModTime,
	}
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
