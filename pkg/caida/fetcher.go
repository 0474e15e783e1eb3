package caida

import (
	"compress/bzip2"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const (
	// BaseURL is the public archive of monthly serial-2 snapshots.
	BaseURL = "https://publicdata.caida.org/datasets/as-relationships/serial-2/"

	snapshotSuffix  = ".as-rel2.txt.bz2"
	maxMonthsBack   = 6
	downloadTimeout = 10 * time.Minute
)

// Fetcher downloads the most recent serial-2 snapshot from the CAIDA
// archive. Snapshots are published monthly with a YYYYMM01 date stamp; the
// fetcher walks backwards from the previous month until one exists.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher creates a fetcher for the public CAIDA archive.
func NewFetcher() *Fetcher {
	return &Fetcher{
		BaseURL: BaseURL,
		Client:  &http.Client{Timeout: downloadTimeout},
	}
}

// Download fetches the latest available snapshot into path, decompressed.
// When path already holds a file modified in the current or previous month
// the download is skipped; monthly publication means such a file is already
// the newest data.
func (f *Fetcher) Download(path string) error {
	if isCurrentSnapshot(path) {
		log.Printf("Relationships file %s is up to date, skipping download", path)
		return nil
	}

	month := time.Now().AddDate(0, -1, 0)
	for i := 0; i < maxMonthsBack; i++ {
		name := month.Format("200601") + "01" + snapshotSuffix
		url := f.BaseURL + name
		log.Printf("Trying %s", url)

		ok, err := f.tryDownload(url, path)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		month = month.AddDate(0, -1, 0)
	}
	return fmt.Errorf("no snapshot available in the last %d months", maxMonthsBack)
}

func (f *Fetcher) tryDownload(url, path string) (bool, error) {
	resp, err := f.Client.Get(url)
	if err != nil {
		return false, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetch snapshot: %s returned %s", url, resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	n, err := io.Copy(out, bzip2.NewReader(resp.Body))
	if err != nil {
		os.Remove(path)
		return false, fmt.Errorf("download snapshot: %w", err)
	}

	log.Printf("Downloaded %s (%d bytes decompressed)", path, n)
	return true, nil
}

// isCurrentSnapshot reports whether path holds a non-empty file modified in
// the current or previous month.
func isCurrentSnapshot(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return false
	}
	now := time.Now()
	mod := info.ModTime().Format("200601")
	return mod == now.Format("200601") || mod == now.AddDate(0, -1, 0).Format("200601")
}
