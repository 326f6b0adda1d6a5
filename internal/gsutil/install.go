// SPDX-License-Identifier: MPL-2.0

// Package gsutil maintains a pinned gsutil installation and runs it with
// the right interpreter and authentication wrapping. The pinned copy is
// downloaded once into a versioned directory, verified against the
// upstream md5, and marked complete with a flag file; concurrent
// invocations serialize on an advisory lock.
package gsutil

import (
	"archive/zip"
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"depotkit/internal/lockfile"
)

const (
	// DefaultVersion is the pinned gsutil release.
	DefaultVersion = "4.68"

	defaultBaseURL = "https://storage.googleapis.com/pub/"
	defaultAPIURL  = "https://www.googleapis.com/storage/v1/b/pub/o/"

	installFlagName = "install.flag"
	lockTimeout     = 30 * time.Second
)

// ErrInvalidArchive reports a download whose content failed verification.
var ErrInvalidArchive = errors.New("invalid gsutil archive")

// Installer downloads and installs the pinned gsutil version.
type Installer struct {
	// Version of gsutil to install; DefaultVersion when empty.
	Version string
	// Target is the directory versioned installs live under.
	Target string
	// BaseURL and APIURL override the download endpoints in tests.
	BaseURL string
	APIURL  string
	// Client performs the HTTP requests; http.DefaultClient when nil.
	Client *http.Client

	// sleep is swapped in tests to avoid real backoff delays.
	sleep func(time.Duration)
}

// Ensure returns the path to a verified gsutil binary, downloading and
// installing it first when needed. clean forces a fresh download.
func (ins *Installer) Ensure(clean bool) (string, error) {
	version := ins.Version
	if version == "" {
		version = DefaultVersion
	}

	binDir := filepath.Join(ins.Target, "gsutil_"+version)
	gsutilBin := filepath.Join(binDir, "gsutil", "gsutil")
	installFlag := filepath.Join(binDir, "gsutil", installFlagName)

	// The flag file means a previous install completed fully.
	if !clean && fileExists(installFlag) {
		return gsutilBin, nil
	}

	if err := os.MkdirAll(ins.Target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create gsutil target dir: %w", err)
	}

	release, err := lockfile.Lock(binDir, lockTimeout)
	if err != nil {
		return "", err
	}
	defer func() { _ = release() }()

	// Another invocation may have finished the install while we waited.
	if !clean && fileExists(installFlag) {
		return gsutilBin, nil
	}

	instanceDir, err := os.MkdirTemp(ins.Target, "t")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(instanceDir)

	log.Debug("installing pinned gsutil", "version", version, "target", ins.Target)

	zipPath, err := ins.downloadWithRetry(version, instanceDir)
	if err != nil {
		return "", err
	}

	downloadDir := filepath.Join(instanceDir, "d")
	if err := extractZip(zipPath, downloadDir); err != nil {
		return "", err
	}

	// Move a corrupted previous install aside before swapping in the new
	// one; the rename fails harmlessly when there is nothing to replace.
	cleanupPath := filepath.Join(instanceDir, "clean")
	if err := os.Rename(binDir, cleanupPath); err == nil {
		_ = os.RemoveAll(cleanupPath)
	}

	if err := os.Rename(downloadDir, binDir); err != nil {
		return "", fmt.Errorf("failed to install gsutil: %w", err)
	}

	if !fileExists(gsutilBin) {
		return "", fmt.Errorf("%w: archive did not contain gsutil/gsutil", ErrInvalidArchive)
	}

	if err := os.WriteFile(installFlag, []byte("This flag file is dropped by the gsutil wrapper."), 0o644); err != nil {
		return "", err
	}
	return gsutilBin, nil
}

// downloadWithRetry fetches the release zip with exponential backoff,
// since the public bucket occasionally serves transient errors.
func (ins *Installer) downloadWithRetry(version, dir string) (string, error) {
	sleep := ins.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	delay := time.Second
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			log.Debug("retrying gsutil download", "attempt", attempt, "err", err)
			sleep(delay)
			delay *= 2
		}
		var path string
		path, err = ins.download(version, dir)
		if err == nil {
			return path, nil
		}
	}
	return "", err
}

// download fetches gsutil_<version>.zip into dir and verifies it against
// the md5 published in the object metadata. An existing file with the
// right hash is reused.
func (ins *Installer) download(version, dir string) (string, error) {
	client := ins.Client
	if client == nil {
		client = http.DefaultClient
	}
	baseURL := ins.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiURL := ins.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	filename := "gsutil_" + version + ".zip"
	target := filepath.Join(dir, filename)

	remoteMD5, err := fetchRemoteMD5(client, apiURL+filename)
	if err != nil {
		return "", err
	}

	if fileExists(target) {
		local, err := fileMD5(target)
		if err == nil && bytes.Equal(local, remoteMD5) {
			return target, nil
		}
		_ = os.Remove(target)
	}

	if err := fetchToFile(client, baseURL+filename, target); err != nil {
		return "", err
	}

	local, err := fileMD5(target)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(local, remoteMD5) {
		return "", fmt.Errorf("%w: downloaded %s has wrong md5", ErrInvalidArchive, filename)
	}
	return target, nil
}

func fetchRemoteMD5(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gsutil metadata: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch gsutil metadata: %s", resp.Status)
	}

	var meta struct {
		MD5Hash string `json:"md5Hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode gsutil metadata: %w", err)
	}
	sum, err := base64.StdEncoding.DecodeString(meta.MD5Hash)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gsutil md5: %w", err)
	}
	return sum, nil
}

func fetchToFile(client *http.Client, url, target string) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: %s", url, resp.Status)
	}

	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fileMD5(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

func extractZip(zipPath, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("%w: entry %q escapes the archive", ErrInvalidArchive, f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := f.Mode()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
