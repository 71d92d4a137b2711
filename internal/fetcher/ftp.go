// Package fetcher mirrors export files from the fiber tester's embedded
// FTP server into the local source directory.
package fetcher

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FTPOptions configures the FTP fetcher.
type FTPOptions struct {
	Timeout time.Duration
	// RatePerSec bounds download starts per second. The instrument's FTP
	// stack runs on firmware that drops connections under load.
	RatePerSec float64
}

// FTPFetcher downloads instrument exports over FTP.
type FTPFetcher struct {
	opts    FTPOptions
	limiter *rate.Limiter
}

// NewFTPFetcher creates a new FTPFetcher with the given options.
func NewFTPFetcher(opts FTPOptions) *FTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	return &FTPFetcher{
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
	}
}

// parseFTPURL extracts host (with port) and path from an FTP URL.
func parseFTPURL(rawURL string) (host string, dir string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", eris.Wrap(err, "fetcher: parse ftp url")
	}
	if u.Scheme != "ftp" {
		return "", "", eris.Errorf("fetcher: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	dir = u.Path
	if dir == "" {
		dir = "/"
	}

	return host, dir, nil
}

// wantEntry reports whether a listing entry is an export file worth
// mirroring.
func wantEntry(e *ftp.Entry) bool {
	return e.Type == ftp.EntryTypeFile && strings.HasSuffix(e.Name, ".txt")
}

// Mirror downloads every .txt export under the FTP URL's directory that is
// not already present in destDir. Returns the number of files fetched.
func (f *FTPFetcher) Mirror(ctx context.Context, ftpURL, destDir string) (int, error) {
	host, dir, err := parseFTPURL(ftpURL)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "fetcher: create %s", destDir)
	}

	zap.L().Debug("fetcher: connecting", zap.String("host", host), zap.String("dir", dir))

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(f.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: ftp dial")
	}
	defer conn.Quit() //nolint:errcheck

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return 0, eris.Wrap(err, "fetcher: ftp login")
	}

	entries, err := conn.List(dir)
	if err != nil {
		return 0, eris.Wrapf(err, "fetcher: list %s", dir)
	}

	fetched := 0
	for _, entry := range entries {
		if !wantEntry(entry) {
			continue
		}
		dest := filepath.Join(destDir, entry.Name)
		if _, err := os.Stat(dest); err == nil {
			continue
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return fetched, eris.Wrap(err, "fetcher: rate wait")
		}
		if err := f.download(conn, path.Join(dir, entry.Name), dest); err != nil {
			return fetched, err
		}
		zap.L().Info("fetcher: mirrored export", zap.String("file", entry.Name))
		fetched++
	}

	return fetched, nil
}

func (f *FTPFetcher) download(conn *ftp.ServerConn, remote, dest string) error {
	resp, err := conn.Retr(remote)
	if err != nil {
		return eris.Wrapf(err, "fetcher: retr %s", remote)
	}
	defer resp.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return eris.Wrapf(err, "fetcher: create %s", dest)
	}

	if _, err := io.Copy(out, resp); err != nil {
		out.Close()
		os.Remove(dest) // do not leave a partial export behind
		return eris.Wrapf(err, "fetcher: copy %s", remote)
	}
	return eris.Wrapf(out.Close(), "fetcher: close %s", dest)
}
