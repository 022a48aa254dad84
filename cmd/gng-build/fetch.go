// Copyright (c) 2026, the gng-project contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/sourcepacket"
)

// httpFetcher is the build driver's Fetcher: sources fetching and GPG/hash
// verification are external collaborators (spec "Out of scope"), so this
// only does the minimum a driver needs to actually run a build — a plain
// HTTP GET, with mirror fallback, and a tar.gz unpack when the source asks
// for one.
type httpFetcher struct {
	client *http.Client
}

func newHTTPFetcher() *httpFetcher {
	return &httpFetcher{client: &http.Client{}}
}

func (f *httpFetcher) Fetch(source sourcepacket.SourceDefinition, destDir string) error {
	dest := filepath.Join(destDir, source.Destination)
	if source.Destination == "" {
		dest = filepath.Join(destDir, filepath.Base(source.URL))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", filepath.Dir(dest))
	}

	body, err := f.get(append([]string{source.URL}, source.Mirrors...))
	if err != nil {
		return err
	}
	defer body.Close()

	if source.Unpack {
		return untar(body, dest)
	}

	out, err := os.Create(dest)
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", dest)
	}
	defer out.Close()
	if _, err := io.Copy(out, body); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to write %q", dest)
	}
	return nil
}

func (f *httpFetcher) get(urls []string) (io.ReadCloser, error) {
	var lastErr error
	for _, u := range urls {
		resp, err := f.client.Get(u)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = gngerrors.Newf(gngerrors.Io, "fetching %q returned status %d", u, resp.StatusCode)
			continue
		}
		return resp.Body, nil
	}
	return nil, gngerrors.Wrapf(gngerrors.Io, lastErr, "failed to fetch from any of %d location(s)", len(urls))
}

// untar extracts a gzip-compressed tar stream into destDir, rejecting any
// entry whose name escapes destDir once joined.
func untar(body io.Reader, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", destDir)
	}

	gz, err := gzip.NewReader(body)
	if err != nil {
		return gngerrors.Wrap(gngerrors.Io, "failed to open gzip stream", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return gngerrors.Wrap(gngerrors.Io, "failed to read tar stream", err)
		}

		target := filepath.Join(destDir, hdr.Name)
		if !strings.HasPrefix(target, destDir+string(filepath.Separator)) && target != destDir {
			return gngerrors.Newf(gngerrors.Io, "tar entry %q escapes destination directory", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", target)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", filepath.Dir(target))
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", target)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return gngerrors.Wrapf(gngerrors.Io, err, "failed to write %q", target)
			}
			out.Close()
		}
	}
}
