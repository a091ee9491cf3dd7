// Package generator builds a repository feed from a directory of package
// files named "<package>-<version>.<ext>".
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ralt/wpm/internal/feed"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/repository"
	"github.com/ralt/wpm/internal/signer"
	"github.com/ralt/wpm/internal/utils"
	"github.com/sirupsen/logrus"
)

// Config contains the options of a feed generation
type Config struct {
	InputDir string

	// Output is the feed file. A .gz, .zst or .xz suffix compresses it.
	Output string

	// BaseURL prefixes download URLs. Without it URLs are relative to the
	// feed.
	BaseURL string

	// Incremental keeps the declarations of an existing feed at Output.
	// They take precedence over scanned files with the same identity.
	Incremental bool
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return &models.EngineError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("input-dir is required"),
		}
	}
	if c.Output == "" {
		return &models.EngineError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("output is required"),
		}
	}
	return nil
}

// Generator creates feeds and signs them when a signer is set
type Generator struct {
	signer signer.Signer
}

// New creates a generator. s may be nil for unsigned feeds.
func New(s signer.Signer) *Generator {
	return &Generator{signer: s}
}

// Generate scans the input directory and writes the feed
func (g *Generator) Generate(ctx context.Context, config *Config) (*models.Feed, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logrus.Infof("Scanning directory: %s", config.InputDir)
	scanned, err := scanPackages(ctx, config)
	if err != nil {
		return nil, &models.EngineError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to scan directory: %w", err),
		}
	}
	logrus.Infof("Found %d package files", len(scanned.Versions))

	r := repository.New(repository.Dependencies{})
	if config.Incremental {
		existing, err := ReadFeed(config.Output)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			logrus.Infof("Keeping %d versions of %s", len(existing.Versions), config.Output)
			r.Fold(existing)
		}
	}
	r.Fold(scanned)

	out := &models.Feed{
		Packages: r.Packages(),
		Versions: r.Versions(),
		Licenses: r.Licenses(),
	}
	sortFeed(out)

	if err := WriteFeed(config.Output, out, g.signer); err != nil {
		return nil, err
	}
	return out, nil
}

// scanPackages creates a package and a version declaration per package file
func scanPackages(ctx context.Context, config *Config) (*models.Feed, error) {
	f := &models.Feed{}
	seen := make(map[string]bool)

	err := filepath.Walk(config.InputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}
		if path == config.Output || strings.HasSuffix(path, feed.SignatureSuffix) {
			return nil
		}

		pv, err := describe(path, info.Name())
		if err != nil {
			logrus.Warnf("Skipping %s: %v", path, err)
			return nil
		}

		rel, err := filepath.Rel(config.InputDir, path)
		if err != nil {
			return err
		}
		pv.URL = filepath.ToSlash(rel)
		if config.BaseURL != "" {
			pv.URL = strings.TrimSuffix(config.BaseURL, "/") + "/" + pv.URL
		}

		if !seen[pv.Package] {
			seen[pv.Package] = true
			f.Packages = append(f.Packages, models.NewPackage(pv.Package))
		}
		f.Versions = append(f.Versions, pv)
		logrus.Debugf("Found %s in %s", pv, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return f, nil
}

// describe derives the version declaration of a package file from its name
// and content
func describe(path, name string) (*models.PackageVersion, error) {
	typ := models.TypeOneFile
	if strings.EqualFold(filepath.Ext(name), ".zip") {
		typ = models.TypeZip
	}

	// "tool-1.5" has no extension, "tool-1.5.exe" has one
	pkg, v, err := models.ParseVersionKey(name)
	if err != nil {
		pkg, v, err = models.ParseVersionKey(strings.TrimSuffix(name, filepath.Ext(name)))
	}
	if err != nil {
		return nil, err
	}

	checksums, err := utils.CalculateChecksums(path)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksums: %w", err)
	}

	pv := models.NewPackageVersion(pkg, v.Normalize())
	pv.Type = typ
	pv.SHA1 = checksums.SHA1
	return pv, nil
}

func sortFeed(f *models.Feed) {
	sort.SliceStable(f.Packages, func(i, j int) bool {
		return f.Packages[i].ID < f.Packages[j].ID
	})
	sort.SliceStable(f.Versions, func(i, j int) bool {
		a, b := f.Versions[i], f.Versions[j]
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		return a.Version.Less(b.Version)
	})
	sort.SliceStable(f.Licenses, func(i, j int) bool {
		return f.Licenses[i].ID < f.Licenses[j].ID
	})
}

// ReadFeed parses a feed file. A missing file yields nil.
func ReadFeed(path string) (*models.Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &models.EngineError{Type: models.ErrFileOp, Err: err}
	}

	plain, err := utils.Decompress(data)
	if err != nil {
		return nil, &models.EngineError{Type: models.ErrFormat, Package: path, Err: err}
	}
	return feed.Parse(bytes.NewReader(plain), "")
}

// WriteFeed writes f to path, compressed according to the suffix of path,
// and a detached signature next to it when s is not nil
func WriteFeed(path string, f *models.Feed, s signer.Signer) error {
	var buf bytes.Buffer
	if err := feed.Write(&buf, f); err != nil {
		return err
	}

	c := utils.CompressionForPath(path)
	data, err := utils.Compress(buf.Bytes(), c)
	if err != nil {
		return fmt.Errorf("failed to compress feed: %w", err)
	}

	if err := utils.WriteFile(path, data, 0o644); err != nil {
		return &models.EngineError{Type: models.ErrFileOp, Err: err}
	}
	logrus.Infof("Wrote %d packages, %d versions and %d licenses to %s (%s)",
		len(f.Packages), len(f.Versions), len(f.Licenses), path, c)

	if s != nil {
		sigPath, err := signer.SignFile(s, path, feed.SignatureSuffix)
		if err != nil {
			return &models.EngineError{Type: models.ErrSignature, Err: err}
		}
		logrus.Infof("Signed feed: %s", sigPath)
	}
	return nil
}
