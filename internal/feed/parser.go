// Package feed reads and writes repository feed documents.
package feed

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/utils"
	"github.com/ralt/wpm/internal/version"
	"github.com/sirupsen/logrus"
)

// Parse reads a feed document. Only immediate children of the root element
// are declarations. Invalid declarations are logged and dropped, while an
// unreadable document or an unsupported spec-version fails the whole feed.
// Relative download URLs are resolved against feedURL unless it is empty.
func Parse(r io.Reader, feedURL string) (*models.Feed, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, &models.EngineError{
			Type:    models.ErrFormat,
			Package: feedURL,
			Err:     fmt.Errorf("XML parsing failed: %w", err),
		}
	}

	f := &models.Feed{URL: feedURL}
	if sv := root.child("spec-version"); sv != nil {
		f.SpecVersion = strings.TrimSpace(sv.content())
		if err := checkSpecVersion(f.SpecVersion); err != nil {
			err.Package = feedURL
			return nil, err
		}
	}

	var base *url.URL
	if feedURL != "" {
		if u, err := url.Parse(feedURL); err == nil {
			base = u
		}
	}

	for _, e := range root.children {
		switch e.name {
		case "version":
			pv, err := parseVersion(e, base)
			if err != nil {
				logrus.Warnf("Dropping version declaration in %s: %v", feedURL, err)
				continue
			}
			f.Versions = append(f.Versions, pv)
		case "package":
			p, err := parsePackage(e)
			if err != nil {
				logrus.Warnf("Dropping package declaration in %s: %v", feedURL, err)
				continue
			}
			f.Packages = append(f.Packages, p)
		case "license":
			l, err := parseLicense(e)
			if err != nil {
				logrus.Warnf("Dropping license declaration in %s: %v", feedURL, err)
				continue
			}
			f.Licenses = append(f.Licenses, l)
		case "spec-version":
		default:
			logrus.Debugf("Ignoring <%s> in %s", e.name, feedURL)
		}
	}

	logrus.Debugf("Parsed %s: %d packages, %d versions, %d licenses",
		feedURL, len(f.Packages), len(f.Versions), len(f.Licenses))
	return f, nil
}

func checkSpecVersion(text string) *models.EngineError {
	v, err := version.Parse(text)
	if err != nil {
		return &models.EngineError{
			Type: models.ErrFormat,
			Err:  fmt.Errorf("invalid repository specification version %q: %w", text, err),
		}
	}
	if v.Compare(models.MaxSpecVersion) >= 0 {
		return &models.EngineError{
			Type: models.ErrIncompatibleVersion,
			Err:  fmt.Errorf("incompatible repository specification version %s", text),
		}
	}
	return nil
}

func parseVersion(e *element, base *url.URL) (*models.PackageVersion, error) {
	pkg := e.attr("package")
	if !models.IsValidPackageID(pkg) {
		return nil, fmt.Errorf("invalid package id %q", pkg)
	}

	name := e.attr("name")
	if name == "" {
		name = "1.0"
	}
	v, err := version.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pkg, err)
	}

	pv := models.NewPackageVersion(pkg, v.Normalize())
	pv.Type = models.ParsePackageType(e.attr("type"))

	pv.URL = e.childText("url")
	if pv.URL == "" {
		return nil, fmt.Errorf("%s: missing <url>", pv)
	}
	if base != nil {
		if ref, err := url.Parse(pv.URL); err == nil {
			pv.URL = base.ResolveReference(ref).String()
		}
	}
	pv.SHA1 = utils.NormalizeSHA1(e.childText("sha1"))

	for _, c := range e.children {
		switch c.name {
		case "important-file":
			path := c.attr("path")
			if path == "" {
				path = c.attr("name")
			}
			if path == "" {
				logrus.Warnf("%s: ignoring <important-file> without path", pv)
				continue
			}
			title := c.attr("title")
			if title == "" {
				title = path
			}
			pv.ImportantFiles = append(pv.ImportantFiles, models.ImportantFile{Path: path, Title: title})
		case "file":
			path := c.attr("path")
			if path == "" {
				logrus.Warnf("%s: ignoring <file> without path", pv)
				continue
			}
			pv.Files = append(pv.Files, models.PackageVersionFile{Path: path, Content: c.content()})
		case "detect-file":
			df := models.DetectFile{
				Path: c.childText("path"),
				SHA1: utils.NormalizeSHA1(c.childText("sha1")),
			}
			if df.Path == "" || df.SHA1 == "" {
				logrus.Warnf("%s: ignoring incomplete <detect-file>", pv)
				continue
			}
			pv.DetectFiles = append(pv.DetectFiles, df)
		case "dependency":
			d, err := models.ParseDependency(c.attr("package"), c.attr("versions"))
			if err != nil {
				logrus.Warnf("%s: ignoring dependency: %v", pv, err)
				continue
			}
			if d.Range.Empty() {
				logrus.Warnf("%s: dependency %s can never be satisfied", pv, d)
			}
			pv.Dependencies = append(pv.Dependencies, d)
		case "detect-msi":
			pv.MSIGUID = strings.ToLower(strings.TrimSpace(c.content()))
		}
	}

	return pv, nil
}

func parsePackage(e *element) (*models.Package, error) {
	id := e.attr("name")
	if !models.IsValidPackageID(id) {
		return nil, fmt.Errorf("invalid package id %q", id)
	}

	p := models.NewPackage(id)
	if title := e.childText("title"); title != "" {
		p.Title = title
	}
	p.URL = e.childText("url")
	p.Description = e.childText("description")
	p.Icon = e.childText("icon")
	p.License = e.childText("license")
	for _, c := range e.childrenNamed("category") {
		if cat := strings.TrimSpace(c.content()); cat != "" {
			p.Categories = append(p.Categories, cat)
		}
	}
	return p, nil
}

func parseLicense(e *element) (*models.License, error) {
	id := e.attr("name")
	if id == "" {
		return nil, fmt.Errorf("license without name")
	}

	l := models.NewLicense(id)
	if title := e.childText("title"); title != "" {
		l.Title = title
	}
	l.URL = e.childText("url")
	l.Description = e.childText("description")
	return l, nil
}
