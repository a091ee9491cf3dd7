package feed

import (
	"encoding/xml"
	"io"

	"github.com/ralt/wpm/internal/models"
)

// WriteSpecVersion is the spec-version written by Write
const WriteSpecVersion = "2.0"

// XML structures for feed documents

type xmlRoot struct {
	XMLName     xml.Name     `xml:"root"`
	SpecVersion string       `xml:"spec-version"`
	Licenses    []xmlLicense `xml:"license"`
	Packages    []xmlPackage `xml:"package"`
	Versions    []xmlVersion `xml:"version"`
}

type xmlLicense struct {
	Name        string `xml:"name,attr"`
	Title       string `xml:"title,omitempty"`
	URL         string `xml:"url,omitempty"`
	Description string `xml:"description,omitempty"`
}

type xmlPackage struct {
	Name        string   `xml:"name,attr"`
	Title       string   `xml:"title,omitempty"`
	URL         string   `xml:"url,omitempty"`
	Description string   `xml:"description,omitempty"`
	Icon        string   `xml:"icon,omitempty"`
	License     string   `xml:"license,omitempty"`
	Categories  []string `xml:"category"`
}

type xmlVersion struct {
	Package        string             `xml:"package,attr"`
	Name           string             `xml:"name,attr"`
	Type           string             `xml:"type,attr"`
	ImportantFiles []xmlImportantFile `xml:"important-file"`
	Files          []xmlFile          `xml:"file"`
	URL            string             `xml:"url"`
	SHA1           string             `xml:"sha1,omitempty"`
	Dependencies   []xmlDependency    `xml:"dependency"`
	DetectFiles    []xmlDetectFile    `xml:"detect-file"`
	DetectMSI      string             `xml:"detect-msi,omitempty"`
}

type xmlImportantFile struct {
	Path  string `xml:"path,attr"`
	Title string `xml:"title,attr,omitempty"`
}

type xmlFile struct {
	Path    string `xml:"path,attr"`
	Content string `xml:",chardata"`
}

type xmlDependency struct {
	Package  string `xml:"package,attr"`
	Versions string `xml:"versions,attr"`
}

type xmlDetectFile struct {
	Path string `xml:"path"`
	SHA1 string `xml:"sha1"`
}

// Write serializes packages, versions and licenses as a feed document
func Write(w io.Writer, f *models.Feed) error {
	doc := xmlRoot{SpecVersion: WriteSpecVersion}

	for _, l := range f.Licenses {
		doc.Licenses = append(doc.Licenses, xmlLicense{
			Name:        l.ID,
			Title:       l.Title,
			URL:         l.URL,
			Description: l.Description,
		})
	}

	for _, p := range f.Packages {
		doc.Packages = append(doc.Packages, xmlPackage{
			Name:        p.ID,
			Title:       p.Title,
			URL:         p.URL,
			Description: p.Description,
			Icon:        p.Icon,
			License:     p.License,
			Categories:  p.Categories,
		})
	}

	for _, pv := range f.Versions {
		v := xmlVersion{
			Package:   pv.Package,
			Name:      pv.Version.String(),
			Type:      pv.Type.String(),
			URL:       pv.URL,
			SHA1:      pv.SHA1,
			DetectMSI: pv.MSIGUID,
		}
		for _, i := range pv.ImportantFiles {
			v.ImportantFiles = append(v.ImportantFiles, xmlImportantFile{Path: i.Path, Title: i.Title})
		}
		for _, file := range pv.Files {
			v.Files = append(v.Files, xmlFile{Path: file.Path, Content: file.Content})
		}
		for _, d := range pv.Dependencies {
			v.Dependencies = append(v.Dependencies, xmlDependency{Package: d.Package, Versions: d.Range.String()})
		}
		for _, df := range pv.DetectFiles {
			v.DetectFiles = append(v.DetectFiles, xmlDetectFile{Path: df.Path, SHA1: df.SHA1})
		}
		doc.Versions = append(doc.Versions, v)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
