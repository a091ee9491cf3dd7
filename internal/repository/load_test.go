package repository_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ralt/wpm/internal/download"
	"github.com/ralt/wpm/internal/feed"
	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/repository"
	"github.com/ralt/wpm/internal/repository/mocks"
	"github.com/ralt/wpm/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func feedWith(pkgs ...string) *models.Feed {
	f := &models.Feed{}
	for _, id := range pkgs {
		p := models.NewPackage(id)
		p.Title = "title of " + id
		f.Packages = append(f.Packages, p)
		f.Versions = append(f.Versions, newVersion(id, "1"))
	}
	return f
}

func TestLoadFoldsSourcesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockFeedLoader(ctrl)

	first := feedWith("com.example.A")
	first.Licenses = []*models.License{models.NewLicense("MIT")}
	second := feedWith("com.example.A", "com.example.B")
	second.Packages[0].Title = "shadowed"

	gomock.InOrder(
		loader.EXPECT().Load(gomock.Any(), "https://one.example.com/feed.xml").Return(first, nil),
		loader.EXPECT().Load(gomock.Any(), "https://two.example.com/feed.xml").Return(second, nil),
	)

	r := repository.New(repository.Dependencies{Loader: loader})
	j := job.New()
	err := r.Load(j, []string{"https://one.example.com/feed.xml", "https://two.example.com/feed.xml"})
	require.NoError(t, err)

	assert.Equal(t, job.Completed, j.State())
	assert.Equal(t, 1.0, j.Progress())
	assert.Equal(t, "title of com.example.A", r.FindPackage("com.example.A").Title)
	assert.NotNil(t, r.FindPackage("com.example.B"))
	assert.NotNil(t, r.FindPackage("com.microsoft.Windows"))
	assert.NotNil(t, r.FindLicense("MIT"))
	assert.Len(t, r.Versions(), 2)
}

func TestLoadClearsPreviousContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockFeedLoader(ctrl)

	withLicense := feedWith("com.example.Old")
	withLicense.Licenses = []*models.License{models.NewLicense("MIT")}

	gomock.InOrder(
		loader.EXPECT().Load(gomock.Any(), "a").Return(withLicense, nil),
		loader.EXPECT().Load(gomock.Any(), "b").Return(feedWith("com.example.New"), nil),
	)

	r := repository.New(repository.Dependencies{Loader: loader})
	require.NoError(t, r.Load(job.New(), []string{"a"}))
	r.FindPackageVersion("com.example.Old", version.MustParse("1")).SetInstalled("/opt/old", false)

	require.NoError(t, r.Load(job.New(), []string{"b"}))

	assert.Nil(t, r.FindPackage("com.example.Old"))
	assert.Nil(t, r.FindPackageVersion("com.example.Old", version.MustParse("1")))
	assert.Nil(t, r.FindLicense("MIT"))
	assert.Empty(t, r.InstalledVersions())
	assert.NotNil(t, r.FindPackage("com.example.New"))
}

func TestLoadStopsAtFirstFailingSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockFeedLoader(ctrl)

	unavailable := models.Errorf(models.ErrSourceUnavailable, "b", "download failed: connection refused")
	loader.EXPECT().Load(gomock.Any(), "a").Return(feedWith("com.example.A"), nil)
	loader.EXPECT().Load(gomock.Any(), "b").DoAndReturn(func(j *job.Job, url string) (*models.Feed, error) {
		j.Fail(unavailable)
		j.Complete()
		return nil, unavailable
	})

	r := repository.New(repository.Dependencies{Loader: loader})
	j := job.New()
	err := r.Load(j, []string{"a", "b", "c"})
	require.Error(t, err)

	assert.True(t, models.IsType(err, models.ErrSourceUnavailable))
	assert.True(t, errors.Is(err, unavailable))
	assert.Equal(t, job.CompletedWithError, j.State())
	assert.Contains(t, j.ErrorMessage(), "error loading the repository b")
	assert.Contains(t, j.ErrorMessage(), "connection refused")

	assert.NotNil(t, r.FindPackage("com.example.A"))
	assert.NotNil(t, r.FindPackage("com.oracle.JDK"))
}

func TestLoadWithoutSources(t *testing.T) {
	r := repository.New(repository.Dependencies{})
	j := job.New()
	err := r.Load(j, nil)

	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrNoSourcesConfigured))
	assert.Equal(t, job.CompletedWithError, j.State())
	assert.Contains(t, j.ErrorMessage(), "No repositories defined")
	assert.InDelta(t, 0.9, j.Progress(), 1e-9)
	assert.NotNil(t, r.FindPackage("com.microsoft.Windows"))
}

func TestLoadCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockFeedLoader(ctrl)

	loader.EXPECT().Load(gomock.Any(), "a").DoAndReturn(func(j *job.Job, url string) (*models.Feed, error) {
		j.Root().Cancel()
		j.Complete()
		return feedWith("com.example.A"), nil
	})

	r := repository.New(repository.Dependencies{Loader: loader})
	j := job.New()
	err := r.Load(j, []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, job.Cancelled, j.State())
	assert.NotNil(t, r.FindPackage("com.example.A"))
}

func TestLoadCancelledWithDownloadClient(t *testing.T) {
	feedPath := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(feedPath, []byte(`<root><package name="com.example.A"/></root>`), 0o644))

	attempts := 0
	var j *job.Job
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		j.Cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := download.NewClient(nil, download.WithRetry(3, time.Millisecond))
	r := repository.New(repository.Dependencies{Loader: feed.NewLoader(client, nil)})

	// cancelled before the first source
	j = job.New()
	j.Cancel()
	require.NoError(t, r.Load(j, []string{feedPath, srv.URL}))
	assert.Equal(t, job.Cancelled, j.State())
	assert.Empty(t, j.ErrorMessage())

	// cancelled while the download waits for a retry
	j = job.New()
	require.NoError(t, r.Load(j, []string{srv.URL, feedPath}))
	assert.Equal(t, job.Cancelled, j.State())
	assert.Empty(t, j.ErrorMessage())
	assert.Equal(t, 1, attempts)
	assert.Nil(t, r.FindPackage("com.example.A"))
}

type staticFetcher map[string]string

func (f staticFetcher) Fetch(j *job.Job, url string) ([]byte, error) {
	data, ok := f[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(data), nil
}

func TestLoadFeedWithMalformedDependency(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<root>
  <spec-version>2</spec-version>
  <package name="com.example.App"><title>App</title></package>
  <version package="com.example.App" name="3.1">
    <url>app-3.1.zip</url>
    <dependency package="com.example.Runtime" versions="1.0-2.0"/>
    <dependency package="com.example.Fonts" versions="2..x"/>
    <dependency package="com.example.Codecs" versions="[1, 5]"/>
  </version>
</root>`

	loader := feed.NewLoader(staticFetcher{"https://repo.example.com/main.xml": doc}, nil)
	r := repository.New(repository.Dependencies{Loader: loader})

	j := job.New()
	require.NoError(t, r.Load(j, []string{"https://repo.example.com/main.xml"}))
	assert.Equal(t, job.Completed, j.State())
	assert.Empty(t, j.ErrorMessage())

	pv := r.FindPackageVersion("com.example.App", version.MustParse("3.1"))
	require.NotNil(t, pv)
	require.Len(t, pv.Dependencies, 2)
	assert.Equal(t, "com.example.Runtime", pv.Dependencies[0].Package)
	assert.Equal(t, "com.example.Codecs", pv.Dependencies[1].Package)
	assert.Equal(t, "https://repo.example.com/app-3.1.zip", pv.URL)
}

func TestLoadIncompatibleFeed(t *testing.T) {
	const doc = `<root><spec-version>3.0</spec-version></root>`
	loader := feed.NewLoader(staticFetcher{"new.xml": doc}, nil)
	r := repository.New(repository.Dependencies{Loader: loader})

	j := job.New()
	err := r.Load(j, []string{"new.xml"})
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrIncompatibleVersion))
	assert.Equal(t, job.CompletedWithError, j.State())
}

func TestReload(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceStore(ctrl)
	loader := mocks.NewMockFeedLoader(ctrl)
	state := mocks.NewMockStateStore(ctrl)

	dir := t.TempDir()
	sources.EXPECT().Sources().Return([]string{"a"}, nil)
	loader.EXPECT().Load(gomock.Any(), "a").Return(feedWith("com.example.A"), nil)
	state.EXPECT().Entries().Return(map[string]models.InstalledRecord{
		"com.example.A-1": {Path: dir},
	}, nil)

	r := repository.New(repository.Dependencies{Loader: loader, Sources: sources, State: state})
	j := job.New()
	require.NoError(t, r.Reload(j))

	assert.Equal(t, job.Completed, j.State())
	pv := r.FindPackageVersion("com.example.A", version.MustParse("1"))
	require.NotNil(t, pv)
	assert.Equal(t, dir, pv.Path)
}

func TestReloadSkipsRefreshAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceStore(ctrl)
	loader := mocks.NewMockFeedLoader(ctrl)
	state := mocks.NewMockStateStore(ctrl)

	sources.EXPECT().Sources().Return([]string{"a"}, nil)
	loader.EXPECT().Load(gomock.Any(), "a").Return(nil, models.Errorf(models.ErrFormat, "a", "XML parsing failed"))

	r := repository.New(repository.Dependencies{Loader: loader, Sources: sources, State: state})
	j := job.New()
	err := r.Reload(j)

	require.Error(t, err)
	assert.Equal(t, job.CompletedWithError, j.State())
	assert.Contains(t, j.ErrorMessage(), "XML parsing failed")
	assert.NotNil(t, r.FindPackage("com.microsoft.MSXML"))
}

func TestSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceStore(ctrl)
	sources.EXPECT().SetSources([]string{"a", "b"}).Return(nil)
	sources.EXPECT().Sources().Return([]string{"a", "b"}, nil)

	r := repository.New(repository.Dependencies{Sources: sources})
	require.NoError(t, r.SetSources([]string{"a", "b"}))
	got, err := r.GetSources()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = repository.New(repository.Dependencies{}).GetSources()
	assert.True(t, models.IsType(err, models.ErrInvalidConfig))
}
