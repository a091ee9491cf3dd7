package repository_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/repository"
	"github.com/ralt/wpm/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProcessInstallsAndUninstallsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	installer := mocks.NewMockInstaller(ctrl)
	state := mocks.NewMockStateStore(ctrl)
	base := t.TempDir()

	x := newVersion("com.example.X", "1.0")
	y := installedVersion("com.example.Y", "2", "/opt/y")

	var hints []string
	gomock.InOrder(
		installer.EXPECT().Install(gomock.Any(), x, filepath.Join(base, "com.example.X-1")).
			DoAndReturn(func(j *job.Job, pv *models.PackageVersion, dir string) error {
				hints = append(hints, j.Root().Hint())
				j.SetProgress(0.5)
				return nil
			}),
		state.EXPECT().Put("com.example.X-1", models.InstalledRecord{Path: filepath.Join(base, "com.example.X-1")}).Return(nil),
		installer.EXPECT().Uninstall(gomock.Any(), y).
			DoAndReturn(func(j *job.Job, pv *models.PackageVersion) error {
				hints = append(hints, j.Root().Hint())
				return nil
			}),
		state.EXPECT().Delete("com.example.Y-2").Return(nil),
	)

	r := repository.New(repository.Dependencies{Installer: installer, State: state, InstallDir: base})
	j := job.New()
	err := r.Process(j, []models.InstallOperation{
		{Version: x, Install: true},
		{Version: y, Install: false},
	})
	require.NoError(t, err)

	assert.Equal(t, job.Completed, j.State())
	assert.Equal(t, []string{"Installing com.example.X 1", "Uninstalling com.example.Y 2"}, hints)
	assert.Equal(t, filepath.Join(base, "com.example.X-1"), x.Path)
	assert.False(t, x.External)
	assert.False(t, y.Installed())
}

func TestProcessStopsAtFirstError(t *testing.T) {
	ctrl := gomock.NewController(t)
	installer := mocks.NewMockInstaller(ctrl)

	x := newVersion("com.example.X", "1")
	y := installedVersion("com.example.Y", "1", "/opt/y")

	installer.EXPECT().Install(gomock.Any(), x, gomock.Any()).
		DoAndReturn(func(j *job.Job, pv *models.PackageVersion, dir string) error {
			j.SetErrorMessage("checksum mismatch")
			return nil
		})

	r := repository.New(repository.Dependencies{Installer: installer, InstallDir: t.TempDir()})
	j := job.New()
	err := r.Process(j, []models.InstallOperation{
		{Version: x, Install: true},
		{Version: y, Install: false},
	})

	require.Error(t, err)
	assert.Equal(t, job.CompletedWithError, j.State())
	assert.Equal(t, "checksum mismatch", j.ErrorMessage())
	assert.False(t, x.Installed())
	assert.True(t, y.Installed())
}

func TestProcessReturnsInstallerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	installer := mocks.NewMockInstaller(ctrl)

	x := newVersion("com.example.X", "1")
	failure := models.Errorf(models.ErrInstall, "com.example.X", "unpacking failed")
	installer.EXPECT().Install(gomock.Any(), x, gomock.Any()).Return(failure)

	r := repository.New(repository.Dependencies{Installer: installer, InstallDir: t.TempDir()})
	j := job.New()
	err := r.Process(j, []models.InstallOperation{{Version: x, Install: true}})

	assert.True(t, errors.Is(err, failure))
	assert.False(t, x.Installed())
	assert.Equal(t, job.CompletedWithError, j.State())
}

func TestProcessRefusesInvalidOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	installer := mocks.NewMockInstaller(ctrl)
	r := repository.New(repository.Dependencies{Installer: installer})

	external := newVersion("com.example.Ext", "1")
	external.SetInstalled("/usr/lib/ext", true)
	cases := []models.InstallOperation{
		{Version: external, Install: false},
		{Version: external, Install: true},
		{Version: newVersion("com.example.Missing", "1"), Install: false},
	}

	for _, op := range cases {
		j := job.New()
		err := r.Process(j, []models.InstallOperation{op})
		require.Error(t, err, op.String())
		assert.True(t, models.IsType(err, models.ErrInstall))
		assert.Equal(t, job.CompletedWithError, j.State())
	}
}

func TestProcessCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	installer := mocks.NewMockInstaller(ctrl)

	x := newVersion("com.example.X", "1")
	y := newVersion("com.example.Y", "1")
	installer.EXPECT().Install(gomock.Any(), x, gomock.Any()).
		DoAndReturn(func(j *job.Job, pv *models.PackageVersion, dir string) error {
			j.Root().Cancel()
			return nil
		})

	r := repository.New(repository.Dependencies{Installer: installer, InstallDir: t.TempDir()})
	j := job.New()
	require.NoError(t, r.Process(j, []models.InstallOperation{
		{Version: x, Install: true},
		{Version: y, Install: true},
	}))

	assert.Equal(t, job.Cancelled, j.State())
	assert.True(t, x.Installed())
	assert.False(t, y.Installed())
}

func TestProcessNothing(t *testing.T) {
	r := repository.New(repository.Dependencies{})
	j := job.New()
	require.NoError(t, r.Process(j, nil))
	assert.Equal(t, job.Completed, j.State())
	assert.Equal(t, 1.0, j.Progress())
}
