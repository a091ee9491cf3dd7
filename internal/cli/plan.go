package cli

import (
	"fmt"

	"github.com/ralt/wpm/internal/models"
)

// planInstall returns the install operations needed for target, the
// dependencies first. Dependencies already met by an installed version are
// skipped; missing ones are satisfied with the highest matching version.
func planInstall(src models.VersionLister, target *models.PackageVersion) ([]models.InstallOperation, error) {
	var ops []models.InstallOperation
	visiting := make(map[string]bool)
	planned := make(map[string]bool)

	var visit func(pv *models.PackageVersion) error
	visit = func(pv *models.PackageVersion) error {
		key := pv.Key()
		if planned[key] {
			return nil
		}
		if visiting[key] {
			return fmt.Errorf("circular dependency involving %s", pv)
		}
		visiting[key] = true

		for _, dep := range pv.Dependencies {
			if dep.FindHighestInstalledMatch(src) != nil {
				continue
			}
			match := dep.FindHighestMatch(src)
			if match == nil {
				return models.Errorf(models.ErrInstall, pv.Package, "unsatisfied dependency %s", dep)
			}
			if err := visit(match); err != nil {
				return err
			}
		}

		visiting[key] = false
		planned[key] = true
		if !pv.Installed() {
			ops = append(ops, models.InstallOperation{Version: pv, Install: true})
		}
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}
	return ops, nil
}
