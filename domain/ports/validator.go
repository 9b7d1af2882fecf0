package ports

import "github.com/liangz0707/FirstEngine/domain/entities"

// ManifestValidator checks a parsed manifest before a module is built from it.
type ManifestValidator interface {
	// Validate reports every invalid field of the manifest.
	Validate(manifest *entities.ModuleManifest) (*entities.ValidationResult, error)
}
