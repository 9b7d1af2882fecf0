package ports

import "github.com/liangz0707/FirstEngine/domain/entities"

// ManifestParser parses raw manifest bytes into a ModuleManifest.
type ManifestParser interface {
	// Parse unmarshals manifest bytes into a ModuleManifest struct.
	Parse(data []byte) (*entities.ModuleManifest, error)
}
