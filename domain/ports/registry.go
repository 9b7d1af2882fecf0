package ports

import "github.com/liangz0707/FirstEngine/domain/entities"

// ModuleCatalog lists the native modules a host can load.
type ModuleCatalog interface {
	// Names returns the registered module names in sorted order.
	Names() []string

	// Describe returns the descriptor of a module. An unknown name yields a
	// ModuleUnavailableError.
	Describe(name string) (*entities.ModuleDescriptor, error)

	// Schema returns the JSON Schema of the argument list of one operation.
	Schema(module, operation string) (string, bool)
}
