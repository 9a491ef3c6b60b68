package errdefs

// Registered error codes.
const (
	CodeConfigNotFound   = "C001"
	CodeConfigInvalid    = "C002"
	CodeRouteScan        = "R001"
	CodeRouteUnresolved  = "R002"
	CodeRouteDuplicate   = "R003"
	CodeManifestMissing  = "A001"
	CodeManifestInvalid  = "A002"
)

// template defines a registered error type.
type template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]template{
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No remix.json was found in the project directory or any parent directory.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Configuration file is invalid",
		Detail:   "remix.json could not be parsed or contains invalid values.",
	},
	CodeRouteScan: {
		Category: CategoryRoutes,
		Message:  "Route directory scan failed",
		Detail:   "The routes directory could not be read.",
	},
	CodeRouteUnresolved: {
		Category: CategoryRoutes,
		Message:  "Route has no registered handles",
		Detail:   "A route file was discovered but the registry resolved no component or loader for its id.",
	},
	CodeRouteDuplicate: {
		Category: CategoryRoutes,
		Message:  "Duplicate route id",
		Detail:   "Two route files produced the same route id.",
	},
	CodeManifestMissing: {
		Category: CategoryAssets,
		Message:  "Asset manifest not found",
		Detail:   "The build has not produced a manifest.json, or the configured manifest path is wrong.",
	},
	CodeManifestInvalid: {
		Category: CategoryAssets,
		Message:  "Asset manifest is invalid",
		Detail:   "manifest.json could not be parsed.",
	},
}
