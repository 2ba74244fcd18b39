package routes

const (
	// Health
	Health  = "/health"
	Metrics = "/metrics"

	// Character configs
	CharacterConfigs        = "/api/v1/character-configs"
	CharacterConfig         = "/api/v1/character-configs/{id}"
	CharacterConfigVariants = "/api/v1/characters/{character}/configs"

	// Shared seeds
	CharacterConfigSeeds = "/api/v1/character-config-seeds"
	CharacterConfigSeed  = "/api/v1/character-config-seeds/{id}"

	// Figure records
	FigureRecords = "/api/v1/figure-records"
	FigureRecord  = "/api/v1/figure-records/{id}"

	// Uploads
	Files      = "/api/v1/files"
	File       = "/api/v1/files/{id}"
	FileVerify = "/api/v1/files/{id}/verify"

	// Generate templates
	GenerateTemplates = "/api/v1/generate-templates"
	GenerateTemplate  = "/api/v1/generate-templates/{id}"
)
