package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Photo constraints
	MaxTitleLength    int
	MaxCaptionLength  int
	MaxLocationLength int
	MaxPeoplePerPhoto int
	MaxUploadBytes    int64

	// Comment constraints
	MaxCommentLength int
	DefaultUserName  string

	// Account constraints
	MinPasswordLength int
	MaxNameLength     int

	// Listing defaults
	DefaultPage     int
	DefaultPageSize int

	// Thumbnail bounds in pixels
	ThumbnailWidth  uint
	ThumbnailHeight uint

	// Feature flags
	EnableThumbnails bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxTitleLength:    200,
		MaxCaptionLength:  2000,
		MaxLocationLength: 200,
		MaxPeoplePerPhoto: 50,
		MaxUploadBytes:    10 << 20,

		MaxCommentLength: 2000,
		DefaultUserName:  "Anonymous",

		MinPasswordLength: 6,
		MaxNameLength:     100,

		DefaultPage:     1,
		DefaultPageSize: 20,

		ThumbnailWidth:  300,
		ThumbnailHeight: 300,

		EnableThumbnails: true,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.MinPasswordLength = 8
	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.MaxUploadBytes = 32 << 20
	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
