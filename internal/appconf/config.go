package appconf

// Environment represents the runtime environment of the application.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Development:
		return "development"
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}

// EnvFlagToEnvironment converts the -env flag value to an Environment.
// Unknown values default to Development.
func EnvFlagToEnvironment(envFlag string) Environment {
	switch envFlag {
	case "test":
		return Test
	case "production":
		return Production
	default:
		return Development
	}
}

// Config holds the application-level configuration.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int
	DBPath    string
	Verbose   bool
}
