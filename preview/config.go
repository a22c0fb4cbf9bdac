package preview

type Config struct {
	// Root is the base path passed to every Handler
	Root string `conf:"root"`

	// Serial handles one request at a time when set
	Serial bool `conf:"serial"`
}

var DefaultConfig = map[string]any{
	"serial": true,
}
