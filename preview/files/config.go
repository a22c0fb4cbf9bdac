package files

type Config struct {
	// PublicDir is the directory below the base path holding rendered pages
	PublicDir string `conf:"public_dir"`

	// Index is the page served for directory paths
	Index string `conf:"index"`
}

var DefaultConfig = map[string]any{
	"public_dir": "",
	"index":      "index.html",
}
