package staging

// Mapping copies a file or a directory tree into the staging directory.
type Mapping struct {
	// From is the source file or directory
	From string `conf:"from"`

	// To is the destination, relative to the staging directory
	To string `conf:"to"`
}

type Config struct {
	// Dir is the staging directory. It must be absent or empty; a
	// temporary directory is used if it is not set
	Dir string `conf:"dir"`

	// Copy lists the files and trees to stage before serving
	Copy []Mapping `conf:"copy"`
}
