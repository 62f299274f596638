// pkg/tableio/naming.go
package tableio

import (
	"path/filepath"
	"strings"
	"time"
)

// StampLayout formats the run timestamp embedded in output and log names
const StampLayout = "20060102_1504"

// Stamp formats t for use in file names
func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// baseName returns the file name without directory or extension
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath returns <dir>/<base>_clean_<stamp><ext>. An empty dir means the
// input's directory.
func OutputPath(input, dir, stamp string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, baseName(input)+"_clean_"+stamp+filepath.Ext(input))
}

// LogPath returns <dir>/<base>_cleanse_<stamp>.log
func LogPath(input, dir, stamp string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, baseName(input)+"_cleanse_"+stamp+".log")
}
