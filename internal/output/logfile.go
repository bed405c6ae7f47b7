package output

import (
	"os"

	"github.com/mitchellh/go-homedir"
)

// DefaultLogFile is used when VB_LOG_FILE is unset
const DefaultLogFile = "~/.vb/logs/vb.log"

// GetLogFilePath returns the path to the log file.
// If VB_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.vb/logs/vb.log
func GetLogFilePath() string {
	path := DefaultLogFile
	if customPath := os.Getenv("VB_LOG_FILE"); customPath != "" {
		path = customPath
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "vb.log"
	}
	return expanded
}
