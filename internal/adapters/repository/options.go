package repository

import "github.com/respiview/respiview/pkg/logger"

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger used to report load/persist problems.
func WithFileLogger(log logger.Logger) FileOption {
	return func(s *FileStore) {
		if log != nil {
			s.log = log
		}
	}
}
