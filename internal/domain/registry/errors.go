package registry

import "errors"

// ErrUnknownDataset marks lookups for a dataset short name the registry does
// not carry. Callers wrap it with the offending name.
var ErrUnknownDataset = errors.New("unknown dataset")
