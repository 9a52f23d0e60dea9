// Package storage provides the object stores tabular sources are read from
// and results are written to. Backends register a factory under a provider
// name; import the backend package for its side effect:
//
//	import _ "github.com/kbukum/tabkit/storage/local"
//	import _ "github.com/kbukum/tabkit/storage/s3"
//
//	store, err := storage.New(ctx, cfg, log)
//	rc, err := store.Download(ctx, "exports/users.csv")
//
// The caller owns every ReadCloser returned by Download.
package storage
