package bootstrap

import (
	"github.com/kbukum/tabkit/storage"
)

// Summary describes the assembled application for the startup log line.
type Summary struct {
	Service   string
	Version   string
	Env       string
	Addr      string
	Storage   string
	Recipes   int
	Telemetry bool
}

// Fields renders the summary as log fields.
func (s Summary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"service":     s.Service,
		"version":     s.Version,
		"environment": s.Env,
		"addr":        s.Addr,
		"storage":     s.Storage,
		"recipes":     s.Recipes,
		"telemetry":   s.Telemetry,
	}
}

func storageName(cfg storage.Config) string {
	if cfg.Provider == storage.ProviderS3 {
		return "s3://" + cfg.Bucket
	}
	return cfg.Provider + ":" + cfg.BasePath
}
