package config

// Redacted returns a copy of cfg with credentials replaced by "***", for
// logging the active configuration.
func Redacted(cfg *Config) Config {
	out := *cfg
	redact(&out.Storage.Redis.Password)
	redact(&out.Storage.S3.AccessKey)
	redact(&out.Storage.S3.SecretKey)
	redact(&out.Storage.Postgres.DSN)
	redact(&out.Gemini.APIKey)
	return out
}

func redact(s *string) {
	if *s != "" {
		*s = "***"
	}
}
