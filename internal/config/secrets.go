package config

// RedactedConfig returns a copy of c with secret material masked, suitable
// for logging at startup.
func RedactedConfig(c *Config) Config {
	out := *c

	out.Database.Password = mask(c.Database.Password)
	out.Database.DSN = maskIfSet(c.Database.DSN)
	out.Redis.Password = mask(c.Redis.Password)
	out.S3.AccessKey = mask(c.S3.AccessKey)
	out.S3.SecretKey = mask(c.S3.SecretKey)
	out.Oracle.APIKey = mask(c.Oracle.APIKey)
	out.Server.APIKey = mask(c.Server.APIKey)
	out.Notify.TelegramToken = mask(c.Notify.TelegramToken)
	out.Notify.DiscordWebhookURL = maskIfSet(c.Notify.DiscordWebhookURL)

	out.Providers = make(map[string]ProviderConfig, len(c.Providers))
	for name, p := range c.Providers {
		p.APIKey = mask(p.APIKey)
		out.Providers[name] = p
	}
	return out
}

// mask keeps the first four characters of a secret for identification.
func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

// maskIfSet hides the whole value; used for DSNs and webhook URLs that embed
// credentials.
func maskIfSet(s string) string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}
