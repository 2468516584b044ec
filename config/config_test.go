package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.EmailProvider != "smtp" {
		t.Fatalf("expected default provider smtp, got %q", cfg.EmailProvider)
	}
	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Fatalf("expected Gmail SMTP defaults, got %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("EMAIL_PROVIDER", "ses")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "9999" || cfg.EmailProvider != "ses" || cfg.SMTPPort != 2525 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadBadSMTPPortFallsBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected fallback to 587, got %d", cfg.SMTPPort)
	}
}
