package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"llm": map[string]any{
			"baseUrl":           "",
			"requestsPerMinute": 20,
		},
		"seeder": map[string]any{
			"artifactDir": "./generated",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "LLM_BASEURL", want: "llm.baseUrl"},
		{envKey: "LLM_REQUESTSPERMINUTE", want: "llm.requestsPerMinute"},
		{envKey: "LLM_APIKEY", want: "llm.apikey"},
		{envKey: "SEEDER_ARTIFACTDIR", want: "seeder.artifactDir"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
