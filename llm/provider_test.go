package llm

import (
	"fmt"
	"reflect"
	"testing"
)

func TestNewProvider(t *testing.T) {
	cfg := Config{Provider: "ollama", Model: "test-model"}
	p, err := NewProvider(cfg)
	if err != nil {
		t.Fatalf("NewProvider(%q) returned error: %v", cfg.Provider, err)
	}
	gotType := fmt.Sprintf("%T", p)
	if gotType != "*llm.ollamaProvider" {
		t.Errorf("NewProvider(%q) type = %s, want *llm.ollamaProvider", cfg.Provider, gotType)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	cfg := Config{
		Provider: "doesnotexist",
		Model:    "test-model",
	}
	_, err := NewProvider(cfg)
	if err == nil {
		t.Fatal("expected error for unknown provider, got nil")
	}
	want := "unknown llm provider: doesnotexist"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestNewProviderEmpty(t *testing.T) {
	cfg := Config{
		Provider: "",
		Model:    "test-model",
	}
	_, err := NewProvider(cfg)
	if err == nil {
		t.Fatal("expected error for empty provider, got nil")
	}
	want := "llm provider not specified"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

// TestOllamaDefaultBaseURL verifies that NewOllama fills in the local
// default when the config leaves BaseURL empty.
func TestOllamaDefaultBaseURL(t *testing.T) {
	p, err := NewProvider(Config{Provider: "ollama", Model: "test-model"})
	if err != nil {
		t.Fatalf("NewProvider(ollama): %v", err)
	}
	if got := baseURLOf(t, p); got != "http://localhost:11434" {
		t.Errorf("default BaseURL = %q, want %q", got, "http://localhost:11434")
	}
}

// TestOllamaExplicitBaseURLPreserved verifies a user-supplied BaseURL
// is not overwritten by the default.
func TestOllamaExplicitBaseURLPreserved(t *testing.T) {
	customURL := "http://my-server:9999"
	p, err := NewProvider(Config{Provider: "ollama", Model: "test-model", BaseURL: customURL})
	if err != nil {
		t.Fatalf("NewProvider(ollama): %v", err)
	}
	if got := baseURLOf(t, p); got != customURL {
		t.Errorf("BaseURL = %q, want %q", got, customURL)
	}
}

// TestModelPassedThrough verifies the model from Config is stored
// inside the provider.
func TestModelPassedThrough(t *testing.T) {
	p, err := NewProvider(Config{Provider: "ollama", Model: "llama3:latest"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	v := reflect.ValueOf(p).Elem()
	base := v.FieldByName("base")
	cfgField := base.FieldByName("cfg")
	gotModel := cfgField.FieldByName("Model").String()

	if gotModel != "llama3:latest" {
		t.Errorf("model = %q, want %q", gotModel, "llama3:latest")
	}
}

// TestAPIKeyPassedThrough verifies the API key from Config is stored
// inside the provider.
func TestAPIKeyPassedThrough(t *testing.T) {
	p, err := NewProvider(Config{Provider: "ollama", Model: "test", APIKey: "sk-test-key-123"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	v := reflect.ValueOf(p).Elem()
	base := v.FieldByName("base")
	cfgField := base.FieldByName("cfg")
	gotKey := cfgField.FieldByName("APIKey").String()

	if gotKey != "sk-test-key-123" {
		t.Errorf("api key = %q, want %q", gotKey, "sk-test-key-123")
	}
}

// baseURLOf reaches p.base.cfg.BaseURL via reflection, since
// ollamaProvider's fields are unexported.
func baseURLOf(t *testing.T, p Provider) string {
	t.Helper()
	v := reflect.ValueOf(p).Elem()
	base := v.FieldByName("base")
	cfgField := base.FieldByName("cfg")
	return cfgField.FieldByName("BaseURL").String()
}
