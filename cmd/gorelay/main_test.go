package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/gorelay"
	"github.com/ZaguanLabs/gorelay/internal/config"
	"github.com/ZaguanLabs/gorelay/provider"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "gorelay") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"bogus"}, &stdout, &stderr); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRun_DryRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--dry-run", "saya adalah seorang yang hebat"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run failed: %v", err)
	}

	output := stdout.String()
	for _, want := range []string{
		"Original: saya adalah seorang yang hebat",
		"English:\nText: I am a great person\nService: openai",
		"Korean:\nText: 나는 훌륭한 사람입니다",
		"Successful: 4",
		"Failed: 0",
		"OpenAI used: 4",
		"Gemini used: 0",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	// Languages are reported in registry order
	if strings.Index(output, "English:") > strings.Index(output, "Chinese:") {
		t.Errorf("English should be reported before Chinese:\n%s", output)
	}
}

func TestRun_DryRunJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--dry-run", "--json", "--provider", "gemini", "--lang", "en, xx", "halo"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run JSON failed: %v", err)
	}

	var result gorelay.AggregateResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if result.Translations[gorelay.LangEnglish].Provider != gorelay.ProviderGemini {
		t.Errorf("en should come from gemini, got %+v", result.Translations[gorelay.LangEnglish])
	}
	if !strings.Contains(result.Translations["xx"].Error, "unsupported language") {
		t.Errorf("xx should fail as unsupported, got %+v", result.Translations["xx"])
	}
	if result.Stats.Successful != 1 || result.Stats.Failed != 1 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
}

func TestRun_Stdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetIn(strings.NewReader("saya adalah seorang yang hebat\n"))
	root.SetArgs([]string{"translate", "--dry-run", "--lang", "ja"})

	if err := root.Execute(); err != nil {
		t.Fatalf("translate from stdin failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "私は素晴らしい人です") {
		t.Errorf("unexpected output: %s", stdout.String())
	}
}

func TestRun_EmptyText(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--dry-run", "   "}, &stdout, &stderr)

	if err == nil || !gorelay.IsValidationError(err) {
		t.Fatalf("expected validation error, got: %v", err)
	}
}

func TestRun_InvalidProvider(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "--dry-run", "--provider", "deepl", "halo"}, &stdout, &stderr)

	if err == nil || !strings.Contains(err.Error(), "--provider") {
		t.Fatalf("expected provider error, got: %v", err)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	err := run([]string{"translate", "halo"}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API_KEY") {
		t.Errorf("expected API key error, got: %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("GORELAY_TEST_VALUE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GORELAY_TEST_VALUE", "")

	loaded, err := loadEnv(path)
	if err != nil {
		t.Fatalf("loadEnv failed: %v", err)
	}
	if loaded != path {
		t.Errorf("loaded = %q, want %q", loaded, path)
	}
	if got := os.Getenv("GORELAY_TEST_VALUE"); got != "loaded" {
		t.Errorf("GORELAY_TEST_VALUE = %q, want loaded", got)
	}

	if _, err := loadEnv(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("expected error for missing explicit env file")
	}

	t.Chdir(dir)
	if _, err := loadEnv(""); err != nil {
		t.Errorf("missing default .env should not fail: %v", err)
	}
}

func TestNewRelay_PreferredFirst(t *testing.T) {
	openai := provider.NewMockProvider(gorelay.ProviderOpenAI)
	gemini := provider.NewMockProvider(gorelay.ProviderGemini)

	relay, err := newRelay([]gorelay.Provider{openai, gemini}, gorelay.ProviderGemini, 1, nil, nopLogger())
	if err != nil {
		t.Fatalf("newRelay failed: %v", err)
	}

	got := relay.Providers()
	if len(got) != 2 || got[0] != gorelay.ProviderGemini {
		t.Errorf("Providers() = %v, want gemini first", got)
	}

	if _, err := newRelay(nil, gorelay.ProviderOpenAI, 0, nil, nopLogger()); err == nil {
		t.Error("expected error without providers")
	}
}

func TestNewRelay_SingleProvider(t *testing.T) {
	gemini := provider.NewMockProvider(gorelay.ProviderGemini)

	relay, err := newRelay([]gorelay.Provider{gemini}, gorelay.ProviderOpenAI, 0, nil, nopLogger())
	if err != nil {
		t.Fatalf("newRelay failed: %v", err)
	}
	if got := relay.Providers(); len(got) != 1 || got[0] != gorelay.ProviderGemini {
		t.Errorf("Providers() = %v, want [gemini]", got)
	}
}

func TestDecorate(t *testing.T) {
	cfg := &config.Config{ProviderRPM: 120, ProviderMaxRetries: 2}
	mock := provider.NewMockProvider(gorelay.ProviderOpenAI)

	p := decorate(mock, cfg, &responseCache{store: newMapCache()}, zerolog.Nop())

	cached, ok := p.(*gorelay.CachedProvider)
	if !ok {
		t.Fatalf("outermost decorator = %T, want *gorelay.CachedProvider", p)
	}
	retry, ok := cached.Unwrap().(*gorelay.RetryableProvider)
	if !ok {
		t.Fatalf("second decorator = %T, want *gorelay.RetryableProvider", cached.Unwrap())
	}
	limited, ok := retry.Unwrap().(*gorelay.RateLimitedProvider)
	if !ok {
		t.Fatalf("third decorator = %T, want *gorelay.RateLimitedProvider", retry.Unwrap())
	}
	if limited.Unwrap() != gorelay.Provider(mock) {
		t.Error("innermost provider should be the client")
	}
	if p.Name() != gorelay.ProviderOpenAI {
		t.Errorf("Name() = %q, want openai", p.Name())
	}

	if plain := decorate(mock, &config.Config{}, nil, zerolog.Nop()); plain != gorelay.Provider(mock) {
		t.Errorf("no decorators expected, got %T", plain)
	}
}

func TestOpenCache_SnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	cfg := &config.Config{CacheTTL: 3600, CacheMaxEntries: 10, CacheSnapshot: path}

	rc, err := openCache(t.Context(), cfg, nopLogger())
	if err != nil {
		t.Fatalf("openCache failed: %v", err)
	}
	if rc == nil {
		t.Fatal("cache should be enabled")
	}
	if err := rc.store.Set("abc:openai", "Hello"); err != nil {
		t.Fatal(err)
	}
	if err := rc.Close(t.Context()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := openCache(t.Context(), cfg, nopLogger())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if val, ok := reopened.store.Get("abc:openai"); !ok || val != "Hello" {
		t.Errorf("snapshot entry not restored: %q (found=%v)", val, ok)
	}

	disabled, err := openCache(t.Context(), &config.Config{}, nopLogger())
	if err != nil || disabled != nil {
		t.Errorf("disabled cache = %v, %v", disabled, err)
	}
}
