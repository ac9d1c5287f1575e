package i18n

import (
	"testing"
	"testing/fstest"
)

func TestDefaultCatalog(t *testing.T) {
	b, err := Default("es")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.T("errors.http.404"); got != "El recurso solicitado no fue encontrado." {
		t.Fatalf("unexpected 404 message %q", got)
	}
	if got := b.T("settings.saved"); got != "Configuración guardada correctamente." {
		t.Fatalf("unexpected settings message %q", got)
	}
	if got := b.T("missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %q", got)
	}
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"loc/es.yaml": {Data: []byte("greeting: hola\nonly_es: si\n")},
		"loc/en.yaml": {Data: []byte("greeting: hello\n")},
	}

	b, err := Load(fsys, "loc", "en", "es")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.T("greeting"); got != "hello" {
		t.Fatalf("expected en greeting, got %q", got)
	}
	if got := b.T("only_es"); got != "si" {
		t.Fatalf("expected fallback value, got %q", got)
	}

	b, err = Load(fsys, "loc", "fr", "es")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b.Locale() != "es" {
		t.Fatalf("expected fallback locale, got %s", b.Locale())
	}
}

func TestMissingFallbackFails(t *testing.T) {
	fsys := fstest.MapFS{"loc/en.yaml": {Data: []byte("a: b\n")}}
	if _, err := Load(fsys, "loc", "en", "es"); err == nil {
		t.Fatal("expected error for missing fallback catalog")
	}
}
