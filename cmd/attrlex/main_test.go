package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"attrlex/internal/diagfmt"
	"attrlex/internal/driver"
)

type cliResult struct {
	stdout, stderr string
	err            error
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := cmd.Execute()
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestTokenizeFilePretty(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.php": "<?php #[A]\n"})

	res := runCLI(t, "", "tokenize", filepath.Join(dir, "a.php"))
	if res.err != nil {
		t.Fatalf("tokenize: %v\n%s", res.err, res.stderr)
	}
	for _, want := range []string{
		`AttributeOpen    "#[" at 1:7 [-> 3]`,
		`AttributeClose   "]" at 1:10 [1 <-]`,
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("expected %q in:\n%s", want, res.stdout)
		}
	}
	if res.stderr != "" {
		t.Errorf("unexpected stderr:\n%s", res.stderr)
	}
}

func TestTokenizeDirJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.php":     "<?php #[A]",
		"sub/b.php": "<?php #[B(1)]",
		"c.txt":     "#[ignored",
	})

	res := runCLI(t, "", "tokenize", "--format", "json", "--ui", "off", "--path-mode", "basename", dir)
	if res.err != nil {
		t.Fatalf("tokenize: %v\n%s", res.err, res.stderr)
	}
	var files []diagfmt.FileTokensOutput
	if err := json.Unmarshal([]byte(res.stdout), &files); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.stdout)
	}
	if len(files) != 2 || files[0].File != "a.php" || files[1].File != "b.php" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestTokenizeStrictFails(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.php": "<?php\n#[A(1)\n"})

	res := runCLI(t, "", "tokenize", "--policy", "strict", filepath.Join(dir, "a.php"))
	if !errors.Is(res.err, driver.ErrUnterminatedAttribute) {
		t.Fatalf("expected ErrUnterminatedAttribute, got %v", res.err)
	}
	if !strings.Contains(res.stderr, "ERROR LEX1010") {
		t.Errorf("expected unterminated diagnostic on stderr:\n%s", res.stderr)
	}
	if !strings.Contains(res.stdout, "[unterminated]") {
		t.Errorf("tokens must still be printed:\n%s", res.stdout)
	}

	// best-effort: тот же вход без ошибки
	if res := runCLI(t, "", "tokenize", filepath.Join(dir, "a.php")); res.err != nil {
		t.Errorf("best-effort must not fail: %v", res.err)
	}
}

func TestTokenizeStdin(t *testing.T) {
	res := runCLI(t, "<?php #[A]", "tokenize", "--skip-trivia", "-")
	if res.err != nil {
		t.Fatalf("tokenize: %v", res.err)
	}
	if strings.Contains(res.stdout, "Whitespace") || !strings.Contains(res.stdout, "AttributeClose") {
		t.Errorf("unexpected output:\n%s", res.stdout)
	}
}

func TestConfigPolicyAndFlagOverride(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"attrlex.toml": "[tokenize]\npolicy = \"strict\"\n",
		"a.php":        "<?php #[A",
	})
	file := filepath.Join(dir, "a.php")

	if res := runCLI(t, "", "tokenize", file); !errors.Is(res.err, driver.ErrUnterminatedAttribute) {
		t.Errorf("config policy must apply, got %v", res.err)
	}
	if res := runCLI(t, "", "tokenize", "--policy", "best-effort", file); res.err != nil {
		t.Errorf("flag must override config, got %v", res.err)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"attrlex.toml": "[tokenize]\nencoding = \"ebcdic\"\n",
		"a.php":        "<?php",
	})
	res := runCLI(t, "", "tokenize", filepath.Join(dir, "a.php"))
	if res.err == nil || !strings.Contains(res.err.Error(), "attrlex.toml") {
		t.Fatalf("expected config error, got %v", res.err)
	}
}

func TestSpansPretty(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.php": "<?php\n#[A, B(#[C])]\nclass X {}\n"})

	res := runCLI(t, "", "spans", "--path-mode", "basename", filepath.Join(dir, "a.php"))
	if res.err != nil {
		t.Fatalf("spans: %v", res.err)
	}
	want := "a.php\n" +
		"  2:1-2:13 A, B\n" +
		"    2:8-2:11 C\n"
	if res.stdout != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.stdout, want)
	}
}

func TestSpansJSONEmptyDir(t *testing.T) {
	res := runCLI(t, "", "spans", "--format", "json", t.TempDir())
	if res.err != nil {
		t.Fatalf("spans: %v", res.err)
	}
	if strings.TrimSpace(res.stdout) != "[]" {
		t.Errorf("got %q", res.stdout)
	}
}

func TestCheck(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.php":     "<?php #[A(']')] #[B]",
		"broken.php": "<?php #[A(",
	})

	res := runCLI(t, "", "check", dir)
	if res.err != nil {
		t.Fatalf("check: %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "checked 2 file(s): 0 violation(s), 1 unterminated attribute(s)") {
		t.Errorf("unexpected summary:\n%s", res.stdout)
	}

	res = runCLI(t, "", "check", "--policy", "strict", dir)
	if !errors.Is(res.err, driver.ErrUnterminatedAttribute) {
		t.Errorf("strict check must fail, got %v", res.err)
	}
}

func TestCheckShortFormat(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"broken.php": "<?php #[A(",
	})

	res := runCLI(t, "", "check", "--format", "short", dir)
	if res.err != nil {
		t.Fatalf("check: %v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stderr, "error LEX1010 broken.php:") {
		t.Errorf("expected short diagnostic line, got:\n%s", res.stderr)
	}

	res = runCLI(t, "", "check", "--format", "xml", dir)
	if res.err == nil || !strings.Contains(res.err.Error(), "pretty|json|short") {
		t.Errorf("expected format error, got %v", res.err)
	}
}

func TestMaxDiagnosticsReportsDropped(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.php": "<?php #[A(1))))]"})
	res := runCLI(t, "", "--max-diagnostics", "1", "tokenize", filepath.Join(dir, "a.php"))
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stderr, "2 more diagnostic(s) not shown") {
		t.Errorf("expected dropped notice in stderr:\n%s", res.stderr)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.php": "<?php #[A]"})
	cacheDir := filepath.Join(t.TempDir(), "cache")
	file := filepath.Join(dir, "a.php")

	first := runCLI(t, "", "tokenize", "--cache", "--cache-dir", cacheDir, file)
	second := runCLI(t, "", "tokenize", "--cache", "--cache-dir", cacheDir, file)
	if first.err != nil || second.err != nil {
		t.Fatalf("tokenize: %v / %v", first.err, second.err)
	}
	if first.stdout != second.stdout {
		t.Errorf("cached output differs:\n%s\nvs\n%s", first.stdout, second.stdout)
	}

	res := runCLI(t, "", "cache", "clear", "--cache-dir", cacheDir)
	if res.err != nil || !strings.Contains(res.stdout, "cleared") {
		t.Fatalf("cache clear: %v %q", res.err, res.stdout)
	}
	res = runCLI(t, "", "cache", "dir", "--cache-dir", cacheDir)
	if strings.TrimSpace(res.stdout) != cacheDir {
		t.Errorf("cache dir = %q, want %q", res.stdout, cacheDir)
	}
}

func TestTimingsFlag(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.php": "<?php #[A]"})
	res := runCLI(t, "", "--timings", "tokenize", filepath.Join(dir, "a.php"))
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, want := range []string{"INFO OBS6001", "config ", "tokenize ", "total "} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("expected %q in stderr:\n%s", want, res.stderr)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	res := runCLI(t, "", "version", "--format", "json")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "attrlex" || payload.Version == "" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestBadFlagValues(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.php": "<?php"})
	file := filepath.Join(dir, "a.php")

	for _, args := range [][]string{
		{"tokenize", "--format", "xml", file},
		{"tokenize", "--ui", "maybe", file},
		{"tokenize", "--policy", "lenient", file},
		{"tokenize", "--path-mode", "short", file},
		{"spans", "--encoding", "ebcdic", file},
	} {
		if res := runCLI(t, "", args...); res.err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
