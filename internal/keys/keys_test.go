package keys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	// Clear any ambient keys so the file is the only source.
	for _, envVar := range providerEnvVars {
		t.Setenv(envVar, "")
	}
	return NewManagerAt(filepath.Join(t.TempDir(), "keys.env"))
}

func TestSetGetDelete(t *testing.T) {
	m := testManager(t)

	if err := m.Set("anthropic", "sk-ant-abc123def456"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := m.Get("anthropic"); got != "sk-ant-abc123def456" {
		t.Errorf("Get = %q", got)
	}

	if err := m.Delete("anthropic"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := m.Get("anthropic"); got != "" {
		t.Errorf("Get after delete = %q", got)
	}
	// Deleting again is not an error.
	if err := m.Delete("anthropic"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestEnvPrecedence(t *testing.T) {
	m := testManager(t)
	if err := m.Set("openai", "sk-from-file-0123456789"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "sk-from-env-0123456789")

	if got := m.Get("openai"); got != "sk-from-env-0123456789" {
		t.Errorf("Get = %q, want env value", got)
	}
}

func TestSetValidatesFormat(t *testing.T) {
	m := testManager(t)
	tests := []struct {
		provider string
		key      string
		wantErr  bool
	}{
		{"anthropic", "sk-ant-good", false},
		{"anthropic", "sk-wrong-prefix", true},
		{"openai", "sk-good", false},
		{"openai", "plainkey", true},
		{"gemini", "AIzaGood", false},
		{"ollama", "anything-goes", false},
		{"mystery", "key", true},
		{"anthropic", "", true},
	}
	for _, tt := range tests {
		err := m.Set(tt.provider, tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%q, %q) error = %v, wantErr %v", tt.provider, tt.key, err, tt.wantErr)
		}
	}
}

func TestKeyFilePermissionsAndFormat(t *testing.T) {
	m := testManager(t)
	if err := m.Set("gemini", "AIza0123456789"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	info, err := os.Stat(m.path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key file mode = %o, want 600", perm)
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "#") {
		t.Errorf("key file missing header comment:\n%s", content)
	}
	if !strings.Contains(content, "GEMINI_API_KEY=AIza0123456789") {
		t.Errorf("key file content:\n%s", content)
	}
}

func TestList(t *testing.T) {
	m := testManager(t)
	if err := m.Set("openai", "sk-0123456789abcdef"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env0123456789")

	statuses := m.List()
	if len(statuses) != len(Providers()) {
		t.Fatalf("got %d statuses, want %d", len(statuses), len(Providers()))
	}
	byProvider := make(map[string]Status)
	for _, st := range statuses {
		byProvider[st.Provider] = st
	}
	if st := byProvider["anthropic"]; st.Source != "env" {
		t.Errorf("anthropic source = %q, want env", st.Source)
	}
	if st := byProvider["openai"]; st.Source != "file" {
		t.Errorf("openai source = %q, want file", st.Source)
	}
	if st := byProvider["ollama"]; st.Source != "" || st.Masked != "" {
		t.Errorf("ollama status = %+v, want unset", st)
	}
	if st := byProvider["openai"]; strings.Contains(st.Masked, "0123456789ab") {
		t.Errorf("masked key leaks middle: %q", st.Masked)
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"12345678", "********"},
		{"sk-ant-abcdef1234", "sk-a****1234"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadSecretFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	go func() {
		w.WriteString("  sk-ant-piped123  \n")
		w.Close()
	}()

	out, err := os.CreateTemp(t.TempDir(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	got, err := ReadSecret(r, out, "API key: ")
	if err != nil {
		t.Fatalf("ReadSecret: %v", err)
	}
	if got != "sk-ant-piped123" {
		t.Errorf("ReadSecret = %q", got)
	}
}

func TestGetUnknownProvider(t *testing.T) {
	m := testManager(t)
	if got := m.Get("mystery"); got != "" {
		t.Errorf("Get = %q, want empty", got)
	}
}
