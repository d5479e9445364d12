package keys

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/dshills/loom/internal/config"
)

// envFileName is the key store under the config directory.
const envFileName = "keys.env"

// providerEnvVars maps provider names to the environment variable each key is
// stored and looked up under.
var providerEnvVars = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"ollama":    "OLLAMA_API_KEY",
}

// keyPrefixes are format sanity checks per provider. Empty means any format.
var keyPrefixes = map[string]string{
	"anthropic": "sk-ant-",
	"openai":    "sk-",
	"gemini":    "AIza",
}

// Providers returns the providers a key can be stored for, sorted.
func Providers() []string {
	out := make([]string, 0, len(providerEnvVars))
	for p := range providerEnvVars {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Manager stores and retrieves provider API keys. Process environment wins
// over the key file, so CI and one-off overrides need no setup.
type Manager struct {
	path string
}

// NewManager creates a Manager rooted at the loom config directory.
func NewManager() (*Manager, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return &Manager{path: filepath.Join(dir, envFileName)}, nil
}

// NewManagerAt creates a Manager with an explicit key file path.
func NewManagerAt(path string) *Manager {
	return &Manager{path: path}
}

// Get returns the API key for a provider. The environment variable takes
// precedence over the stored file. Returns "" when no key is configured.
func (m *Manager) Get(provider string) string {
	envVar, ok := providerEnvVars[provider]
	if !ok {
		return ""
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	stored, err := m.load()
	if err != nil {
		return ""
	}
	return stored[envVar]
}

// Set validates and stores a key for a provider. The key file is written with
// owner-only permissions.
func (m *Manager) Set(provider, key string) error {
	envVar, ok := providerEnvVars[provider]
	if !ok {
		return fmt.Errorf("unknown provider: %s", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key for %s is empty", provider)
	}
	if err := validateFormat(provider, key); err != nil {
		return err
	}

	stored, err := m.load()
	if err != nil {
		return err
	}
	stored[envVar] = key
	return m.save(stored)
}

// Delete removes a stored key. Deleting a key that is not stored is not an
// error.
func (m *Manager) Delete(provider string) error {
	envVar, ok := providerEnvVars[provider]
	if !ok {
		return fmt.Errorf("unknown provider: %s", provider)
	}
	stored, err := m.load()
	if err != nil {
		return err
	}
	if _, present := stored[envVar]; !present {
		return nil
	}
	delete(stored, envVar)
	return m.save(stored)
}

// Status describes one provider's key configuration.
type Status struct {
	Provider string
	// Source is "env", "file", or "" when no key is set.
	Source string
	// Masked is the key with all but the edges hidden.
	Masked string
}

// List reports key status for every known provider, sorted by provider.
func (m *Manager) List() []Status {
	stored, _ := m.load()
	var out []Status
	for _, provider := range Providers() {
		envVar := providerEnvVars[provider]
		st := Status{Provider: provider}
		if v := os.Getenv(envVar); v != "" {
			st.Source = "env"
			st.Masked = Mask(v)
		} else if v := stored[envVar]; v != "" {
			st.Source = "file"
			st.Masked = Mask(v)
		}
		out = append(out, st)
	}
	return out
}

// Mask hides the middle of a key, keeping enough of the edges to recognize it.
func Mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}

// ReadSecret prompts on w and reads a key from r without echo when r is a
// terminal. Non-terminal input (pipes, tests) falls back to a line read.
func ReadSecret(r *os.File, w *os.File, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	if term.IsTerminal(int(r.Fd())) {
		raw, err := term.ReadPassword(int(r.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("reading key: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading key: %w", err)
		}
		return "", fmt.Errorf("no input")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func validateFormat(provider, key string) error {
	prefix, ok := keyPrefixes[provider]
	if !ok || strings.HasPrefix(key, prefix) {
		return nil
	}
	return fmt.Errorf("%s keys start with %q", provider, prefix)
}

func (m *Manager) load() (map[string]string, error) {
	out := make(map[string]string)
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

func (m *Manager) save(stored map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	vars := make([]string, 0, len(stored))
	for k := range stored {
		vars = append(vars, k)
	}
	sort.Strings(vars)

	var b strings.Builder
	b.WriteString("# loom provider API keys. Managed by `loom keys`.\n")
	for _, k := range vars {
		fmt.Fprintf(&b, "%s=%s\n", k, stored[k])
	}
	return os.WriteFile(m.path, []byte(b.String()), 0o600)
}
