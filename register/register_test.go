package register

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func Test_ServerName(t *testing.T) {
	tests := []struct {
		name       string
		binaryPath string
		want       string
	}{
		{"strip -mcp suffix", "filesearch-mcp", "filesearch"},
		{"strip .exe and -mcp", "filesearch-mcp.exe", "filesearch"},
		{"no -mcp suffix passthrough", "myserver", "myserver"},
		{"only .exe suffix", "myserver.exe", "myserver"},
		{"full path stripped to base", "/usr/local/bin/filesearch-mcp", "filesearch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ServerName(tt.binaryPath)
			if got != tt.want {
				t.Errorf("ServerName(%q) = %q, want %q", tt.binaryPath, got, tt.want)
			}
		})
	}
}

func readServers(t *testing.T, configPath string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	var config map[string]interface{}
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	servers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		t.Fatalf("mcpServers missing or not an object: %s", data)
	}
	return servers
}

func Test_Register_CreatesProjectFile(t *testing.T) {
	dir := t.TempDir()

	configPath, err := Register(Options{
		Scope:      ScopeProject,
		Directory:  dir,
		BinaryPath: "/usr/local/bin/filesearch-mcp",
		ServerArgs: []string{"--no-watch"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if configPath != filepath.Join(dir, ".mcp.json") {
		t.Errorf("configPath = %q", configPath)
	}

	servers := readServers(t, configPath)
	entry, ok := servers["filesearch"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected filesearch entry, got %v", servers)
	}
	if entry["command"] == nil {
		t.Errorf("expected command in entry, got %v", entry)
	}
}

func Test_Register_PreservesOtherKeys(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".mcp.json")
	existing := `{"mcpServers": {"other": {"command": "/bin/other"}}, "theme": "dark"}`
	if err := os.WriteFile(configPath, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Register(Options{Scope: ScopeProject, Directory: dir, ServerName: "files", BinaryPath: "/bin/fs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(configPath)
	var config map[string]interface{}
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatal(err)
	}
	if config["theme"] != "dark" {
		t.Errorf("expected unrelated key preserved, got %s", data)
	}
	servers := readServers(t, configPath)
	if _, ok := servers["other"]; !ok {
		t.Error("expected existing server preserved")
	}
	if _, ok := servers["files"]; !ok {
		t.Error("expected new server added")
	}
}

func Test_Register_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".mcp.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Register(Options{Scope: ScopeProject, Directory: dir, BinaryPath: "/bin/fs"})
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func Test_Register_UnknownScope(t *testing.T) {
	_, err := Register(Options{Scope: "global", BinaryPath: "/bin/fs"})
	if !errors.Is(err, ErrUnknownScope) {
		t.Fatalf("expected ErrUnknownScope, got %v", err)
	}
}

func Test_Unregister(t *testing.T) {
	dir := t.TempDir()
	options := Options{Scope: ScopeProject, Directory: dir, BinaryPath: "/bin/filesearch-mcp"}
	if _, err := Register(options); err != nil {
		t.Fatal(err)
	}

	_, removed, err := Unregister(options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Fatal("expected entry to be removed")
	}
	if servers := readServers(t, filepath.Join(dir, ".mcp.json")); len(servers) != 0 {
		t.Errorf("expected no servers left, got %v", servers)
	}

	_, removed, err = Unregister(options)
	if err != nil || removed {
		t.Errorf("second unregister: removed=%v err=%v", removed, err)
	}
}

func Test_Unregister_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, removed, err := Unregister(Options{Scope: ScopeProject, Directory: dir, BinaryPath: "/bin/fs"})
	if err != nil || removed {
		t.Errorf("removed=%v err=%v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".mcp.json")); !os.IsNotExist(err) {
		t.Error("unregister should not create the file")
	}
}

func Test_buildEntry(t *testing.T) {
	entry := buildEntry("windows", `C:\bin\filesearch-mcp.exe`, []string{"--no-watch"})
	if entry.Command != "cmd" {
		t.Errorf("Command = %q, want cmd", entry.Command)
	}
	want := []string{"/C", `C:\bin\filesearch-mcp.exe`, "--no-watch"}
	if len(entry.Args) != len(want) {
		t.Fatalf("Args = %v, want %v", entry.Args, want)
	}
	for i := range want {
		if entry.Args[i] != want[i] {
			t.Errorf("Args[%d] = %q, want %q", i, entry.Args[i], want[i])
		}
	}

	entry = buildEntry("linux", "/usr/bin/filesearch-mcp", nil)
	if entry.Command != "/usr/bin/filesearch-mcp" || entry.Args != nil {
		t.Errorf("unexpected unix entry: %+v", entry)
	}
}

func Test_ConfigPath(t *testing.T) {
	dir := t.TempDir()
	got, err := ConfigPath(ScopeProject, dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, ".mcp.json") {
		t.Errorf("project path = %q", got)
	}

	got, err = ConfigPath(ScopeUser, "")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != ".claude.json" {
		t.Errorf("user path = %q", got)
	}
}
