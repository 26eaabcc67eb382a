// Package register adds the filesearch server to an MCP client's configuration.
package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Scope selects the client configuration file that receives the server entry.
type Scope string

const (
	ScopeProject Scope = "project" // <directory>/.mcp.json
	ScopeUser    Scope = "user"    // ~/.claude.json
	ScopeDesktop Scope = "desktop" // <user config dir>/Claude/claude_desktop_config.json
)

var ErrUnknownScope = errors.New("unknown scope")

// Options describes one registration.
type Options struct {
	Scope      Scope
	Directory  string   // Project scope only; defaults to "."
	ServerName string   // Defaults to the binary name without -mcp
	BinaryPath string   // Defaults to the running executable
	ServerArgs []string // Forwarded to the server on launch
}

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Register writes the server entry into the configuration file selected by
// options and returns that file's path. An existing entry of the same name is replaced.
func Register(options Options) (string, error) {
	options, err := complete(options)
	if err != nil {
		return "", err
	}
	configPath, err := ConfigPath(options.Scope, options.Directory)
	if err != nil {
		return "", err
	}

	err = updateServers(configPath, func(servers map[string]interface{}) {
		servers[options.ServerName] = buildEntry(runtime.GOOS, options.BinaryPath, options.ServerArgs)
	})
	if err != nil {
		return "", err
	}
	return configPath, nil
}

// Unregister removes the server entry from the configuration file selected by
// options. It reports whether an entry was present.
func Unregister(options Options) (string, bool, error) {
	options, err := complete(options)
	if err != nil {
		return "", false, err
	}
	configPath, err := ConfigPath(options.Scope, options.Directory)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return configPath, false, nil
	}

	removed := false
	err = updateServers(configPath, func(servers map[string]interface{}) {
		if _, ok := servers[options.ServerName]; ok {
			delete(servers, options.ServerName)
			removed = true
		}
	})
	return configPath, removed, err
}

// ServerName derives a server name from a binary path by stripping .exe and -mcp suffixes.
func ServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

// ConfigPath returns the client configuration file for scope.
func ConfigPath(scope Scope, directory string) (string, error) {
	switch scope {
	case ScopeProject:
		if directory == "" {
			directory = "."
		}
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	case ScopeUser:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(homeDir, ".claude.json"), nil
	case ScopeDesktop:
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("getting config directory: %w", err)
		}
		return filepath.Join(configDir, "Claude", "claude_desktop_config.json"), nil
	default:
		return "", fmt.Errorf("%w %q (must be project, user or desktop)", ErrUnknownScope, scope)
	}
}

func complete(options Options) (Options, error) {
	if options.BinaryPath == "" {
		exe, err := os.Executable()
		if err != nil {
			return options, fmt.Errorf("getting executable path: %w", err)
		}
		resolved, err := filepath.EvalSymlinks(exe)
		if err != nil {
			return options, fmt.Errorf("resolving symlinks for %s: %w", exe, err)
		}
		options.BinaryPath = resolved
	}
	if options.ServerName == "" {
		options.ServerName = ServerName(options.BinaryPath)
	}
	return options, nil
}

// buildEntry wraps the binary in cmd /C on Windows so clients can launch it without a shell.
func buildEntry(goos string, binaryPath string, serverArgs []string) serverEntry {
	if goos == "windows" {
		args := append([]string{"/C", binaryPath}, serverArgs...)
		return serverEntry{Command: "cmd", Args: args}
	}
	return serverEntry{Command: binaryPath, Args: serverArgs}
}

// updateServers applies mutate to the mcpServers object of the JSON file at
// configPath, preserving every other key, and writes the result atomically.
func updateServers(configPath string, mutate func(servers map[string]interface{})) error {
	config := map[string]interface{}{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}

	servers, ok := config["mcpServers"]
	if !ok {
		servers = map[string]interface{}{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]interface{})
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	mutate(serversMap)

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", configDir, err)
	}
	tmpFile, err := os.CreateTemp(configDir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}
	return nil
}
