package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/battleship-online/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Battleship Online Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

// parseOptions runs the CLI with args and captures the resolved options
// instead of starting a server.
func parseOptions(t *testing.T, args ...string) options {
	t.Helper()

	var got options
	capture := func(ctx context.Context, cmd *cli.Command) error {
		got = optionsFrom(cmd)
		return nil
	}

	cmd := newCommand()
	cmd.Action = capture
	for _, sub := range cmd.Commands {
		sub.Action = capture
	}

	if err := cmd.Run(context.Background(), append([]string{"battleship"}, args...)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return got
}

func TestFlagDefaults(t *testing.T) {
	opts := parseOptions(t)

	if opts.port != 8080 {
		t.Errorf("Expected default port 8080, got %d", opts.port)
	}

	if opts.host != "localhost" {
		t.Errorf("Expected default host localhost, got %s", opts.host)
	}

	if opts.ngrok {
		t.Error("ngrok should be disabled by default")
	}
}

func TestFlags(t *testing.T) {
	dir := t.TempDir()
	opts := parseOptions(t, "--port", "9090", "--host", "0.0.0.0", "--rules-dir", dir, "--rules", "alternating", "--debug")

	if opts.port != 9090 || opts.host != "0.0.0.0" {
		t.Errorf("Unexpected address %s", opts.addr())
	}
	if opts.rulesDir != dir {
		t.Errorf("Expected rules dir %s, got %s", dir, opts.rulesDir)
	}
	if opts.rules != "alternating" || !opts.debug {
		t.Errorf("Unexpected options: %+v", opts)
	}
}

func TestEnvSources(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("NGROK_ENABLED", "true")
	t.Setenv("NGROK_AUTH_TOKEN", "secret")

	opts := parseOptions(t, "server")

	if opts.port != 7070 {
		t.Errorf("Expected port from env 7070, got %d", opts.port)
	}
	if !opts.ngrok || opts.ngrokAuth != "secret" {
		t.Errorf("Expected ngrok settings from env, got %+v", opts)
	}
}

func TestStdioAliases(t *testing.T) {
	for _, alias := range []string{"stdio-mcp", "mcp-stdio", "mcp"} {
		t.Run(alias, func(t *testing.T) {
			called := false
			cmd := newCommand()
			cmd.Action = func(ctx context.Context, c *cli.Command) error {
				t.Error("root action should not run")
				return nil
			}
			for _, sub := range cmd.Commands {
				if sub.Name == "stdio-mcp" {
					sub.Action = func(ctx context.Context, c *cli.Command) error {
						called = true
						return nil
					}
				}
			}

			if err := cmd.Run(context.Background(), []string{"battleship", alias}); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if !called {
				t.Errorf("%s did not reach stdio-mcp", alias)
			}
		})
	}
}

func TestMissingDefaultRulesDirFallsBack(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	opts := parseOptions(t)
	if opts.rulesDir != "" {
		t.Errorf("Expected built-in rules when ./rules is missing, got %q", opts.rulesDir)
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat(defaultRulesDir); os.IsNotExist(err) {
		t.Skip("Skipping test - rules directory not found")
	}

	a, err := initializeServices(options{rulesDir: defaultRulesDir, rules: "alternating"})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer a.registry.Close()

	if a.service == nil || a.hub == nil {
		t.Fatal("Expected services to be initialized")
	}

	if got := a.service.ActiveRules(context.Background()).Name; got != "alternating" {
		t.Errorf("Expected alternating rules, got %s", got)
	}
}

func TestInitializeServices_Errors(t *testing.T) {
	if _, err := initializeServices(options{rulesDir: "/non/existent/path"}); err == nil {
		t.Error("Expected error for non-existent rules directory")
	}

	if _, err := initializeServices(options{rules: "no-such-preset"}); err == nil {
		t.Error("Expected error for unknown rules preset")
	}
}

func TestRouter(t *testing.T) {
	a, err := initializeServices(options{})
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer a.registry.Close()

	server := httptest.NewUnstartedServer(nil)
	server.Config.Handler = newRouter(a, mcp.NewClient("http://"+server.Listener.Addr().String()))
	server.Start()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/health")
	if err != nil {
		t.Fatalf("Health request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	// tools/call through /mcp proxies back into the REST API
	request := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      "fleet",
			"arguments": map[string]interface{}{},
		},
	}
	body, _ := json.Marshal(request)

	resp, err = http.Post(server.URL+"/mcp", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("MCP request failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "Carrier") {
		t.Errorf("Expected fleet in MCP response, got %s", buf.String())
	}

	// GET is not routed to the MCP handler
	getResp, err := http.Get(server.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp failed: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode == http.StatusOK {
		t.Error("Expected GET /mcp to be rejected")
	}
}

func TestResolveAPI(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer healthy.Close()

	if got := resolveAPI(healthy.URL); got != healthy.URL {
		t.Errorf("Expected %s, got %q", healthy.URL, got)
	}

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	if got := resolveAPI(unhealthy.URL); got != "" {
		t.Errorf("Expected no API, got %q", got)
	}

	if got := resolveAPI("http://127.0.0.1:1"); got != "" {
		t.Errorf("Expected no API for closed port, got %q", got)
	}
}
