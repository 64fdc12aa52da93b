// Command mcpcheck verifies that an MCP trigger endpoint speaks the protocol:
// initialize handshake, tool discovery, and one tool execution.
//
// Usage:
//
//	go run ./cmd/mcpcheck/ -url https://mcp.console.opsbeacon.com/t/abc -token <trigger-token>
//	go run ./cmd/mcpcheck/ -url ... -token ... -tool disk_usage -args '{"path":"/"}'
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/opsbeacon/opsbeacon-go/pkg/mcp"
)

func main() {
	url := flag.String("url", "", "MCP server URL (the trigger's URL)")
	token := flag.String("token", "", "Trigger API token")
	toolName := flag.String("tool", "", "Tool to execute (default: first listed)")
	argsJSON := flag.String("args", "", "Tool arguments as a JSON object")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall check timeout")
	verbose := flag.Bool("v", false, "Verbose protocol logging")
	flag.Parse()

	if *url == "" || *token == "" {
		fmt.Fprintln(os.Stderr, "Error: -url and -token are required")
		os.Exit(2)
	}

	var toolArgs map[string]any
	if *argsJSON != "" {
		if err := json.Unmarshal([]byte(*argsJSON), &toolArgs); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -args JSON: %v\n", err)
			os.Exit(2)
		}
	}

	transport := mcp.NewBearerTransport(*url, *token)
	transport.SetClient(&http.Client{Timeout: *timeout})

	opts := []mcp.TesterOption{
		mcp.WithTransport(transport),
		mcp.WithToolArguments(toolArgs),
	}
	if *toolName != "" {
		opts = append(opts, mcp.WithTool(*toolName))
	}
	if *verbose {
		opts = append(opts, mcp.WithLogger(hclog.New(&hclog.LoggerOptions{
			Name:  "mcpcheck",
			Level: hclog.Debug,
		})))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := mcp.TestProtocol(ctx, *url, *token, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printStep("initialize", result.Initialize)
	printStep("tools/list", result.Tools)
	if result.ToolCount > 0 {
		fmt.Printf("  %d tool(s) listed\n", result.ToolCount)
	}
	printStep("tools/call", result.Execution)

	if !result.Success {
		fmt.Println("\nFAIL")
		os.Exit(1)
	}
	fmt.Printf("\nOK: tool %q executed\n", result.ToolName)
}

func printStep(name string, r mcp.StepResult) {
	switch {
	case r.OK:
		fmt.Printf("ok   %s\n", name)
	case r.Err != nil:
		fmt.Printf("FAIL %s: %v\n", name, r.Err)
	case r.Message != "":
		fmt.Printf("skip %s: %s\n", name, r.Message)
	default:
		fmt.Printf("skip %s\n", name)
	}
}
