// Command mcpops walks through the MCP trigger lifecycle: list, create with a
// tool, verify the endpoint speaks the protocol, add and remove a tool, update
// the description, and clean up.
//
// Usage:
//
//	go run ./cmd/mcpops/              # full demo, asks before deleting
//	go run ./cmd/mcpops/ -list-only   # only list existing MCP triggers
//	go run ./cmd/mcpops/ -auto-delete # delete the demo trigger without asking
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/opsbeacon/opsbeacon-go/pkg/config"
	"github.com/opsbeacon/opsbeacon-go/pkg/mcp"
	"github.com/opsbeacon/opsbeacon-go/pkg/opsbeacon"
)

func main() {
	listOnly := flag.Bool("list-only", false, "Only list existing MCP triggers without creating/modifying")
	skipDelete := flag.Bool("skip-delete", false, "Skip the deletion step at the end")
	autoDelete := flag.Bool("auto-delete", false, "Automatically delete the created trigger without prompting")
	envFile := flag.String("env", "", "Path to .env file (default .env when present)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fatal(err)
	}
	if cfg.APIToken == "" {
		fmt.Fprintln(os.Stderr, "Error: OPSBEACON_API_TOKEN environment variable is required")
		os.Exit(1)
	}

	client, err := opsbeacon.New(opsbeacon.Config{
		APIDomain: cfg.APIDomain,
		APIToken:  cfg.APIToken,
		Debug:     cfg.Debug,
	})
	if err != nil {
		fatal(err)
	}
	defer client.Close()

	ctx := context.Background()

	if *listOnly {
		fmt.Println("Existing MCP Triggers:")
		fmt.Println(strings.Repeat("=", 50))
		listMCPTriggers(ctx, client, "")
		return
	}

	fmt.Println("OpsBeacon MCP Trigger Operations Example")
	fmt.Println(strings.Repeat("=", 50))

	fmt.Println("\n1. Listing all triggers:")
	triggers, err := client.Triggers(ctx)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("   Found %d total triggers\n", len(triggers))

	fmt.Println("\n2. Listing MCP triggers:")
	listMCPTriggers(ctx, client, "   ")

	fmt.Println("\n3. Creating a new MCP trigger:")
	name := uniqueName("demo-mcp")
	fmt.Printf("   Using unique name: %s\n", name)

	toolInstances := []opsbeacon.ToolInstance{{
		InstanceID: "disk-usage",
		TemplateID: "disk-usage",
		Overrides: opsbeacon.ToolOverrides{
			Name:              "disk_usage",
			Description:       "Check disk usage on the devcontroller server",
			Connection:        "devcontroller",
			Command:           "df",
			ArgumentOverrides: map[string]any{},
		},
	}}

	created, err := client.CreateMCPTrigger(ctx, name, opsbeacon.MCPTriggerSpec{
		Description:   "Demo MCP server with system monitoring tools (auto-generated)",
		ToolInstances: toolInstances,
	})
	if err != nil {
		fmt.Printf("   Error creating trigger: %v\n", err)
		fmt.Println("\nNote: skipping remaining steps due to trigger creation failure")
		return
	}
	fmt.Printf("   Created trigger: %s\n", created.Name)

	// Give the trigger a moment to propagate.
	fmt.Println("   Waiting for trigger to be available...")
	time.Sleep(2 * time.Second)

	mcpURL := created.URL
	if mcpURL != "" {
		fmt.Printf("   MCP Server URL: %s\n", mcpURL)
	}
	if created.APIToken != "" {
		fmt.Printf("   API Token: %s\n", created.APIToken)
		fmt.Println("\n   IMPORTANT: Save these credentials! The API token is only shown once.")
	}

	if mcpURL == "" {
		if u, err := client.MCPTriggerURL(ctx, name); err == nil && u != "" {
			mcpURL = u
			fmt.Printf("   MCP Server URL (from trigger): %s\n", mcpURL)
		}
	}

	if mcpURL != "" && created.APIToken != "" {
		fmt.Println("\n   Testing MCP Protocol with disk_usage tool...")
		testMCPEndpoint(ctx, mcpURL, created.APIToken)
	}

	fmt.Println("\n4. Adding a new tool to the trigger:")
	updated, err := client.AddToolToMCPTrigger(ctx, name, opsbeacon.ToolConfig{
		Name:        "memory_usage",
		Description: "Check memory usage on the devcontroller server",
		Connection:  "devcontroller",
		Command:     "free",
	})
	if err != nil {
		fmt.Printf("   Error adding tool: %v\n", err)
	} else {
		fmt.Println("   Successfully added tool 'memory_usage'")
		fmt.Printf("   Trigger now has %d tools\n", toolCount(updated))
	}

	fmt.Println("\n5. Getting trigger details:")
	trigger, err := client.GetTrigger(ctx, name)
	if err != nil || trigger.Kind != opsbeacon.TriggerKindMCP {
		fmt.Printf("   Failed to get trigger details for %q\n", name)
	} else {
		fmt.Printf("   Name: %s\n", trigger.Name)
		fmt.Printf("   Kind: %s\n", trigger.Kind)
		fmt.Printf("   Description: %s\n", trigger.Description)
		if trigger.TriggerURL != "" {
			fmt.Printf("   URL: %s\n", trigger.TriggerURL)
		}
		if trigger.MCPTriggerInfo != nil {
			fmt.Printf("   Tools (%d):\n", len(trigger.MCPTriggerInfo.ToolInstances))
			for _, inst := range trigger.MCPTriggerInfo.ToolInstances {
				fmt.Printf("     - %s: %s\n", inst.Overrides.Name, inst.Overrides.Description)
			}
		}
	}

	fmt.Println("\n6. Updating trigger description:")
	description := "Updated demo MCP server with enhanced system monitoring capabilities"
	if _, err := client.UpdateMCPTrigger(ctx, name, opsbeacon.TriggerUpdate{Description: &description}); err != nil {
		fmt.Printf("   Error updating trigger: %v\n", err)
	} else {
		fmt.Println("   Successfully updated trigger description")
	}

	fmt.Println("\n7. Removing a tool from the trigger:")
	updated, err = client.RemoveToolFromMCPTrigger(ctx, name, "memory_usage")
	if err != nil {
		fmt.Printf("   Error removing tool: %v\n", err)
	} else {
		fmt.Println("   Successfully removed tool 'memory_usage'")
		fmt.Printf("   Trigger now has %d tools\n", toolCount(updated))
	}

	fmt.Println("\n8. Cleaning up:")
	fmt.Printf("   Trigger name: %s\n", name)
	switch {
	case *autoDelete:
		fmt.Println("   Auto-deleting trigger (-auto-delete flag set)")
		deleteTrigger(ctx, client, name)
	case *skipDelete:
		fmt.Println("   Skipping deletion (-skip-delete flag set)")
		fmt.Printf("   Trigger %q has been kept\n", name)
	default:
		fmt.Print("   Delete the demo trigger? (y/n): ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			deleteTrigger(ctx, client, name)
		} else {
			fmt.Printf("   Keeping trigger %q\n", name)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("MCP operations example completed!")
}

func listMCPTriggers(ctx context.Context, client *opsbeacon.Client, indent string) {
	mcpTriggers, err := client.MCPTriggers(ctx)
	if err != nil {
		fatal(err)
	}
	for _, t := range mcpTriggers {
		description := t.Description
		if description == "" {
			description = "No description"
		}
		fmt.Printf("%s- %s: %s\n", indent, t.Name, description)
		if t.TriggerURL != "" {
			fmt.Printf("%s  URL: %s\n", indent, t.TriggerURL)
		}
	}
}

func testMCPEndpoint(ctx context.Context, url, token string) {
	result, err := mcp.TestProtocol(ctx, url, token, mcp.WithTool("disk_usage"))
	if err != nil {
		fmt.Printf("   MCP Protocol test error: %v\n", err)
		return
	}
	if !result.Success {
		fmt.Println("   MCP Protocol test failed")
		steps := []struct {
			name string
			r    mcp.StepResult
		}{
			{"Initialize", result.Initialize},
			{"Tools list", result.Tools},
			{"Execution", result.Execution},
		}
		for _, s := range steps {
			if s.r.Err != nil {
				fmt.Printf("     %s error: %v\n", s.name, s.r.Err)
			} else if !s.r.OK && s.r.Message != "" {
				fmt.Printf("     %s: %s\n", s.name, s.r.Message)
			}
		}
		return
	}

	fmt.Println("   MCP Protocol test successful!")
	if result.Execution.Response == nil {
		return
	}
	var toolResult mcp.ToolResult
	if err := json.Unmarshal(result.Execution.Response.Result, &toolResult); err != nil {
		return
	}
	for _, block := range toolResult.Content {
		if block.Type != "text" {
			continue
		}
		output := block.Text
		if len(output) > 200 {
			fmt.Printf("   Output preview: %s...\n", output[:200])
		} else {
			fmt.Printf("   Output: %s\n", output)
		}
		break
	}
}

func deleteTrigger(ctx context.Context, client *opsbeacon.Client, name string) {
	if err := client.DeleteTrigger(ctx, name); err != nil {
		fmt.Printf("   Failed to delete trigger %q: %v\n", name, err)
		return
	}
	fmt.Printf("   Successfully deleted trigger %q\n", name)
}

func toolCount(update map[string]any) int {
	info, _ := update["mcpTriggerInfo"].(map[string]any)
	tools, _ := info["toolInstances"].([]any)
	return len(tools)
}

// uniqueName builds a name with a timestamp and random suffix so repeated
// demo runs do not collide.
func uniqueName(prefix string) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102-150405"), suffix)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
