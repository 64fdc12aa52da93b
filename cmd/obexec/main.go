// Command obexec executes a workspace command over the OpsBeacon API.
//
// Usage:
//
//	# Structured invocation
//	go run ./cmd/obexec/ -connection server1 -command restart-service -args "--service nginx"
//
//	# Full command line
//	go run ./cmd/obexec/ -command-line "ob run nvd-cpe-ecs-task"
//
// Credentials come from -api-domain/-api-token, the OPSBEACON_API_DOMAIN and
// OPSBEACON_API_TOKEN environment variables, a .env file, or
// ~/.opsbeacon/config.yaml.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/opsbeacon/opsbeacon-go/pkg/config"
	"github.com/opsbeacon/opsbeacon-go/pkg/opsbeacon"
)

func main() {
	commandLine := flag.String("command-line", "", "Full command line text to execute")
	connection := flag.String("connection", "", "Connection identifier")
	command := flag.String("command", "", "Command name to execute")
	argLine := flag.String("args", "", "Arguments to pass to the command, shell-quoted")
	apiDomain := flag.String("api-domain", "", "OpsBeacon API domain (or set OPSBEACON_API_DOMAIN)")
	apiToken := flag.String("api-token", "", "OpsBeacon API token (or set OPSBEACON_API_TOKEN)")
	envFile := flag.String("env", "", "Path to .env file (default .env when present)")
	jsonOut := flag.Bool("json", false, "Output raw JSON response")
	quiet := flag.Bool("quiet", false, "Suppress informational output")
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fatal(err)
	}
	if *apiDomain != "" {
		cfg.APIDomain = *apiDomain
	}
	if *apiToken != "" {
		cfg.APIToken = *apiToken
	}
	if cfg.APIToken == "" {
		fmt.Fprintln(os.Stderr, "Error: API token not provided. Use -api-token or set OPSBEACON_API_TOKEN")
		os.Exit(1)
	}
	if *commandLine == "" && (*connection == "" || *command == "") {
		fmt.Fprintln(os.Stderr, "Error: either -command-line or both -connection and -command must be provided")
		os.Exit(1)
	}

	client, err := opsbeacon.New(opsbeacon.Config{
		APIDomain: cfg.APIDomain,
		APIToken:  cfg.APIToken,
		Debug:     *debug || cfg.Debug,
	})
	if err != nil {
		fatal(err)
	}
	defer client.Close()

	if !*quiet {
		if *commandLine != "" {
			fmt.Printf("Executing command line: %s\n", *commandLine)
		} else {
			fmt.Printf("Executing command %q on connection %q\n", *command, *connection)
			if *argLine != "" {
				fmt.Printf("Arguments: %s\n", *argLine)
			}
		}
	}

	req := opsbeacon.RunRequest{
		CommandText: *commandLine,
		Connection:  *connection,
		Command:     *command,
		ArgLine:     *argLine,
	}
	result, err := client.Run(context.Background(), req)
	if err != nil {
		fatal(err)
	}

	// The service can report failure inside a 200 response.
	if msg, ok := result["error"].(string); ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		os.Exit(1)
	}

	if *jsonOut {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(out))
		return
	}

	if !*quiet {
		fmt.Println("\nExecution Result:")
		fmt.Println(strings.Repeat("-", 50))
	}
	printResult(result)
}

// printResult prints the response fields in stable order, with multi-line
// output on its own lines.
func printResult(result map[string]any) {
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if s, ok := result[k].(string); ok && k == "output" {
			fmt.Printf("%s:\n%s\n", k, s)
			continue
		}
		fmt.Printf("%s: %v\n", k, result[k])
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
