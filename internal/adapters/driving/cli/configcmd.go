package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/studyhall-labs/studyhall-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and change the studyhall configuration.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runConfigShow,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [completion|embedding]",
	Short: "Store an API key",
	Long: `Prompts for an API key and stores it in the config file.

  completion - the Anthropic key used to answer questions
  embedding  - the OpenAI key used to embed course content`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	dataDir, err := c.ResolveDataDir()
	if err != nil {
		return err
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Printf("  Max results: %d\n", c.MaxResults)
	cmd.Printf("  Course match threshold: %g\n", c.CourseMatchThreshold)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Chunk size: %d\n", c.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", c.ChunkOverlap)
	cmd.Println()

	cmd.Println("[Completion]")
	cmd.Printf("  Model: %s\n", c.Completion.Model)
	cmd.Printf("  API Key: %s\n", keyStatus(c.Completion.APIKey))
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Model: %s\n", c.Embedding.Model)
	cmd.Printf("  API Key: %s\n", keyStatus(c.Embedding.APIKey))
	if c.Embedding.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", c.Embedding.RequestsPerSecond)
	}
	cmd.Println()

	cmd.Println("[Conversation]")
	cmd.Printf("  Max history: %d exchanges\n", c.MaxHistory)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	target := args[0]
	if target != "completion" && target != "embedding" {
		return fmt.Errorf("unknown key target %q (want completion or embedding)", target)
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Printf("Enter %s API key: ", target)
	key := readSecret()
	cmd.Println()
	if key == "" {
		return fmt.Errorf("no key entered")
	}

	switch target {
	case "completion":
		c.Completion.APIKey = key
	case "embedding":
		c.Embedding.APIKey = key
	}

	path := cfgFile
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	if err := c.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cmd.Printf("Saved %s key (%s) to %s\n", target, maskAPIKey(key), path)
	return nil
}

// readSecret reads a key from stdin without echo when possible.
func readSecret() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func keyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
