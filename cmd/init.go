package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huanfeng/signcfg/internal/config"
	"github.com/huanfeng/signcfg/pkg/models"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create signcfg.yaml and an example key.properties",
	Long:  `Write an annotated signcfg.yaml and key.properties.example in the current directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		configPath := config.DefaultFileName
		if cfgFile != "" {
			configPath = cfgFile
		}

		configExists := false
		if _, err := os.Stat(configPath); err == nil {
			configExists = true
		}

		if configExists && !initForce {
			fmt.Fprintf(out, "⚠️  Configuration file %s already exists\n", configPath)
			return fmt.Errorf("use --force to overwrite the existing configuration")
		}
		if configExists {
			fmt.Fprintf(out, "🔄 Overwriting existing configuration: %s\n", configPath)
		} else {
			fmt.Fprintf(out, "📝 Creating new configuration: %s\n", configPath)
		}

		root := appConfig.Project.Root
		if initInteractive {
			cfg, err := interactiveInit(cmd.InOrStdin(), out, configPath)
			if err != nil {
				return err
			}
			root = cfg.Project.Root
		} else if err := config.SaveTemplate(configPath); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}

		examplePath := filepath.Join(root, "key.properties.example")
		if _, err := os.Stat(examplePath); err == nil && !initForce {
			fmt.Fprintf(out, "⚠️  %s already exists, leaving it untouched\n", examplePath)
		} else {
			if err := os.WriteFile(examplePath, []byte(config.PropertiesExample), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", examplePath, err)
			}
			fmt.Fprintf(out, "📝 Created %s\n", examplePath)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "✅ Done. Next steps:")
		fmt.Fprintln(out, "  1. Copy key.properties.example to key.properties and fill in your values")
		fmt.Fprintln(out, "  2. Add key.properties to .gitignore")
		fmt.Fprintln(out, "  3. Run 'signcfg doctor' to check the setup")
		return nil
	},
}

// interactiveInit prompts for the main settings, saves them to configPath
// and returns the chosen configuration.
func interactiveInit(in io.Reader, out io.Writer, configPath string) (*models.Config, error) {
	fmt.Fprintln(out, "🧙 signcfg Configuration Wizard")
	fmt.Fprintln(out, "===============================")

	reader := bufio.NewReader(in)
	cfg := config.Default()

	fmt.Fprintln(out, "\n📁 Project")
	cfg.Project.Root = promptWithDefault(reader, out, "Directory containing key.properties", cfg.Project.Root)
	cfg.Project.PropertiesFile = promptWithDefault(reader, out, "Properties file", cfg.Project.PropertiesFile)
	cfg.Project.StoreBaseDir = promptWithDefault(reader, out, "Base directory for storeFile (empty = project root)", cfg.Project.StoreBaseDir)

	fmt.Fprintln(out, "\n🔐 Signing")
	cfg.Signing.Strict = promptBool(reader, out, "Fail when the credential is incomplete", cfg.Signing.Strict)
	cfg.Signing.ResolveSecrets = promptBool(reader, out, "Expand op://, keyring: and env: references", cfg.Signing.ResolveSecrets)

	fmt.Fprintln(out, "\n🤖 Android")
	cfg.Android.Namespace = promptWithDefault(reader, out, "Namespace", cfg.Android.Namespace)
	cfg.Android.ApplicationID = promptWithDefault(reader, out, "Application ID", cfg.Android.Namespace)

	if err := config.SaveConfig(&cfg, configPath); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Fprintln(out)
	return &cfg, nil
}

func promptWithDefault(reader *bufio.Reader, out io.Writer, prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(out, "%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Fprintf(out, "%s: ", prompt)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}

func promptBool(reader *bufio.Reader, out io.Writer, prompt string, defaultValue bool) bool {
	defaultStr := "n"
	if defaultValue {
		defaultStr = "y"
	}

	fmt.Fprintf(out, "%s [%s]: ", prompt, defaultStr)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))

	if input == "" {
		return defaultValue
	}
	return input == "y" || input == "yes"
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Interactive configuration wizard")
}
