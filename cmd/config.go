package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huanfeng/signcfg/internal/errors"
	"github.com/huanfeng/signcfg/pkg/models"
	"github.com/huanfeng/signcfg/pkg/render"
)

var (
	configFormat      string
	configShowSecrets bool
	configStrict      bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the build configuration with the signing config injected",
	Long: `Resolve the credential and print the full build configuration as json, yaml,
toml or a Gradle Kotlin DSL snippet. Passwords are masked unless --show-secrets
is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(configFormat)
		if err != nil {
			return errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeInvalidFormat,
				"unsupported output format").
				WithContext("format", configFormat)
		}

		resolver := newSigningResolver(configStrict)
		result, err := resolver.Resolve(cmd.Context())
		if err != nil {
			return err
		}

		build := models.NewBuildConfiguration(appConfig)
		build.InjectSigning(result.Credential.SigningConfig(resolver.Options().ConfigName))
		if !configShowSecrets {
			build = build.Redacted()
		}

		return render.Render(cmd.OutOrStdout(), format, build)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configFormat, "format", "f", "json", "output format: json, yaml, toml or gradle")
	configCmd.Flags().BoolVar(&configShowSecrets, "show-secrets", false, "print passwords instead of masking them")
	configCmd.Flags().BoolVar(&configStrict, "strict", false, "fail when the credential is incomplete")
}
