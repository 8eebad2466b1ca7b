package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/huanfeng/signcfg/internal/errors"
	"github.com/huanfeng/signcfg/internal/i18n"
	"github.com/huanfeng/signcfg/pkg/secrets"
	"github.com/huanfeng/signcfg/pkg/signing"
	"github.com/huanfeng/signcfg/pkg/utils"
)

var (
	resolveStrict      bool
	resolveShowSecrets bool
	resolveFormat      string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the signing credential and report each step",
	Long: `Load key.properties, resolve storeFile against the store base directory and
assemble the signing credential. Missing pieces are reported but do not fail
the command unless --strict is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(resolveFormat)
		if format != "text" && format != "json" {
			return errors.NewError(errors.ErrorTypeValidation, errors.CodeInvalidFormat,
				fmt.Sprintf("unsupported output format: %s", resolveFormat)).
				WithSuggestion("Use --format text or --format json")
		}

		resolver := newSigningResolver(resolveStrict)
		result, err := resolver.Resolve(cmd.Context())
		if err != nil {
			return err
		}

		cred := result.Credential
		if !resolveShowSecrets {
			cred = cred.Redacted()
		}

		if format == "json" {
			return writeResolveJSON(cmd.OutOrStdout(), result, cred)
		}
		writeResolveText(cmd.OutOrStdout(), result, cred)
		return nil
	},
}

// newSigningResolver builds a resolver from the loaded configuration. strict
// can only tighten the configured policy.
func newSigningResolver(strict bool) *signing.Resolver {
	opts := signing.OptionsFromConfig(appConfig)
	opts.Strict = opts.Strict || strict
	if appConfig.Signing.ResolveSecrets {
		opts.Secrets = secrets.NewResolver()
	}
	return signing.NewResolver(opts, utils.GetGlobalLogger())
}

type resolveOutput struct {
	PropertiesPath string               `json:"properties_path"`
	StoreFilePath  string               `json:"store_file_path,omitempty"`
	Valid          bool                 `json:"valid"`
	Credential     *signing.Credential  `json:"credential"`
	Diagnostics    []signing.Diagnostic `json:"diagnostics"`
}

func writeResolveJSON(w io.Writer, result *signing.Result, cred *signing.Credential) error {
	out := resolveOutput{
		PropertiesPath: result.PropertiesPath,
		StoreFilePath:  result.StoreFilePath,
		Valid:          result.Credential.Valid(),
		Credential:     cred,
		Diagnostics:    result.Diagnostics,
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []signing.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeResolveText(w io.Writer, result *signing.Result, cred *signing.Credential) {
	fmt.Fprintf(w, "🔐 %s\n", i18n.T("resolve.credential"))
	fmt.Fprintln(w, strings.Repeat("=", 50))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Properties:\t%s\n", result.PropertiesPath)
	fmt.Fprintf(tw, "storeFile:\t%s\n", displayValue(cred.StoreFile))
	if cred.StoreFile != nil {
		fmt.Fprintf(tw, "Keystore exists:\t%v\n", cred.StoreFileExists)
	}
	fmt.Fprintf(tw, "storePassword:\t%s\n", displayValue(cred.StorePassword))
	fmt.Fprintf(tw, "keyAlias:\t%s\n", displayValue(cred.KeyAlias))
	fmt.Fprintf(tw, "keyPassword:\t%s\n", displayValue(cred.KeyPassword))
	fmt.Fprintf(tw, "storeType:\t%s\n", cred.StoreType)
	tw.Flush()

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w)
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "⚠️  [%s] %s\n", d.Code, d.Message)
		}
		if result.HasDiagnostic(errors.CodeMissingPropertiesFile) {
			fmt.Fprintln(w, "💡 Run 'signcfg init' to create key.properties.example")
		}
		if result.HasDiagnostic(errors.CodeStoreFileNotFound) {
			fmt.Fprintln(w, "💡 storeFile is resolved against project.store_base_dir; set it to \"app\" for module-relative paths")
		}
	}

	fmt.Fprintln(w)
	if result.Credential.Valid() {
		fmt.Fprintf(w, "✅ %s\n", i18n.T("resolve.valid"))
	} else {
		fmt.Fprintf(w, "❌ %s\n", i18n.T("resolve.invalid"))
	}
}

func displayValue(v *string) string {
	if v == nil {
		return "<null>"
	}
	return *v
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolVar(&resolveStrict, "strict", false, "fail when the credential is incomplete")
	resolveCmd.Flags().BoolVar(&resolveShowSecrets, "show-secrets", false, "print passwords instead of masking them")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "text", "output format: text or json")
}
