package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huanfeng/signcfg/internal/errors"
	"github.com/huanfeng/signcfg/internal/i18n"
	"github.com/huanfeng/signcfg/pkg/properties"
	"github.com/huanfeng/signcfg/pkg/secrets"
	"github.com/huanfeng/signcfg/pkg/signing"
	"github.com/huanfeng/signcfg/pkg/system"
	"github.com/huanfeng/signcfg/pkg/utils"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose signing setup problems",
	Long: `Check the configuration file, key.properties, every signing key, the keystore
file and whether the keystore opens with the store password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := utils.GetGlobalLogger()
		logger.Debug("Starting signing diagnostics...")

		d := &diagnosis{out: cmd.OutOrStdout()}
		fmt.Fprintln(d.out, "🏥 signcfg doctor")
		fmt.Fprintln(d.out, strings.Repeat("=", 50))

		fmt.Fprintln(d.out, "\n⚙️  Checking Configuration...")
		d.checkConfiguration(system.NewConfigManager(logger))

		resolver := newSigningResolver(false)

		fmt.Fprintln(d.out, "\n📄 Checking Properties File...")
		src, ok := d.checkProperties(resolver)

		var cred *signing.Credential
		if ok {
			fmt.Fprintln(d.out, "\n🔑 Checking Signing Keys...")
			cred = d.checkKeys(cmd, resolver, src)
		}

		if cred != nil && cred.StoreFile != nil {
			fmt.Fprintln(d.out, "\n🗝️  Checking Keystore...")
			d.checkKeystore(cred)
		}

		if ok {
			fmt.Fprintln(d.out, "\n🔒 Checking File Permissions...")
			d.checkPermissions(system.NewPermissionChecker(logger), src, cred)
		}

		fmt.Fprintln(d.out, "\n"+strings.Repeat("=", 50))
		fmt.Fprintln(d.out, "📊 DIAGNOSTIC RESULTS")
		fmt.Fprintln(d.out, strings.Repeat("=", 50))

		if len(d.issues) == 0 {
			fmt.Fprintf(d.out, "✅ %s\n", i18n.T("doctor.passed"))
			return nil
		}

		fmt.Fprintf(d.out, "❌ %s:\n\n", i18n.T("doctor.issues", map[string]interface{}{"count": len(d.issues)}))
		for i, issue := range d.issues {
			fmt.Fprintf(d.out, "%d. %s\n", i+1, issue)
		}
		if len(d.suggestions) > 0 {
			fmt.Fprintln(d.out, "\n💡 Suggestions to fix these issues:")
			for i, suggestion := range d.suggestions {
				fmt.Fprintf(d.out, "%d. %s\n", i+1, suggestion)
			}
		}
		return fmt.Errorf("signing diagnostics found %d issue(s)", len(d.issues))
	},
}

type diagnosis struct {
	out         io.Writer
	issues      []string
	suggestions []string
}

func (d *diagnosis) fail(issue string, suggestions ...string) {
	fmt.Fprintf(d.out, "   ❌ %s\n", issue)
	d.issues = append(d.issues, issue)
	d.suggestions = append(d.suggestions, suggestions...)
}

func (d *diagnosis) failErr(err error) {
	se := errors.AsSignError(err)
	d.fail(se.Error(), se.Suggestions...)
}

func (d *diagnosis) ok(format string, args ...interface{}) {
	fmt.Fprintf(d.out, "   ✅ "+format+"\n", args...)
}

func (d *diagnosis) warn(format string, args ...interface{}) {
	fmt.Fprintf(d.out, "   ⚠️  "+format+"\n", args...)
}

func (d *diagnosis) checkConfiguration(cm *system.ConfigManager) {
	if configUsed == "" {
		d.warn("No configuration file found, using built-in defaults")
		return
	}

	result := cm.ValidateConfig(configUsed)
	if result.Valid {
		d.ok("Configuration file: Valid (%s)", configUsed)
	} else {
		for _, msg := range result.Errors {
			d.fail(fmt.Sprintf("Config error: %s", msg))
		}
		d.suggestions = append(d.suggestions, result.Suggestions...)
	}
	for _, warning := range result.Warnings {
		d.warn("%s", warning)
	}
}

func (d *diagnosis) checkProperties(resolver *signing.Resolver) (src *properties.Source, ok bool) {
	loaded, err := resolver.Load()
	if err != nil {
		if stderrors.Is(err, errors.ErrMissingPropertiesFile) {
			d.fail(fmt.Sprintf("Properties file not found: %s", resolver.PropertiesPath()),
				"Create key.properties from key.properties.example (run 'signcfg init')")
			return nil, false
		}
		d.failErr(err)
		return nil, false
	}
	d.ok("Properties file: %s (%d keys)", loaded.Path(), loaded.Len())
	return loaded, true
}

func (d *diagnosis) checkKeys(cmd *cobra.Command, resolver *signing.Resolver, src *properties.Source) *signing.Credential {
	cred := resolver.BuildCredential(src)

	missing := map[string]bool{}
	for _, key := range cred.Missing() {
		missing[key] = true
	}
	for _, key := range []string{signing.KeyStoreFile, signing.KeyStorePassword, signing.KeyKeyAlias, signing.KeyKeyPassword} {
		if missing[key] {
			d.fail(fmt.Sprintf("%s is missing from %s", key, resolver.Options().PropertiesFile),
				fmt.Sprintf("Add %s=... to %s", key, resolver.Options().PropertiesFile))
			continue
		}
		if raw, _ := src.Get(key); key != signing.KeyStoreFile && secrets.IsReference(raw) {
			if !appConfig.Signing.ResolveSecrets {
				d.warn("%s looks like a secret reference but signing.resolve_secrets is off", key)
				continue
			}
			d.ok("%s: set (secret reference)", key)
			continue
		}
		d.ok("%s: set", key)
	}

	// The keystore check needs the real store password.
	if err := resolver.ExpandSecrets(cmd.Context(), cred); err != nil {
		d.failErr(err)
		cred.StorePassword = nil
	}
	return cred
}

func (d *diagnosis) checkKeystore(cred *signing.Credential) {
	if !cred.StoreFileExists {
		d.fail(fmt.Sprintf("Keystore not found: %s", *cred.StoreFile),
			"Fix storeFile in key.properties or set project.store_base_dir in signcfg.yaml")
		return
	}
	d.ok("Keystore file: %s", *cred.StoreFile)

	if cred.StorePassword == nil {
		return
	}
	report, err := signing.InspectKeystore(cred)
	if err != nil {
		if stderrors.Is(err, errors.ErrKeystoreUnsupported) {
			d.warn("Keystore contents could not be inspected: %v", err)
			return
		}
		d.failErr(err)
		return
	}
	d.ok("Keystore opens with storePassword (%d certificate(s), %d private key(s))",
		report.Certificates, report.PrivateKeys)
}

func (d *diagnosis) checkPermissions(pc *system.PermissionChecker, src *properties.Source, cred *signing.Credential) {
	checks := []system.PermissionCheck{{Path: src.Path(), RequireRead: true, Secret: true}}
	if cred != nil && cred.StoreFile != nil && cred.StoreFileExists {
		checks = append(checks, system.PermissionCheck{Path: *cred.StoreFile, RequireRead: true, Secret: true})
	}

	result := pc.CheckPermissions(checks)
	for _, msg := range result.Errors {
		d.fail(msg, "Fix the file permissions so the current user can read it")
	}
	for _, msg := range result.Warnings {
		d.warn("%s", msg)
	}
	if result.Passed() && len(result.Warnings) == 0 {
		d.ok("Signing files are private to the current user")
	} else if len(result.Warnings) > 0 {
		d.suggestions = append(d.suggestions, "Restrict signing files with chmod 600")
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
