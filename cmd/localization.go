package cmd

import "github.com/huanfeng/signcfg/internal/i18n"

var localizedFlags = map[string]string{
	"config":       "flags.config",
	"project-root": "flags.projectRoot",
	"verbose":      "flags.verbose",
	"debug":        "flags.debug",
	"log-file":     "flags.logFile",
	"log-format":   "flags.logFormat",
	"no-color":     "flags.noColor",
	"lang":         "flags.lang",
}

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
func applyCommandLocalization() {
	rootCmd.Short = i18n.T("cmd.root.short")
	rootCmd.Long = i18n.T("cmd.root.long")

	for name, id := range localizedFlags {
		if flag := rootCmd.PersistentFlags().Lookup(name); flag != nil {
			flag.Usage = i18n.T(id)
		}
	}

	resolveCmd.Short = i18n.T("cmd.resolve.short")
	resolveCmd.Long = i18n.T("cmd.resolve.long")

	configCmd.Short = i18n.T("cmd.config.short")
	configCmd.Long = i18n.T("cmd.config.long")

	doctorCmd.Short = i18n.T("cmd.doctor.short")
	doctorCmd.Long = i18n.T("cmd.doctor.long")

	initCmd.Short = i18n.T("cmd.init.short")
	initCmd.Long = i18n.T("cmd.init.long")

	versionCmd.Short = i18n.T("cmd.version.short")
	versionCmd.Long = i18n.T("cmd.version.long")
}
