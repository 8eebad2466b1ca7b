package render

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/huanfeng/signcfg/pkg/models"
)

var gradleTemplate = template.Must(template.New("gradle").Funcs(template.FuncMap{
	"kstr":      kotlinString,
	"kstrOrNil": kotlinNullable,
	"kfile":     kotlinFile,
	"kval":      kotlinValue,
	"jvm":       jvmConstant,
	"variant":   variantBlock,
}).Parse(`android {
{{- if .Namespace}}
    namespace = {{kstr .Namespace}}
{{- end}}
{{- if .DefaultConfig.CompileSDK}}
    compileSdk = {{kval .DefaultConfig.CompileSDK}}
{{- end}}
{{- if .NdkVersion}}
    ndkVersion = {{kstr .NdkVersion}}
{{- end}}

    compileOptions {
        sourceCompatibility = {{jvm .CompileOptions.SourceCompatibility}}
        targetCompatibility = {{jvm .CompileOptions.TargetCompatibility}}
    }

    kotlinOptions {
        jvmTarget = {{jvm .CompileOptions.JvmTarget}}.toString()
    }

    defaultConfig {
{{- with .DefaultConfig}}
{{- if .ApplicationID}}
        applicationId = {{kstr .ApplicationID}}
{{- end}}
{{- if .MinSDK}}
        minSdk = {{kval .MinSDK}}
{{- end}}
{{- if .TargetSDK}}
        targetSdk = {{kval .TargetSDK}}
{{- end}}
{{- if .VersionCode}}
        versionCode = {{kval .VersionCode}}
{{- end}}
{{- if .VersionName}}
        versionName = {{kval .VersionName}}
{{- end}}
{{- end}}
    }

    signingConfigs {
{{- range $name := .SigningConfigNames}}
{{- with index $.SigningConfigs $name}}
        create({{kstr .Name}}) {
            storeFile = {{kfile .StoreFile}}
            storePassword = {{kstrOrNil .StorePassword}}
            keyAlias = {{kstrOrNil .KeyAlias}}
            keyPassword = {{kstrOrNil .KeyPassword}}
            storeType = {{kstr .StoreType}}
        }
{{- end}}
{{- end}}
    }

    buildTypes {
{{- range $name := .BuildTypeNames}}
{{- with index $.BuildTypes $name}}
        {{variant .Name}} {
{{- if .SigningConfig}}
            signingConfig = signingConfigs.getByName({{kstr .SigningConfig}})
{{- end}}
            isMinifyEnabled = {{.MinifyEnabled}}
            isShrinkResources = {{.ShrinkResources}}
        }
{{- end}}
{{- end}}
    }
}
`))

func renderGradle(w io.Writer, cfg *models.BuildConfiguration) error {
	if err := gradleTemplate.Execute(w, cfg); err != nil {
		return fmt.Errorf("render gradle: %w", err)
	}
	return nil
}

// kotlinString quotes s as a Kotlin string literal. "$" starts a template in
// Kotlin and must be escaped.
func kotlinString(s string) string {
	return strings.ReplaceAll(strconv.Quote(s), "$", `\$`)
}

var kotlinExpr = regexp.MustCompile(`^(-?[0-9]+|[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*)$`)

// kotlinValue passes integers and references such as flutter.versionName
// through and quotes anything else, so "1.0.0" stays valid Kotlin.
func kotlinValue(s string) string {
	if kotlinExpr.MatchString(s) {
		return s
	}
	return kotlinString(s)
}

func kotlinNullable(s *string) string {
	if s == nil {
		return "null"
	}
	return kotlinString(*s)
}

func kotlinFile(s *string) string {
	if s == nil {
		return "null"
	}
	return "file(" + kotlinString(*s) + ")"
}

// jvmConstant turns "11" or "1.8" into JavaVersion.VERSION_11 / VERSION_1_8.
func jvmConstant(v string) string {
	if v == "" {
		v = "11"
	}
	return "JavaVersion.VERSION_" + strings.ReplaceAll(v, ".", "_")
}

func variantBlock(name string) string {
	switch name {
	case "release", "debug":
		return name
	default:
		return "getByName(" + kotlinString(name) + ")"
	}
}
