package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/huanfeng/signcfg/pkg/models"
)

func ptr(s string) *string { return &s }

func sampleConfig() *models.BuildConfiguration {
	b := models.NewBuildConfiguration(&models.Config{
		Android: models.AndroidConfig{
			Namespace:     "app.ecash",
			ApplicationID: "app.ecash",
			NdkVersion:    "27.0.12077973",
			CompileSDK:    "flutter.compileSdkVersion",
			MinSDK:        "flutter.minSdkVersion",
			VersionName:   "flutter.versionName",
		},
	})
	b.InjectSigning(&models.SigningConfig{
		Name:          "release",
		StoreFile:     ptr("/work/android/app/upload-keystore.jks"),
		StorePassword: ptr("pa$$word"),
		KeyAlias:      nil,
		KeyPassword:   ptr("key"),
		StoreType:     "pkcs12",
	})
	return b
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "supported: gradle, json, toml, yaml")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, sampleConfig()))

	var decoded models.BuildConfiguration
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	sc := decoded.SigningConfigs["release"]
	require.NotNil(t, sc)
	assert.Nil(t, sc.KeyAlias)
	assert.Equal(t, "release", decoded.BuildTypes["release"].SigningConfig)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatYAML, sampleConfig()))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "app.ecash", decoded["namespace"])
	assert.Contains(t, buf.String(), "minify_enabled: false")
}

func TestRender_TOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatTOML, sampleConfig()))

	var decoded map[string]interface{}
	_, err := toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)
	assert.Equal(t, "27.0.12077973", decoded["ndk_version"])
	assert.NotContains(t, buf.String(), "key_alias")
}

func TestRender_Gradle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatGradle, sampleConfig()))
	out := buf.String()

	assert.Contains(t, out, `namespace = "app.ecash"`)
	assert.Contains(t, out, "compileSdk = flutter.compileSdkVersion")
	assert.Contains(t, out, "minSdk = flutter.minSdkVersion")
	assert.NotContains(t, out, "targetSdk")
	assert.Contains(t, out, "sourceCompatibility = JavaVersion.VERSION_11")
	assert.Contains(t, out, `create("release") {`)
	assert.Contains(t, out, `storeFile = file("/work/android/app/upload-keystore.jks")`)
	assert.Contains(t, out, `storePassword = "pa\$\$word"`)
	assert.Contains(t, out, "keyAlias = null")
	assert.Contains(t, out, `storeType = "pkcs12"`)
	assert.Contains(t, out, `signingConfig = signingConfigs.getByName("release")`)
	assert.Contains(t, out, "isMinifyEnabled = false")
	assert.Contains(t, out, "isShrinkResources = false")
}

func TestRender_GradleRedacted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatGradle, sampleConfig().Redacted()))
	assert.Contains(t, buf.String(), `storePassword = "********"`)
	assert.NotContains(t, buf.String(), "pa$$word")
}

func TestJvmConstant(t *testing.T) {
	assert.Equal(t, "JavaVersion.VERSION_1_8", jvmConstant("1.8"))
	assert.Equal(t, "JavaVersion.VERSION_11", jvmConstant(""))
}

func TestRender_UnknownFormat(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, Format("xml"), sampleConfig()))
}

func TestRender_GradleQuotesLiteralVersions(t *testing.T) {
	b := models.NewBuildConfiguration(&models.Config{
		Android: models.AndroidConfig{
			MinSDK:      "21",
			VersionCode: "42",
			VersionName: "1.0.0",
			TargetSDK:   "flutter.targetSdkVersion",
		},
	})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatGradle, b))
	out := buf.String()

	assert.Contains(t, out, `versionName = "1.0.0"`)
	assert.Contains(t, out, "versionCode = 42")
	assert.Contains(t, out, "minSdk = 21")
	assert.Contains(t, out, "targetSdk = flutter.targetSdkVersion")
}

func TestKotlinValue(t *testing.T) {
	tests := map[string]string{
		"34":                  "34",
		"flutter.versionName": "flutter.versionName",
		"1.0.0":               `"1.0.0"`,
		"1.0.0+3":             `"1.0.0+3"`,
		"v$x":                 `"v\$x"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, kotlinValue(in), in)
	}
}
