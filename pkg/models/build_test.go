package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewBuildConfiguration_Defaults(t *testing.T) {
	b := NewBuildConfiguration(&Config{
		Android: AndroidConfig{Namespace: "app.ecash", ApplicationID: "app.ecash", NdkVersion: "27.0.12077973", MinSDK: "21"},
	})

	assert.Equal(t, "app.ecash", b.Namespace)
	assert.Equal(t, "11", b.CompileOptions.SourceCompatibility)
	assert.Equal(t, "11", b.CompileOptions.JvmTarget)
	assert.Equal(t, "21", b.DefaultConfig.MinSDK)

	release := b.BuildTypes[ReleaseVariant]
	require.NotNil(t, release)
	assert.False(t, release.MinifyEnabled)
	assert.False(t, release.ShrinkResources)
	assert.Empty(t, release.SigningConfig)
}

func TestInjectSigning_EnablesReleaseSigning(t *testing.T) {
	b := NewBuildConfiguration(nil)
	b.InjectSigning(&SigningConfig{Name: "release", StoreFile: strPtr("/k/upload.jks"), StoreType: "pkcs12"})

	assert.Equal(t, []string{"release"}, b.SigningConfigNames())
	assert.Equal(t, "release", b.BuildTypes[ReleaseVariant].SigningConfig)

	b.InjectSigning(nil)
	assert.Len(t, b.SigningConfigs, 1)
}

func TestInjectSigning_CreatesReleaseWhenMissing(t *testing.T) {
	b := &BuildConfiguration{}
	b.InjectSigning(&SigningConfig{Name: "upload"})

	require.Contains(t, b.BuildTypes, ReleaseVariant)
	assert.Equal(t, "upload", b.BuildTypes[ReleaseVariant].SigningConfig)
	assert.Equal(t, []string{"release"}, b.BuildTypeNames())
}

func TestRedacted_MasksPasswordsWithoutTouchingOriginal(t *testing.T) {
	b := NewBuildConfiguration(nil)
	b.InjectSigning(&SigningConfig{
		Name:          "release",
		StoreFile:     strPtr("upload.jks"),
		StorePassword: strPtr("store-secret"),
		KeyAlias:      strPtr("upload"),
		KeyPassword:   nil,
	})

	r := b.Redacted()
	sc := r.SigningConfigs["release"]
	assert.Equal(t, RedactedValue, *sc.StorePassword)
	assert.Nil(t, sc.KeyPassword)
	assert.Equal(t, "upload", *sc.KeyAlias)

	assert.Equal(t, "store-secret", *b.SigningConfigs["release"].StorePassword)

	r.BuildTypes[ReleaseVariant].MinifyEnabled = true
	assert.False(t, b.BuildTypes[ReleaseVariant].MinifyEnabled)
}
