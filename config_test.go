package wowapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https", cfg.Protocol)
	assert.Equal(t, "us", cfg.Region)
	assert.Equal(t, "en_US", cfg.Locale)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.IsType(t, &NoopObserver{}, cfg.Observer)
}

func TestConfig_ValidCombinations(t *testing.T) {
	for regionCode, reg := range regions {
		for _, locale := range reg.Locales {
			for _, protocol := range []string{"http", "https"} {
				cfg := DefaultConfig().
					WithProtocol(protocol).
					WithRegion(regionCode).
					WithLocale(locale)
				require.NoError(t, cfg.Validate(),
					"%s/%s/%s should validate", protocol, regionCode, locale)

				base := buildBaseURL(cfg)
				assert.NotContains(t, base, "{")
				assert.NotContains(t, base, "}")
				assert.Contains(t, base, protocol+"://")
			}
		}
	}
}

func TestConfig_InvalidProtocol(t *testing.T) {
	err := DefaultConfig().WithProtocol("ftp").Validate()
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "protocol")
}

func TestConfig_InvalidRegion(t *testing.T) {
	err := DefaultConfig().WithRegion("mars").Validate()
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "region")
	assert.Contains(t, err.Error(), "mars")

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "region", e.Details["field"])
	assert.ElementsMatch(t, []string{"us", "eu", "kr", "tw", "cn"}, e.Details["allowed"])
}

func TestConfig_InvalidLocaleForRegion(t *testing.T) {
	// ko_KR is a real locale, just not one the us region permits.
	err := DefaultConfig().WithRegion("us").WithLocale("ko_KR").Validate()
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "locale")
	assert.Contains(t, err.Error(), "ko_KR")

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.ElementsMatch(t, []string{"en_US", "es_MX", "pt_BR"}, e.Details["allowed"])
}

func TestConfig_RegionDefaultLocale(t *testing.T) {
	tests := []struct {
		region string
		locale string
	}{
		{"us", "en_US"},
		{"eu", "en_GB"},
		{"kr", "ko_KR"},
		{"tw", "zh_TW"},
		{"cn", "zh_CN"},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			cfg := DefaultConfig().WithRegion(tt.region)
			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.locale, cfg.Locale)
		})
	}
}

func TestConfig_NegativeTimeout(t *testing.T) {
	err := DefaultConfig().WithTimeout(-time.Second).Validate()
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "timeout")
}

func TestNewClient_ValidationFailsFast(t *testing.T) {
	client, err := NewClient(DefaultConfig().WithRegion("xx"))
	assert.Nil(t, client)
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
}

func TestNewClient_NilConfig(t *testing.T) {
	client, err := NewClient(nil)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "us", client.config.Region)
	assert.NotNil(t, client.config.Cache)
}

func TestNewClient_OwnsIndependentCache(t *testing.T) {
	a, err := NewClient(DefaultConfig())
	require.NoError(t, err)
	defer a.Close()

	b, err := NewClient(DefaultConfig())
	require.NoError(t, err)
	defer b.Close()

	assert.NotSame(t, a.config.Cache, b.config.Cache)
}
