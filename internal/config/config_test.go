package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// envconfig applies a default only to an unset variable, not to one
	// set to "", so each key is registered for restore and then unset.
	for _, key := range []string{"NOTARY_HOST", "NOTARY_PORT", "MAX_SENT_DATA", "MAX_RECV_DATA", "WISE_HOST", "WISE_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Notary.Host)
	require.EqualValues(t, 10011, cfg.Notary.Port)
	require.False(t, cfg.Notary.TLS)
	require.EqualValues(t, 4096, cfg.MaxSentData)
	require.EqualValues(t, 65536, cfg.MaxRecvData)
	require.Empty(t, cfg.ProviderOverride)
}

func TestLoadProviderOverride(t *testing.T) {
	t.Setenv("WISE_HOST", "wise.example.com")
	t.Setenv("WISE_PORT", "8443")

	cfg, err := Load()
	require.NoError(t, err)
	override, ok := cfg.ProviderOverride["WISE"]
	require.True(t, ok)
	require.Equal(t, "wise.example.com", override.Host)
	require.EqualValues(t, 8443, override.Port)
}

func TestLoadRejectsZeroCaps(t *testing.T) {
	t.Setenv("MAX_SENT_DATA", "0")
	_, err := Load()
	require.Error(t, err)
}
