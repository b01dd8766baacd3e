package options

import (
	"testing"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"
)

func TestCreateLauncherAppliesOptions(t *testing.T) {
	l := CreateLauncher(false,
		WithHeadless(true),
		WithNoSandbox(true),
		WithIncognito(true),
		WithDisableDevShmUsage(true),
		WithDisableBlinkFeatures("AutomationControlled"),
		WithUserAgent("rczpfeed-test"),
		WithRemoteDebuggingPort(9333),
	)

	assert.True(t, l.Has(flags.Headless))
	assert.True(t, l.Has(flags.NoSandbox))
	assert.True(t, l.Has("incognito"))
	assert.True(t, l.Has("disable-dev-shm-usage"))
	assert.Equal(t, "AutomationControlled", l.Get("disable-blink-features"))
	assert.Equal(t, "rczpfeed-test", l.Get("user-agent"))
	assert.Equal(t, "9333", l.Get(flags.RemoteDebuggingPort))
}

func TestCreateLauncherSkipsEmptyValues(t *testing.T) {
	l := CreateLauncher(false,
		WithHeadless(false),
		WithIncognito(false),
		WithUserAgent(""),
		WithDisableBlinkFeatures(""),
		WithRemoteDebuggingPort(0),
	)

	assert.False(t, l.Has(flags.Headless))
	assert.False(t, l.Has("incognito"))
	assert.False(t, l.Has("user-agent"))
	assert.False(t, l.Has("disable-blink-features"))
}
