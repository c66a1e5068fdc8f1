package cmd

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRuntimeLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{name: "config default", level: "", want: logrus.InfoLevel},
		{name: "override warn", level: "warn", want: logrus.WarnLevel},
		{name: "override debug", level: "debug", want: logrus.DebugLevel},
		{name: "invalid level", level: "chatty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("config", "")
			viper.Set("log-level", tt.level)
			t.Cleanup(func() {
				viper.Set("config", "")
				viper.Set("log-level", "")
			})

			rt, err := loadRuntime()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer rt.Close()

			assert.Equal(t, tt.want, rt.log.GetLevel())
			if tt.level != "" {
				assert.Equal(t, tt.level, rt.cfg.Logging.Level)
			}
		})
	}
}
