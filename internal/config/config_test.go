package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 20310 {
		t.Errorf("默认端口错误: %d", cfg.Server.Port)
	}
	if cfg.Data.TxTable != "processed_data" || cfg.Data.MasterTable != "FGData" {
		t.Errorf("默认表名错误: %+v", cfg.Data)
	}
	if cfg.Forecast.DefaultHorizon != 12 || cfg.Forecast.TrendMode != "additive" {
		t.Errorf("默认预测参数错误: %+v", cfg.Forecast)
	}
}

func TestIsPortSpecifiedInToml(t *testing.T) {
	cases := []struct {
		toml string
		want bool
	}{
		{"[server]\nport = 8080\n", true},
		{"[server]\ndev_mode = true\n", false},
		{"[data]\ndata_dir = \"x\"\n", false},
		{"not valid toml {{", false},
	}
	for _, c := range cases {
		if got := isPortSpecifiedInToml([]byte(c.toml)); got != c.want {
			t.Errorf("isPortSpecifiedInToml(%q) = %v, want %v", c.toml, got, c.want)
		}
	}
}
