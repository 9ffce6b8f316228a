package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("加载默认配置失败: %v", err)
	}

	if cfg.App.Port != 7080 {
		t.Errorf("默认端口应为7080，实际 %d", cfg.App.Port)
	}
	if cfg.Scheduler.MinCapacityRatio != 0.30 || cfg.Scheduler.WarnCapacityRatio != 0.80 {
		t.Errorf("默认容量阈值应为 0.30/0.80，实际 %v/%v",
			cfg.Scheduler.MinCapacityRatio, cfg.Scheduler.WarnCapacityRatio)
	}
	if cfg.Database.SlowQueryThreshold != 100*time.Millisecond {
		t.Errorf("默认慢SQL阈值应为100ms，实际 %v", cfg.Database.SlowQueryThreshold)
	}
	if !cfg.Notify.Enabled || cfg.Notify.BufferSize != 256 {
		t.Errorf("默认通知配置错误: %+v", cfg.Notify)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_SLOW_QUERY_THRESHOLD", "250ms")
	t.Setenv("SCHEDULER_MIN_CAPACITY_RATIO", "0.4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Database.SlowQueryThreshold != 250*time.Millisecond {
		t.Errorf("慢SQL阈值应取环境变量250ms，实际 %v", cfg.Database.SlowQueryThreshold)
	}
	if cfg.Scheduler.MinCapacityRatio != 0.4 {
		t.Errorf("最低容量比应取环境变量0.4，实际 %v", cfg.Scheduler.MinCapacityRatio)
	}
}

func TestLoadRejectsBadCapacityRatios(t *testing.T) {
	t.Setenv("SCHEDULER_MIN_CAPACITY_RATIO", "1.5")
	if _, err := Load(); err == nil {
		t.Error("最低容量比超出 (0,1) 应报错")
	}

	t.Setenv("SCHEDULER_MIN_CAPACITY_RATIO", "0.5")
	t.Setenv("SCHEDULER_WARN_CAPACITY_RATIO", "0.4")
	if _, err := Load(); err == nil {
		t.Error("警戒比例低于最低比例应报错")
	}
}
