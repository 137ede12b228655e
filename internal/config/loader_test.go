package config

import (
	"testing"
	"time"
)

func TestLoadFailsWithMissingFields(t *testing.T) {
	if _, err := Load(testConfigPath(t, "missing.toml")); err == nil {
		t.Fatalf("缺失字段的配置应返回错误")
	}
}

func TestLoadFailsWithMissingFile(t *testing.T) {
	if _, err := Load(testConfigPath(t, "does-not-exist.toml")); err == nil {
		t.Fatalf("不存在的配置文件应返回错误")
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	cfg := `
LogLevel = "info"
SweepInterval = "boom"

[[Cache]]
Name = "avatars"
`
	path := writeTempConfig(t, cfg)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 Duration 应失败")
	}
}

func TestLoadRejectsInvalidSize(t *testing.T) {
	cfg := `
[[Cache]]
Name = "avatars"
SizeLimit = "lots"
`
	path := writeTempConfig(t, cfg)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 SizeLimit 应失败")
	}
}

func TestLoadAppliesCacheDefaults(t *testing.T) {
	cfg := `
SweepInterval = 90

[[Cache]]
Name = " avatars "
PathExtension = ".jpg"
`
	path := writeTempConfig(t, cfg)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	h := loaded.Caches[0]
	if h.Name != "avatars" {
		t.Fatalf("Name 应去除空白, got %q", h.Name)
	}
	if h.PathExtension != "jpg" {
		t.Fatalf("PathExtension 应去掉前导点, got %q", h.PathExtension)
	}
	if h.Expiration != "7d" {
		t.Fatalf("Expiration 默认应为 7d, got %q", h.Expiration)
	}
	if loaded.Global.SweepInterval.DurationValue() != 90*time.Second {
		t.Fatalf("整数 SweepInterval 应按秒解析, got %v", loaded.Global.SweepInterval.DurationValue())
	}
	if loaded.Global.Product != "blobcache" {
		t.Fatalf("Product 默认值错误: %q", loaded.Global.Product)
	}
}

func TestParseDurationAcceptsDays(t *testing.T) {
	d, err := parseDuration("2d")
	if err != nil {
		t.Fatalf("parseDuration 返回错误: %v", err)
	}
	if d.DurationValue() != 48*time.Hour {
		t.Fatalf("2d 应为 48h, got %v", d.DurationValue())
	}
}

func TestSizeString(t *testing.T) {
	if got := Size(64 * 1000 * 1000).String(); got != "64 MB" {
		t.Fatalf("Size.String 输出错误: %q", got)
	}
}
