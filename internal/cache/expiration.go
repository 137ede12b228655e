package cache

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// distantFuture 作为 “永不过期” 写入 mtime 的时间点。必须早于 2262 年，
// os.Chtimes 经由 UnixNano 换算，超出 int64 纳秒范围会回绕到 1901 年。
var distantFuture = time.Date(2200, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxDays 是 time.Duration 能表示的最大整天数。
const maxDays = int(math.MaxInt64 / int64(24*time.Hour))

type expirationKind uint8

const (
	expireNever expirationKind = iota
	expireAfter
	expireAt
	expireNow
)

// StorageExpiration 描述条目的过期策略：永不、相对时长、绝对时间点或立即过期。
type StorageExpiration struct {
	kind     expirationKind
	duration time.Duration
	date     time.Time
}

// Never 返回永不过期的策略。
func Never() StorageExpiration {
	return StorageExpiration{kind: expireNever}
}

// After 返回写入后 d 时长过期的策略；d <= 0 视为已过期。
func After(d time.Duration) StorageExpiration {
	return StorageExpiration{kind: expireAfter, duration: d}
}

// Seconds 是 After(n * time.Second) 的简写，超出 time.Duration 范围时饱和为 Never/Expired。
func Seconds(n float64) StorageExpiration {
	ns := n * float64(time.Second)
	switch {
	case ns >= math.MaxInt64:
		return Never()
	case ns <= math.MinInt64:
		return Expired()
	}
	return After(time.Duration(ns))
}

// Days 返回 n 天后过期的策略，超出 time.Duration 范围时与 Seconds 一样饱和。
func Days(n int) StorageExpiration {
	switch {
	case n > maxDays:
		return Never()
	case n < -maxDays:
		return Expired()
	}
	return After(time.Duration(n) * 24 * time.Hour)
}

// At 返回在固定时间点过期的策略。
func At(t time.Time) StorageExpiration {
	return StorageExpiration{kind: expireAt, date: t}
}

// Expired 返回立即过期的策略，写入时会被直接跳过。
func Expired() StorageExpiration {
	return StorageExpiration{kind: expireNow}
}

// EstimatedExpirationSince 以 since 为起点计算绝对过期时间。
func (e StorageExpiration) EstimatedExpirationSince(since time.Time) time.Time {
	switch e.kind {
	case expireNever:
		return distantFuture
	case expireAfter:
		if at := since.Add(e.duration); at.Before(distantFuture) {
			return at
		}
		return distantFuture
	case expireAt:
		return e.date
	default:
		return since
	}
}

// IsExpired 报告该策略在 now 时刻是否已经失效。
func (e StorageExpiration) IsExpired(now time.Time) bool {
	switch e.kind {
	case expireNever:
		return false
	case expireAfter:
		return e.duration <= 0
	case expireAt:
		return !e.date.After(now)
	default:
		return true
	}
}

// String 输出与 ParseExpiration 兼容的文本形式。
func (e StorageExpiration) String() string {
	switch e.kind {
	case expireNever:
		return "never"
	case expireAfter:
		return e.duration.String()
	case expireAt:
		return e.date.Format(time.RFC3339)
	default:
		return "expired"
	}
}

// ParseExpiration 解析 "never"、"expired"、Go duration、"7d" 形式的天数或 RFC 3339 时间点。
func ParseExpiration(raw string) (StorageExpiration, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", "never":
		return Never(), nil
	case "expired":
		return Expired(), nil
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return StorageExpiration{}, fmt.Errorf("invalid expiration days: %s", raw)
		}
		return Days(n), nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return After(d), nil
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
		return At(t), nil
	}
	return StorageExpiration{}, fmt.Errorf("invalid expiration: %s", raw)
}

type extendMode uint8

const (
	extendNone extendMode = iota
	extendCacheTime
	extendExplicit
)

// ExpirationExtending 决定读取命中后如何刷新条目的过期时间。
type ExpirationExtending struct {
	mode       extendMode
	expiration StorageExpiration
}

var (
	// ExtendNone 读取后不修改任何时间戳。
	ExtendNone = ExpirationExtending{mode: extendNone}
	// ExtendCacheTime 以原有 TTL 长度从当前时刻重新计时。
	ExtendCacheTime = ExpirationExtending{mode: extendCacheTime}
)

// ExtendTo 读取后按给定策略重新计时。
func ExtendTo(expiration StorageExpiration) ExpirationExtending {
	return ExpirationExtending{mode: extendExplicit, expiration: expiration}
}
