package types

import "time"

// ProbeConf 描述一次探测的目标与载荷。
type ProbeConf struct {
	URL              string        `ini:"url"`               // WebSocket 地址, e.g. ws://localhost:3000
	Preset           string        `ini:"preset"`            // 内置载荷名称: "hello" 或 "alert"
	Payload          string        `ini:"payload"`           // 非空时覆盖 Preset
	SocksAddr        string        `ini:"socks"`             // 可选的 SOCKS5 上游, host:port
	HandshakeTimeout time.Duration `ini:"handshake_timeout"` // 仅限制握手阶段, 读写不设超时
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config 是 wstester 的统一配置结构体
type Config struct {
	ProbeConf `ini:"probe"`
	LogConf   `ini:"log"`
}
