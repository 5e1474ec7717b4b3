package utils

import "net"

// GetLocalIP 返回本机首个非回环 IPv4 地址，取不到时返回 "unknown"。
// 仅用于生成可区分的客户端标识，不用于网络决策。
func GetLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "unknown"
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			return ipNet.IP.String()
		}
	}
	return "unknown"
}
