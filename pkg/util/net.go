package util

import (
	"net"
	"strings"
)

// ComposeLANURL turns a listen address into a browsable http URL. Wildcard
// binds (empty host, 0.0.0.0, ::) are rewritten to the machine's LAN address
// so the logged URL is reachable from other devices.
func ComposeLANURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	host = strings.TrimSpace(host)
	if host == "" || host == "0.0.0.0" || host == "::" || host == "[::]" {
		if lan := lanIPv4(); lan != "" {
			return "http://" + lan + ":" + port
		}
	}
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		return "http://[" + host + "]:" + port
	}
	return "http://" + host + ":" + port
}

// lanIPv4 returns the first RFC1918 address on an up, non-loopback
// interface, falling back to any IPv4, or "" when the host has none.
func lanIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	var fallback string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil {
				continue
			}
			if privateIPv4(ip4) {
				return ip4.String()
			}
			if fallback == "" {
				fallback = ip4.String()
			}
		}
	}
	return fallback
}

func privateIPv4(ip net.IP) bool {
	ip4 := ip.To4()
	if ip4 == nil {
		return false
	}
	switch {
	case ip4[0] == 10:
		return true
	case ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31:
		return true
	case ip4[0] == 192 && ip4[1] == 168:
		return true
	}
	return false
}
