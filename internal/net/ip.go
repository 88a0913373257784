package net

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
)

// LinkScheme prefixes share links handed to viewers.
const LinkScheme = "signpad://"

// OutgoingIP finds the preferred local IP address to put in a share link.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// no route out; look at local interfaces instead
		return localIPFallback()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func localIPFallback() string {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, address := range addrs {
			if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	slog.Warn("no suitable local IP found, share link will use loopback", "component", "net")
	return "127.0.0.1"
}

func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s", LinkScheme, net.JoinHostPort(host, fmt.Sprint(port)))
}

func IsLink(s string) bool {
	return strings.HasPrefix(s, LinkScheme)
}

// LinkToURL turns a share link (or a bare host:port) into the hub's websocket URL.
func LinkToURL(link string) (string, error) {
	addr := strings.TrimSuffix(strings.TrimPrefix(link, LinkScheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("bad share link %q: %w", link, err)
	}
	return "ws://" + addr + MirrorPath, nil
}
