package net

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
)

// Scheme prefixes share links; passing one on the command line starts a
// viewer.
const Scheme = "signaturepad://"

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet: fall back to checking local interfaces.
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	slog.Warn("no suitable local IP found, share link uses loopback")
	return "127.0.0.1", nil
}

// ShareLink is the link viewers open to watch this host.
func ShareLink(port int) string {
	ip, err := GetOutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	return FormatLink(net.JoinHostPort(ip, fmt.Sprint(port)))
}

func FormatLink(addr string) string {
	return Scheme + addr
}

// IsLink reports whether arg is a share link.
func IsLink(arg string) bool {
	return strings.HasPrefix(arg, Scheme)
}

// ParseLink extracts host:port from a share link. An empty address means
// the viewer should browse the LAN for a mirror.
func ParseLink(link string) (string, error) {
	if !IsLink(link) {
		return "", fmt.Errorf("not a %s link: %q", Scheme, link)
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, Scheme), "/")
	if addr == "" {
		return "", nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("bad share link %q: %w", link, err)
	}
	return addr, nil
}
