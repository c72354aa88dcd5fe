package net

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_signaturepad._tcp"

// ErrNotFound is returned by Browse when no mirror answered in time.
var ErrNotFound = fmt.Errorf("no %s service found", serviceType)

// Advertise announces a mirror on port to the local network. Shut the
// returned server down to withdraw it.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"",
		"",
		port,
		nil,
		[]string{"SignaturePad mirror"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse looks for an advertised mirror and returns the first host:port
// that answers within timeout.
func Browse(timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errc := make(chan error, 1)
	go func() {
		errc <- mdns.Query(params)
		close(entries)
	}()

	for e := range entries {
		if addr, ok := entryAddr(e); ok {
			return addr, nil
		}
	}
	if err := <-errc; err != nil {
		return "", fmt.Errorf("mdns query: %w", err)
	}
	return "", ErrNotFound
}

func entryAddr(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return "", false
	}
	return net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)), true
}
