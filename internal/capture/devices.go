package capture

import (
	"fmt"

	"github.com/google/gopacket/pcap"

	"firestige.xyz/snooper/internal/core"
)

// Device describes a capturable network interface.
type Device struct {
	Name        string
	Description string
	Addresses   []string
}

// ListDevices enumerates the capturable interfaces with their addresses.
func ListDevices() ([]Device, error) {
	ifs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate interfaces: %w", err)
	}

	devices := make([]Device, 0, len(ifs))
	for _, iface := range ifs {
		dev := Device{
			Name:        iface.Name,
			Description: iface.Description,
		}
		for _, addr := range iface.Addresses {
			dev.Addresses = append(dev.Addresses, addr.IP.String())
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// LookupDevice finds an interface by name.
func LookupDevice(name string) (*Device, error) {
	devices, err := ListDevices()
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].Name == name {
			return &devices[i], nil
		}
	}
	return nil, core.ErrDeviceNotFound
}
