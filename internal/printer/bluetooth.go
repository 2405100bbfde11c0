// This file is built with the assumption that the process talks to a
// single printer at a time; it will need to be ripped up to manage
// several devices at once.
package printer

import (
	"errors"
	"fmt"
	"log/slog"

	"tinygo.org/x/bluetooth"
)

type deviceType byte

const (
	service deviceType = 0x00
	writer  deviceType = 0x02
)

func getUUID(t deviceType) bluetooth.UUID {
	return bluetooth.NewUUID([16]byte{
		0x00, 0x00, 0xff, byte(t), 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb,
	})
}

// Characteristic writes beyond the ATT payload get rejected by most of
// these devices, so outgoing data is split into small chunks.
const writeChunkSize = 128

// BluetoothConnection is the transport the raster stream is written to.
// It satisfies io.Writer so the encoder can treat it as an opaque sink.
type BluetoothConnection struct {
	adapter   *bluetooth.Adapter
	device    bluetooth.Device
	writer    bluetooth.DeviceCharacteristic
	address   bluetooth.Address
	connected bool
}

func newBluetoothConnection() (*BluetoothConnection, error) {
	adapter := bluetooth.DefaultAdapter

	if err := adapter.Enable(); err != nil {
		slog.Error("Failed to enable Bluetooth:", "err", err)
		return nil, err
	}

	conn := &BluetoothConnection{adapter: adapter}
	adapter.SetConnectHandler(func(d bluetooth.Device, connected bool) {
		if connected {
			slog.Info("Connected!")
		} else if d.Address == conn.address && conn.connected {
			slog.Info("Disconnected!")
			conn.connected = false
		}
	})

	return conn, nil
}

// FromBluetoothName scans for a printer advertising the given local name.
func FromBluetoothName(name string) (*BluetoothConnection, error) {
	p, err := newBluetoothConnection()
	if err != nil {
		slog.Error("Couldn't initialise connection", "error", err)
		return nil, err
	}

	devices := make(chan bluetooth.ScanResult, 1)

	go func() {
		err := p.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if result.LocalName() == name {
				slog.Info("Found device:",
					"deviceName", result.LocalName(),
				)
				devices <- result
				adapter.StopScan()
			}
		})
		if err != nil {
			slog.Error("Failed to scan for devices:",
				"err", err,
			)
			close(devices)
		}
	}()

	dev, ok := <-devices
	if !ok {
		return nil, errors.New("No devices found")
	}

	p.address = dev.Address
	return p, nil
}

// FromBluetoothAddress prepares a connection to a known printer address,
// skipping the scan.
func FromBluetoothAddress(address bluetooth.Address) (*BluetoothConnection, error) {
	p, err := newBluetoothConnection()
	if err != nil {
		slog.Error("Couldn't initialise connection", "error", err)
		return nil, err
	}

	p.address = address
	return p, nil
}

func (p *BluetoothConnection) Connect() error {
	if p.connected {
		return nil
	}

	slog.Debug("Connecting to device...")
	device, err := p.adapter.Connect(p.address, bluetooth.ConnectionParams{})
	if err != nil {
		slog.Error("Failed to connect to device:",
			"err", err,
		)
		return err
	}

	// Discover the primary service (UUID 0xFF00)
	slog.Debug("Discovering service...")
	services, err := device.DiscoverServices([]bluetooth.UUID{getUUID(service)})
	if err != nil {
		slog.Error("Failed to discover service:",
			"err", err,
		)
		device.Disconnect()
		return err
	}

	slog.Debug("Discovering characteristics...")
	characteristics, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{getUUID(writer)})
	if err != nil {
		slog.Error("Failed to discover characteristics:",
			"err", err,
		)
		device.Disconnect()
		return err
	}
	p.writer = characteristics[0]

	p.device = device
	p.connected = true
	return nil
}

func (p *BluetoothConnection) Disconnect() error {
	if p.connected {
		p.connected = false
		return p.device.Disconnect()
	}
	return nil
}

// Write sends data to the printer's writer characteristic in chunks.
func (p *BluetoothConnection) Write(data []byte) (int, error) {
	if !p.connected {
		return 0, fmt.Errorf("Printer is not connected")
	}

	written := 0
	for len(data) > 0 {
		chunk := data
		if len(chunk) > writeChunkSize {
			chunk = chunk[:writeChunkSize]
		}

		n, err := p.writer.WriteWithoutResponse(chunk)
		written += n
		if err != nil {
			slog.Error("Couldn't write data", "error", err)
			return written, err
		}
		data = data[len(chunk):]
	}

	slog.Debug("Wrote data to device", "size", written)
	return written, nil
}
