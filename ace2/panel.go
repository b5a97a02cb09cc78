// Package ace2 is the high-level client for the ACE 2 (v6) alarm panel
// protocol: session handshake, status and naming queries, change-of-state
// notification, and event-log streaming, built on top of the transport
// and wire packages.
package ace2

import (
	"regexp"
	"strings"

	"github.com/ace2go/ace2/wire"
)

// PanelDescriptor is the immutable device identity learned from the
// pre-session getDeviceInfo reply.
type PanelDescriptor struct {
	Model           string
	ProductName     string
	Firmware        string
	ProtocolVersion int
	SerialBase64    string
	Serial          [6]byte
	HasSerial       bool
	EncryptionMode  byte
	MaxAreas        int
	MaxZones        int
	Extended        bool
}

var modelPattern = regexp.MustCompile(`ATS\d+`)

var extendedModelPattern = regexp.MustCompile(`ATS\d700`)

type modelLimits struct {
	maxAreas int
	maxZones int
}

// modelDefaults maps a model tag to its max area/zone counts. Unknown tags
// fall back to 4 areas / 240 zones, per section 4.E.
var modelDefaults = map[string]modelLimits{
	"ATS1500": {maxAreas: 4, maxZones: 48},
	"ATS2500": {maxAreas: 8, maxZones: 88},
	"ATS3500": {maxAreas: 16, maxZones: 168},
	"ATS4500": {maxAreas: 32, maxZones: 248},
	"ATS1700": {maxAreas: 4, maxZones: 48},
	"ATS3700": {maxAreas: 16, maxZones: 168},
}

const (
	defaultMaxAreas = 4
	defaultMaxZones = 240
)

// ParsePanelDescriptor builds a PanelDescriptor from a decoded
// getDeviceInfo response body.
func ParsePanelDescriptor(body []byte) PanelDescriptor {
	props := wire.GetDeviceInfo.GetAllProperties(body)

	var d PanelDescriptor
	if v, ok := props["productName"]; ok {
		d.ProductName = v.(string)
	}
	if v, ok := props["firmware"]; ok {
		d.Firmware = v.(string)
	}
	if v, ok := props["serial"]; ok {
		d.SerialBase64 = v.(string)
	}
	if v, ok := props["encryptionMode"]; ok {
		d.EncryptionMode = byte(v.(uint64))
	}

	d.Model = modelPattern.FindString(d.ProductName)
	d.Extended = extendedModelPattern.MatchString(d.Model)

	if version, ok := wire.ParseProtocolVersion(d.Firmware); ok {
		d.ProtocolVersion = version
	}

	if isValidSerialString(d.SerialBase64) {
		if serial, ok := wire.DecodeSerial(d.SerialBase64); ok {
			d.Serial = serial
			d.HasSerial = true
		}
	}

	limits, ok := modelDefaults[d.Model]
	if !ok {
		limits = modelLimits{maxAreas: defaultMaxAreas, maxZones: defaultMaxZones}
	}
	d.MaxAreas = limits.maxAreas
	d.MaxZones = limits.maxZones

	return d
}

var serialCharset = regexp.MustCompile(`^[A-Za-z0-9_+\-]{16}$`)

func isValidSerialString(s string) bool {
	return serialCharset.MatchString(s)
}

// UsesExtendedNames reports whether name pages for this panel use the
// 30-byte extended format: x700 panels, or x500 panels on protocol>=4004.
func (d PanelDescriptor) UsesExtendedNames() bool {
	if d.Extended {
		return true
	}
	return strings.Contains(d.Model, "500") && d.ProtocolVersion >= 4004
}
