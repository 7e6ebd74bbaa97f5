package domain

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidFormat = errors.New("invalid ip address format")

// IPAddress is a dotted quad IPv4 address as given by the client.
// It is kept verbatim, so "010.1.1.+1" stays as it is and is sent to the resolver like that.
type IPAddress string

func (ip IPAddress) String() string { return string(ip) }

// Octets returns the numeric value of each part, e.g. 10,1,1,1 for "010.1.1.+1".
func (ip IPAddress) Octets() ([4]byte, error) {
	return parseOctets(string(ip))
}

// ParseIPAddress accepts exactly four dot separated decimal parts, each in [0,255].
func ParseIPAddress(raw string) (IPAddress, error) {
	if _, err := parseOctets(raw); err != nil {
		return "", err
	}

	return IPAddress(raw), nil
}

func parseOctets(raw string) ([4]byte, error) {
	const maxPart = 255

	var octets [4]byte

	parts := strings.Split(raw, ".")
	if len(parts) != len(octets) {
		return octets, ErrInvalidFormat
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > maxPart {
			return [4]byte{}, ErrInvalidFormat
		}

		octets[i] = byte(n)
	}

	return octets, nil
}
