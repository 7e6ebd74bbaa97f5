package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ip2location/ip2location-go/v9"

	"github.com/go-arrower/geogate/contexts/access/internal/domain"
)

var ErrMissingDB = errors.New("missing ip2location database")

// ip2location reports this for every field not present in the data file in use, e.g. the LITE editions.
const unavailableField = "This parameter is unavailable for selected data file. Please upgrade the data file."

// NewIP2LocationResolver returns a Resolver working offline on an IP2Location BIN file.
// The file is opened once, call Close when done.
//
// This site or product includes IP2Location LITE data available from
// <a href="https://lite.ip2location.com">https://lite.ip2location.com</a>.
func NewIP2LocationResolver(dbPath string) (*IP2LocationResolver, error) {
	if dbPath == "" {
		return nil, ErrMissingDB
	}

	db, err := ip2location.OpenDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDB, err)
	}

	return &IP2LocationResolver{db: db}, nil
}

type IP2LocationResolver struct {
	db *ip2location.DB
}

var _ domain.Resolver = (*IP2LocationResolver)(nil)

func (r *IP2LocationResolver) Resolve(ctx context.Context, ip domain.IPAddress) (domain.GeoInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	// the database only understands canonical addresses, e.g. no leading zeros.
	addr, err := canonicalIP(ip)
	if err != nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	record, err := r.db.Get_all(addr)
	if err != nil {
		return domain.GeoInfo{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	return geoInfoFromRecord(ip, record), nil
}

func (r *IP2LocationResolver) Close() {
	r.db.Close()
}

func canonicalIP(ip domain.IPAddress) (string, error) {
	o, err := ip.Octets()
	if err != nil {
		return "", err
	}

	return net.IPv4(o[0], o[1], o[2], o[3]).String(), nil
}

func geoInfoFromRecord(ip domain.IPAddress, record ip2location.IP2Locationrecord) domain.GeoInfo {
	info := domain.GeoInfo{
		IP:       ip.String(),
		City:     known(record.City),
		Region:   known(record.Region),
		Country:  known(record.Country_short),
		Postal:   known(record.Zipcode),
		Timezone: known(record.Timezone),
		Org:      known(record.Isp),
	}

	if record.Latitude != 0 || record.Longitude != 0 {
		info.Loc = fmt.Sprintf("%.4f,%.4f", record.Latitude, record.Longitude)
	}

	return info
}

// known maps the placeholders of ip2location to an empty string.
func known(val string) string {
	if val == unavailableField || val == "-" {
		return ""
	}

	return val
}
