package geogate

// CTXKey is the type used by all keys put in a context.
// As recommended by the package context, geogate defines and uses its own data type for keys in the use of WithValue.
type CTXKey string
