// Package timezones is the site timezone picker: the embedded IANA zone list,
// search (by name, city or UTC offset) and a net/http handler returning JSON
// options labelled with the offset in force at a given instant.
//
// Configuration validates the site zone with Lookup, which only accepts
// zones from the embedded list.
package timezones
